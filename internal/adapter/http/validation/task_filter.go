package validation

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"taskmanager/internal/core/domain"
	"taskmanager/pkg/apierrors"
)

var ErrInvalidTaskFilter = errors.New("invalid task filter")

// ParseTaskFilter reads the status, priority, due_date and assigned_to query
// parameters. Missing or empty parameters impose no constraint.
func ParseTaskFilter(query url.Values) (domain.TaskFilter, error) {
	var filter domain.TaskFilter

	if value := strings.TrimSpace(query.Get("status")); value != "" {
		status := domain.TaskStatus(value)
		if !status.Valid() {
			return domain.TaskFilter{}, invalidFilter("status")
		}
		filter.Status = &status
	}

	if value := strings.TrimSpace(query.Get("priority")); value != "" {
		priority := domain.TaskPriority(value)
		if !priority.Valid() {
			return domain.TaskFilter{}, invalidFilter("priority")
		}
		filter.Priority = &priority
	}

	if value := strings.TrimSpace(query.Get("due_date")); value != "" {
		dueDate, err := time.Parse(domain.DateLayout, value)
		if err != nil {
			return domain.TaskFilter{}, invalidFilter("due_date")
		}
		filter.DueDate = &dueDate
	}

	if value := strings.TrimSpace(query.Get("assigned_to")); value != "" {
		assignedTo, err := strconv.ParseUint(value, 10, 64)
		if err != nil || assignedTo == 0 {
			return domain.TaskFilter{}, invalidFilter("assigned_to")
		}
		filter.AssignedTo = &assignedTo
	}

	return filter, nil
}

func invalidFilter(field string) error {
	return domain.NewFieldError(field, apierrors.MsgInvalidTaskFilter, ErrInvalidTaskFilter)
}
