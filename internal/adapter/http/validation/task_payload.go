package validation

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"

	"taskmanager/internal/adapter/http/dto"
	"taskmanager/internal/core/domain"
	"taskmanager/pkg/apierrors"
)

const maxTitleLength = 255

var ErrInvalidTaskPayload = errors.New("invalid task payload")

// DecodeJSONObject binds body into req and also returns the raw members so
// callers can tell an absent field from an explicit null.
func DecodeJSONObject(body []byte, req any, messageKey string) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, domain.NewRecordError(messageKey, ErrInvalidTaskPayload)
	}

	if err := binding.JSON.BindBody(body, req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, domain.NewFieldError(typeErr.Field, messageKey, err)
		}
		return nil, domain.NewRecordError(messageKey, err)
	}
	return raw, nil
}

func BuildCreateTaskInput(req dto.CreateTaskRequest, raw map[string]json.RawMessage) (domain.CreateTaskInput, error) {
	if req.Title == nil {
		return domain.CreateTaskInput{}, invalidField("title")
	}
	title, err := normalizeTitle(*req.Title)
	if err != nil {
		return domain.CreateTaskInput{}, err
	}

	status := domain.TaskStatusPending
	if hasJSONField(raw, "status") {
		if req.Status == nil || !domain.TaskStatus(*req.Status).Valid() {
			return domain.CreateTaskInput{}, invalidField("status")
		}
		status = domain.TaskStatus(*req.Status)
	}

	priority := domain.TaskPriorityMedium
	if hasJSONField(raw, "priority") {
		if req.Priority == nil || !domain.TaskPriority(*req.Priority).Valid() {
			return domain.CreateTaskInput{}, invalidField("priority")
		}
		priority = domain.TaskPriority(*req.Priority)
	}

	var description string
	if req.Description != nil {
		description = *req.Description
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return domain.CreateTaskInput{}, err
	}

	if req.AssignedTo != nil && *req.AssignedTo == 0 {
		return domain.CreateTaskInput{}, domain.NewFieldError("assigned_to", apierrors.MsgInvalidAssignee, domain.ErrAssigneeNotFound)
	}

	return domain.CreateTaskInput{
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
		AssignedTo:  req.AssignedTo,
	}, nil
}

// BuildUpdateTaskInput validates PUT (partial=false) and PATCH payloads.
// A PUT must carry the title; fields it omits keep their stored value.
// A PATCH must carry at least one task field.
func BuildUpdateTaskInput(req dto.UpdateTaskRequest, raw map[string]json.RawMessage, partial bool) (domain.UpdateTaskInput, error) {
	if partial && !hasTaskUpdateFields(raw) {
		return domain.UpdateTaskInput{}, domain.NewRecordError(apierrors.MsgInvalidTaskPayload, ErrInvalidTaskPayload)
	}

	var input domain.UpdateTaskInput

	if hasJSONField(raw, "title") || !partial {
		if req.Title == nil {
			return domain.UpdateTaskInput{}, invalidField("title")
		}
		title, err := normalizeTitle(*req.Title)
		if err != nil {
			return domain.UpdateTaskInput{}, err
		}
		input.Title = &title
	}

	if hasJSONField(raw, "description") {
		description := ""
		if req.Description != nil {
			description = *req.Description
		}
		input.Description = &description
	}

	if hasJSONField(raw, "status") {
		if req.Status == nil || !domain.TaskStatus(*req.Status).Valid() {
			return domain.UpdateTaskInput{}, invalidField("status")
		}
		status := domain.TaskStatus(*req.Status)
		input.Status = &status
	}

	if hasJSONField(raw, "priority") {
		if req.Priority == nil || !domain.TaskPriority(*req.Priority).Valid() {
			return domain.UpdateTaskInput{}, invalidField("priority")
		}
		priority := domain.TaskPriority(*req.Priority)
		input.Priority = &priority
	}

	if hasJSONField(raw, "due_date") {
		dueDate, err := parseDueDate(req.DueDate)
		if err != nil {
			return domain.UpdateTaskInput{}, err
		}
		input.DueDate = dueDate
		input.DueDateSet = true
	}

	if hasJSONField(raw, "assigned_to") {
		if req.AssignedTo != nil && *req.AssignedTo == 0 {
			return domain.UpdateTaskInput{}, domain.NewFieldError("assigned_to", apierrors.MsgInvalidAssignee, domain.ErrAssigneeNotFound)
		}
		input.AssignedTo = req.AssignedTo
		input.AssignedToSet = true
	}

	return input, nil
}

func normalizeTitle(value string) (string, error) {
	title := strings.TrimSpace(value)
	if title == "" || utf8.RuneCountInString(title) > maxTitleLength {
		return "", invalidField("title")
	}
	return title, nil
}

func parseDueDate(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	parsed, err := time.Parse(domain.DateLayout, strings.TrimSpace(*value))
	if err != nil {
		return nil, domain.NewFieldError("due_date", apierrors.MsgInvalidTaskPayload, err)
	}
	return &parsed, nil
}

func invalidField(field string) error {
	return domain.NewFieldError(field, apierrors.MsgInvalidTaskPayload, ErrInvalidTaskPayload)
}

func hasTaskUpdateFields(raw map[string]json.RawMessage) bool {
	return hasJSONField(raw, "title") ||
		hasJSONField(raw, "description") ||
		hasJSONField(raw, "status") ||
		hasJSONField(raw, "priority") ||
		hasJSONField(raw, "due_date") ||
		hasJSONField(raw, "assigned_to")
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}
