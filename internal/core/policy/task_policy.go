// Package policy decides which task actions an authenticated user may take.
package policy

import "taskmanager/internal/core/domain"

type Action string

const (
	ActionList          Action = "list"
	ActionRetrieve      Action = "retrieve"
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionPartialUpdate Action = "partial_update"
	ActionDestroy       Action = "destroy"
	ActionComment       Action = "comment"
)

// CanPerform reports whether actor may run action on task. task is only
// consulted for update and partial_update and may be nil otherwise.
//
// Update rights belong to the assignee alone: admins and managers can create
// and delete tasks but cannot edit one that is not assigned to them.
func CanPerform(actor domain.User, action Action, task *domain.Task) bool {
	switch action {
	case ActionList, ActionRetrieve, ActionComment:
		return true
	case ActionCreate, ActionDestroy:
		return actor.Role == domain.RoleAdmin || actor.Role == domain.RoleManager
	case ActionUpdate, ActionPartialUpdate:
		return task != nil && task.IsAssignedTo(actor.ID)
	default:
		return false
	}
}
