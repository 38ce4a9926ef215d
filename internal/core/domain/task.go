package domain

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// DateLayout is the wire and storage format of Task.DueDate.
const DateLayout = "2006-01-02"

type Task struct {
	ID          uint64
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *time.Time
	AssignedTo  *uint64
	CreatedBy   uint64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Comments    []Comment
}

// IsAssignedTo reports whether the task is currently assigned to userID.
func (t Task) IsAssignedTo(userID uint64) bool {
	return t.AssignedTo != nil && *t.AssignedTo == userID
}

type Comment struct {
	ID        uint64
	TaskID    uint64
	UserID    uint64
	Body      string
	CreatedAt time.Time
}

type CreateTaskInput struct {
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *time.Time
	AssignedTo  *uint64
	CreatedBy   uint64
}

// UpdateTaskInput carries a partial task update. Nil pointers leave the
// column untouched; the *Set flags distinguish "clear to NULL" from "absent"
// for the nullable columns.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *TaskStatus
	Priority      *TaskPriority
	DueDate       *time.Time
	DueDateSet    bool
	AssignedTo    *uint64
	AssignedToSet bool
}

func (in UpdateTaskInput) IsEmpty() bool {
	return in.Title == nil &&
		in.Description == nil &&
		in.Status == nil &&
		in.Priority == nil &&
		!in.DueDateSet &&
		!in.AssignedToSet
}

type CreateCommentInput struct {
	TaskID    uint64
	UserID    uint64
	Body      string
	CreatedAt time.Time
}

// TaskFilter holds exact-match list predicates. Nil fields impose no
// constraint; set fields are combined with AND.
type TaskFilter struct {
	Status     *TaskStatus
	Priority   *TaskPriority
	DueDate    *time.Time
	AssignedTo *uint64
}
