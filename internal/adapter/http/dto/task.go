package dto

type CommentItem struct {
	ID        uint64 `json:"id"`
	User      uint64 `json:"user"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

type TaskItem struct {
	ID          uint64        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      string        `json:"status"`
	Priority    string        `json:"priority"`
	DueDate     *string       `json:"due_date"`
	AssignedTo  *uint64       `json:"assigned_to"`
	CreatedBy   uint64        `json:"created_by"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
	Comments    []CommentItem `json:"comments"`
}

// CreateTaskRequest ignores created_by: the creator always comes from the
// authenticated caller.
type CreateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
	AssignedTo  *uint64 `json:"assigned_to"`
}

// UpdateTaskRequest serves both PUT and PATCH.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
	AssignedTo  *uint64 `json:"assigned_to"`
}

type CreateCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}
