package ports

import (
	"context"

	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/policy"
)

type TaskRepository interface {
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	GetTaskByID(ctx context.Context, id uint64) (domain.Task, error)
	CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error)
	UpdateTask(ctx context.Context, id uint64, input domain.UpdateTaskInput) (domain.Task, error)
	DeleteTask(ctx context.Context, id uint64) error
	CreateComment(ctx context.Context, input domain.CreateCommentInput) (domain.Comment, error)
}

type TaskService interface {
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	GetTask(ctx context.Context, id uint64) (domain.Task, error)
	Authorize(actor domain.User, action policy.Action, task *domain.Task) error
	CreateTask(ctx context.Context, actor domain.User, input domain.CreateTaskInput) (domain.Task, error)
	UpdateTask(ctx context.Context, actor domain.User, task domain.Task, action policy.Action, input domain.UpdateTaskInput) (domain.Task, error)
	DeleteTask(ctx context.Context, actor domain.User, task domain.Task) error
	AddComment(ctx context.Context, actor domain.User, taskID uint64, body string) (domain.Comment, error)
}
