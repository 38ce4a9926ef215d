package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/policy"
	"taskmanager/internal/core/ports"
	"taskmanager/pkg/apierrors"
)

type TaskService struct {
	taskRepository ports.TaskRepository
	userRepository ports.UserRepository
	now            func() time.Time
}

func NewTaskService(taskRepository ports.TaskRepository, userRepository ports.UserRepository) *TaskService {
	return &TaskService{
		taskRepository: taskRepository,
		userRepository: userRepository,
		now:            time.Now,
	}
}

func (s *TaskService) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	return s.taskRepository.ListTasks(ctx, filter)
}

func (s *TaskService) GetTask(ctx context.Context, id uint64) (domain.Task, error) {
	return s.taskRepository.GetTaskByID(ctx, id)
}

// Authorize returns domain.ErrForbidden when the policy denies the action.
func (s *TaskService) Authorize(actor domain.User, action policy.Action, task *domain.Task) error {
	if !policy.CanPerform(actor, action, task) {
		return fmt.Errorf("%w: %s may not %s", domain.ErrForbidden, actor.Role, action)
	}
	return nil
}

func (s *TaskService) CreateTask(ctx context.Context, actor domain.User, input domain.CreateTaskInput) (domain.Task, error) {
	if err := s.Authorize(actor, policy.ActionCreate, nil); err != nil {
		return domain.Task{}, err
	}

	input.CreatedBy = actor.ID
	if err := s.validateAssignee(ctx, input.AssignedTo); err != nil {
		return domain.Task{}, err
	}

	return s.taskRepository.CreateTask(ctx, input)
}

// UpdateTask applies input to an already loaded task. action is
// policy.ActionUpdate for full replacements and policy.ActionPartialUpdate
// for patches; both require the caller to be the assignee.
func (s *TaskService) UpdateTask(ctx context.Context, actor domain.User, task domain.Task, action policy.Action, input domain.UpdateTaskInput) (domain.Task, error) {
	if action != policy.ActionUpdate && action != policy.ActionPartialUpdate {
		return domain.Task{}, fmt.Errorf("unsupported update action %q", action)
	}
	if err := s.Authorize(actor, action, &task); err != nil {
		return domain.Task{}, err
	}

	if input.AssignedToSet {
		if err := s.validateAssignee(ctx, input.AssignedTo); err != nil {
			return domain.Task{}, err
		}
	}

	return s.taskRepository.UpdateTask(ctx, task.ID, input)
}

func (s *TaskService) DeleteTask(ctx context.Context, actor domain.User, task domain.Task) error {
	if err := s.Authorize(actor, policy.ActionDestroy, &task); err != nil {
		return err
	}
	return s.taskRepository.DeleteTask(ctx, task.ID)
}

func (s *TaskService) AddComment(ctx context.Context, actor domain.User, taskID uint64, body string) (domain.Comment, error) {
	if err := s.Authorize(actor, policy.ActionComment, nil); err != nil {
		return domain.Comment{}, err
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return domain.Comment{}, domain.NewFieldError("comment", apierrors.MsgInvalidCommentPayload, errors.New("comment is empty"))
	}

	return s.taskRepository.CreateComment(ctx, domain.CreateCommentInput{
		TaskID:    taskID,
		UserID:    actor.ID,
		Body:      body,
		CreatedAt: s.now().UTC(),
	})
}

// validateAssignee runs the field check (the user exists) before the record
// check (the user is not an admin).
func (s *TaskService) validateAssignee(ctx context.Context, assigneeID *uint64) error {
	if assigneeID == nil {
		return nil
	}

	assignee, err := s.userRepository.GetUserByID(ctx, *assigneeID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.NewFieldError("assigned_to", apierrors.MsgInvalidAssignee, domain.ErrAssigneeNotFound)
		}
		return fmt.Errorf("load assignee %d: %w", *assigneeID, err)
	}

	if assignee.Role == domain.RoleAdmin {
		return domain.NewRecordError(apierrors.MsgTaskAssignedToAdmin, domain.ErrAssigneeIsAdmin)
	}
	return nil
}

var _ ports.TaskService = (*TaskService)(nil)
