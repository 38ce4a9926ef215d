package service

import (
	"context"

	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/ports"
)

// UserService serves the read-only user listing. Each user carries the tasks
// assigned to them.
type UserService struct {
	userRepository ports.UserRepository
	taskRepository ports.TaskRepository
}

func NewUserService(userRepository ports.UserRepository, taskRepository ports.TaskRepository) *UserService {
	return &UserService{userRepository: userRepository, taskRepository: taskRepository}
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepository.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepository.ListTasks(ctx, domain.TaskFilter{})
	if err != nil {
		return nil, err
	}

	byAssignee := make(map[uint64][]domain.Task)
	for _, task := range tasks {
		if task.AssignedTo == nil {
			continue
		}
		byAssignee[*task.AssignedTo] = append(byAssignee[*task.AssignedTo], task)
	}

	for i := range users {
		users[i].Tasks = byAssignee[users[i].ID]
		if users[i].Tasks == nil {
			users[i].Tasks = []domain.Task{}
		}
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint64) (domain.User, error) {
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	tasks, err := s.taskRepository.ListTasks(ctx, domain.TaskFilter{AssignedTo: &id})
	if err != nil {
		return domain.User{}, err
	}
	user.Tasks = tasks
	return user, nil
}

var _ ports.UserService = (*UserService)(nil)
