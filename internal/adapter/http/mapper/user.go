package mapper

import (
	"taskmanager/internal/adapter/http/dto"
	"taskmanager/internal/core/domain"
)

func ToUserItem(user domain.User) dto.UserItem {
	return dto.UserItem{
		ID:        user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

func ToUserWithTasks(user domain.User) dto.UserWithTasks {
	return dto.UserWithTasks{
		ID:       user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		Tasks:    ToTaskItems(user.Tasks),
	}
}

func ToUsersWithTasks(users []domain.User) []dto.UserWithTasks {
	items := make([]dto.UserWithTasks, 0, len(users))
	for _, user := range users {
		items = append(items, ToUserWithTasks(user))
	}
	return items
}
