package ports

import (
	"context"

	"taskmanager/internal/core/domain"
)

type UserRepository interface {
	CreateUser(ctx context.Context, input domain.CreateUserInput) (domain.User, error)
	GetUserByID(ctx context.Context, id uint64) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdatePasswordHash(ctx context.Context, id uint64, passwordHash string) error
}

type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id uint64) (domain.User, error)
}

type AuthService interface {
	Signup(ctx context.Context, input domain.SignupInput) (domain.User, domain.TokenPair, error)
	Login(ctx context.Context, username, password string) (domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	ChangePassword(ctx context.Context, user domain.User, input domain.ChangePasswordInput) error
	Authenticate(ctx context.Context, accessToken string) (domain.User, error)
}

type TokenManager interface {
	IssuePair(user domain.User) (domain.TokenPair, error)
	IssueAccess(user domain.User) (string, error)
	Parse(token string, expected domain.TokenType) (domain.TokenClaims, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
