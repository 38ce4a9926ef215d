package domain

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID           uint64
	Username     string
	PasswordHash string
	Role         Role
	Email        string
	FirstName    string
	LastName     string
	DateJoined   time.Time
	// Tasks holds the tasks assigned to the user when the caller asked for them.
	Tasks []Task
}

type CreateUserInput struct {
	Username     string
	PasswordHash string
	Role         Role
	Email        string
	FirstName    string
	LastName     string
}

// SignupInput is the credential service's view of a signup request; the
// password is still in clear text here.
type SignupInput struct {
	Username  string
	Password  string
	Role      Role
	Email     string
	FirstName string
	LastName  string
}

type ChangePasswordInput struct {
	OldPassword *string
	NewPassword string
}

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

type TokenPair struct {
	Access  string
	Refresh string
}

type TokenClaims struct {
	UserID    uint64
	Role      Role
	Type      TokenType
	ID        string
	ExpiresAt time.Time
}
