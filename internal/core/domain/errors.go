package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden")
	ErrAssigneeIsAdmin    = errors.New("tasks cannot be assigned to admin users")
	ErrAssigneeNotFound   = errors.New("assignee not found")
	ErrWeakPassword       = errors.New("password does not satisfy the password policy")
	ErrPasswordMismatch   = errors.New("old password is incorrect")
	ErrPasswordTooLong    = errors.New("password is longer than 72 bytes")
)

// NonFieldErrors is the field name used for record-scoped validation errors.
const NonFieldErrors = "non_field_errors"

// ValidationError is a rejected write. Field is empty or NonFieldErrors for
// record-scoped failures. MessageKey is a translation key.
type ValidationError struct {
	Field      string
	MessageKey string
	Err        error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %v", e.Err)
	}
	return fmt.Sprintf("validation failed on %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewFieldError(field, messageKey string, err error) *ValidationError {
	return &ValidationError{Field: field, MessageKey: messageKey, Err: err}
}

func NewRecordError(messageKey string, err error) *ValidationError {
	return &ValidationError{Field: NonFieldErrors, MessageKey: messageKey, Err: err}
}
