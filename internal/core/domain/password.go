package domain

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	DefaultPasswordMinLength = 8
	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
)

var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"12345678":    {},
	"123456789":   {},
	"1234567890":  {},
	"qwerty123":   {},
	"qwertyuiop":  {},
	"iloveyou":    {},
	"admin123":    {},
	"letmein1":    {},
	"welcome1":    {},
	"football":    {},
	"baseball":    {},
	"sunshine":    {},
	"princess":    {},
	"trustno1":    {},
	"abc12345":    {},
}

// PasswordRule names the rule a rejected password broke.
type PasswordRule string

const (
	PasswordTooShort        PasswordRule = "too_short"
	PasswordEntirelyNumeric PasswordRule = "entirely_numeric"
	PasswordTooCommon       PasswordRule = "too_common"
	PasswordSimilarUsername PasswordRule = "similar_to_username"
	PasswordTooLong         PasswordRule = "too_long"
)

type PasswordPolicy struct {
	MinLength int
}

// Validate returns nil or an error wrapping ErrWeakPassword that names the
// first broken rule.
func (p PasswordPolicy) Validate(username, password string) error {
	minLength := p.MinLength
	if minLength <= 0 {
		minLength = DefaultPasswordMinLength
	}

	if len([]rune(password)) < minLength {
		return weakPassword(PasswordTooShort)
	}
	if len(password) > MaxPasswordBytes {
		return weakPassword(PasswordTooLong)
	}
	if isNumeric(password) {
		return weakPassword(PasswordEntirelyNumeric)
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return weakPassword(PasswordTooCommon)
	}
	if similarToUsername(username, password) {
		return weakPassword(PasswordSimilarUsername)
	}
	return nil
}

type PasswordPolicyError struct {
	Rule PasswordRule
}

func (e *PasswordPolicyError) Error() string {
	return fmt.Sprintf("%v: %s", ErrWeakPassword, e.Rule)
}

func (e *PasswordPolicyError) Unwrap() error {
	return ErrWeakPassword
}

func weakPassword(rule PasswordRule) error {
	return &PasswordPolicyError{Rule: rule}
}

func isNumeric(value string) bool {
	for _, r := range value {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return value != ""
}

func similarToUsername(username, password string) bool {
	username = strings.ToLower(strings.TrimSpace(username))
	if len(username) < 3 {
		return false
	}
	lowered := strings.ToLower(password)
	return strings.Contains(lowered, username) || strings.Contains(username, lowered)
}
