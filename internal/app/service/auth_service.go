package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/ports"
	"taskmanager/pkg/apierrors"
)

type AuthService struct {
	userRepository ports.UserRepository
	tokens         ports.TokenManager
	hasher         ports.PasswordHasher
	passwordPolicy domain.PasswordPolicy

	dummyHashOnce sync.Once
	dummyHash     string
}

func NewAuthService(
	userRepository ports.UserRepository,
	tokens ports.TokenManager,
	hasher ports.PasswordHasher,
	passwordPolicy domain.PasswordPolicy,
) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		tokens:         tokens,
		hasher:         hasher,
		passwordPolicy: passwordPolicy,
	}
}

// Signup stores the role exactly as requested, admin included.
func (s *AuthService) Signup(ctx context.Context, input domain.SignupInput) (domain.User, domain.TokenPair, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return domain.User{}, domain.TokenPair{}, domain.NewFieldError("username", apierrors.MsgInvalidSignupPayload, errors.New("username is required"))
	}
	if input.Password == "" {
		return domain.User{}, domain.TokenPair{}, domain.NewFieldError("password", apierrors.MsgInvalidSignupPayload, errors.New("password is required"))
	}
	if len(input.Password) > domain.MaxPasswordBytes {
		return domain.User{}, domain.TokenPair{}, passwordTooLong("password")
	}
	if !input.Role.Valid() {
		return domain.User{}, domain.TokenPair{}, domain.NewFieldError("role", apierrors.MsgInvalidRole, fmt.Errorf("unknown role %q", input.Role))
	}

	_, err := s.userRepository.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return domain.User{}, domain.TokenPair{}, usernameTaken()
	case !errors.Is(err, domain.ErrUserNotFound):
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("lookup username: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		if errors.Is(err, domain.ErrPasswordTooLong) {
			return domain.User{}, domain.TokenPair{}, passwordTooLong("password")
		}
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userRepository.CreateUser(ctx, domain.CreateUserInput{
		Username:     username,
		PasswordHash: hash,
		Role:         input.Role,
		Email:        strings.TrimSpace(input.Email),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return domain.User{}, domain.TokenPair{}, usernameTaken()
		}
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	zap.L().Info("user signed up", zap.Uint64("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, pair, nil
}

// Login returns domain.ErrInvalidCredentials for both an unknown username and
// a wrong password.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.TokenPair, error) {
	user, err := s.userRepository.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Spend the same bcrypt time as a real comparison.
			_ = s.hasher.Compare(s.fallbackHash(), password)
			return domain.TokenPair{}, domain.ErrInvalidCredentials
		}
		return domain.TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return domain.TokenPair{}, domain.ErrInvalidCredentials
		}
		return domain.TokenPair{}, fmt.Errorf("compare password: %w", err)
	}

	return s.tokens.IssuePair(user)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Parse(refreshToken, domain.TokenTypeRefresh)
	if err != nil {
		return "", err
	}

	user, err := s.userRepository.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidToken
		}
		return "", fmt.Errorf("load token subject: %w", err)
	}

	return s.tokens.IssueAccess(user)
}

// ChangePassword leaves issued tokens valid.
func (s *AuthService) ChangePassword(ctx context.Context, user domain.User, input domain.ChangePasswordInput) error {
	if input.OldPassword != nil {
		if err := s.hasher.Compare(user.PasswordHash, *input.OldPassword); err != nil {
			if errors.Is(err, domain.ErrInvalidCredentials) {
				return domain.NewFieldError("old_password", apierrors.MsgPasswordMismatch, domain.ErrPasswordMismatch)
			}
			return fmt.Errorf("compare password: %w", err)
		}
	}

	if err := s.passwordPolicy.Validate(user.Username, input.NewPassword); err != nil {
		return domain.NewFieldError("new_password", passwordRuleMessage(err), err)
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		if errors.Is(err, domain.ErrPasswordTooLong) {
			return passwordTooLong("new_password")
		}
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepository.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("store password: %w", err)
	}

	zap.L().Info("password changed", zap.Uint64("user_id", user.ID))
	return nil
}

// Authenticate resolves an access token to a stored user.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (domain.User, error) {
	claims, err := s.tokens.Parse(accessToken, domain.TokenTypeAccess)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.userRepository.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, domain.ErrInvalidToken
		}
		return domain.User{}, fmt.Errorf("load token subject: %w", err)
	}
	return user, nil
}

func (s *AuthService) fallbackHash() string {
	s.dummyHashOnce.Do(func() {
		hash, err := s.hasher.Hash("timing-equalizer-password")
		if err != nil {
			zap.L().Warn("failed to build fallback password hash", zap.Error(err))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func usernameTaken() error {
	return domain.NewFieldError("username", apierrors.MsgUsernameTaken, domain.ErrUsernameTaken)
}

func passwordTooLong(field string) error {
	return domain.NewFieldError(field, apierrors.MsgPasswordTooLong, domain.ErrPasswordTooLong)
}

func passwordRuleMessage(err error) string {
	var policyErr *domain.PasswordPolicyError
	if !errors.As(err, &policyErr) {
		return apierrors.MsgInvalidPasswordPayload
	}

	switch policyErr.Rule {
	case domain.PasswordTooShort:
		return apierrors.MsgPasswordTooShort
	case domain.PasswordEntirelyNumeric:
		return apierrors.MsgPasswordNumeric
	case domain.PasswordTooCommon:
		return apierrors.MsgPasswordCommon
	case domain.PasswordSimilarUsername:
		return apierrors.MsgPasswordSimilar
	case domain.PasswordTooLong:
		return apierrors.MsgPasswordTooLong
	default:
		return apierrors.MsgInvalidPasswordPayload
	}
}

var _ ports.AuthService = (*AuthService)(nil)
