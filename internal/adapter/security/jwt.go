package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/ports"
)

type UserClaims struct {
	UserID    uint64           `json:"user_id"`
	Role      domain.Role      `json:"role"`
	TokenType domain.TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	secret          []byte
	accessLifetime  time.Duration
	refreshLifetime time.Duration
	now             func() time.Time
}

var _ ports.TokenManager = (*JWTManager)(nil)

func NewJWTManager(secret string, accessLifetime, refreshLifetime time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	return &JWTManager{
		secret:          []byte(secret),
		accessLifetime:  accessLifetime,
		refreshLifetime: refreshLifetime,
		now:             time.Now,
	}, nil
}

func (m *JWTManager) IssuePair(user domain.User) (domain.TokenPair, error) {
	access, err := m.sign(user, domain.TokenTypeAccess, m.accessLifetime)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := m.sign(user, domain.TokenTypeRefresh, m.refreshLifetime)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{Access: access, Refresh: refresh}, nil
}

func (m *JWTManager) IssueAccess(user domain.User) (string, error) {
	return m.sign(user, domain.TokenTypeAccess, m.accessLifetime)
}

// Parse verifies signature, expiry and token type. Every failure is reported
// as domain.ErrInvalidToken.
func (m *JWTManager) Parse(token string, expected domain.TokenType) (domain.TokenClaims, error) {
	claims := &UserClaims{}
	parsed, err := jwt.ParseWithClaims(
		token,
		claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return domain.TokenClaims{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.TokenType != expected || claims.UserID == 0 {
		return domain.TokenClaims{}, domain.ErrInvalidToken
	}

	return domain.TokenClaims{
		UserID:    claims.UserID,
		Role:      claims.Role,
		Type:      claims.TokenType,
		ID:        claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (m *JWTManager) sign(user domain.User, tokenType domain.TokenType, lifetime time.Duration) (string, error) {
	jti, err := newTokenID()
	if err != nil {
		return "", err
	}

	now := m.now()
	claims := UserClaims{
		UserID:    user.ID,
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(user.ID, 10),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func newTokenID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}
	return id.String(), nil
}
