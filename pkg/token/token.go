// Package token issues and verifies HS256 session tokens.
//
// A token carries the account's username, id and role plus the standard
// iat/exp claims. The signing secret is fixed for the life of a Service.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/doodlesbykumbi/docvault/pkg/errs"
	"github.com/doodlesbykumbi/docvault/pkg/model"
)

var (
	// ErrMissingSecret is returned by NewService when no secret is configured
	ErrMissingSecret = errors.New("token secret is required")

	ErrMalformedToken   = fmt.Errorf("malformed token: %w", errs.ErrAuth)
	ErrTokenExpired     = fmt.Errorf("token expired: %w", errs.ErrAuth)
	ErrInvalidSignature = fmt.Errorf("invalid signature: %w", errs.ErrAuth)
	ErrInvalidToken     = fmt.Errorf("invalid token: %w", errs.ErrAuth)
)

// DefaultTTL is the token lifetime used when none is given
const DefaultTTL = time.Hour

// Claims are the claims embedded in a session token
type Claims struct {
	Username string     `json:"username"`
	UserID   uint       `json:"id"`
	Role     model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Service signs and verifies tokens with a single shared secret
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the time source used for iat, exp and expiry checks
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a token service. A zero ttl means DefaultTTL.
func NewService(secret string, ttl time.Duration, opts ...Option) (*Service, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	s := &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the lifetime of issued tokens
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for account
func (s *Service) Issue(account *model.Account) (string, error) {
	now := s.now()
	claims := Claims{
		Username: account.Username,
		UserID:   account.ID,
		Role:     account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(account.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, algorithm and expiry of tokenString and
// returns its claims. Every failure wraps errs.ErrAuth.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}

	return claims, nil
}
