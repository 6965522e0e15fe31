// Package token issues and validates the credentials used by the API:
// signed session tokens and random one-time tokens.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/huntboard/huntboard/internal/shared"
)

// ErrInvalidToken indicates a session token that is malformed, forged or expired.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the session payload alongside the registered JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}

// Service signs and verifies session tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService constructs a Service from the signing secret and token lifetime.
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured session token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue produces a signed session token embedding the user id and role.
func (s *Service) Issue(userID int64, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: userID,
		Role:   role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded identity.
func (s *Service) Verify(tokenString string) (shared.Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return shared.Identity{}, ErrInvalidToken
	}
	return shared.Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

// NewOneTime returns a random opaque token used for email verification and
// password reset. It carries no claims; validity comes from the token and
// expiry stored on the user record.
func NewOneTime() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("token: random: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
