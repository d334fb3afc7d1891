// Package session issues and verifies the signed session cookie value.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"task-tracker/internal/model"
)

// CookieName is the cookie carrying the session token.
const CookieName = "session"

var ErrInvalidToken = errors.New("invalid session token")

// Claims is the payload of a session token.
type Claims struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and parses HS256 session tokens.
type Manager struct {
	secretKey []byte
	lifetime  time.Duration
	now       func() time.Time
}

func NewManager(secret string, lifetime time.Duration) *Manager {
	return &Manager{
		secretKey: []byte(secret),
		lifetime:  lifetime,
		now:       time.Now,
	}
}

// Lifetime is how long an issued token stays valid.
func (m *Manager) Lifetime() time.Duration {
	return m.lifetime
}

// Issue returns a signed token holding identity.
func (m *Manager) Issue(identity model.Identity) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID: identity.UserID,
		Name:   identity.Name,
		Role:   string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns the identity it carries.
func (m *Manager) Parse(tokenString string) (model.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secretKey, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == 0 {
		return model.Identity{}, ErrInvalidToken
	}

	return model.Identity{
		UserID: claims.UserID,
		Role:   model.Role(claims.Role),
		Name:   claims.Name,
	}, nil
}
