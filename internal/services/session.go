package services

import (
	"fmt"
	"time"

	"github.com/aeroguide/aeroguide-api/internal/identity"
	"github.com/aeroguide/aeroguide-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// SessionManager issues the HS256 session tokens handed to clients after
// sign-in. The auth middleware verifies them with the same secret.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *SessionManager) Secret() []byte {
	return m.secret
}

func (m *SessionManager) Issue(user *models.User) (string, error) {
	now := m.now()
	claims := identity.Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}
