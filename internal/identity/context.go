package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ContextKey is where the auth middleware stores the parsed *jwt.Token.
const ContextKey = "user"

var ErrNoIdentity = errors.New("no authenticated identity in context")

// FromCtx returns the caller's session claims, or nil for anonymous requests.
func FromCtx(c *fiber.Ctx) *Claims {
	token, ok := c.Locals(ContextKey).(*jwt.Token)
	if !ok || token == nil || !token.Valid {
		return nil
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// UserID extracts the caller's user id from the session claims.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	claims := FromCtx(c)
	if claims == nil {
		return uuid.Nil, ErrNoIdentity
	}
	return claims.UserID()
}

// OptionalUserID returns nil for anonymous callers.
func OptionalUserID(c *fiber.Ctx) *uuid.UUID {
	id, err := UserID(c)
	if err != nil {
		return nil
	}
	return &id
}

// IsAdmin reports whether the caller holds the admin role.
func IsAdmin(c *fiber.Ctx) bool {
	claims := FromCtx(c)
	return claims != nil && claims.IsAdmin()
}
