package middleware

import (
	"github.com/aeroguide/aeroguide-api/internal/dto"
	"github.com/aeroguide/aeroguide-api/internal/identity"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

func sessionConfig(secret []byte) jwtware.Config {
	return jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: secret},
		ContextKey: identity.ContextKey,
		Claims:     &identity.Claims{},
	}
}

// RequireAuth rejects requests without a valid session token.
func RequireAuth(secret []byte) fiber.Handler {
	cfg := sessionConfig(secret)
	cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
		msg := "Invalid or expired token"
		if c.Get(fiber.HeaderAuthorization) == "" {
			msg = "Authentication required"
		}
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: msg})
	}
	return jwtware.New(cfg)
}

// OptionalAuth attaches the caller's identity when a valid token is present
// and lets every request through regardless.
func OptionalAuth(secret []byte) fiber.Handler {
	cfg := sessionConfig(secret)
	cfg.Filter = func(c *fiber.Ctx) bool {
		return c.Get(fiber.HeaderAuthorization) == ""
	}
	cfg.ErrorHandler = func(c *fiber.Ctx, _ error) error {
		return c.Next()
	}
	return jwtware.New(cfg)
}
