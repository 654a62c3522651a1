package middleware

import (
	"github.com/aeroguide/aeroguide-api/internal/dto"
	"github.com/aeroguide/aeroguide-api/internal/identity"
	"github.com/gofiber/fiber/v2"
)

// RequireAdmin must run after RequireAuth. The role comes from the session claims.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := identity.FromCtx(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: "Authentication required",
			})
		}
		if !claims.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: "Admin access required",
			})
		}
		return c.Next()
	}
}
