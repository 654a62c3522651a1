package handlers

import (
	"errors"
	"log/slog"

	"github.com/aeroguide/aeroguide-api/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders errors that escape handlers as {error}. Details of
// 5xx errors are logged and never returned to the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		slog.Error("unhandled server error",
			"request_id", requestID(c),
			"method", c.Method(),
			"route", c.Path(),
			"error", err.Error(),
		)
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: message})
}
