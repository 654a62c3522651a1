package handlers

import (
	"errors"
	"log/slog"

	"github.com/aeroguide/aeroguide-api/internal/dto"
	"github.com/aeroguide/aeroguide-api/internal/validation"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errMalformedInput = errors.New("malformed input")

// bindBody parses the JSON body into dst and validates it.
func bindBody(c *fiber.Ctx, v *validation.Validator, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return errMalformedInput
	}
	return v.Struct(dst)
}

// bindQuery parses query parameters into dst (pre-populated with defaults) and validates it.
func bindQuery(c *fiber.Ctx, v *validation.Validator, dst interface{}) error {
	if err := c.QueryParser(dst); err != nil {
		return errMalformedInput
	}
	return v.Struct(dst)
}

func invalidInput(c *fiber.Ctx, err error) error {
	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "Invalid request",
			Details: fe,
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg})
}

// internalError logs the cause and reports it to Sentry; the client only sees msg.
func internalError(c *fiber.Ctx, msg string, err error) error {
	slog.Error(msg,
		"request_id", requestID(c),
		"method", c.Method(),
		"route", c.Route().Path,
		"error", err,
	)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("route", c.Route().Path)
			hub.CaptureException(err)
		})
	}
	return errorJSON(c, fiber.StatusInternalServerError, msg)
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

func defaultPage(limit int) dto.PageQuery {
	return dto.PageQuery{Limit: limit, Offset: 0}
}
