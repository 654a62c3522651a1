package handlers

import (
	"errors"

	"github.com/aeroguide/aeroguide-api/internal/dto"
	"github.com/aeroguide/aeroguide-api/internal/identity"
	"github.com/aeroguide/aeroguide-api/internal/metrics"
	"github.com/aeroguide/aeroguide-api/internal/services"
	"github.com/aeroguide/aeroguide-api/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
	validate    *validation.Validator
	metrics     *metrics.Metrics
}

func NewAuthHandler(authService *services.AuthService, validate *validation.Validator, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{authService: authService, validate: validate, metrics: m}
}

func (h *AuthHandler) GoogleSignIn(c *fiber.Ctx) error {
	var req dto.GoogleAuthRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return invalidInput(c, err)
	}

	resp, err := h.authService.GoogleSignIn(c.UserContext(), req.Credential)
	if err != nil {
		if errors.Is(err, services.ErrInvalidGoogleToken) {
			return errorJSON(c, fiber.StatusUnauthorized, "Invalid Google token")
		}
		return internalError(c, "Authentication failed", err)
	}

	h.metrics.RecordEvent(metrics.EventLogin)
	return c.JSON(resp)
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return invalidInput(c, err)
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return errorJSON(c, fiber.StatusConflict, "User with this email already exists")
		}
		return internalError(c, "Registration failed", err)
	}

	h.metrics.RecordEvent(metrics.EventRegister)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return invalidInput(c, err)
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return errorJSON(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		return internalError(c, "Login failed", err)
	}

	h.metrics.RecordEvent(metrics.EventLogin)
	return c.JSON(resp)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Invalid or expired token")
	}

	user, err := h.authService.Me(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "User not found")
		}
		return internalError(c, "Failed to get user", err)
	}

	return c.JSON(dto.MeResponse{User: dto.NewUserResponse(user)})
}
