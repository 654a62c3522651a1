package handlers

import (
	"errors"

	"github.com/aeroguide/aeroguide-api/internal/dto"
	"github.com/aeroguide/aeroguide-api/internal/identity"
	"github.com/aeroguide/aeroguide-api/internal/models"
	"github.com/aeroguide/aeroguide-api/internal/services"
	"github.com/aeroguide/aeroguide-api/internal/validation"
	"github.com/gofiber/fiber/v2"
)

const defaultUserPageSize = 50

type AdminHandler struct {
	statsService *services.StatsService
	userService  *services.UserService
	validate     *validation.Validator
}

func NewAdminHandler(statsService *services.StatsService, userService *services.UserService, validate *validation.Validator) *AdminHandler {
	return &AdminHandler{statsService: statsService, userService: userService, validate: validate}
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.statsService.Dashboard(c.UserContext())
	if err != nil {
		return internalError(c, "Failed to fetch statistics", err)
	}
	return c.JSON(stats)
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	q := dto.UserSearchQuery{PageQuery: defaultPage(defaultUserPageSize)}
	if err := bindQuery(c, h.validate, &q); err != nil {
		return invalidInput(c, err)
	}

	users, total, err := h.userService.List(c.UserContext(), q.Search, q.Limit, q.Offset)
	if err != nil {
		return internalError(c, "Failed to fetch users", err)
	}

	return c.JSON(dto.UserListResponse{
		Users: dto.NewUserResponses(users),
		Page:  dto.NewPage(total, q.Limit, q.Offset),
	})
}

func (h *AdminHandler) UpdateUserRole(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "User not found")
	}

	var req dto.UpdateRoleRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return invalidInput(c, err)
	}

	if callerID, err := identity.UserID(c); err == nil && callerID == id && req.Role != models.RoleAdmin {
		return errorJSON(c, fiber.StatusBadRequest, "You cannot remove your own admin role")
	}

	user, err := h.userService.SetRole(c.UserContext(), id, req.Role)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "User not found")
		}
		return internalError(c, "Failed to update role", err)
	}

	return c.JSON(dto.RoleResponse{User: dto.NewUserResponse(user)})
}
