package handlers

import (
	"errors"

	"github.com/aeroguide/aeroguide-api/internal/dto"
	"github.com/aeroguide/aeroguide-api/internal/metrics"
	"github.com/aeroguide/aeroguide-api/internal/services"
	"github.com/aeroguide/aeroguide-api/internal/validation"
	"github.com/gofiber/fiber/v2"
)

const defaultSchoolPageSize = 10

type SchoolHandler struct {
	schoolService *services.SchoolService
	validate      *validation.Validator
	metrics       *metrics.Metrics
}

func NewSchoolHandler(schoolService *services.SchoolService, validate *validation.Validator, m *metrics.Metrics) *SchoolHandler {
	return &SchoolHandler{schoolService: schoolService, validate: validate, metrics: m}
}

func (h *SchoolHandler) List(c *fiber.Ctx) error {
	q := dto.SchoolSearchQuery{PageQuery: defaultPage(defaultSchoolPageSize)}
	if err := bindQuery(c, h.validate, &q); err != nil {
		if errors.Is(err, errMalformedInput) {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid query parameters")
		}
		return invalidInput(c, err)
	}

	schools, total, err := h.schoolService.List(c.UserContext(), services.SchoolFilter{
		Search:        q.Search,
		Location:      q.Location,
		Certification: q.Certification,
		MinRating:     q.MinRating,
		Limit:         q.Limit,
		Offset:        q.Offset,
	})
	if err != nil {
		return internalError(c, "Failed to fetch schools", err)
	}

	return c.JSON(dto.SchoolListResponse{
		Schools: schools,
		Page:    dto.NewPage(total, q.Limit, q.Offset),
	})
}

func (h *SchoolHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "School not found")
	}

	school, err := h.schoolService.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrSchoolNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "School not found")
		}
		return internalError(c, "Failed to fetch school", err)
	}

	return c.JSON(dto.SchoolDetailResponse{School: dto.NewSchoolDetail(school)})
}

func (h *SchoolHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSchoolRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return invalidInput(c, err)
	}

	school, err := h.schoolService.Create(c.UserContext(), &req)
	if err != nil {
		return internalError(c, "Failed to create school", err)
	}

	h.metrics.RecordEvent(metrics.EventSchoolCreated)
	return c.Status(fiber.StatusCreated).JSON(dto.SchoolResponse{School: school})
}

func (h *SchoolHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "School not found")
	}

	var req dto.UpdateSchoolRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return invalidInput(c, err)
	}

	school, err := h.schoolService.Update(c.UserContext(), id, &req)
	if err != nil {
		if errors.Is(err, services.ErrSchoolNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "School not found")
		}
		return internalError(c, "Failed to update school", err)
	}

	return c.JSON(dto.SchoolResponse{School: school})
}

func (h *SchoolHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "School not found")
	}

	if err := h.schoolService.Deactivate(c.UserContext(), id); err != nil {
		if errors.Is(err, services.ErrSchoolNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "School not found")
		}
		return internalError(c, "Failed to delete school", err)
	}

	return c.JSON(dto.MessageResponse{Message: "School deleted successfully"})
}
