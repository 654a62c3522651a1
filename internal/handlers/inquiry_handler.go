package handlers

import (
	"errors"

	"github.com/aeroguide/aeroguide-api/internal/dto"
	"github.com/aeroguide/aeroguide-api/internal/identity"
	"github.com/aeroguide/aeroguide-api/internal/metrics"
	"github.com/aeroguide/aeroguide-api/internal/models"
	"github.com/aeroguide/aeroguide-api/internal/services"
	"github.com/aeroguide/aeroguide-api/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const defaultInquiryPageSize = 50

type InquiryHandler struct {
	inquiryService *services.InquiryService
	validate       *validation.Validator
	metrics        *metrics.Metrics
}

func NewInquiryHandler(inquiryService *services.InquiryService, validate *validation.Validator, m *metrics.Metrics) *InquiryHandler {
	return &InquiryHandler{inquiryService: inquiryService, validate: validate, metrics: m}
}

// ListForSchool shows admins every inquiry for the school and other users only their own.
func (h *InquiryHandler) ListForSchool(c *fiber.Ctx) error {
	schoolID, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "School not found")
	}

	q := defaultPage(defaultInquiryPageSize)
	if err := bindQuery(c, h.validate, &q); err != nil {
		return invalidInput(c, err)
	}

	var owner *uuid.UUID
	if !identity.IsAdmin(c) {
		userID, err := identity.UserID(c)
		if err != nil {
			return errorJSON(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}
		owner = &userID
	}

	inquiries, total, err := h.inquiryService.ListForSchool(c.UserContext(), schoolID, owner, q.Limit, q.Offset)
	if err != nil {
		return internalError(c, "Failed to fetch inquiries", err)
	}

	return c.JSON(dto.InquiryListResponse{
		Inquiries: dto.NewInquiryResponses(inquiries),
		Page:      dto.NewPage(total, q.Limit, q.Offset),
	})
}

func (h *InquiryHandler) Create(c *fiber.Ctx) error {
	schoolID, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "School not found")
	}

	var req dto.CreateInquiryRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return invalidInput(c, err)
	}

	inquiry, err := h.inquiryService.Create(c.UserContext(), schoolID, identity.OptionalUserID(c), &req)
	if err != nil {
		if errors.Is(err, services.ErrSchoolNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "School not found")
		}
		return internalError(c, "Failed to submit inquiry", err)
	}

	h.metrics.RecordEvent(metrics.EventInquirySubmitted)
	return c.Status(fiber.StatusCreated).JSON(dto.InquiryCreatedResponse{
		Inquiry: inquiry,
		Message: "Inquiry submitted successfully",
	})
}

func (h *InquiryHandler) List(c *fiber.Ctx) error {
	q := dto.StatusPageQuery{PageQuery: defaultPage(defaultInquiryPageSize)}
	if err := bindQuery(c, h.validate, &q); err != nil {
		return invalidInput(c, err)
	}
	if q.Status != "" && q.Status != "all" && !models.ValidInquiryStatus(q.Status) {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid status filter")
	}

	inquiries, total, err := h.inquiryService.List(c.UserContext(), q.Status, q.Limit, q.Offset)
	if err != nil {
		return internalError(c, "Failed to fetch inquiries", err)
	}

	return c.JSON(dto.InquiryListResponse{
		Inquiries: dto.NewInquiryResponses(inquiries),
		Page:      dto.NewPage(total, q.Limit, q.Offset),
	})
}

func (h *InquiryHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "Inquiry not found")
	}

	var req dto.UpdateInquiryStatusRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return invalidInput(c, err)
	}

	inquiry, err := h.inquiryService.SetStatus(c.UserContext(), id, req.Status)
	if err != nil {
		if errors.Is(err, services.ErrInquiryNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Inquiry not found")
		}
		return internalError(c, "Failed to update inquiry", err)
	}

	return c.JSON(dto.InquiryStatusResponse{Inquiry: inquiry})
}
