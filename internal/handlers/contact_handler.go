package handlers

import (
	"errors"

	"github.com/aeroguide/aeroguide-api/internal/dto"
	"github.com/aeroguide/aeroguide-api/internal/metrics"
	"github.com/aeroguide/aeroguide-api/internal/models"
	"github.com/aeroguide/aeroguide-api/internal/services"
	"github.com/aeroguide/aeroguide-api/internal/validation"
	"github.com/gofiber/fiber/v2"
)

const defaultMessagePageSize = 50

type ContactHandler struct {
	contactService *services.ContactService
	validate       *validation.Validator
	metrics        *metrics.Metrics
}

func NewContactHandler(contactService *services.ContactService, validate *validation.Validator, m *metrics.Metrics) *ContactHandler {
	return &ContactHandler{contactService: contactService, validate: validate, metrics: m}
}

func (h *ContactHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateContactRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return invalidInput(c, err)
	}

	msg, err := h.contactService.Create(c.UserContext(), &req)
	if err != nil {
		return internalError(c, "Failed to send message", err)
	}

	h.metrics.RecordEvent(metrics.EventContactSubmitted)
	return c.Status(fiber.StatusCreated).JSON(dto.ContactCreatedResponse{
		Message: "Message sent successfully",
		ID:      msg.ID,
	})
}

func (h *ContactHandler) List(c *fiber.Ctx) error {
	q := dto.StatusPageQuery{PageQuery: defaultPage(defaultMessagePageSize)}
	if err := bindQuery(c, h.validate, &q); err != nil {
		return invalidInput(c, err)
	}
	if q.Status != "" && q.Status != "all" && !models.ValidMessageStatus(q.Status) {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid status filter")
	}

	messages, total, err := h.contactService.List(c.UserContext(), q.Status, q.Limit, q.Offset)
	if err != nil {
		return internalError(c, "Failed to fetch messages", err)
	}

	return c.JSON(dto.ContactListResponse{
		Messages: messages,
		Page:     dto.NewPage(total, q.Limit, q.Offset),
	})
}

func (h *ContactHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "Message not found")
	}

	var req dto.UpdateMessageStatusRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return invalidInput(c, err)
	}

	msg, err := h.contactService.SetStatus(c.UserContext(), id, req.Status)
	if err != nil {
		if errors.Is(err, services.ErrMessageNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Message not found")
		}
		return internalError(c, "Failed to update message", err)
	}

	return c.JSON(dto.MessageStatusResponse{ContactMessage: msg})
}
