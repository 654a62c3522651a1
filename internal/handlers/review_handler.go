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
)

const defaultReviewPageSize = 50

type ReviewHandler struct {
	reviewService *services.ReviewService
	validate      *validation.Validator
	metrics       *metrics.Metrics
}

func NewReviewHandler(reviewService *services.ReviewService, validate *validation.Validator, m *metrics.Metrics) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, validate: validate, metrics: m}
}

// ListForSchool serves the public review list. Only admins may pick a status
// other than approved.
func (h *ReviewHandler) ListForSchool(c *fiber.Ctx) error {
	schoolID, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "School not found")
	}

	q := dto.StatusPageQuery{PageQuery: defaultPage(defaultReviewPageSize)}
	if err := bindQuery(c, h.validate, &q); err != nil {
		return invalidInput(c, err)
	}

	isAdmin := identity.IsAdmin(c)
	status := models.ReviewApproved
	if isAdmin && q.Status != "" {
		status = q.Status
	}

	reviews, total, err := h.reviewService.ListForSchool(c.UserContext(), schoolID, status, q.Limit, q.Offset)
	if err != nil {
		return internalError(c, "Failed to fetch reviews", err)
	}

	items := dto.NewPublicReviews(reviews)
	if isAdmin {
		items = dto.NewAdminReviews(reviews)
	}
	return c.JSON(dto.ReviewListResponse{
		Reviews: items,
		Page:    dto.NewPage(total, q.Limit, q.Offset),
	})
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	schoolID, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "School not found")
	}
	userID, err := identity.UserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Invalid or expired token")
	}

	var req dto.CreateReviewRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return invalidInput(c, err)
	}

	review, err := h.reviewService.Create(c.UserContext(), schoolID, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSchoolNotFound):
			return errorJSON(c, fiber.StatusNotFound, "School not found")
		case errors.Is(err, services.ErrReviewExists):
			return errorJSON(c, fiber.StatusConflict, "You have already reviewed this school")
		}
		return internalError(c, "Failed to create review", err)
	}

	h.metrics.RecordEvent(metrics.EventReviewSubmitted)
	return c.Status(fiber.StatusCreated).JSON(dto.ReviewCreatedResponse{
		Review:  dto.NewPublicReview(review),
		Message: "Review submitted and pending approval",
	})
}

// List is the admin moderation queue.
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	q := dto.StatusPageQuery{PageQuery: defaultPage(defaultReviewPageSize)}
	if err := bindQuery(c, h.validate, &q); err != nil {
		return invalidInput(c, err)
	}
	if q.Status != "" && q.Status != "all" && !models.ValidReviewStatus(q.Status) {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid status filter")
	}

	reviews, total, err := h.reviewService.List(c.UserContext(), q.Status, q.Limit, q.Offset)
	if err != nil {
		return internalError(c, "Failed to fetch reviews", err)
	}

	return c.JSON(dto.ReviewListResponse{
		Reviews: dto.NewAdminReviews(reviews),
		Page:    dto.NewPage(total, q.Limit, q.Offset),
	})
}

func (h *ReviewHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "Review not found")
	}

	var req dto.UpdateReviewStatusRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return invalidInput(c, err)
	}

	review, err := h.reviewService.SetStatus(c.UserContext(), id, req.Status)
	if err != nil {
		if errors.Is(err, services.ErrReviewNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Review not found")
		}
		return internalError(c, "Failed to update review", err)
	}

	h.metrics.RecordEvent(metrics.EventReviewModerated)
	return c.JSON(dto.ReviewStatusResponse{Review: review})
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "Review not found")
	}

	if err := h.reviewService.Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, services.ErrReviewNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Review not found")
		}
		return internalError(c, "Failed to delete review", err)
	}

	return c.JSON(dto.MessageResponse{Message: "Review deleted successfully"})
}
