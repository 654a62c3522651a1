package dto

import (
	"time"

	"github.com/aeroguide/aeroguide-api/internal/models"
	"github.com/google/uuid"
)

type CreateReviewRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Text   string `json:"text" validate:"required,min=50"`
	Course string `json:"course" validate:"required,min=1"`
}

// UpdateReviewStatusRequest moves a review out of pending. Pending itself is never admin-settable.
type UpdateReviewStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

type UserSummary struct {
	Name    string  `json:"name"`
	Picture *string `json:"picture"`
	Email   string  `json:"email,omitempty"`
}

type ReviewResponse struct {
	ID        uuid.UUID      `json:"id"`
	SchoolID  uuid.UUID      `json:"school_id"`
	UserID    *uuid.UUID     `json:"user_id,omitempty"`
	Rating    int            `json:"rating"`
	Text      string         `json:"text"`
	Course    string         `json:"course"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	User      *UserSummary   `json:"user,omitempty"`
	School    *SchoolSummary `json:"school,omitempty"`
}

// NewPublicReview hides the author's id and email.
func NewPublicReview(r *models.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:        r.ID,
		SchoolID:  r.SchoolID,
		Rating:    r.Rating,
		Text:      r.Text,
		Course:    r.Course,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
	if r.User != nil {
		resp.User = &UserSummary{Name: r.User.Name, Picture: r.User.Picture}
	}
	return resp
}

// NewAdminReview includes author id/email and the school summary.
func NewAdminReview(r *models.Review) ReviewResponse {
	resp := NewPublicReview(r)
	userID := r.UserID
	resp.UserID = &userID
	if r.User != nil {
		resp.User.Email = r.User.Email
	}
	resp.School = newSchoolSummary(r.School)
	return resp
}

func NewAdminReviews(reviews []models.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, NewAdminReview(&reviews[i]))
	}
	return out
}

func NewPublicReviews(reviews []models.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, NewPublicReview(&reviews[i]))
	}
	return out
}

type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Page
}

type ReviewCreatedResponse struct {
	Review  ReviewResponse `json:"review"`
	Message string         `json:"message"`
}

type ReviewStatusResponse struct {
	Review *models.Review `json:"review"`
}
