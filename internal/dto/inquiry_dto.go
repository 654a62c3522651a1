package dto

import (
	"github.com/aeroguide/aeroguide-api/internal/models"
)

type CreateInquiryRequest struct {
	Name        string  `json:"name" validate:"required,min=2"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       *string `json:"phone"`
	Message     string  `json:"message" validate:"required,min=10"`
	InquiryType string  `json:"inquiry_type" validate:"omitempty,oneof=general discovery_flight enrollment brochure"`
}

type UpdateInquiryStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending contacted closed"`
}

type InquiryResponse struct {
	models.Inquiry
	School *SchoolSummary `json:"school,omitempty"`
}

func NewInquiryResponses(inquiries []models.Inquiry) []InquiryResponse {
	out := make([]InquiryResponse, 0, len(inquiries))
	for i := range inquiries {
		out = append(out, InquiryResponse{
			Inquiry: inquiries[i],
			School:  newSchoolSummary(inquiries[i].School),
		})
	}
	return out
}

type InquiryListResponse struct {
	Inquiries []InquiryResponse `json:"inquiries"`
	Page
}

type InquiryCreatedResponse struct {
	Inquiry *models.Inquiry `json:"inquiry"`
	Message string          `json:"message"`
}

type InquiryStatusResponse struct {
	Inquiry *models.Inquiry `json:"inquiry"`
}
