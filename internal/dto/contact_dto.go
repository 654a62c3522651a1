package dto

import (
	"github.com/aeroguide/aeroguide-api/internal/models"
	"github.com/google/uuid"
)

type CreateContactRequest struct {
	FirstName string  `json:"first_name" validate:"required,min=1"`
	LastName  string  `json:"last_name" validate:"required,min=1"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     *string `json:"phone"`
	Subject   string  `json:"subject" validate:"required,min=1"`
	Message   string  `json:"message" validate:"required,min=10"`
}

type UpdateMessageStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new read replied"`
}

type ContactListResponse struct {
	Messages []models.ContactMessage `json:"messages"`
	Page
}

type ContactCreatedResponse struct {
	Message string    `json:"message"`
	ID      uuid.UUID `json:"id"`
}

type MessageStatusResponse struct {
	ContactMessage *models.ContactMessage `json:"contact_message"`
}
