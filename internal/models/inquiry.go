package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InquiryGeneral         = "general"
	InquiryDiscoveryFlight = "discovery_flight"
	InquiryEnrollment      = "enrollment"
	InquiryBrochure        = "brochure"

	InquiryPending   = "pending"
	InquiryContacted = "contacted"
	InquiryClosed    = "closed"
)

// Inquiry is a prospective student's message to an active school. UserID is
// set only when the caller was signed in.
type Inquiry struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SchoolID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"school_id"`
	UserID      *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Name        string     `gorm:"not null;size:255" json:"name"`
	Email       string     `gorm:"not null;size:255" json:"email"`
	Phone       *string    `gorm:"size:50" json:"phone"`
	Message     string     `gorm:"type:text;not null" json:"message"`
	InquiryType string     `gorm:"not null;size:30;default:'general'" json:"inquiry_type"`
	Status      string     `gorm:"not null;size:20;default:'pending';index" json:"status"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	School *School `gorm:"foreignKey:SchoolID" json:"-"`
	User   *User   `gorm:"foreignKey:UserID" json:"-"`
}

func (i *Inquiry) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.InquiryType == "" {
		i.InquiryType = InquiryGeneral
	}
	if i.Status == "" {
		i.Status = InquiryPending
	}
	return nil
}

func ValidInquiryStatus(status string) bool {
	switch status {
	case InquiryPending, InquiryContacted, InquiryClosed:
		return true
	}
	return false
}
