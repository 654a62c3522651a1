package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

// Review moderation: created as pending, then set to approved or rejected by an admin.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SchoolID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_school_user" json:"school_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_school_user;index" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Course    string    `gorm:"not null;size:100" json:"course"`
	Status    string    `gorm:"not null;size:20;default:'pending';index" json:"status"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User   *User   `gorm:"foreignKey:UserID" json:"-"`
	School *School `gorm:"foreignKey:SchoolID" json:"-"`
}

func (r *Review) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = ReviewPending
	}
	return nil
}

func ValidReviewStatus(status string) bool {
	switch status {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return true
	}
	return false
}
