package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// School is a listed flight school. Rows are never removed; DELETE flips IsActive.
// Rating and ReviewsCount are admin-maintained display fields.
type School struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string                      `gorm:"not null;size:255" json:"name"`
	Location       string                      `gorm:"not null;size:255;index" json:"location"`
	FullAddress    *string                     `gorm:"size:512" json:"full_address"`
	Rating         float64                     `gorm:"not null;default:0;index" json:"rating"`
	ReviewsCount   int                         `gorm:"not null;default:0" json:"reviews_count"`
	ImageURL       string                      `gorm:"not null;size:1024" json:"image_url"`
	Pricing        string                      `gorm:"not null;size:100" json:"pricing"`
	Students       int                         `gorm:"not null;default:0" json:"students"`
	Duration       string                      `gorm:"not null;size:100" json:"duration"`
	Certifications datatypes.JSONSlice[string] `json:"certifications"`
	Phone          *string                     `gorm:"size:50" json:"phone"`
	Email          *string                     `gorm:"size:255" json:"email"`
	Website        *string                     `gorm:"size:1024" json:"website"`
	Established    *int                        `json:"established"`
	FleetSize      *int                        `json:"fleet_size"`
	Instructors    *int                        `json:"instructors"`
	Description    *string                     `gorm:"type:text" json:"description"`
	Features       datatypes.JSONSlice[string] `json:"features"`
	IsActive       bool                        `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`

	Programs []TrainingProgram `gorm:"foreignKey:SchoolID" json:"training_programs"`
	Reviews  []Review          `gorm:"foreignKey:SchoolID" json:"-"`
}

func (s *School) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Certifications == nil {
		s.Certifications = datatypes.JSONSlice[string]{}
	}
	if s.Features == nil {
		s.Features = datatypes.JSONSlice[string]{}
	}
	return nil
}

// TrainingProgram belongs to exactly one School and is replaced wholesale on update.
type TrainingProgram struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SchoolID    uuid.UUID `gorm:"type:uuid;not null;index" json:"school_id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Duration    string    `gorm:"not null;size:100" json:"duration"`
	Price       string    `gorm:"not null;size:100" json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p *TrainingProgram) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
