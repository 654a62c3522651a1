package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MessageNew     = "new"
	MessageRead    = "read"
	MessageReplied = "replied"
)

type ContactMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName string    `gorm:"not null;size:100" json:"first_name"`
	LastName  string    `gorm:"not null;size:100" json:"last_name"`
	Email     string    `gorm:"not null;size:255" json:"email"`
	Phone     *string   `gorm:"size:50" json:"phone"`
	Subject   string    `gorm:"not null;size:255" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Status    string    `gorm:"not null;size:20;default:'new';index" json:"status"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *ContactMessage) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = MessageNew
	}
	return nil
}

func ValidMessageStatus(status string) bool {
	switch status {
	case MessageNew, MessageRead, MessageReplied:
		return true
	}
	return false
}
