package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aeroguide/aeroguide-api/internal/database"
	"github.com/aeroguide/aeroguide-api/internal/dto"
	"github.com/aeroguide/aeroguide-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("message not found")

type ContactService struct {
	db *gorm.DB
}

// NewContactService takes the service-role connection; contact submissions are anonymous.
func NewContactService(db *gorm.DB) *ContactService {
	return &ContactService{db: db}
}

func (s *ContactService) Create(ctx context.Context, req *dto.CreateContactRequest) (*models.ContactMessage, error) {
	msg := models.ContactMessage{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     normalizeEmail(req.Email),
		Phone:     emptyToNil(req.Phone),
		Subject:   req.Subject,
		Message:   req.Message,
		Status:    models.MessageNew,
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("failed to create contact message: %w", err)
	}
	return &msg, nil
}

func (s *ContactService) List(ctx context.Context, status string, limit, offset int) ([]models.ContactMessage, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.ContactMessage{}).Scopes(database.WithStatus(status))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	messages := make([]models.ContactMessage, 0, limit)
	if err := query.Order("created_at DESC").
		Scopes(database.Paginate(limit, offset)).
		Find(&messages).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, total, nil
}

func (s *ContactService) SetStatus(ctx context.Context, id uuid.UUID, status string) (*models.ContactMessage, error) {
	if !models.ValidMessageStatus(status) {
		return nil, fmt.Errorf("invalid message status %q", status)
	}

	db := s.db.WithContext(ctx)
	result := db.Model(&models.ContactMessage{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrMessageNotFound
	}

	var msg models.ContactMessage
	if err := db.First(&msg, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to load message: %w", err)
	}
	return &msg, nil
}
