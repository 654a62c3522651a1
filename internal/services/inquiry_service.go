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

var ErrInquiryNotFound = errors.New("inquiry not found")

// InquiryService records prospective-student inquiries. Writes go through the
// service-role connection since anonymous callers may submit.
type InquiryService struct {
	db      *gorm.DB
	adminDB *gorm.DB
}

func NewInquiryService(db, adminDB *gorm.DB) *InquiryService {
	return &InquiryService{db: db, adminDB: adminDB}
}

func (s *InquiryService) Create(ctx context.Context, schoolID uuid.UUID, userID *uuid.UUID, req *dto.CreateInquiryRequest) (*models.Inquiry, error) {
	db := s.adminDB.WithContext(ctx)
	if err := ensureActiveSchool(db, schoolID); err != nil {
		return nil, err
	}

	inquiry := models.Inquiry{
		SchoolID:    schoolID,
		UserID:      userID,
		Name:        req.Name,
		Email:       normalizeEmail(req.Email),
		Phone:       emptyToNil(req.Phone),
		Message:     req.Message,
		InquiryType: req.InquiryType,
		Status:      models.InquiryPending,
	}
	if err := db.Omit("School", "User").Create(&inquiry).Error; err != nil {
		return nil, fmt.Errorf("failed to create inquiry: %w", err)
	}
	return &inquiry, nil
}

// ListForSchool returns a school's inquiries newest first. A non-nil owner
// restricts the result to that user's own inquiries.
func (s *InquiryService) ListForSchool(ctx context.Context, schoolID uuid.UUID, owner *uuid.UUID, limit, offset int) ([]models.Inquiry, int64, error) {
	query := s.adminDB.WithContext(ctx).Model(&models.Inquiry{}).Where("school_id = ?", schoolID)
	if owner != nil {
		query = query.Where("user_id = ?", *owner)
	}
	return s.page(query, limit, offset)
}

// List returns inquiries across all schools for the admin portal.
func (s *InquiryService) List(ctx context.Context, status string, limit, offset int) ([]models.Inquiry, int64, error) {
	query := s.adminDB.WithContext(ctx).Model(&models.Inquiry{}).Scopes(database.WithStatus(status))
	return s.page(query, limit, offset)
}

func (s *InquiryService) page(query *gorm.DB, limit, offset int) ([]models.Inquiry, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count inquiries: %w", err)
	}

	inquiries := make([]models.Inquiry, 0, limit)
	if err := query.Preload("School").
		Order("created_at DESC").
		Scopes(database.Paginate(limit, offset)).
		Find(&inquiries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list inquiries: %w", err)
	}
	return inquiries, total, nil
}

func (s *InquiryService) SetStatus(ctx context.Context, id uuid.UUID, status string) (*models.Inquiry, error) {
	if !models.ValidInquiryStatus(status) {
		return nil, fmt.Errorf("invalid inquiry status %q", status)
	}

	db := s.adminDB.WithContext(ctx)
	result := db.Model(&models.Inquiry{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update inquiry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrInquiryNotFound
	}

	var inquiry models.Inquiry
	if err := db.First(&inquiry, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to load inquiry: %w", err)
	}
	return &inquiry, nil
}
