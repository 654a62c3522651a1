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

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrReviewExists   = errors.New("you have already reviewed this school")
)

// ReviewService handles review submission and the moderation queue.
type ReviewService struct {
	db      *gorm.DB
	adminDB *gorm.DB
}

func NewReviewService(db, adminDB *gorm.DB) *ReviewService {
	return &ReviewService{db: db, adminDB: adminDB}
}

// ListForSchool returns a school's reviews newest first, with author summaries.
// An empty status means approved.
func (s *ReviewService) ListForSchool(ctx context.Context, schoolID uuid.UUID, status string, limit, offset int) ([]models.Review, int64, error) {
	if status == "" {
		status = models.ReviewApproved
	}

	query := s.db.WithContext(ctx).Model(&models.Review{}).
		Where("school_id = ?", schoolID).
		Scopes(database.WithStatus(status))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	reviews := make([]models.Review, 0, limit)
	if err := query.Preload("User").
		Order("created_at DESC").
		Scopes(database.Paginate(limit, offset)).
		Find(&reviews).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, total, nil
}

// Create submits a pending review. The duplicate check and insert share a
// transaction; the (school_id, user_id) unique index catches concurrent submits.
func (s *ReviewService) Create(ctx context.Context, schoolID, userID uuid.UUID, req *dto.CreateReviewRequest) (*models.Review, error) {
	review := models.Review{
		SchoolID: schoolID,
		UserID:   userID,
		Rating:   req.Rating,
		Text:     req.Text,
		Course:   req.Course,
		Status:   models.ReviewPending,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureActiveSchool(tx, schoolID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Review{}).
			Where("school_id = ? AND user_id = ?", schoolID, userID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check existing review: %w", err)
		}
		if count > 0 {
			return ErrReviewExists
		}

		if err := tx.Omit("User", "School").Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrReviewExists
			}
			return fmt.Errorf("failed to create review: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// List is the admin moderation queue across all schools.
func (s *ReviewService) List(ctx context.Context, status string, limit, offset int) ([]models.Review, int64, error) {
	query := s.adminDB.WithContext(ctx).Model(&models.Review{}).Scopes(database.WithStatus(status))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	reviews := make([]models.Review, 0, limit)
	if err := query.Preload("User").Preload("School").
		Order("created_at DESC").
		Scopes(database.Paginate(limit, offset)).
		Find(&reviews).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, total, nil
}

// SetStatus moves a review to approved or rejected.
func (s *ReviewService) SetStatus(ctx context.Context, id uuid.UUID, status string) (*models.Review, error) {
	if status != models.ReviewApproved && status != models.ReviewRejected {
		return nil, fmt.Errorf("invalid review status %q", status)
	}

	db := s.adminDB.WithContext(ctx)
	result := db.Model(&models.Review{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrReviewNotFound
	}

	var review models.Review
	if err := db.First(&review, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to load review: %w", err)
	}
	return &review, nil
}

// Delete removes a review permanently.
func (s *ReviewService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.adminDB.WithContext(ctx).Where("id = ?", id).Delete(&models.Review{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
