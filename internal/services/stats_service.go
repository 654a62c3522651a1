package services

import (
	"context"
	"fmt"

	"github.com/aeroguide/aeroguide-api/internal/database"
	"github.com/aeroguide/aeroguide-api/internal/dto"
	"github.com/aeroguide/aeroguide-api/internal/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const recentActivityLimit = 5

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// Dashboard runs the eight counts concurrently, then loads recent reviews and inquiries.
func (s *StatsService) Dashboard(ctx context.Context) (*dto.DashboardStats, error) {
	var stats dto.DashboardStats

	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int64, model interface{}, scopes ...func(*gorm.DB) *gorm.DB) {
		g.Go(func() error {
			return s.db.WithContext(gctx).Model(model).Scopes(scopes...).Count(dst).Error
		})
	}

	count(&stats.Stats.Schools, &models.School{}, database.ActiveSchools)
	count(&stats.Stats.Users, &models.User{})
	count(&stats.Stats.Reviews.Total, &models.Review{})
	count(&stats.Stats.Reviews.Pending, &models.Review{}, database.WithStatus(models.ReviewPending))
	count(&stats.Stats.Inquiries.Total, &models.Inquiry{})
	count(&stats.Stats.Inquiries.Pending, &models.Inquiry{}, database.WithStatus(models.InquiryPending))
	count(&stats.Stats.Messages.Total, &models.ContactMessage{})
	count(&stats.Stats.Messages.New, &models.ContactMessage{}, database.WithStatus(models.MessageNew))

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to count dashboard stats: %w", err)
	}

	recent, err := s.recent(ctx)
	if err != nil {
		return nil, err
	}
	stats.Recent = *recent
	return &stats, nil
}

func (s *StatsService) recent(ctx context.Context) (*dto.RecentActivity, error) {
	db := s.db.WithContext(ctx)

	var reviews []models.Review
	if err := db.Preload("School").Preload("User").
		Order("created_at DESC").Limit(recentActivityLimit).
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent reviews: %w", err)
	}

	var inquiries []models.Inquiry
	if err := db.Preload("School").
		Order("created_at DESC").Limit(recentActivityLimit).
		Find(&inquiries).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent inquiries: %w", err)
	}

	activity := &dto.RecentActivity{
		Reviews:   make([]dto.RecentReview, 0, len(reviews)),
		Inquiries: make([]dto.RecentInquiry, 0, len(inquiries)),
	}
	for _, r := range reviews {
		item := dto.RecentReview{ID: r.ID, Rating: r.Rating, CreatedAt: r.CreatedAt}
		if r.School != nil {
			item.SchoolName = r.School.Name
		}
		if r.User != nil {
			item.UserName = r.User.Name
		}
		activity.Reviews = append(activity.Reviews, item)
	}
	for _, i := range inquiries {
		item := dto.RecentInquiry{ID: i.ID, Name: i.Name, InquiryType: i.InquiryType, CreatedAt: i.CreatedAt}
		if i.School != nil {
			item.SchoolName = i.School.Name
		}
		activity.Inquiries = append(activity.Inquiries, item)
	}
	return activity, nil
}
