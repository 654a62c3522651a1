package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aeroguide/aeroguide-api/internal/database"
	"github.com/aeroguide/aeroguide-api/internal/dto"
	"github.com/aeroguide/aeroguide-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrSchoolNotFound = errors.New("school not found")

// SchoolFilter holds the optional, conjunctive listing filters.
type SchoolFilter struct {
	Search        string
	Location      string
	Certification string
	MinRating     float64
	Limit         int
	Offset        int
}

// SchoolService owns the directory. Reads use the public connection, admin
// mutations the service-role connection.
type SchoolService struct {
	db      *gorm.DB
	adminDB *gorm.DB
}

func NewSchoolService(db, adminDB *gorm.DB) *SchoolService {
	return &SchoolService{db: db, adminDB: adminDB}
}

// List returns one page of active schools ordered by rating, plus the total match count.
func (s *SchoolService) List(ctx context.Context, f SchoolFilter) ([]models.School, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.School{}).
		Scopes(database.ActiveSchools, database.ContainsFold(f.Search, "name", "location", "description"))

	if f.Location != "" {
		query = query.Scopes(database.ContainsFold(f.Location, "location"))
	}
	if f.Certification != "" {
		query = query.Where(database.JSONArrayContains{Column: "certifications", Value: f.Certification})
	}
	if f.MinRating > 0 {
		query = query.Where("rating >= ?", f.MinRating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count schools: %w", err)
	}

	schools := make([]models.School, 0, f.Limit)
	err := query.
		Preload("Programs", orderByCreated).
		Order("rating DESC").Order("name ASC").
		Scopes(database.Paginate(f.Limit, f.Offset)).
		Find(&schools).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list schools: %w", err)
	}
	return schools, total, nil
}

// Get returns an active school with its programs and approved reviews.
func (s *SchoolService) Get(ctx context.Context, id uuid.UUID) (*models.School, error) {
	var school models.School
	err := s.db.WithContext(ctx).
		Scopes(database.ActiveSchools).
		Preload("Programs", orderByCreated).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", models.ReviewApproved).Order("created_at DESC")
		}).
		Preload("Reviews.User").
		First(&school, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolNotFound
		}
		return nil, fmt.Errorf("failed to get school: %w", err)
	}
	return &school, nil
}

// ensureActiveSchool fails with ErrSchoolNotFound unless the school exists and is active.
func ensureActiveSchool(db *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := db.Model(&models.School{}).Scopes(database.ActiveSchools).
		Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check school: %w", err)
	}
	if count == 0 {
		return ErrSchoolNotFound
	}
	return nil
}

// Create inserts the school and its programs in one transaction.
func (s *SchoolService) Create(ctx context.Context, req *dto.CreateSchoolRequest) (*models.School, error) {
	school := models.School{
		Name:           req.Name,
		Location:       req.Location,
		FullAddress:    req.FullAddress,
		ImageURL:       req.ImageURL,
		Pricing:        req.Pricing,
		Duration:       req.Duration,
		Certifications: stringSet(req.Certifications),
		Phone:          req.Phone,
		Email:          emptyToNil(req.Email),
		Website:        emptyToNil(req.Website),
		Established:    req.Established,
		FleetSize:      req.FleetSize,
		Instructors:    req.Instructors,
		Description:    req.Description,
		Features:       stringSet(req.Features),
		IsActive:       true,
	}
	if req.Rating != nil {
		school.Rating = *req.Rating
	}
	if req.ReviewsCount != nil {
		school.ReviewsCount = *req.ReviewsCount
	}
	if req.Students != nil {
		school.Students = *req.Students
	}

	err := s.adminDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Programs", "Reviews").Create(&school).Error; err != nil {
			return fmt.Errorf("failed to create school: %w", err)
		}
		if err := insertPrograms(tx, school.ID, req.Programs); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, school.ID)
}

// Update applies a partial update. When Programs is present (even empty) the
// school's programs are replaced wholesale; when absent they are untouched.
func (s *SchoolService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateSchoolRequest) (*models.School, error) {
	updates := schoolUpdates(req)

	err := s.adminDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.School{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check school: %w", err)
		}
		if count == 0 {
			return ErrSchoolNotFound
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.School{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update school: %w", err)
			}
		}

		if req.Programs != nil {
			if err := tx.Where("school_id = ?", id).Delete(&models.TrainingProgram{}).Error; err != nil {
				return fmt.Errorf("failed to clear programs: %w", err)
			}
			if err := insertPrograms(tx, id, *req.Programs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, id)
}

// Deactivate soft-deletes a school. Its programs, reviews and inquiries stay in place.
func (s *SchoolService) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := s.adminDB.WithContext(ctx).Model(&models.School{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate school: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSchoolNotFound
	}
	return nil
}

// reload fetches a school regardless of its active flag, with programs.
func (s *SchoolService) reload(ctx context.Context, id uuid.UUID) (*models.School, error) {
	var school models.School
	if err := s.adminDB.WithContext(ctx).Preload("Programs", orderByCreated).
		First(&school, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolNotFound
		}
		return nil, fmt.Errorf("failed to load school: %w", err)
	}
	return &school, nil
}

func insertPrograms(tx *gorm.DB, schoolID uuid.UUID, inputs []dto.ProgramInput) error {
	if len(inputs) == 0 {
		return nil
	}
	programs := make([]models.TrainingProgram, len(inputs))
	for i, p := range inputs {
		programs[i] = models.TrainingProgram{
			SchoolID:    schoolID,
			Name:        p.Name,
			Description: p.Description,
			Duration:    p.Duration,
			Price:       p.Price,
		}
	}
	if err := tx.Create(&programs).Error; err != nil {
		return fmt.Errorf("failed to create programs: %w", err)
	}
	return nil
}

func schoolUpdates(req *dto.UpdateSchoolRequest) map[string]interface{} {
	u := make(map[string]interface{})
	setIf := func(col string, present bool, val interface{}) {
		if present {
			u[col] = val
		}
	}

	setIf("name", req.Name != nil, deref(req.Name))
	setIf("location", req.Location != nil, deref(req.Location))
	setIf("full_address", req.FullAddress != nil, req.FullAddress)
	setIf("image_url", req.ImageURL != nil, deref(req.ImageURL))
	setIf("pricing", req.Pricing != nil, deref(req.Pricing))
	setIf("duration", req.Duration != nil, deref(req.Duration))
	setIf("phone", req.Phone != nil, req.Phone)
	setIf("email", req.Email != nil, emptyToNil(req.Email))
	setIf("website", req.Website != nil, emptyToNil(req.Website))
	setIf("established", req.Established != nil, req.Established)
	setIf("fleet_size", req.FleetSize != nil, req.FleetSize)
	setIf("instructors", req.Instructors != nil, req.Instructors)
	setIf("description", req.Description != nil, req.Description)
	setIf("is_active", req.IsActive != nil, req.IsActive)
	setIf("rating", req.Rating != nil, req.Rating)
	setIf("reviews_count", req.ReviewsCount != nil, req.ReviewsCount)
	setIf("students", req.Students != nil, req.Students)
	if req.Certifications != nil {
		u["certifications"] = stringSet(*req.Certifications)
	}
	if req.Features != nil {
		u["features"] = stringSet(*req.Features)
	}
	return u
}

func orderByCreated(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

// stringSet de-duplicates while keeping first-seen order; nil becomes empty.
func stringSet(values []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
