package dto

import (
	"github.com/aeroguide/aeroguide-api/internal/models"
)

type ProgramInput struct {
	Name        string `json:"name" validate:"required,min=1"`
	Description string `json:"description" validate:"required,min=1"`
	Duration    string `json:"duration" validate:"required,min=1"`
	Price       string `json:"price" validate:"required,min=1"`
}

type CreateSchoolRequest struct {
	Name           string         `json:"name" validate:"required,min=2"`
	Location       string         `json:"location" validate:"required,min=2"`
	FullAddress    *string        `json:"full_address"`
	ImageURL       string         `json:"image_url" validate:"required,url"`
	Pricing        string         `json:"pricing" validate:"required,min=1"`
	Duration       string         `json:"duration" validate:"required,min=1"`
	Certifications []string       `json:"certifications"`
	Phone          *string        `json:"phone"`
	Email          *string        `json:"email" validate:"omitempty,email"`
	Website        *string        `json:"website" validate:"omitempty,url"`
	Established    *int           `json:"established" validate:"omitempty,min=1900,max=2030"`
	FleetSize      *int           `json:"fleet_size" validate:"omitempty,min=0"`
	Instructors    *int           `json:"instructors" validate:"omitempty,min=0"`
	Description    *string        `json:"description"`
	Features       []string       `json:"features"`
	Rating         *float64       `json:"rating" validate:"omitempty,min=0,max=5"`
	ReviewsCount   *int           `json:"reviews_count" validate:"omitempty,min=0"`
	Students       *int           `json:"students" validate:"omitempty,min=0"`
	Programs       []ProgramInput `json:"programs" validate:"dive"`
}

// UpdateSchoolRequest is a partial update: nil fields are left untouched.
// Programs distinguishes an absent key (nil) from an empty list.
type UpdateSchoolRequest struct {
	Name           *string         `json:"name" validate:"omitempty,min=2"`
	Location       *string         `json:"location" validate:"omitempty,min=2"`
	FullAddress    *string         `json:"full_address"`
	ImageURL       *string         `json:"image_url" validate:"omitempty,url"`
	Pricing        *string         `json:"pricing" validate:"omitempty,min=1"`
	Duration       *string         `json:"duration" validate:"omitempty,min=1"`
	Certifications *[]string       `json:"certifications"`
	Phone          *string         `json:"phone"`
	Email          *string         `json:"email" validate:"omitempty,email"`
	Website        *string         `json:"website" validate:"omitempty,url"`
	Established    *int            `json:"established" validate:"omitempty,min=1900,max=2030"`
	FleetSize      *int            `json:"fleet_size" validate:"omitempty,min=0"`
	Instructors    *int            `json:"instructors" validate:"omitempty,min=0"`
	Description    *string         `json:"description"`
	Features       *[]string       `json:"features"`
	Rating         *float64        `json:"rating" validate:"omitempty,min=0,max=5"`
	ReviewsCount   *int            `json:"reviews_count" validate:"omitempty,min=0"`
	Students       *int            `json:"students" validate:"omitempty,min=0"`
	IsActive       *bool           `json:"is_active"`
	Programs       *[]ProgramInput `json:"programs" validate:"omitempty,dive"`
}

type SchoolSearchQuery struct {
	PageQuery
	Search        string  `query:"search"`
	Location      string  `query:"location"`
	Certification string  `query:"certification"`
	MinRating     float64 `query:"minRating" validate:"min=0,max=5"`
}

type SchoolListResponse struct {
	Schools []models.School `json:"schools"`
	Page
}

// SchoolDetail is a school with its programs and approved reviews.
type SchoolDetail struct {
	models.School
	Reviews []ReviewResponse `json:"reviews"`
}

func NewSchoolDetail(s *models.School) SchoolDetail {
	reviews := make([]ReviewResponse, 0, len(s.Reviews))
	for i := range s.Reviews {
		reviews = append(reviews, NewPublicReview(&s.Reviews[i]))
	}
	return SchoolDetail{School: *s, Reviews: reviews}
}

type SchoolSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

func newSchoolSummary(s *models.School) *SchoolSummary {
	if s == nil {
		return nil
	}
	return &SchoolSummary{ID: s.ID.String(), Name: s.Name, Location: s.Location}
}

type SchoolResponse struct {
	School *models.School `json:"school"`
}

type SchoolDetailResponse struct {
	School SchoolDetail `json:"school"`
}
