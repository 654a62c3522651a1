// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aeroguide/aeroguide-api/internal/database"
	"github.com/aeroguide/aeroguide-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database migrated with the production models.
// A single connection is kept open so every query sees the same database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err, "open sqlite test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db), "migrate test database")
	return db
}

// NewMockDB returns a GORM handle over go-sqlmock using the postgres dialector.
func NewMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       conn,
		DriverName: "postgres",
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func CreateUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := &models.User{
		Email: email,
		Name:  "Test " + email,
		Role:  role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// SchoolOption customizes a fixture school before insert.
type SchoolOption func(*models.School)

func WithRating(r float64) SchoolOption {
	return func(s *models.School) { s.Rating = r }
}

func WithLocation(loc string) SchoolOption {
	return func(s *models.School) { s.Location = loc }
}

func WithCertifications(certs ...string) SchoolOption {
	return func(s *models.School) { s.Certifications = datatypes.JSONSlice[string](certs) }
}

func Inactive() SchoolOption {
	return func(s *models.School) { s.IsActive = false }
}

func CreateSchool(t *testing.T, db *gorm.DB, name string, opts ...SchoolOption) *models.School {
	t.Helper()
	school := &models.School{
		Name:     name,
		Location: "Phoenix, AZ",
		ImageURL: "https://example.com/" + uuid.NewString() + ".jpg",
		Pricing:  "$9,500",
		Duration: "6 months",
		IsActive: true,
	}
	for _, opt := range opts {
		opt(school)
	}
	active := school.IsActive
	require.NoError(t, db.Create(school).Error)
	if !active {
		// is_active has a database default, so false must be written explicitly.
		require.NoError(t, db.Model(school).Update("is_active", false).Error)
		school.IsActive = false
	}
	return school
}

func CreateProgram(t *testing.T, db *gorm.DB, schoolID uuid.UUID, name string) *models.TrainingProgram {
	t.Helper()
	p := &models.TrainingProgram{
		SchoolID:    schoolID,
		Name:        name,
		Description: name + " course",
		Duration:    "3 months",
		Price:       "$5,000",
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// CreateReview inserts a review with the given status, aged by age so ordering is deterministic.
func CreateReview(t *testing.T, db *gorm.DB, schoolID, userID uuid.UUID, status string, age time.Duration) *models.Review {
	t.Helper()
	r := &models.Review{
		SchoolID:  schoolID,
		UserID:    userID,
		Rating:    4,
		Text:      "Solid instructors and well maintained aircraft, scheduling was easy too.",
		Course:    "PPL",
		Status:    status,
		CreatedAt: time.Now().Add(-age),
	}
	require.NoError(t, db.Omit("User", "School").Create(r).Error)
	return r
}
