package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aeroguide/aeroguide-api/internal/dto"
	"github.com/aeroguide/aeroguide-api/internal/models"
	"github.com/aeroguide/aeroguide-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(schools []models.School) []string {
	out := make([]string, len(schools))
	for i, s := range schools {
		out[i] = s.Name
	}
	return out
}

func TestSchoolService_List(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc := NewSchoolService(db, db)

	testutil.CreateSchool(t, db, "Desert Wings", testutil.WithRating(4.2), testutil.WithCertifications("Part 141", "Part 61"))
	testutil.CreateSchool(t, db, "Coastal Aviation", testutil.WithRating(4.8), testutil.WithLocation("San Diego, CA"), testutil.WithCertifications("Part 61"))
	testutil.CreateSchool(t, db, "Mountain Flyers", testutil.WithRating(3.9), testutil.WithLocation("Denver, CO"), testutil.WithCertifications("Part 141 Plus"))
	testutil.CreateSchool(t, db, "Closed Academy", testutil.WithRating(5), testutil.Inactive())

	t.Run("OrdersByRatingAndHidesInactive", func(t *testing.T) {
		schools, total, err := svc.List(ctx, SchoolFilter{Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Equal(t, []string{"Coastal Aviation", "Desert Wings", "Mountain Flyers"}, names(schools))
	})

	t.Run("SearchIsCaseInsensitive", func(t *testing.T) {
		schools, total, err := svc.List(ctx, SchoolFilter{Search: "DENVER", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, []string{"Mountain Flyers"}, names(schools))
	})

	t.Run("CertificationIsExactElement", func(t *testing.T) {
		schools, _, err := svc.List(ctx, SchoolFilter{Certification: "Part 141", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, []string{"Desert Wings"}, names(schools))
	})

	t.Run("FiltersCompose", func(t *testing.T) {
		schools, _, err := svc.List(ctx, SchoolFilter{Certification: "Part 61", MinRating: 4.5, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, []string{"Coastal Aviation"}, names(schools))
	})

	t.Run("Paginates", func(t *testing.T) {
		schools, total, err := svc.List(ctx, SchoolFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Equal(t, []string{"Mountain Flyers"}, names(schools))
	})
}

func TestSchoolService_Get(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc := NewSchoolService(db, db)

	school := testutil.CreateSchool(t, db, "Desert Wings")
	testutil.CreateProgram(t, db, school.ID, "PPL")
	author := testutil.CreateUser(t, db, "a@example.com", models.RoleUser)
	other := testutil.CreateUser(t, db, "b@example.com", models.RoleUser)
	testutil.CreateReview(t, db, school.ID, author.ID, models.ReviewApproved, 0)
	testutil.CreateReview(t, db, school.ID, other.ID, models.ReviewPending, 0)

	got, err := svc.Get(ctx, school.ID)
	require.NoError(t, err)
	assert.Len(t, got.Programs, 1)
	require.Len(t, got.Reviews, 1)
	assert.Equal(t, models.ReviewApproved, got.Reviews[0].Status)
	require.NotNil(t, got.Reviews[0].User)
	assert.Equal(t, author.Name, got.Reviews[0].User.Name)

	t.Run("Missing", func(t *testing.T) {
		_, err := svc.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrSchoolNotFound)
	})

	t.Run("Inactive", func(t *testing.T) {
		closed := testutil.CreateSchool(t, db, "Closed", testutil.Inactive())
		_, err := svc.Get(ctx, closed.ID)
		assert.ErrorIs(t, err, ErrSchoolNotFound)
	})
}

func TestSchoolService_CreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc := NewSchoolService(db, db)

	created, err := svc.Create(ctx, &dto.CreateSchoolRequest{
		Name:           "Desert Wings",
		Location:       "Phoenix, AZ",
		ImageURL:       "https://example.com/dw.jpg",
		Pricing:        "$9,500",
		Duration:       "6 months",
		Certifications: []string{"Part 141", "Part 141"},
		Programs: []dto.ProgramInput{
			{Name: "PPL", Description: "Private", Duration: "3 months", Price: "$9,000"},
			{Name: "IR", Description: "Instrument", Duration: "2 months", Price: "$8,000"},
		},
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Len(t, created.Programs, 2)
	assert.Equal(t, []string{"Part 141"}, []string(created.Certifications))
	assert.Empty(t, created.Features)

	t.Run("AbsentProgramsUntouched", func(t *testing.T) {
		name := "Desert Wings Aviation"
		updated, err := svc.Update(ctx, created.ID, &dto.UpdateSchoolRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, name, updated.Name)
		assert.Len(t, updated.Programs, 2)
	})

	t.Run("ProgramsReplaced", func(t *testing.T) {
		programs := []dto.ProgramInput{{Name: "CFI", Description: "Instructor", Duration: "1 month", Price: "$4,000"}}
		updated, err := svc.Update(ctx, created.ID, &dto.UpdateSchoolRequest{Programs: &programs})
		require.NoError(t, err)
		require.Len(t, updated.Programs, 1)
		assert.Equal(t, "CFI", updated.Programs[0].Name)
	})

	t.Run("EmptyProgramsClears", func(t *testing.T) {
		empty := []dto.ProgramInput{}
		updated, err := svc.Update(ctx, created.ID, &dto.UpdateSchoolRequest{Programs: &empty})
		require.NoError(t, err)
		assert.Empty(t, updated.Programs)

		var count int64
		db.Model(&models.TrainingProgram{}).Where("school_id = ?", created.ID).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		name := "Ghost"
		_, err := svc.Update(ctx, uuid.New(), &dto.UpdateSchoolRequest{Name: &name})
		assert.ErrorIs(t, err, ErrSchoolNotFound)
	})
}

func TestSchoolService_Deactivate(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc := NewSchoolService(db, db)

	school := testutil.CreateSchool(t, db, "Desert Wings")
	user := testutil.CreateUser(t, db, "a@example.com", models.RoleUser)
	review := testutil.CreateReview(t, db, school.ID, user.ID, models.ReviewApproved, 0)

	require.NoError(t, svc.Deactivate(ctx, school.ID))

	_, err := svc.Get(ctx, school.ID)
	assert.ErrorIs(t, err, ErrSchoolNotFound)

	schools, total, err := svc.List(ctx, SchoolFilter{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, schools)

	var kept models.Review
	assert.NoError(t, db.First(&kept, "id = ?", review.ID).Error)

	assert.ErrorIs(t, svc.Deactivate(ctx, uuid.New()), ErrSchoolNotFound)
}

func TestSchoolService_ListCertificationOnPostgres(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	svc := NewSchoolService(db, db)

	filter := regexp.QuoteMeta(`WHERE is_active = $1 AND "certifications" @> $2::jsonb`)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "schools" `) + filter).
		WithArgs(true, `["Part 141"]`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "schools" `) + filter + `.*ORDER BY rating DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	schools, total, err := svc.List(context.Background(), SchoolFilter{Certification: "Part 141", Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, schools)
	assert.NoError(t, mock.ExpectationsWereMet())
}
