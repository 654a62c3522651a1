package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aeroguide/aeroguide-api/internal/dto"
	"github.com/aeroguide/aeroguide-api/internal/models"
	"github.com/aeroguide/aeroguide-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewRequest() *dto.CreateReviewRequest {
	return &dto.CreateReviewRequest{
		Rating: 5,
		Text:   strings.Repeat("Great school. ", 5),
		Course: "PPL",
	}
}

func TestReviewService_Create(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc := NewReviewService(db, db)

	school := testutil.CreateSchool(t, db, "Desert Wings")
	user := testutil.CreateUser(t, db, "a@example.com", models.RoleUser)

	review, err := svc.Create(ctx, school.ID, user.ID, reviewRequest())
	require.NoError(t, err)
	assert.Equal(t, models.ReviewPending, review.Status)

	t.Run("DuplicateRejected", func(t *testing.T) {
		_, err := svc.Create(ctx, school.ID, user.ID, reviewRequest())
		assert.ErrorIs(t, err, ErrReviewExists)

		var count int64
		db.Model(&models.Review{}).Where("school_id = ? AND user_id = ?", school.ID, user.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("UniqueIndexBacksDuplicateCheck", func(t *testing.T) {
		dup := &models.Review{SchoolID: school.ID, UserID: user.ID, Rating: 1, Text: "x", Course: "x"}
		err := db.Omit("User", "School").Create(dup).Error
		require.Error(t, err)
	})

	t.Run("InactiveSchool", func(t *testing.T) {
		closed := testutil.CreateSchool(t, db, "Closed", testutil.Inactive())
		_, err := svc.Create(ctx, closed.ID, user.ID, reviewRequest())
		assert.ErrorIs(t, err, ErrSchoolNotFound)
	})
}

func TestReviewService_ModerationFlow(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc := NewReviewService(db, db)

	school := testutil.CreateSchool(t, db, "Desert Wings")
	user := testutil.CreateUser(t, db, "a@example.com", models.RoleUser)

	review, err := svc.Create(ctx, school.ID, user.ID, reviewRequest())
	require.NoError(t, err)

	public, total, err := svc.ListForSchool(ctx, school.ID, "", 50, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, public)

	updated, err := svc.SetStatus(ctx, review.ID, models.ReviewApproved)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewApproved, updated.Status)

	public, total, err = svc.ListForSchool(ctx, school.ID, "", 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, public, 1)
	assert.Equal(t, review.ID, public[0].ID)
	require.NotNil(t, public[0].User)

	t.Run("PendingNotSettable", func(t *testing.T) {
		_, err := svc.SetStatus(ctx, review.ID, models.ReviewPending)
		assert.Error(t, err)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := svc.SetStatus(ctx, uuid.New(), models.ReviewRejected)
		assert.ErrorIs(t, err, ErrReviewNotFound)
		assert.ErrorIs(t, svc.Delete(ctx, uuid.New()), ErrReviewNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, review.ID))
		_, total, err := svc.ListForSchool(ctx, school.ID, "all", 50, 0)
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}

func TestReviewService_List(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc := NewReviewService(db, db)

	school := testutil.CreateSchool(t, db, "Desert Wings")
	var ids []uuid.UUID
	for i, status := range []string{models.ReviewPending, models.ReviewApproved, models.ReviewPending} {
		u := testutil.CreateUser(t, db, uuid.NewString()+"@example.com", models.RoleUser)
		r := testutil.CreateReview(t, db, school.ID, u.ID, status, time.Duration(3-i)*time.Minute)
		ids = append(ids, r.ID)
	}

	t.Run("StatusFilterNewestFirst", func(t *testing.T) {
		reviews, total, err := svc.List(ctx, models.ReviewPending, 50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, reviews, 2)
		assert.Equal(t, ids[2], reviews[0].ID)
		assert.Equal(t, ids[0], reviews[1].ID)
		require.NotNil(t, reviews[0].School)
		assert.Equal(t, "Desert Wings", reviews[0].School.Name)
	})

	t.Run("All", func(t *testing.T) {
		reviews, total, err := svc.List(ctx, "all", 2, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, reviews, 2)
		assert.True(t, dto.NewPage(total, 2, 0).HasMore)
	})
}
