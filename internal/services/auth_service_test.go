package services

import (
	"context"
	"testing"
	"time"

	"github.com/aeroguide/aeroguide-api/internal/dto"
	"github.com/aeroguide/aeroguide-api/internal/models"
	"github.com/aeroguide/aeroguide-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubVerifier struct {
	identity *GoogleIdentity
	err      error
}

func (s *stubVerifier) Verify(context.Context, string) (*GoogleIdentity, error) {
	return s.identity, s.err
}

func newAuthService(t *testing.T, verifier IdentityVerifier, admins ...string) (*AuthService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	sessions := NewSessionManager("test-secret", time.Hour)
	return NewAuthService(db, sessions, verifier, admins), db
}

func TestAuthService_GoogleSignIn(t *testing.T) {
	ctx := context.Background()
	identity := &GoogleIdentity{
		Subject:       "g-1",
		Email:         "Student@Example.com",
		EmailVerified: true,
		Name:          "Student",
		Picture:       "https://example.com/a.png",
	}

	t.Run("CreatesUser", func(t *testing.T) {
		svc, db := newAuthService(t, &stubVerifier{identity: identity})

		resp, err := svc.GoogleSignIn(ctx, "credential")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "student@example.com", resp.User.Email)
		assert.Equal(t, models.RoleUser, resp.User.Role)

		var count int64
		db.Model(&models.User{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("RepeatLoginRefreshesProfile", func(t *testing.T) {
		v := &stubVerifier{identity: identity}
		svc, db := newAuthService(t, v)
		_, err := svc.GoogleSignIn(ctx, "credential")
		require.NoError(t, err)

		v.identity = &GoogleIdentity{Subject: "g-1", Email: "student@example.com", EmailVerified: true, Name: "Renamed", Picture: "https://example.com/b.png"}
		resp, err := svc.GoogleSignIn(ctx, "credential")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", resp.User.Name)

		var user models.User
		require.NoError(t, db.First(&user, "google_id = ?", "g-1").Error)
		assert.Equal(t, "Renamed", user.Name)
		require.NotNil(t, user.Picture)
		assert.Equal(t, "https://example.com/b.png", *user.Picture)

		var count int64
		db.Model(&models.User{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("LinksExistingEmail", func(t *testing.T) {
		svc, db := newAuthService(t, &stubVerifier{identity: identity})
		existing := testutil.CreateUser(t, db, "student@example.com", models.RoleUser)

		resp, err := svc.GoogleSignIn(ctx, "credential")
		require.NoError(t, err)
		assert.Equal(t, existing.ID, resp.User.ID)

		var user models.User
		require.NoError(t, db.First(&user, "id = ?", existing.ID).Error)
		require.NotNil(t, user.GoogleID)
		assert.Equal(t, "g-1", *user.GoogleID)
	})

	t.Run("PromotesConfiguredAdmin", func(t *testing.T) {
		svc, _ := newAuthService(t, &stubVerifier{identity: identity}, "student@example.com")

		resp, err := svc.GoogleSignIn(ctx, "credential")
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, resp.User.Role)
	})

	t.Run("UnverifiedEmailIsNotPromoted", func(t *testing.T) {
		unverified := &GoogleIdentity{Subject: "g-boss", Email: "boss@example.com", Name: "Boss"}
		svc, db := newAuthService(t, &stubVerifier{identity: unverified}, "boss@example.com")

		resp, err := svc.GoogleSignIn(ctx, "credential")
		assert.ErrorIs(t, err, ErrInvalidGoogleToken)
		assert.Nil(t, resp)

		var count int64
		db.Model(&models.User{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("UnverifiedEmailDoesNotLink", func(t *testing.T) {
		unverified := &GoogleIdentity{Subject: "g-intruder", Email: "owner@example.com", Name: "Intruder"}
		svc, db := newAuthService(t, &stubVerifier{identity: unverified})
		owner, err := svc.Register(ctx, &dto.RegisterRequest{Email: "owner@example.com", Password: "hunter22", Name: "Owner"})
		require.NoError(t, err)

		resp, err := svc.GoogleSignIn(ctx, "credential")
		assert.ErrorIs(t, err, ErrInvalidGoogleToken)
		assert.Nil(t, resp)

		var user models.User
		require.NoError(t, db.First(&user, "id = ?", owner.User.ID).Error)
		assert.Nil(t, user.GoogleID)
	})

	t.Run("UnverifiedEmailKeepsExistingGoogleLogin", func(t *testing.T) {
		v := &stubVerifier{identity: identity}
		svc, _ := newAuthService(t, v)
		first, err := svc.GoogleSignIn(ctx, "credential")
		require.NoError(t, err)

		v.identity = &GoogleIdentity{Subject: "g-1", Email: "student@example.com", Name: "Student"}
		resp, err := svc.GoogleSignIn(ctx, "credential")
		require.NoError(t, err)
		assert.Equal(t, first.User.ID, resp.User.ID)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		svc, _ := newAuthService(t, &stubVerifier{err: ErrInvalidGoogleToken})

		_, err := svc.GoogleSignIn(ctx, "credential")
		assert.ErrorIs(t, err, ErrInvalidGoogleToken)
	})
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, db := newAuthService(t, &stubVerifier{})

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Email: "new@example.com", Password: "hunter22", Name: "New Pilot"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "NEW@example.com", Password: "hunter22", Name: "Again"})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("LoginSuccess", func(t *testing.T) {
		resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "new@example.com", Password: "hunter22"})
		require.NoError(t, err)
		assert.Equal(t, "New Pilot", resp.User.Name)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := svc.Login(ctx, &dto.LoginRequest{Email: "new@example.com", Password: "wrong-pass"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("GoogleOnlyAccount", func(t *testing.T) {
		testutil.CreateUser(t, db, "google@example.com", models.RoleUser)
		_, err := svc.Login(ctx, &dto.LoginRequest{Email: "google@example.com", Password: "whatever"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Me", func(t *testing.T) {
		user, err := svc.Me(ctx, resp.User.ID)
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", user.Email)
	})
}
