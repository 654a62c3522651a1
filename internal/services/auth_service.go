package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/aeroguide/aeroguide-api/internal/dto"
	"github.com/aeroguide/aeroguide-api/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService signs users in (Google or email/password) and issues sessions.
// User rows are written through the service-role connection.
type AuthService struct {
	db          *gorm.DB
	sessions    *SessionManager
	verifier    IdentityVerifier
	adminEmails []string
}

func NewAuthService(db *gorm.DB, sessions *SessionManager, verifier IdentityVerifier, adminEmails []string) *AuthService {
	return &AuthService{
		db:          db,
		sessions:    sessions,
		verifier:    verifier,
		adminEmails: adminEmails,
	}
}

// GoogleSignIn verifies the credential, then finds the user by google_id,
// falls back to linking an account with the same email, and finally creates one.
// Only identities with a Google-verified email may link or create accounts.
func (s *AuthService) GoogleSignIn(ctx context.Context, credential string) (*dto.AuthResponse, error) {
	g, err := s.verifier.Verify(ctx, credential)
	if err != nil {
		slog.Warn("google token verification failed", "error", err)
		return nil, ErrInvalidGoogleToken
	}

	db := s.db.WithContext(ctx)
	picture := nullable(g.Picture)

	var user models.User
	err = db.Where("google_id = ?", g.Subject).First(&user).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{"picture": picture}
		if g.Name != "" {
			updates["name"] = g.Name
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to refresh user profile: %w", err)
		}
		user.Picture = picture
		if g.Name != "" {
			user.Name = g.Name
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Linking and admin promotion both trust the email, so it must be verified.
		if !g.EmailVerified {
			slog.Warn("google sign-in rejected: email not verified", "google_sub", g.Subject)
			return nil, ErrInvalidGoogleToken
		}
		err = db.Where("email = ?", normalizeEmail(g.Email)).First(&user).Error
		switch {
		case err == nil:
			if err := db.Model(&user).Updates(map[string]interface{}{
				"google_id": g.Subject,
				"picture":   picture,
			}).Error; err != nil {
				return nil, fmt.Errorf("failed to link Google account: %w", err)
			}
			subject := g.Subject
			user.GoogleID = &subject
			user.Picture = picture
			slog.Info("linked google account to existing user", "user_id", user.ID.String())

		case errors.Is(err, gorm.ErrRecordNotFound):
			name := g.Name
			if name == "" {
				name = strings.Split(g.Email, "@")[0]
			}
			subject := g.Subject
			user = models.User{
				Email:    normalizeEmail(g.Email),
				Name:     name,
				Picture:  picture,
				GoogleID: &subject,
				Role:     s.initialRole(g.Email),
			}
			if err := db.Create(&user).Error; err != nil {
				return nil, fmt.Errorf("failed to create Google user: %w", err)
			}

		default:
			return nil, fmt.Errorf("failed to look up user by email: %w", err)
		}

	default:
		return nil, fmt.Errorf("failed to look up user by google id: %w", err)
	}

	return s.respond(&user)
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	db := s.db.WithContext(ctx)
	email := normalizeEmail(req.Email)

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hashed := string(hash)

	user := models.User{
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: &hashed,
		Role:         s.initialRole(email),
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.respond(&user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.respond(&user)
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) respond(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.sessions.Issue(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{User: dto.NewUserResponse(user), Token: token}, nil
}

func (s *AuthService) initialRole(email string) string {
	if slices.Contains(s.adminEmails, normalizeEmail(email)) {
		return models.RoleAdmin
	}
	return models.RoleUser
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
