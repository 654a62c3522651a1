package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidGoogleToken = errors.New("invalid Google token")

var googleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

// GoogleIdentity is the subset of a Google ID token used for sign-in.
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// IdentityVerifier turns an OAuth credential into a verified identity.
type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (*GoogleIdentity, error)
}

type googleClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	jwt.RegisteredClaims
}

// GoogleVerifier checks Google ID tokens: RS256 signature against Google's
// published keys, expiry, issuer and audience. Audience mismatches are only
// fatal when strictAudience is set (production).
type GoogleVerifier struct {
	keyfunc        jwt.Keyfunc
	clientID       string
	strictAudience bool
	jwks           *keyfunc.JWKS
}

// NewGoogleVerifier fetches Google's JWKS and refreshes it in the background.
func NewGoogleVerifier(jwksURL, clientID string, strictAudience bool) (*GoogleVerifier, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			slog.Error("google jwks refresh failed", "error", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Google JWKS: %w", err)
	}
	v := NewGoogleVerifierWithKeys(jwks, clientID, strictAudience)
	v.jwks = jwks
	return v, nil
}

// NewGoogleVerifierWithKeys builds a verifier over an existing key set.
func NewGoogleVerifierWithKeys(jwks *keyfunc.JWKS, clientID string, strictAudience bool) *GoogleVerifier {
	return &GoogleVerifier{
		keyfunc:        jwks.Keyfunc,
		clientID:       clientID,
		strictAudience: strictAudience,
	}
}

// Close stops the background key refresh.
func (v *GoogleVerifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}

func (v *GoogleVerifier) Verify(_ context.Context, credential string) (*GoogleIdentity, error) {
	claims := &googleClaims{}
	token, err := jwt.ParseWithClaims(credential, claims, v.keyfunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGoogleToken, err)
	}

	if !slices.Contains(googleIssuers, claims.Issuer) {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidGoogleToken, claims.Issuer)
	}

	if !slices.Contains(claims.Audience, v.clientID) {
		if v.strictAudience {
			return nil, fmt.Errorf("%w: audience mismatch", ErrInvalidGoogleToken)
		}
		slog.Warn("google token audience mismatch", "audience", []string(claims.Audience))
	}

	if claims.Subject == "" || claims.Email == "" {
		return nil, fmt.Errorf("%w: missing subject or email", ErrInvalidGoogleToken)
	}

	return &GoogleIdentity{
		Subject:       claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
		Picture:       claims.Picture,
	}, nil
}
