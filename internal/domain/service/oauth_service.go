package service

import (
	"context"
	"errors"

	"concordia/internal/domain/entity"
)

var (
	// ErrInvalidIDToken covers bad signatures, wrong audience or issuer and expiry.
	ErrInvalidIDToken = errors.New("invalid id token")
	// ErrIDTokenMissingEmail is returned for a valid token that carries no email claim.
	ErrIDTokenMissingEmail = errors.New("id token missing email")
)

// OAuthUser represents user information from OAuth providers
type OAuthUser struct {
	ID            string              // Provider-specific user ID (Google's 'sub' claim)
	Email         string              // User's email address
	Name          string              // Display name, falls back to the email
	Provider      entity.ProviderType // The OAuth provider
	AvatarURL     string
	EmailVerified bool
}

// OAuthAuthService defines the interface for ID token verification.
type OAuthAuthService interface {
	// VerifyIDToken verifies an OAuth ID token and returns user information
	VerifyIDToken(ctx context.Context, idToken string) (*OAuthUser, error)

	// GetProvider returns the OAuth provider type
	GetProvider() entity.ProviderType
}
