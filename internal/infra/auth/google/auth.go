// Package google verifies Google Sign-In ID tokens.
package google

import (
	"context"
	"log/slog"
	"strings"

	"google.golang.org/api/idtoken"

	"concordia/config"
	"concordia/internal/domain/entity"
	"concordia/internal/domain/service"
	"concordia/internal/errors"
)

// validateFunc matches idtoken.Validate. Tests replace it to avoid fetching Google's keys.
type validateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// AuthServiceImpl implements service.OAuthAuthService for Google
type AuthServiceImpl struct {
	clientID string
	logger   *slog.Logger
	validate validateFunc
}

// NewAuthService creates a new Google AuthService
func NewAuthService(cfg *config.Config, logger *slog.Logger) service.OAuthAuthService {
	return newAuthService(cfg.GoogleOAuth.ClientID, logger, idtoken.Validate)
}

func newAuthService(clientID string, logger *slog.Logger, validate validateFunc) *AuthServiceImpl {
	return &AuthServiceImpl{
		clientID: clientID,
		logger:   logger,
		validate: validate,
	}
}

// VerifyIDToken checks signature, audience and expiry through Google's published
// keys, then the issuer and the email claims.
func (s *AuthServiceImpl) VerifyIDToken(ctx context.Context, idToken string) (*service.OAuthUser, error) {
	payload, err := s.validate(ctx, idToken, s.clientID)
	if err != nil {
		s.logger.WarnContext(ctx, "Google ID token rejected", slog.Any("error", err))

		return nil, errors.Wrap(service.ErrInvalidIDToken, err.Error())
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		s.logger.WarnContext(ctx, "Google ID token has unexpected issuer", slog.String("issuer", payload.Issuer))

		return nil, errors.Wrapf(service.ErrInvalidIDToken, "invalid issuer: %s", payload.Issuer)
	}

	// email_verified is only enforced when present
	emailVerified := true
	if v, ok := payload.Claims["email_verified"].(bool); ok {
		emailVerified = v
	}
	if !emailVerified {
		return nil, errors.Wrap(service.ErrInvalidIDToken, "email not verified")
	}

	email := strings.TrimSpace(claimString(payload.Claims, "email"))
	if email == "" {
		return nil, service.ErrIDTokenMissingEmail
	}

	name := strings.TrimSpace(claimString(payload.Claims, "name"))
	if name == "" {
		name = email
	}

	oauthUser := &service.OAuthUser{
		ID:            payload.Subject,
		Email:         email,
		Name:          name,
		Provider:      entity.ProviderGoogle,
		AvatarURL:     claimString(payload.Claims, "picture"),
		EmailVerified: emailVerified,
	}

	s.logger.DebugContext(ctx, "Google ID token verified",
		slog.String("sub", oauthUser.ID),
		slog.String("email", oauthUser.Email))

	return oauthUser, nil
}

// GetProvider returns the OAuth provider type
func (s *AuthServiceImpl) GetProvider() entity.ProviderType {
	return entity.ProviderGoogle
}

func claimString(claims map[string]any, key string) string {
	v, _ := claims[key].(string)

	return v
}
