// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import "context"

// --- Input DTOs ---

// CredentialsInput carries a username and a plaintext password.
type CredentialsInput struct {
	Username string
	Password string
}

// IDTokenLoginInput carries a Google Sign-In ID token.
type IDTokenLoginInput struct {
	IDToken string
}

// --- Output DTOs ---

// SessionOutput is returned by every successful authentication.
type SessionOutput struct {
	Username string
	Token    string
}

// AuthUsecase defines authentication and session operations.
type AuthUsecase interface {
	Register(ctx context.Context, input *CredentialsInput) (*SessionOutput, error)
	Login(ctx context.Context, input *CredentialsInput) (*SessionOutput, error)
	LoginWithIDToken(ctx context.Context, input *IDTokenLoginInput) (*SessionOutput, error)

	// VerifySession returns the username a session token was issued to.
	VerifySession(ctx context.Context, token string) (string, error)

	// EnsureAccount creates the account unless the username is taken and reports whether it did.
	EnsureAccount(ctx context.Context, input *CredentialsInput) (bool, error)
}
