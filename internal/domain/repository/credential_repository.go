// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"concordia/internal/domain/entity"
)

// ErrCredentialNotFound is returned when no credential exists for a username.
var ErrCredentialNotFound = errors.New("credential not found")

// CredentialRepository persists login identities. There is no update or delete.
type CredentialRepository interface {
	// Create inserts a new credential. A taken username yields domainerrors.ErrUserAlreadyExists.
	Create(ctx context.Context, cred *entity.Credential) error

	// FindByUsername returns ErrCredentialNotFound when the username is unknown.
	FindByUsername(ctx context.Context, username string) (*entity.Credential, error)
}
