// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// ProviderType names where an identity was asserted.
type ProviderType string

const (
	ProviderPassword ProviderType = "password"
	ProviderGoogle   ProviderType = "google"
)

// Credential is a login identity. The username is the unique, case-sensitive key.
// Accounts provisioned through Google carry a random hash nobody knows the plaintext of.
type Credential struct {
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
