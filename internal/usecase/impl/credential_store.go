package impl

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"concordia/internal/domain/entity"
	domainerrors "concordia/internal/domain/errors"
	"concordia/internal/domain/repository"
	"concordia/internal/domain/service"
	"concordia/internal/errors"
)

const provisionedPasswordBytes = 32

// errPasswordMismatch stays inside this package; callers only ever see
// ErrInvalidCredentials.
var errPasswordMismatch = errors.New("password mismatch")

// credentialStore pairs credential persistence with password hashing.
// It takes the repository per call so it works inside and outside transactions.
type credentialStore struct {
	hasher service.PasswordHasher
}

func (s *credentialStore) create(ctx context.Context, repo repository.CredentialRepository, username, plaintext string) error {
	hash, err := s.hash(plaintext)
	if err != nil {
		return err
	}

	return s.insert(ctx, repo, username, hash)
}

// hash runs bcrypt. Call it before opening a transaction so the connection is
// not held while hashing.
func (s *credentialStore) hash(plaintext string) (string, error) {
	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	return hash, nil
}

func (s *credentialStore) insert(ctx context.Context, repo repository.CredentialRepository, username, passwordHash string) error {
	return repo.Create(ctx, &entity.Credential{
		Username:     username,
		PasswordHash: passwordHash,
	})
}

// verify returns nil, repository.ErrCredentialNotFound or errPasswordMismatch.
func (s *credentialStore) verify(ctx context.Context, repo repository.CredentialRepository, username, plaintext string) error {
	cred, err := repo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	if !s.hasher.Check(plaintext, cred.PasswordHash) {
		return errPasswordMismatch
	}

	return nil
}

// randomPassword returns a secret nobody is told, for accounts that only log in through Google.
func randomPassword() (string, error) {
	buf := make([]byte, provisionedPasswordBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "read random bytes")
	}

	return hex.EncodeToString(buf), nil
}
