package store

import (
	"context"

	"gorm.io/gorm"

	"concordia/internal/domain/entity"
	domainerrors "concordia/internal/domain/errors"
	"concordia/internal/domain/repository"
	"concordia/internal/errors"
	"concordia/internal/infra/persistence/model"
)

// credentialRepository implements repository.CredentialRepository using GORM.
type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository is the constructor for credentialRepository.
func NewCredentialRepository(db *gorm.DB) repository.CredentialRepository {
	return &credentialRepository{db: db}
}

// Create inserts a credential. A taken username maps to ErrUserAlreadyExists.
func (repo *credentialRepository) Create(ctx context.Context, cred *entity.Credential) error {
	credM := fromCredentialDomain(cred)

	if err := repo.db.WithContext(ctx).Create(credM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("username already registered")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrMissingFields.WrapMessage("missing required credential information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "create credential")
	}

	cred.CreatedAt = credM.CreatedAt

	return nil
}

// FindByUsername looks up a credential by its exact username.
func (repo *credentialRepository) FindByUsername(ctx context.Context, username string) (*entity.Credential, error) {
	var credM model.CredentialModel

	err := repo.db.WithContext(ctx).Where("username = ?", username).Take(&credM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCredentialNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "find credential by username")
	}

	return toCredentialDomain(&credM), nil
}

func fromCredentialDomain(cred *entity.Credential) *model.CredentialModel {
	return &model.CredentialModel{
		Username:     cred.Username,
		PasswordHash: cred.PasswordHash,
		CreatedAt:    cred.CreatedAt,
	}
}

func toCredentialDomain(credM *model.CredentialModel) *entity.Credential {
	return &entity.Credential{
		Username:     credM.Username,
		PasswordHash: credM.PasswordHash,
		CreatedAt:    credM.CreatedAt,
	}
}
