package store

import (
	pgLib "github.com/slighter12/go-lib/database/postgres"
	"gorm.io/gorm"

	"concordia/config"
	"concordia/internal/errors"
)

func openPostgres(cfg *config.Config) (*gorm.DB, error) {
	db, err := pgLib.New(cfg.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create PostgreSQL client")
	}
	// Unique violations surface as gorm.ErrDuplicatedKey.
	db.TranslateError = true

	return db, nil
}
