package store

import (
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"concordia/config"
	"concordia/internal/errors"
)

const sqliteBusyTimeoutMillis = "5000"

func openSQLite(cfg *config.Config) (*gorm.DB, error) {
	db, err := OpenSQLite(cfg.SQLite.Path)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// OpenSQLite opens a SQLite database at path, which may also be a "file:" URI.
//
// In-memory databases get a single connection so every query sees the same
// database. File databases keep a pool: WAL lets readers run beside a writer,
// and transactions take the write lock on BEGIN so concurrent writers queue on
// the busy timeout instead of failing on lock upgrade.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(sqliteDSN(path)), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sqlite database %s", path)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sqlite sql.DB")
	}
	if isInMemorySQLite(path) {
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func isInMemorySQLite(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file::memory:") || strings.Contains(path, "mode=memory")
}

func sqliteDSN(path string) string {
	params := []string{}
	if !strings.Contains(path, "_busy_timeout") {
		params = append(params, "_busy_timeout="+sqliteBusyTimeoutMillis)
	}
	if !isInMemorySQLite(path) {
		if !strings.Contains(path, "_journal_mode") {
			params = append(params, "_journal_mode=WAL")
		}
		if !strings.Contains(path, "_txlock") {
			params = append(params, "_txlock=immediate")
		}
	}
	if len(params) == 0 {
		return path
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	return path + sep + strings.Join(params, "&")
}
