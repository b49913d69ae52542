package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"concordia/internal/domain/repository"
)

// newTestDB returns a migrated in-memory database private to the test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "data.sqlite?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate", sqliteDSN("data.sqlite"))
	assert.Equal(t, "file:x?mode=memory&_busy_timeout=5000", sqliteDSN("file:x?mode=memory"))
	assert.Equal(t, "file:x?mode=memory&_busy_timeout=10", sqliteDSN("file:x?mode=memory&_busy_timeout=10"))
	assert.Equal(t, "file:x?_busy_timeout=10&_journal_mode=WAL&_txlock=immediate", sqliteDSN("file:x?_busy_timeout=10"))
}

func TestOpenSQLite_PoolSize(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		maxOpen int
	}{
		{name: "memory", path: "file:" + uuid.NewString() + "?mode=memory&cache=shared", maxOpen: 1},
		{name: "file", path: filepath.Join(t.TempDir(), "pool.sqlite"), maxOpen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := OpenSQLite(tt.path)
			require.NoError(t, err)
			sqlDB, err := db.DB()
			require.NoError(t, err)
			defer sqlDB.Close()

			assert.Equal(t, tt.maxOpen, sqlDB.Stats().MaxOpenConnections)
		})
	}
}

func TestOpenSQLite_FileReadsDoNotWaitForTransactions(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "concurrent.sqlite"))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	ctx := context.Background()
	require.NoError(t, NewStudentRepository(db).Create(ctx, sampleStudent("s-1")))

	inTx := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- NewTransactionManager(db).Execute(ctx, func(f repository.RepositoryFactory) error {
			if err := f.StudentRepo().Create(ctx, sampleStudent("s-2")); err != nil {
				return err
			}
			close(inTx)
			<-release

			return nil
		})
	}()
	<-inTx

	listCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	students, err := NewStudentRepository(db).List(listCtx)
	require.NoError(t, err)
	assert.Len(t, students, 1, "uncommitted rows are not visible")

	close(release)
	require.NoError(t, <-done)

	students, err = NewStudentRepository(db).List(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 2)
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, Migrate(db))
	assert.True(t, db.Migrator().HasTable("users"))
	assert.True(t, db.Migrator().HasTable("students"))
}
