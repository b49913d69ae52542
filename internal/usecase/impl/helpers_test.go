package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"concordia/internal/domain/entity"
	"concordia/internal/domain/service"
	"concordia/internal/infra/persistence/store"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := store.OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

type oauthServiceMock struct {
	mock.Mock
}

func (m *oauthServiceMock) VerifyIDToken(ctx context.Context, idToken string) (*service.OAuthUser, error) {
	args := m.Called(ctx, idToken)
	user, _ := args.Get(0).(*service.OAuthUser)

	return user, args.Error(1)
}

func (m *oauthServiceMock) GetProvider() entity.ProviderType {
	return entity.ProviderGoogle
}

type rosterSheetMock struct {
	mock.Mock
}

func (m *rosterSheetMock) Read(r io.Reader) ([]service.RosterRow, error) {
	args := m.Called(r)
	rows, _ := args.Get(0).([]service.RosterRow)

	return rows, args.Error(1)
}

func (m *rosterSheetMock) Write(w io.Writer, students []*entity.Student) error {
	return m.Called(w, students).Error(0)
}
