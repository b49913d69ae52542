package impl

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"concordia/internal/domain/bundle"
	domainerrors "concordia/internal/domain/errors"
	"concordia/internal/errors"
)

type reportWriterMock struct {
	mock.Mock
}

func (m *reportWriterMock) WriteReport(w io.Writer, b *bundle.Bundle) error {
	return m.Called(w, b).Error(0)
}

func TestBundleService_Normalize(t *testing.T) {
	srv := NewBundleService(BundleServiceParams{ReportWriter: &reportWriterMock{}, Logger: newDiscardLogger()})

	b, err := srv.Normalize(context.Background(), []byte(`{"notas":[{"id":"g1","nombre":"Ana","p1":"8","p2":7,"p3":9,"ex":6,"sup":0}]}`))
	require.NoError(t, err)
	assert.Equal(t, bundle.CurrentVersion, b.Version)
	require.Len(t, b.Notas, 1)
	assert.Nil(t, b.Notas[0].Sup)
	assert.Equal(t, "7.50", b.Notas[0].Promedio.String())

	_, err = srv.Normalize(context.Background(), []byte(`{"version":99}`))
	assert.ErrorIs(t, err, domainerrors.ErrInvalidBundle)

	_, err = srv.Normalize(context.Background(), []byte(`not json`))
	assert.ErrorIs(t, err, domainerrors.ErrInvalidBundle)
}

func TestBundleService_Report(t *testing.T) {
	writer := &reportWriterMock{}
	srv := NewBundleService(BundleServiceParams{ReportWriter: writer, Logger: newDiscardLogger()})

	var buf bytes.Buffer
	writer.On("WriteReport", &buf, mock.AnythingOfType("*bundle.Bundle")).Return(nil).Once()
	b, err := srv.Report(context.Background(), []byte(`{"cursos":["3A"]}`), &buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"3A"}, b.Cursos)

	writer.On("WriteReport", &buf, mock.Anything).Return(errors.New("disk full")).Once()
	_, err = srv.Report(context.Background(), []byte(`{}`), &buf)
	assert.Error(t, err)

	_, err = srv.Report(context.Background(), []byte(`{"version":99}`), &buf)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidBundle)

	writer.AssertExpectations(t)
}
