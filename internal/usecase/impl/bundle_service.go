package impl

import (
	"context"
	"io"
	"log/slog"

	"go.uber.org/fx"

	deliverycontext "concordia/internal/delivery/context"
	"concordia/internal/domain/bundle"
	domainerrors "concordia/internal/domain/errors"
	"concordia/internal/domain/service"
	"concordia/internal/errors"
	"concordia/internal/usecase"
)

// bundleService implements the BundleUsecase interface.
type bundleService struct {
	reportWriter service.BundleReportWriter
	logger       *slog.Logger
}

// BundleServiceParams holds dependencies for BundleService, injected by Fx.
type BundleServiceParams struct {
	fx.In

	ReportWriter service.BundleReportWriter
	Logger       *slog.Logger
}

// NewBundleService is the constructor for bundleService.
func NewBundleService(params BundleServiceParams) usecase.BundleUsecase {
	return &bundleService{
		reportWriter: params.ReportWriter,
		logger:       params.Logger,
	}
}

func (srv *bundleService) Normalize(ctx context.Context, raw []byte) (*bundle.Bundle, error) {
	b, err := bundle.Load(raw)
	if err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Debug("Bundle rejected", slog.Any("error", err))

		return nil, domainerrors.ErrInvalidBundle.WithDetails(err.Error())
	}

	return b, nil
}

func (srv *bundleService) Report(ctx context.Context, raw []byte, w io.Writer) (*bundle.Bundle, error) {
	b, err := srv.Normalize(ctx, raw)
	if err != nil {
		return nil, err
	}

	if err := srv.reportWriter.WriteReport(w, b); err != nil {
		return nil, errors.Wrap(err, "write bundle report failed")
	}

	return b, nil
}
