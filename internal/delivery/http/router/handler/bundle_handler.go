package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"concordia/internal/delivery/http/response"
	domainerrors "concordia/internal/domain/errors"
	"concordia/internal/errors"
	"concordia/internal/usecase"
)

// BundleHandlerParams holds dependencies for BundleHandler, injected by Fx.
type BundleHandlerParams struct {
	fx.In

	BundleUC usecase.BundleUsecase
	Logger   *slog.Logger
}

// BundleHandler migrates client bundles without storing them.
type BundleHandler struct {
	bundleUC usecase.BundleUsecase
	logger   *slog.Logger
}

func NewBundleHandler(params BundleHandlerParams) *BundleHandler {
	return &BundleHandler{
		bundleUC: params.BundleUC,
		logger:   params.Logger,
	}
}

// Normalize handles POST /api/bundle/normalize and returns the migrated bundle.
func (h *BundleHandler) Normalize(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return domainerrors.ErrInvalidBundle.WithDetails(err.Error())
	}

	b, err := h.bundleUC.Normalize(c.Request().Context(), raw)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Data(c, http.StatusOK, b)
}
