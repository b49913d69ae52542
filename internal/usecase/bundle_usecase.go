package usecase

import (
	"context"
	"io"

	"concordia/internal/domain/bundle"
)

// BundleUsecase works on client-owned bundles without storing them.
type BundleUsecase interface {
	// Normalize migrates a stored bundle of any known version and validates it.
	Normalize(ctx context.Context, raw []byte) (*bundle.Bundle, error)

	// Report normalizes raw, writes it as a workbook and returns the bundle it rendered.
	Report(ctx context.Context, raw []byte, w io.Writer) (*bundle.Bundle, error)
}
