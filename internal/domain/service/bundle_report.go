package service

import (
	"io"

	"concordia/internal/domain/bundle"
)

// BundleReportWriter renders a bundle as a workbook with grade and attendance sheets.
type BundleReportWriter interface {
	WriteReport(w io.Writer, b *bundle.Bundle) error
}
