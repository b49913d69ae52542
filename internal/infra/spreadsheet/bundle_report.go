package spreadsheet

import (
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"concordia/internal/domain/bundle"
	"concordia/internal/domain/service"
	"concordia/internal/errors"
)

const (
	gradesSheetName     = "Notas"
	attendanceSheetName = "Asistencia"
)

var (
	gradeColumns      = []any{"nombre", "curso", "p1", "p2", "p3", "ex", "sup", "promedio", "estado"}
	attendanceColumns = []any{"nombre", "materia", "fecha", "asistencia"}
)

type bundleReport struct {
	logger *slog.Logger
}

// NewBundleReportWriter returns the excelize implementation of service.BundleReportWriter.
func NewBundleReportWriter(logger *slog.Logger) service.BundleReportWriter {
	return &bundleReport{logger: logger}
}

// WriteReport renders grades and attendance on two sheets.
func (s *bundleReport) WriteReport(w io.Writer, b *bundle.Bundle) error {
	f := excelize.NewFile()
	defer closeWorkbook(s.logger, f)

	if err := f.SetSheetName(f.GetSheetName(0), gradesSheetName); err != nil {
		return errors.Wrap(err, "failed to name grades sheet")
	}
	if _, err := f.NewSheet(attendanceSheetName); err != nil {
		return errors.Wrap(err, "failed to create attendance sheet")
	}

	if err := writeHeader(f, gradesSheetName, gradeColumns); err != nil {
		return err
	}
	for i, g := range b.Notas {
		var sup any
		if g.Sup != nil {
			sup = *g.Sup
		}
		status := "aprobado"
		if g.Failing() {
			status = "reprobado"
		}

		values := []any{g.Nombre, g.Curso, g.P1, g.P2, g.P3, g.Ex, sup, float64(g.Promedio), status}
		if err := writeRow(f, gradesSheetName, headerRow+1+i, values); err != nil {
			return err
		}
	}

	if err := writeHeader(f, attendanceSheetName, attendanceColumns); err != nil {
		return err
	}
	for i, r := range b.Registro {
		status := "ausente"
		if r.Asistencia {
			status = "presente"
		}

		values := []any{r.Nombre, r.Materia, r.Fecha, status}
		if err := writeRow(f, attendanceSheetName, headerRow+1+i, values); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "failed to write bundle report")
	}

	return nil
}
