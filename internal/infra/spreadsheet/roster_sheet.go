// Package spreadsheet reads and writes xlsx workbooks with excelize.
package spreadsheet

import (
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"concordia/internal/domain/entity"
	"concordia/internal/domain/service"
	"concordia/internal/errors"
)

const (
	rosterSheetName = "Students"
	headerRow       = 1
)

// rosterColumns is the column layout of roster workbooks, in order.
var rosterColumns = []any{"sid", "name", "id", "level", "email"}

type rosterSheet struct {
	logger *slog.Logger
}

// NewRosterSheet returns the excelize implementation of service.RosterSheet.
func NewRosterSheet(logger *slog.Logger) service.RosterSheet {
	return &rosterSheet{logger: logger}
}

// Read returns every non-blank row of the first sheet after the header.
// Cells are trimmed; missing trailing cells read as empty.
func (s *rosterSheet) Read(r io.Reader) ([]service.RosterRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open workbook")
	}
	defer closeWorkbook(s.logger, f)

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("workbook does not contain any sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get rows from sheet %s", sheetName)
	}

	out := make([]service.RosterRow, 0, len(rows))
	for i, row := range rows {
		if i < headerRow {
			continue
		}

		cell := func(col int) string {
			if col < len(row) {
				return strings.TrimSpace(row[col])
			}

			return ""
		}

		parsed := service.RosterRow{
			Line:       i + 1,
			SID:        cell(0),
			Name:       cell(1),
			ExternalID: cell(2),
			Level:      cell(3),
			Email:      cell(4),
		}
		if parsed == (service.RosterRow{Line: i + 1}) {
			continue
		}
		out = append(out, parsed)
	}

	return out, nil
}

// Write renders students under a header row using the layout Read expects.
func (s *rosterSheet) Write(w io.Writer, students []*entity.Student) error {
	f := excelize.NewFile()
	defer closeWorkbook(s.logger, f)

	if err := f.SetSheetName(f.GetSheetName(0), rosterSheetName); err != nil {
		return errors.Wrap(err, "failed to name roster sheet")
	}
	if err := writeHeader(f, rosterSheetName, rosterColumns); err != nil {
		return err
	}

	for i, st := range students {
		values := []any{st.SID, st.Name, st.ExternalID, st.Level, st.Email}
		if err := writeRow(f, rosterSheetName, headerRow+1+i, values); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "failed to write roster workbook")
	}

	return nil
}

func closeWorkbook(logger *slog.Logger, f *excelize.File) {
	if err := f.Close(); err != nil && logger != nil {
		logger.Warn("Failed to close workbook", slog.Any("error", err))
	}
}

func writeHeader(f *excelize.File, sheet string, columns []any) error {
	if err := writeRow(f, sheet, headerRow, columns); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "failed to create header style")
	}
	if err := f.SetRowStyle(sheet, headerRow, headerRow, style); err != nil {
		return errors.Wrap(err, "failed to style header")
	}

	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Wrap(err, "invalid row")
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return errors.Wrapf(err, "failed to write row %d of %s", row, sheet)
	}

	return nil
}
