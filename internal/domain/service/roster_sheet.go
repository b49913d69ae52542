package service

import (
	"io"

	"concordia/internal/domain/entity"
)

// RosterRow is one parsed spreadsheet row before it becomes a Student.
type RosterRow struct {
	Line       int // 1-based sheet row
	SID        string
	Name       string
	ExternalID string
	Level      string
	Email      string
}

// RosterSheet converts between the roster and a workbook.
type RosterSheet interface {
	// Read parses the first sheet, skipping the header row.
	Read(r io.Reader) ([]RosterRow, error)

	// Write renders students with the same column layout Read accepts.
	Write(w io.Writer, students []*entity.Student) error
}
