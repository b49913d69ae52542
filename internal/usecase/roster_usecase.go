package usecase

import (
	"context"
	"io"

	"concordia/internal/domain/entity"
)

// SkippedRow explains why an imported spreadsheet row was not stored.
type SkippedRow struct {
	Line   int    `json:"line"`
	SID    string `json:"sid,omitempty"`
	Reason string `json:"reason"`
}

// ImportStudentsOutput summarises a spreadsheet import.
type ImportStudentsOutput struct {
	Imported int
	Skipped  []SkippedRow
}

// RosterUsecase defines the student roster operations.
type RosterUsecase interface {
	ListStudents(ctx context.Context) ([]*entity.Student, error)
	AddStudent(ctx context.Context, student *entity.Student) error

	// ReplaceStudent overwrites the whole record; the sid argument wins over student.SID.
	ReplaceStudent(ctx context.Context, sid string, student *entity.Student) error

	// RemoveStudent succeeds whether or not the sid exists.
	RemoveStudent(ctx context.Context, sid string) error

	ImportStudents(ctx context.Context, r io.Reader) (*ImportStudentsOutput, error)
	ExportStudents(ctx context.Context, w io.Writer) error
}
