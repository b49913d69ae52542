package repository

import (
	"context"
	"errors"

	"concordia/internal/domain/entity"
)

// ErrStudentNotFound is returned when a replace targets an unknown sid.
var ErrStudentNotFound = errors.New("student not found")

// StudentRepository defines the roster persistence operations.
type StudentRepository interface {
	// List returns every student. Unreadable payloads decode to an empty object.
	List(ctx context.Context) ([]*entity.Student, error)

	// Create inserts a student. An existing sid yields domainerrors.ErrStudentConflict
	// and leaves the stored record untouched.
	Create(ctx context.Context, student *entity.Student) error

	// Replace overwrites every column of the record identified by student.SID.
	Replace(ctx context.Context, student *entity.Student) error

	// Delete removes the record. Deleting an unknown sid is not an error.
	Delete(ctx context.Context, sid string) error
}
