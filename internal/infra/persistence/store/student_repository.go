package store

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"

	"concordia/internal/domain/entity"
	domainerrors "concordia/internal/domain/errors"
	"concordia/internal/domain/repository"
	"concordia/internal/errors"
	"concordia/internal/infra/persistence/model"
)

const emptyPayload = "{}"

// studentRepository implements repository.StudentRepository using GORM.
type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository is the constructor for studentRepository.
func NewStudentRepository(db *gorm.DB) repository.StudentRepository {
	return &studentRepository{db: db}
}

// List returns the roster in insertion order.
func (repo *studentRepository) List(ctx context.Context) ([]*entity.Student, error) {
	var rows []model.StudentModel

	if err := repo.db.WithContext(ctx).Order("created_at").Order("sid").Find(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "list students")
	}

	students := make([]*entity.Student, 0, len(rows))
	for i := range rows {
		students = append(students, toStudentDomain(&rows[i]))
	}

	return students, nil
}

// Create inserts a new student. An existing sid is reported as a conflict and
// the stored record is left untouched.
func (repo *studentRepository) Create(ctx context.Context, student *entity.Student) error {
	studentM, err := fromStudentDomain(student)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(studentM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrStudentConflict.WithDetails("sid=" + student.SID)
		}

		return domainerrors.NewDatabaseExecuteError(err, "create student")
	}

	return nil
}

// Replace overwrites every column of an existing student.
func (repo *studentRepository) Replace(ctx context.Context, student *entity.Student) error {
	studentM, err := fromStudentDomain(student)
	if err != nil {
		return err
	}

	// A map is used so empty strings overwrite the stored values.
	result := repo.db.WithContext(ctx).
		Model(&model.StudentModel{}).
		Where("sid = ?", student.SID).
		Updates(map[string]any{
			"name":       studentM.Name,
			"student_id": studentM.StudentID,
			"level":      studentM.Level,
			"email":      studentM.Email,
			"attendance": studentM.Attendance,
			"grades":     studentM.Grades,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "replace student")
	}
	if result.RowsAffected == 0 {
		return repository.ErrStudentNotFound
	}

	return nil
}

// Delete removes a student; an unknown sid is not an error.
func (repo *studentRepository) Delete(ctx context.Context, sid string) error {
	err := repo.db.WithContext(ctx).Where("sid = ?", sid).Delete(&model.StudentModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "delete student")
	}

	return nil
}

func fromStudentDomain(student *entity.Student) (*model.StudentModel, error) {
	attendance, err := encodePayload(student.Attendance)
	if err != nil {
		return nil, errors.Wrap(err, "encode attendance")
	}
	grades, err := encodePayload(student.Grades)
	if err != nil {
		return nil, errors.Wrap(err, "encode grades")
	}

	return &model.StudentModel{
		SID:        student.SID,
		Name:       student.Name,
		StudentID:  student.ExternalID,
		Level:      student.Level,
		Email:      student.Email,
		Attendance: attendance,
		Grades:     grades,
	}, nil
}

func toStudentDomain(studentM *model.StudentModel) *entity.Student {
	return &entity.Student{
		SID:        studentM.SID,
		Name:       studentM.Name,
		ExternalID: studentM.StudentID,
		Level:      studentM.Level,
		Email:      studentM.Email,
		Attendance: decodePayload(studentM.Attendance),
		Grades:     decodePayload(studentM.Grades),
	}
}

func encodePayload(v any) (string, error) {
	if v == nil {
		return emptyPayload, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(raw) == "null" {
		return emptyPayload, nil
	}

	return string(raw), nil
}

// decodePayload never fails: blank, null or unreadable text becomes an empty object.
func decodePayload(raw string) any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return entity.EmptyPayload()
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return entity.EmptyPayload()
	}

	return v
}
