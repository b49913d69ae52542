package impl

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/fx"

	deliverycontext "concordia/internal/delivery/context"
	"concordia/internal/domain/entity"
	domainerrors "concordia/internal/domain/errors"
	"concordia/internal/domain/repository"
	"concordia/internal/domain/service"
	"concordia/internal/errors"
	"concordia/internal/usecase"
)

const (
	skipReasonIncomplete = "missing name or level"
	skipReasonConflict   = "sid already exists"
)

// rosterService implements the RosterUsecase interface.
type rosterService struct {
	studentRepo repository.StudentRepository
	sheet       service.RosterSheet
	logger      *slog.Logger
}

// RosterServiceParams holds dependencies for RosterService, injected by Fx.
type RosterServiceParams struct {
	fx.In

	StudentRepo repository.StudentRepository
	Sheet       service.RosterSheet
	Logger      *slog.Logger
}

// NewRosterService is the constructor for rosterService.
func NewRosterService(params RosterServiceParams) usecase.RosterUsecase {
	return &rosterService{
		studentRepo: params.StudentRepo,
		sheet:       params.Sheet,
		logger:      params.Logger,
	}
}

func (srv *rosterService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *rosterService) ListStudents(ctx context.Context) ([]*entity.Student, error) {
	students, err := srv.studentRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list students failed")
	}

	return students, nil
}

func (srv *rosterService) AddStudent(ctx context.Context, student *entity.Student) error {
	if student == nil || strings.TrimSpace(student.SID) == "" {
		return domainerrors.ErrMissingSID
	}
	student.SID = strings.TrimSpace(student.SID)
	student.Normalize()

	if err := srv.studentRepo.Create(ctx, student); err != nil {
		if errors.Is(err, domainerrors.ErrStudentConflict) {
			srv.log(ctx).Info("Student not added, sid taken", slog.String("sid", student.SID))

			return err
		}

		return errors.Wrap(err, "add student failed")
	}

	srv.log(ctx).Info("Student added", slog.String("sid", student.SID))

	return nil
}

func (srv *rosterService) ReplaceStudent(ctx context.Context, sid string, student *entity.Student) error {
	sid = strings.TrimSpace(sid)
	if sid == "" {
		return domainerrors.ErrMissingSID
	}
	if student == nil {
		student = &entity.Student{}
	}
	student.SID = sid
	student.Normalize()

	if err := srv.studentRepo.Replace(ctx, student); err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return domainerrors.ErrStudentNotFound.WithDetails("sid=" + sid)
		}

		return errors.Wrap(err, "replace student failed")
	}

	srv.log(ctx).Info("Student replaced", slog.String("sid", sid))

	return nil
}

func (srv *rosterService) RemoveStudent(ctx context.Context, sid string) error {
	sid = strings.TrimSpace(sid)
	if sid == "" {
		return domainerrors.ErrMissingSID
	}

	if err := srv.studentRepo.Delete(ctx, sid); err != nil {
		return errors.Wrap(err, "remove student failed")
	}

	srv.log(ctx).Info("Student removed", slog.String("sid", sid))

	return nil
}

// ImportStudents adds every complete row of the workbook. Rows are stored one
// by one, so a conflict skips only that row.
func (srv *rosterService) ImportStudents(ctx context.Context, r io.Reader) (*usecase.ImportStudentsOutput, error) {
	rows, err := srv.sheet.Read(r)
	if err != nil {
		return nil, domainerrors.ErrInvalidSpreadsheet.WithDetails(err.Error())
	}

	out := &usecase.ImportStudentsOutput{Skipped: []usecase.SkippedRow{}}
	for _, row := range rows {
		if row.Name == "" || row.Level == "" {
			out.Skipped = append(out.Skipped, usecase.SkippedRow{Line: row.Line, SID: row.SID, Reason: skipReasonIncomplete})

			continue
		}

		sid := row.SID
		if sid == "" {
			sid = uuid.NewString()
		}

		student := &entity.Student{
			SID:        sid,
			Name:       row.Name,
			ExternalID: row.ExternalID,
			Level:      row.Level,
			Email:      row.Email,
		}
		student.Normalize()

		if err := srv.studentRepo.Create(ctx, student); err != nil {
			if errors.Is(err, domainerrors.ErrStudentConflict) {
				out.Skipped = append(out.Skipped, usecase.SkippedRow{Line: row.Line, SID: sid, Reason: skipReasonConflict})

				continue
			}

			return nil, errors.Wrapf(err, "import stopped at line %d", row.Line)
		}
		out.Imported++
	}

	srv.log(ctx).Info("Students imported",
		slog.Int("imported", out.Imported),
		slog.Int("skipped", len(out.Skipped)))

	return out, nil
}

func (srv *rosterService) ExportStudents(ctx context.Context, w io.Writer) error {
	students, err := srv.studentRepo.List(ctx)
	if err != nil {
		return errors.Wrap(err, "export students failed")
	}

	if err := srv.sheet.Write(w, students); err != nil {
		return errors.Wrap(err, "write roster workbook failed")
	}

	return nil
}
