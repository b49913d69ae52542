package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"concordia/internal/delivery/http/response"
	"concordia/internal/domain/entity"
	domainerrors "concordia/internal/domain/errors"
	"concordia/internal/errors"
	"concordia/internal/usecase"
)

const (
	importFormField = "file"
	exportFilename  = "students.xlsx"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// StudentHandlerParams holds dependencies for StudentHandler, injected by Fx.
type StudentHandlerParams struct {
	fx.In

	RosterUC usecase.RosterUsecase
	Logger   *slog.Logger
}

// StudentHandler serves the roster. Every route sits behind the auth middleware.
type StudentHandler struct {
	rosterUC usecase.RosterUsecase
	logger   *slog.Logger
}

func NewStudentHandler(params StudentHandlerParams) *StudentHandler {
	return &StudentHandler{
		rosterUC: params.RosterUC,
		logger:   params.Logger,
	}
}

// studentPayload is the wire form of a roster record.
type studentPayload struct {
	SID        string `json:"sid" validate:"required"`
	Name       string `json:"name"`
	ID         string `json:"id"`
	Level      string `json:"level"`
	Email      string `json:"email"`
	Attendance any    `json:"attendance"`
	Grades     any    `json:"grades"`
}

func (p *studentPayload) toEntity() *entity.Student {
	return &entity.Student{
		SID:        p.SID,
		Name:       p.Name,
		ExternalID: p.ID,
		Level:      p.Level,
		Email:      p.Email,
		Attendance: p.Attendance,
		Grades:     p.Grades,
	}
}

func fromEntity(s *entity.Student) studentPayload {
	return studentPayload{
		SID:        s.SID,
		Name:       s.Name,
		ID:         s.ExternalID,
		Level:      s.Level,
		Email:      s.Email,
		Attendance: s.Attendance,
		Grades:     s.Grades,
	}
}

// ListStudents handles GET /api/students. The body is a bare array.
func (h *StudentHandler) ListStudents(c echo.Context) error {
	students, err := h.rosterUC.ListStudents(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	out := make([]studentPayload, 0, len(students))
	for _, s := range students {
		out = append(out, fromEntity(s))
	}

	return response.Data(c, http.StatusOK, out)
}

// AddStudent handles POST /api/students.
func (h *StudentHandler) AddStudent(c echo.Context) error {
	var req studentPayload
	if err := c.Bind(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := c.Validate(&req); err != nil {
		return domainerrors.ErrMissingSID
	}

	if err := h.rosterUC.AddStudent(c.Request().Context(), req.toEntity()); err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, http.StatusOK, nil)
}

// ReplaceStudent handles PUT /api/students/:sid. The path sid wins over the body.
func (h *StudentHandler) ReplaceStudent(c echo.Context) error {
	var req studentPayload
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return errors.WithStack(err)
	}

	if err := h.rosterUC.ReplaceStudent(c.Request().Context(), c.Param("sid"), req.toEntity()); err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, http.StatusOK, nil)
}

// RemoveStudent handles DELETE /api/students/:sid.
func (h *StudentHandler) RemoveStudent(c echo.Context) error {
	if err := h.rosterUC.RemoveStudent(c.Request().Context(), c.Param("sid")); err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, http.StatusOK, nil)
}

// ImportStudents handles POST /api/students/import with a multipart "file" workbook.
func (h *StudentHandler) ImportStudents(c echo.Context) error {
	fileHeader, err := c.FormFile(importFormField)
	if err != nil {
		return domainerrors.ErrInvalidSpreadsheet.WithDetails("missing multipart field " + importFormField)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errors.Wrap(err, "open uploaded workbook")
	}
	defer file.Close()

	out, err := h.rosterUC.ImportStudents(c.Request().Context(), file)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, http.StatusOK, map[string]any{
		"imported": out.Imported,
		"skipped":  out.Skipped,
	})
}

// ExportStudents handles GET /api/students/export.
func (h *StudentHandler) ExportStudents(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.rosterUC.ExportStudents(c.Request().Context(), &buf); err != nil {
		return errors.WithStack(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+exportFilename+`"`)

	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
