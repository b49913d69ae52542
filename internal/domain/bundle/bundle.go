// Package bundle models the per-user attendance and grade document the browser
// client keeps in its own storage. The server never persists it; it only
// migrates, validates and reports on it.
package bundle

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"concordia/internal/errors"
)

const (
	// CurrentVersion is the schema version Load produces.
	CurrentVersion = 1

	// DefaultSubject is recorded when attendance is taken without a subject.
	DefaultSubject = "General"

	// DateLayout is the attendance date format.
	DateLayout = "2006-01-02"

	storageKeyPrefix = "userData-"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid bundle")

// Attendance is one attendance mark. At most one exists per (Nombre, Fecha).
type Attendance struct {
	ID         string `json:"id"`
	Nombre     string `json:"nombre"`
	Materia    string `json:"materia"`
	Fecha      string `json:"fecha"`
	Asistencia bool   `json:"asistencia"`
}

// Bundle is the versioned per-user document.
type Bundle struct {
	Version  int          `json:"version"`
	Notas    []Grade      `json:"notas"`
	Registro []Attendance `json:"registro"`
	Cursos   []string     `json:"cursos"`
}

// New returns an empty bundle at the current version.
func New() *Bundle {
	return &Bundle{
		Version:  CurrentVersion,
		Notas:    []Grade{},
		Registro: []Attendance{},
		Cursos:   []string{},
	}
}

// StorageKey is the client storage key holding username's bundle.
func StorageKey(username string) string {
	return storageKeyPrefix + username
}

func newID() string {
	return "id-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}

// RecordAttendance marks nombre present or absent on date, replacing any mark
// already recorded for that student and day. The new mark goes last.
func (b *Bundle) RecordAttendance(nombre, materia string, date time.Time, present bool) (Attendance, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return Attendance{}, errors.Wrap(ErrInvalid, "attendance requires a student name")
	}
	if strings.TrimSpace(materia) == "" {
		materia = DefaultSubject
	}

	fecha := date.UTC().Format(DateLayout)
	kept := b.Registro[:0]
	for _, r := range b.Registro {
		if r.Nombre == nombre && r.Fecha == fecha {
			continue
		}
		kept = append(kept, r)
	}

	mark := Attendance{
		ID:         newID(),
		Nombre:     nombre,
		Materia:    materia,
		Fecha:      fecha,
		Asistencia: present,
	}
	b.Registro = append(kept, mark)

	return mark, nil
}

// AttendanceOn returns the mark of nombre on date, or nil when none was taken.
func (b *Bundle) AttendanceOn(nombre string, date time.Time) *bool {
	fecha := date.UTC().Format(DateLayout)
	for _, r := range b.Registro {
		if r.Nombre == nombre && r.Fecha == fecha {
			present := r.Asistencia

			return &present
		}
	}

	return nil
}

// CountAttendance counts marks equal to present.
func (b *Bundle) CountAttendance(present bool) int {
	n := 0
	for _, r := range b.Registro {
		if r.Asistencia == present {
			n++
		}
	}

	return n
}

// UpsertGrade recomputes the average and stores g. A grade without an id, or
// with an id not present yet, is appended.
func (b *Bundle) UpsertGrade(g Grade) (Grade, error) {
	g.Nombre = strings.TrimSpace(g.Nombre)
	if g.Nombre == "" {
		return Grade{}, errors.Wrap(ErrInvalid, "grade requires a student name")
	}
	if g.ID == "" {
		g.ID = newID()
	}
	g.Recompute()

	for i := range b.Notas {
		if b.Notas[i].ID == g.ID {
			b.Notas[i] = g

			return g, nil
		}
	}
	b.Notas = append(b.Notas, g)

	return g, nil
}

// RemoveGrade deletes the grade with id and reports whether it existed.
func (b *Bundle) RemoveGrade(id string) bool {
	for i := range b.Notas {
		if b.Notas[i].ID == id {
			b.Notas = append(b.Notas[:i], b.Notas[i+1:]...)

			return true
		}
	}

	return false
}

// AddCourse adds a course unless one with the same name, ignoring case, exists.
// Courses stay sorted.
func (b *Bundle) AddCourse(name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, errors.Wrap(ErrInvalid, "course name is empty")
	}
	for _, c := range b.Cursos {
		if strings.EqualFold(c, name) {
			return false, nil
		}
	}

	b.Cursos = append(b.Cursos, name)
	sort.Strings(b.Cursos)

	return true, nil
}

// ForgetStudent drops every grade and attendance mark recorded under nombre.
// It returns how many entries were removed.
func (b *Bundle) ForgetStudent(nombre string) int {
	removed := 0

	notas := b.Notas[:0]
	for _, g := range b.Notas {
		if g.Nombre == nombre {
			removed++

			continue
		}
		notas = append(notas, g)
	}
	b.Notas = notas

	registro := b.Registro[:0]
	for _, r := range b.Registro {
		if r.Nombre == nombre {
			removed++

			continue
		}
		registro = append(registro, r)
	}
	b.Registro = registro

	return removed
}

// Validate checks the invariants Load enforces.
func (b *Bundle) Validate() error {
	if b.Version != CurrentVersion {
		return errors.Wrapf(ErrInvalid, "unsupported version %d", b.Version)
	}

	for i, g := range b.Notas {
		if strings.TrimSpace(g.Nombre) == "" {
			return errors.Wrapf(ErrInvalid, "notas[%d]: missing nombre", i)
		}
	}

	seen := make(map[string]struct{}, len(b.Registro))
	for i, r := range b.Registro {
		if strings.TrimSpace(r.Nombre) == "" {
			return errors.Wrapf(ErrInvalid, "registro[%d]: missing nombre", i)
		}
		if _, err := time.Parse(DateLayout, r.Fecha); err != nil {
			return errors.Wrapf(ErrInvalid, "registro[%d]: fecha %q is not YYYY-MM-DD", i, r.Fecha)
		}
		key := r.Nombre + "\x00" + r.Fecha
		if _, dup := seen[key]; dup {
			return errors.Wrapf(ErrInvalid, "registro[%d]: duplicate mark for %s on %s", i, r.Nombre, r.Fecha)
		}
		seen[key] = struct{}{}
	}

	return nil
}
