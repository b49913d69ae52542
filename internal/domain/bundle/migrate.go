package bundle

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"concordia/internal/errors"
)

// looseNumber accepts the shapes older clients wrote for numeric fields:
// a JSON number, a numeric string ("7.50") or null.
type looseNumber struct {
	value float64
	set   bool
}

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = looseNumber{}

		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = looseNumber{}

			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return errors.Wrapf(ErrInvalid, "%q is not a number", s)
		}
		*n = looseNumber{value: v, set: true}

		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return errors.Wrapf(ErrInvalid, "%s is not a number", data)
	}
	*n = looseNumber{value: v, set: true}

	return nil
}

type storedGrade struct {
	ID     string      `json:"id"`
	Nombre string      `json:"nombre"`
	Curso  string      `json:"curso"`
	P1     looseNumber `json:"p1"`
	P2     looseNumber `json:"p2"`
	P3     looseNumber `json:"p3"`
	Ex     looseNumber `json:"ex"`
	Sup    looseNumber `json:"sup"`
}

type storedBundle struct {
	Version  int           `json:"version"`
	Notas    []storedGrade `json:"notas"`
	Registro []Attendance  `json:"registro"`
	Cursos   []string      `json:"cursos"`
}

// Load reads a stored bundle of any known version and returns it migrated to
// CurrentVersion and validated. Empty input yields an empty bundle.
//
// Migration recomputes every average (older clients stored it as a string),
// drops a zero or missing supplementary exam, defaults the subject of
// attendance marks, keeps only the last mark per student and day, and
// deduplicates courses ignoring case.
func Load(raw []byte) (*Bundle, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return New(), nil
	}

	var stored storedBundle
	if err := json.Unmarshal(raw, &stored); err != nil {
		if errors.Is(err, ErrInvalid) {
			return nil, err
		}

		return nil, errors.Wrap(ErrInvalid, err.Error())
	}
	if stored.Version > CurrentVersion {
		return nil, errors.Wrapf(ErrInvalid, "unsupported version %d", stored.Version)
	}

	b := New()
	for _, sg := range stored.Notas {
		g := Grade{
			ID:     sg.ID,
			Nombre: strings.TrimSpace(sg.Nombre),
			Curso:  sg.Curso,
			P1:     sg.P1.value,
			P2:     sg.P2.value,
			P3:     sg.P3.value,
			Ex:     sg.Ex.value,
		}
		if sg.Sup.set && sg.Sup.value != 0 {
			sup := sg.Sup.value
			g.Sup = &sup
		}
		if g.ID == "" {
			g.ID = newID()
		}
		g.Recompute()
		b.Notas = append(b.Notas, g)
	}

	b.Registro = dedupeAttendance(stored.Registro)
	b.Cursos = dedupeCourses(stored.Cursos)

	if err := b.Validate(); err != nil {
		return nil, err
	}

	return b, nil
}

// FromStorageDump returns the raw bundle of username from a dump of the
// client's key/value storage. Values are usually JSON-encoded strings; an
// embedded object is accepted too. A missing key yields an empty bundle.
func FromStorageDump(dump []byte, username string) ([]byte, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(dump, &entries); err != nil {
		return nil, errors.Wrap(ErrInvalid, "storage dump is not a JSON object")
	}

	value, ok := entries[StorageKey(username)]
	if !ok {
		return nil, nil
	}

	var encoded string
	if err := json.Unmarshal(value, &encoded); err == nil {
		return []byte(encoded), nil
	}

	return value, nil
}

// dedupeAttendance keeps the last mark for every (nombre, fecha) pair.
func dedupeAttendance(marks []Attendance) []Attendance {
	last := make(map[string]int, len(marks))
	for i := range marks {
		marks[i].Nombre = strings.TrimSpace(marks[i].Nombre)
		last[marks[i].Nombre+"\x00"+marks[i].Fecha] = i
	}

	out := make([]Attendance, 0, len(last))
	for i, m := range marks {
		if last[m.Nombre+"\x00"+m.Fecha] != i {
			continue
		}
		if strings.TrimSpace(m.Materia) == "" {
			m.Materia = DefaultSubject
		}
		if m.ID == "" {
			m.ID = newID()
		}
		out = append(out, m)
	}

	return out
}

func dedupeCourses(courses []string) []string {
	seen := make(map[string]struct{}, len(courses))
	out := make([]string, 0, len(courses))
	for _, c := range courses {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)

	return out
}
