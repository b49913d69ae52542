package bundle

import (
	"math"
	"strconv"
)

// FailingThreshold is the average below which a grade is flagged. Display only.
const FailingThreshold = 7.0

// Average is a grade average rounded to two decimals.
// It marshals with exactly two decimals ("7.50") and stays a JSON number.
type Average float64

func (a Average) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(a), 'f', 2, 64)), nil
}

// String renders the average the way the client displays it.
func (a Average) String() string {
	return strconv.FormatFloat(float64(a), 'f', 2, 64)
}

// ComputeAverage applies the grading rule: the supplementary exam, when present,
// replaces the final exam, and the four components are averaged.
func ComputeAverage(p1, p2, p3, ex float64, sup *float64) Average {
	final := ex
	if sup != nil {
		final = *sup
	}

	return Average(round2((p1 + p2 + p3 + final) / 4))
}

// IsFailing reports whether avg is below FailingThreshold.
func IsFailing(avg Average) bool {
	return float64(avg) < FailingThreshold
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Grade is one grade record of a student in a course.
type Grade struct {
	ID       string   `json:"id"`
	Nombre   string   `json:"nombre"`
	Curso    string   `json:"curso"`
	P1       float64  `json:"p1"`
	P2       float64  `json:"p2"`
	P3       float64  `json:"p3"`
	Ex       float64  `json:"ex"`
	Sup      *float64 `json:"sup"`
	Promedio Average  `json:"promedio"`
}

// Recompute refreshes Promedio from the components.
func (g *Grade) Recompute() {
	g.Promedio = ComputeAverage(g.P1, g.P2, g.P3, g.Ex, g.Sup)
}

func (g Grade) Failing() bool {
	return IsFailing(g.Promedio)
}
