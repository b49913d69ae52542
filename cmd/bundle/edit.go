package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"concordia/internal/domain/bundle"
	"concordia/internal/errors"
	"concordia/internal/usecase"
)

// editBundle loads the bundle at path (migrating it if needed), applies edit
// and writes it back. edit returns the line printed on success.
func editBundle(ctx context.Context, srv usecase.BundleUsecase, path string, stdout io.Writer, edit func(b *bundle.Bundle) (string, error)) error {
	raw, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "read %s", path)
	}

	b, err := srv.Normalize(ctx, raw)
	if err != nil {
		return err
	}

	msg, err := edit(b)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := writeBundle(f, b); err != nil {
		_ = f.Close()

		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close %s", path)
	}

	fmt.Fprintln(stdout, msg)

	return nil
}

// parseDay accepts YYYY-MM-DD or "today".
func parseDay(s string) (time.Time, error) {
	if s == "today" {
		return time.Now(), nil
	}

	day, err := time.Parse(bundle.DateLayout, s)
	if err != nil {
		return time.Time{}, errors.Errorf("date %q is not YYYY-MM-DD", s)
	}

	return day, nil
}

func newAttendCmd() *cobra.Command {
	var materia string

	cmd := &cobra.Command{
		Use:   "attend <file> <student> <date> present|absent",
		Short: "Record a student present or absent on a day",
		Long: `Record one attendance mark. A mark already taken for the student on that
day is replaced. The file is created when it does not exist.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(args[2])
			if err != nil {
				return err
			}

			var present bool
			switch strings.ToLower(args[3]) {
			case "present":
				present = true
			case "absent":
			default:
				return errors.Errorf("attendance must be present or absent, got %q", args[3])
			}

			srv := newBundleService(cmd.ErrOrStderr())

			return editBundle(cmd.Context(), srv, args[0], cmd.OutOrStdout(), func(b *bundle.Bundle) (string, error) {
				mark, err := b.RecordAttendance(args[1], materia, day, present)
				if err != nil {
					return "", err
				}

				return fmt.Sprintf("%s %s on %s (%s)", mark.Nombre, args[3], mark.Fecha, mark.Materia), nil
			})
		},
	}
	cmd.Flags().StringVar(&materia, "materia", "", "subject (default \""+bundle.DefaultSubject+"\")")

	return cmd
}

func newGradeCmd() *cobra.Command {
	var (
		id    string
		curso string
		sup   float64
	)

	cmd := &cobra.Command{
		Use:   "grade <file> <student> <p1> <p2> <p3> <ex>",
		Short: "Add or update a grade",
		Long: `Store a grade and its recomputed average. With --id the grade carrying that
id is replaced; otherwise a new grade is appended.`,
		Args: cobra.ExactArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			scores, err := parseScores(args[2:])
			if err != nil {
				return err
			}

			g := bundle.Grade{
				ID:     id,
				Nombre: args[1],
				Curso:  curso,
				P1:     scores[0],
				P2:     scores[1],
				P3:     scores[2],
				Ex:     scores[3],
			}
			if cmd.Flags().Changed("sup") && sup != 0 {
				g.Sup = &sup
			}

			srv := newBundleService(cmd.ErrOrStderr())

			return editBundle(cmd.Context(), srv, args[0], cmd.OutOrStdout(), func(b *bundle.Bundle) (string, error) {
				stored, err := b.UpsertGrade(g)
				if err != nil {
					return "", err
				}

				return fmt.Sprintf("%s %s %s (%s)", stored.Nombre, stored.Promedio, gradeState(stored.Failing()), stored.ID), nil
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "id of the grade to replace")
	cmd.Flags().StringVar(&curso, "curso", "", "course")
	cmd.Flags().Float64Var(&sup, "sup", 0, "supplementary exam grade")

	return cmd
}

func newUngradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ungrade <file> <id>",
		Short: "Remove a grade",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := newBundleService(cmd.ErrOrStderr())

			return editBundle(cmd.Context(), srv, args[0], cmd.OutOrStdout(), func(b *bundle.Bundle) (string, error) {
				if !b.RemoveGrade(args[1]) {
					return "", errors.Errorf("grade %s not found", args[1])
				}

				return "Removed grade " + args[1], nil
			})
		},
	}
}

func newCourseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "course <file> <name>",
		Short: "Add a course",
		Long:  `Add a course to the bundle. Names are unique ignoring case.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := newBundleService(cmd.ErrOrStderr())

			return editBundle(cmd.Context(), srv, args[0], cmd.OutOrStdout(), func(b *bundle.Bundle) (string, error) {
				added, err := b.AddCourse(args[1])
				if err != nil {
					return "", err
				}
				if !added {
					return fmt.Sprintf("Course %s already exists", strings.TrimSpace(args[1])), nil
				}

				return "Added course " + strings.TrimSpace(args[1]), nil
			})
		},
	}
}

func newForgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget <file> <student>",
		Short: "Drop every grade and mark of a student",
		Long: `Remove all grades and attendance marks recorded under a student name,
for instance after the student was removed from the roster.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := newBundleService(cmd.ErrOrStderr())

			return editBundle(cmd.Context(), srv, args[0], cmd.OutOrStdout(), func(b *bundle.Bundle) (string, error) {
				return fmt.Sprintf("Removed %d entries for %s", b.ForgetStudent(args[1]), args[1]), nil
			})
		},
	}
}
