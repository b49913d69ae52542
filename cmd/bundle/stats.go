package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"concordia/internal/domain/bundle"
	"concordia/internal/errors"
	"concordia/internal/usecase"
)

type statsOptions struct {
	student string
	date    string
}

func newStatsCmd() *cobra.Command {
	var opts statsOptions

	cmd := &cobra.Command{
		Use:   "stats [file]",
		Short: "Summarize grades and attendance",
		Long: `Print grade, attendance and course counts of a bundle. With --student and
--date, print that student's mark for the day instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readBundleInput(cmd, args)
			if err != nil {
				return err
			}

			return runStats(cmd.Context(), newBundleService(cmd.ErrOrStderr()), raw, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.student, "student", "", "student name")
	cmd.Flags().StringVar(&opts.date, "date", "", "day as YYYY-MM-DD or today")
	addUserFlag(cmd)

	return cmd
}

func runStats(ctx context.Context, srv usecase.BundleUsecase, raw []byte, opts statsOptions, w io.Writer) error {
	b, err := srv.Normalize(ctx, raw)
	if err != nil {
		return err
	}

	if opts.student != "" || opts.date != "" {
		if opts.student == "" || opts.date == "" {
			return errors.New("--student and --date go together")
		}

		return printMark(b, opts, w)
	}

	failing := 0
	for _, g := range b.Notas {
		if g.Failing() {
			failing++
		}
	}

	fmt.Fprintf(w, "Grades: %d (%d failing)\n", len(b.Notas), failing)
	fmt.Fprintf(w, "Attendance: %d present, %d absent\n", b.CountAttendance(true), b.CountAttendance(false))
	fmt.Fprintf(w, "Courses: %d\n", len(b.Cursos))

	return nil
}

func printMark(b *bundle.Bundle, opts statsOptions, w io.Writer) error {
	day, err := parseDay(opts.date)
	if err != nil {
		return err
	}

	state := "not taken"
	if present := b.AttendanceOn(opts.student, day); present != nil {
		state = "absent"
		if *present {
			state = "present"
		}
	}

	fmt.Fprintf(w, "%s on %s: %s\n", opts.student, day.UTC().Format(bundle.DateLayout), state)

	return nil
}
