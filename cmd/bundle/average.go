package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"concordia/internal/domain/bundle"
	"concordia/internal/errors"
)

func newAverageCmd() *cobra.Command {
	var sup float64

	cmd := &cobra.Command{
		Use:   "average <p1> <p2> <p3> <ex>",
		Short: "Compute a grade average",
		Long: `Average three partial grades and the final exam. When --sup is given and
not zero, the supplementary exam replaces the final exam.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			var supPtr *float64
			if cmd.Flags().Changed("sup") && sup != 0 {
				supPtr = &sup
			}

			return runAverage(args, supPtr, cmd.OutOrStdout())
		},
	}
	cmd.Flags().Float64Var(&sup, "sup", 0, "supplementary exam grade")

	return cmd
}

func runAverage(args []string, sup *float64, w io.Writer) error {
	scores, err := parseScores(args)
	if err != nil {
		return err
	}

	avg := bundle.ComputeAverage(scores[0], scores[1], scores[2], scores[3], sup)
	fmt.Fprintf(w, "%s %s\n", avg, gradeState(bundle.IsFailing(avg)))

	return nil
}

func parseScores(args []string) ([]float64, error) {
	scores := make([]float64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "grade %q is not a number", arg)
		}
		scores[i] = v
	}

	return scores, nil
}

func gradeState(failing bool) string {
	if failing {
		return "reprobado"
	}

	return "aprobado"
}
