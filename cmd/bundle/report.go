package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"concordia/internal/errors"
	"concordia/internal/usecase"
	"concordia/internal/util"
)

func newReportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Render a bundle as an xlsx workbook",
		Long: `Write an xlsx workbook with a "Notas" sheet (one row per grade with its
average and pass/fail state) and an "Asistencia" sheet (one row per mark).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readBundleInput(cmd, args)
			if err != nil {
				return err
			}

			return runReport(cmd.Context(), newBundleService(cmd.ErrOrStderr()), raw, output, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "report.xlsx", "workbook path")
	addUserFlag(cmd)

	return cmd
}

func runReport(ctx context.Context, srv usecase.BundleUsecase, raw []byte, output string, stdout io.Writer) error {
	var buf bytes.Buffer
	b, err := srv.Report(ctx, raw, &buf)
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil { //nolint:gosec // report is meant to be shared
		return errors.Wrapf(err, "write %s", output)
	}

	fmt.Fprintf(stdout, "Wrote %s (%s): %d grades, %d attendance marks\n",
		output, util.FormatBytes(int64(buf.Len())), len(b.Notas), len(b.Registro))

	return nil
}
