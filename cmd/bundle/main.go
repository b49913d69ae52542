// Command bundle inspects, edits and migrates the per-user attendance/grade
// bundle the browser client keeps in its storage.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"concordia/internal/domain/bundle"
	domainerrors "concordia/internal/domain/errors"
	"concordia/internal/errors"
	"concordia/internal/infra/spreadsheet"
	"concordia/internal/usecase"
	"concordia/internal/usecase/impl"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", describeError(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bundle",
		Short: "Maintain client attendance and grade bundles",
		Long: `Maintain the per-user bundle stored by the browser client.

Available subcommands:
  normalize  - Migrate a stored bundle to the current version
  report     - Render a bundle as an xlsx workbook
  stats      - Summarize grades and attendance
  attend     - Record a student present or absent on a day
  grade      - Add or update a grade
  ungrade    - Remove a grade
  course     - Add a course
  forget     - Drop every grade and mark of a student
  average    - Compute a grade average`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newNormalizeCmd(),
		newReportCmd(),
		newStatsCmd(),
		newAttendCmd(),
		newGradeCmd(),
		newUngradeCmd(),
		newCourseCmd(),
		newForgetCmd(),
		newAverageCmd(),
	)

	return root
}

// newBundleService builds the bundle usecase with its workbook writer, logging to w.
func newBundleService(w io.Writer) usecase.BundleUsecase {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn}))

	return impl.NewBundleService(impl.BundleServiceParams{
		ReportWriter: spreadsheet.NewBundleReportWriter(logger),
		Logger:       logger,
	})
}

// readBundleInput reads the command input. With --user the input is a dump of
// the client's storage and the user's bundle is taken from it.
func readBundleInput(cmd *cobra.Command, args []string) ([]byte, error) {
	raw, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return nil, err
	}

	user, _ := cmd.Flags().GetString("user")
	if user == "" {
		return raw, nil
	}

	return bundle.FromStorageDump(raw, user)
}

func addUserFlag(cmd *cobra.Command) {
	cmd.Flags().String("user", "", "read the bundle of this user from a client storage dump")
}

// describeError appends the details an application error carries.
func describeError(err error) string {
	if appErr, ok := errors.AsTarget[domainerrors.AppError](err); ok && appErr.Details() != "" {
		return err.Error() + ": " + appErr.Details()
	}

	return err.Error()
}
