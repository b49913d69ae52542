package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"concordia/internal/domain/bundle"
	"concordia/internal/errors"
	"concordia/internal/usecase"
)

func newNormalizeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Migrate a stored bundle to the current version",
		Long: `Read a bundle (from file, or stdin when omitted), migrate it to the current
version and print it. Averages are recomputed, duplicate attendance marks and
courses are dropped. The command fails when the bundle does not validate.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readBundleInput(cmd, args)
			if err != nil {
				return err
			}

			w, closeOut, err := openOutput(cmd.OutOrStdout(), output)
			if err != nil {
				return err
			}
			defer closeOut()

			return runNormalize(cmd.Context(), newBundleService(cmd.ErrOrStderr()), raw, w)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	addUserFlag(cmd)

	return cmd
}

func runNormalize(ctx context.Context, srv usecase.BundleUsecase, raw []byte, w io.Writer) error {
	b, err := srv.Normalize(ctx, raw)
	if err != nil {
		return err
	}

	return writeBundle(w, b)
}

func writeBundle(w io.Writer, b *bundle.Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return errors.Wrap(err, "encode bundle")
	}

	return nil
}

// readInput reads args[0], or stdin when no file is given or it is "-".
func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		raw, err := io.ReadAll(stdin)

		return raw, errors.Wrap(err, "read stdin")
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", args[0])
	}

	return raw, nil
}

func openOutput(stdout io.Writer, path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return stdout, func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "create %s", path)
	}

	return f, func() { _ = f.Close() }, nil
}
