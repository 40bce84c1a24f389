package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/txnenrich/internal/synth"
)

func newGenerateCommand(a *app) *cobra.Command {
	var (
		opts   synth.Options
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate synthetic transactions and brand training data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Rows < 1 || opts.Others < 0 {
				return errors.New("--rows must be positive and --others must not be negative")
			}
			if opts.Others == 0 {
				opts.Others = -1
			}
			opts.Now = time.Now()
			ds := synth.Generate(opts)

			rawPath, trainPath, err := synth.WriteFiles(a.path(outDir), ds)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Saved raw transaction data to: %s (%d rows)\n", rawPath, len(ds.Raw.Rows))
			fmt.Fprintf(out, "Saved brand training data to: %s (%d rows)\n", trainPath, len(ds.Training))
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Rows, "rows", 5000, "synthetic transactions to generate")
	cmd.Flags().IntVar(&opts.Others, "others", 3000, `"Other" training rows to generate`)
	cmd.Flags().Int64Var(&opts.Seed, "seed", 42, "random seed")
	cmd.Flags().StringVar(&outDir, "out", "data", "output directory")

	return cmd
}
