package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/txnenrich/internal/brand"
	"github.com/cleared-dev/txnenrich/internal/brandmodel"
	"github.com/cleared-dev/txnenrich/internal/synth"
)

func newTrainCommand(a *app) *cobra.Command {
	var (
		dataPath string
		testSize float64
		seed     uint64
		opts     brandmodel.Options
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the brand classifier from labeled data",
		Long: `Train reads a CSV with cleaned and BRAND columns, holds out a stratified
test split, trains the character n-gram classifier on the rest, prints
hold-out metrics and saves the model artifact.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.bindFlags(cmd, map[string]string{"model.path": "model"})
			cfg, err := a.settings()
			if err != nil {
				return err
			}
			if testSize < 0 || testSize >= 1 {
				return fmt.Errorf("--test-size must be within [0,1), got %v", testSize)
			}

			examples, err := brandmodel.LoadTrainingFile(a.path(dataPath))
			if err != nil {
				return fmt.Errorf("%w (run `txnenrich generate` to create synthetic training data)", err)
			}

			train, test := brandmodel.Split(examples, testSize, seed)
			slog.Info("training brand classifier", "examples", len(train), "holdout", len(test))
			m, err := brandmodel.Train(train, opts)
			if err != nil {
				return fmt.Errorf("training: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(test) > 0 {
				printReport(out, brandmodel.Evaluate(m, test))
			}

			modelPath := a.path(cfg.Model.Path)
			if err := brandmodel.Save(modelPath, m); err != nil {
				return err
			}
			fmt.Fprintf(out, "Model saved to: %s (%d labels)\n", modelPath, len(m.Labels()))
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "data/"+synth.TrainingFile, "labeled training CSV")
	cmd.Flags().String("model", brand.DefaultModelPath, "where to save the model artifact")
	cmd.Flags().Float64Var(&testSize, "test-size", 0.2, "fraction of each label held out for evaluation")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "split seed")
	cmd.Flags().IntVar(&opts.MinN, "min-n", 3, "smallest character n-gram")
	cmd.Flags().IntVar(&opts.MaxN, "max-n", 5, "largest character n-gram")
	cmd.Flags().Float64Var(&opts.Alpha, "alpha", 1, "additive smoothing")

	return cmd
}

func printReport(w io.Writer, r brandmodel.Report) {
	fmt.Fprintln(w, headerStyle.Render("Hold-out evaluation"))
	fmt.Fprintf(w, "  %-20s %9s %9s %9s\n", "label", "precision", "recall", "support")
	for _, l := range r.Labels {
		fmt.Fprintf(w, "  %-20s %9.3f %9.3f %9d\n", l.Label, l.Precision, l.Recall, l.Support)
	}
	fmt.Fprintf(w, "  %-20s %9s %9.3f %9d\n", "accuracy", "", r.Accuracy, r.Total)
}
