package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/txnenrich/internal/brand"
	"github.com/cleared-dev/txnenrich/internal/model"
	"github.com/cleared-dev/txnenrich/internal/normalize"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	otherStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func newPredictCommand(a *app) *cobra.Command {
	var (
		top int
		mcc string
	)

	cmd := &cobra.Command{
		Use:   "predict <merchant text>",
		Short: "Show brand predictions for a merchant string",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.bindFlags(cmd, map[string]string{
				"enrich.threshold": "threshold",
				"model.path":       "model",
			})
			cfg, err := a.settings()
			if err != nil {
				return err
			}
			resolver, err := a.resolver(cfg)
			if err != nil {
				return fmt.Errorf("loading industry tables: %w", err)
			}

			text := strings.Join(args, " ")
			out := cmd.OutOrStdout()
			classifier := brand.Shared(a.path(cfg.Model.Path))

			fmt.Fprintf(out, "%s %q\n", headerStyle.Render("cleaned:"), normalize.Merchant(text))
			if !normalize.Blank(text) && !classifier.Available() {
				fmt.Fprintln(out, mutedStyle.Render("brand classifier unavailable; run `txnenrich train` first"))
			}

			// One ranking serves both the top-k listing and the assignment.
			ranked := classifier.Rank(text)
			for i, p := range ranked[:max(0, min(top, len(ranked)))] {
				fmt.Fprintf(out, "  %d. %-20s %.3f\n", i+1, p.Brand, p.Confidence)
			}

			assigned := brand.AssignRanked(ranked, cfg.Enrich.Threshold)
			fmt.Fprintf(out, "%s %s\n", headerStyle.Render("brand:"), renderBrand(assigned, cfg.Enrich.Threshold))

			ind, ok := resolver.Resolve(assigned, model.ParseMCC(mcc))
			if ok {
				fmt.Fprintf(out, "%s %s / %s (%s)\n", headerStyle.Render("industry:"), ind.Tier1, ind.Tier2, ind.Source)
			} else {
				fmt.Fprintf(out, "%s %s\n", headerStyle.Render("industry:"), mutedStyle.Render("no match"))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&top, "top", "k", 3, "number of predictions to show")
	cmd.Flags().StringVar(&mcc, "mcc", "", "merchant category code for industry fallback")
	cmd.Flags().Float64("threshold", brand.DefaultThreshold, "minimum confidence for accepting a brand prediction")
	cmd.Flags().String("model", brand.DefaultModelPath, "brand classifier artifact")

	return cmd
}

func renderBrand(b model.Brand, threshold float64) string {
	switch b.Status {
	case model.BrandPredicted:
		return labelStyle.Render(b.Label) + fmt.Sprintf(" (%.3f)", b.Confidence)
	case model.BrandOther:
		return otherStyle.Render(b.Label) + fmt.Sprintf(" (%.3f < %.2f)", b.Confidence, threshold)
	default:
		return mutedStyle.Render("unknown")
	}
}
