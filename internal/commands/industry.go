package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/txnenrich/internal/model"
)

func newIndustryCommand(a *app) *cobra.Command {
	var brandName, mcc string

	cmd := &cobra.Command{
		Use:   "industry",
		Short: "Resolve the industry for a brand and MCC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.settings()
			if err != nil {
				return err
			}
			resolver, err := a.resolver(cfg)
			if err != nil {
				return fmt.Errorf("loading industry tables: %w", err)
			}

			out := cmd.OutOrStdout()
			ind, ok := resolver.ResolveLabel(brandName, model.ParseMCC(mcc))
			if !ok {
				fmt.Fprintln(out, "no match")
				return nil
			}
			fmt.Fprintf(out, "%s\t%s\t(%s)\n", ind.Tier1, ind.Tier2, ind.Source)
			return nil
		},
	}

	cmd.Flags().StringVar(&brandName, "brand", "", "assigned brand label")
	cmd.Flags().StringVar(&mcc, "mcc", "", "merchant category code")

	return cmd
}
