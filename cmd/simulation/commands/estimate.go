package commands

import (
	pl "github.com/HannahMarsh/PrettyLogger"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/geometry"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/simulation"
	"github.com/spf13/cobra"
)

func estimateCmd() *cobra.Command {
	var domain string
	var asJSON, histogram bool
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the average distance in a single domain",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := geometry.ParseDomain(domain)
			if err != nil {
				return err
			}
			r, err := simulation.Run(cmd.Context(), pool, parameters(d), runOptions()...)
			if err != nil {
				return pl.WrapError(err, "simulation failed")
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), r.Summary())
			}
			printResult(cmd.OutOrStdout(), r, histogram)
			return nil
		},
	}
	cmd.Flags().StringVarP(&domain, "domain", "d", "square", "domain to sample: square or disk (alias circle)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result summary as JSON")
	cmd.Flags().BoolVar(&histogram, "histogram", false, "print a text histogram of the sampled distances")
	return cmd
}
