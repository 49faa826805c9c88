package commands

import (
	"fmt"
	pl "github.com/HannahMarsh/PrettyLogger"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/geometry"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/simulation"
	"github.com/spf13/cobra"
	"strings"
)

func runCmd() *cobra.Command {
	var asJSON, histogram bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Estimate the average distance in both domains and compare with the analytical values",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if !asJSON {
				fmt.Fprintf(w, "Running Monte Carlo simulations with %d iterations (seed %d)...\n\n", cfg.Simulation.Trials, cfg.Simulation.Seed)
			}

			results, err := simulation.RunAll(cmd.Context(), pool, cfg.Simulation.Trials, cfg.Simulation.Seed, cfg.Simulation.BatchSize, runOptions()...)
			if err != nil {
				return pl.WrapError(err, "simulation failed")
			}
			if asJSON {
				return printJSON(w, summaries(results))
			}

			for _, d := range geometry.Domains() {
				printResult(w, results[d], histogram)
			}

			line := strings.Repeat("=", 60)
			fmt.Fprintln(w, line)
			fmt.Fprintln(w, "SUMMARY OF RESULTS")
			fmt.Fprintln(w, line)
			for _, d := range geometry.Domains() {
				fmt.Fprintf(w, "Average distance (%s): %.6f\n", strings.ToLower(d.Title()), results[d].Mean)
			}
			fmt.Fprintln(w, line)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result summaries as JSON")
	cmd.Flags().BoolVar(&histogram, "histogram", false, "print a text histogram of the sampled distances")
	return cmd
}
