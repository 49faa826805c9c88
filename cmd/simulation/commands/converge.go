package commands

import (
	"fmt"
	pl "github.com/HannahMarsh/PrettyLogger"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/display"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/geometry"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/simulation"
	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"
)

func convergeCmd() *cobra.Command {
	var domain string
	var asJSON, noPlot, quiet bool
	cmd := &cobra.Command{
		Use:   "converge",
		Short: "Show how the estimate approaches the analytical value as the number of samples grows",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := geometry.ParseDomain(domain)
			if err != nil {
				return err
			}
			sizes := cfg.Plots.ConvergenceSizes

			var opts []simulation.RunOption
			if !quiet {
				bar := pb.New(simulation.TotalTrials(sizes))
				bar.SetWriter(cmd.ErrOrStderr())
				bar.Start()
				defer bar.Finish()
				opts = append(opts, simulation.WithProgress(func(n int) {
					bar.Add(n)
				}))
			}

			points, err := simulation.Convergence(cmd.Context(), pool, d, sizes, cfg.Simulation.Seed, cfg.Simulation.BatchSize, runOptions(opts...)...)
			if err != nil {
				return pl.WrapError(err, "convergence sweep failed")
			}

			w := cmd.OutOrStdout()
			if asJSON {
				if err = printJSON(w, points); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(w, "Convergence for the %s (analytical %.6f)\n", d.Title(), d.Expected())
				fmt.Fprintf(w, "%10s  %10s  %10s\n", "n", "estimate", "error")
				for _, p := range points {
					fmt.Fprintf(w, "%10d  %10.6f  %10.6f\n", p.N, p.Estimate, p.AbsError)
				}
			}

			if noPlot {
				return nil
			}
			file, err := display.PlotConvergence(cfg.Plots.OutputDir, d, points)
			if err != nil {
				return pl.WrapError(err, "failed to plot convergence")
			}
			if !asJSON {
				fmt.Fprintf(w, "\nSaved %s\n", file)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&domain, "domain", "d", "square", "domain to sample: square or disk (alias circle)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the convergence points as JSON")
	cmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip writing the convergence plot")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "hide the progress bar")
	return cmd
}
