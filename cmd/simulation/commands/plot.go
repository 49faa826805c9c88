package commands

import (
	"fmt"
	pl "github.com/HannahMarsh/PrettyLogger"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/display"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/geometry"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/simulation"
	"github.com/spf13/cobra"
)

func plotCmd() *cobra.Command {
	var domain string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Write the distance distributions, convergence, sample point and problem diagram plots",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := geometry.ParseDomain(domain)
			if err != nil {
				return err
			}

			results, err := simulation.RunAll(cmd.Context(), pool, cfg.Simulation.Trials, cfg.Simulation.Seed, cfg.Simulation.BatchSize, runOptions()...)
			if err != nil {
				return pl.WrapError(err, "simulation failed")
			}
			points, err := simulation.Convergence(cmd.Context(), pool, d, cfg.Plots.ConvergenceSizes, cfg.Simulation.Seed, cfg.Simulation.BatchSize, runOptions()...)
			if err != nil {
				return pl.WrapError(err, "convergence sweep failed")
			}

			in := display.Inputs{
				Square:            results[geometry.Square],
				Disk:              results[geometry.Disk],
				Bins:              cfg.Plots.Bins,
				ConvergenceDomain: d,
				Convergence:       points,
			}

			square := geometry.NewSampler(simulation.PointsSeed(cfg.Simulation.Seed, geometry.Square))
			disk := geometry.NewSampler(simulation.PointsSeed(cfg.Simulation.Seed, geometry.Disk), geometry.WithMaxRejections(cfg.Simulation.MaxRejections))
			if in.SquarePoints, err = square.Points(geometry.Square, cfg.Plots.ScatterPoints); err != nil {
				return pl.WrapError(err, "failed to sample square points")
			}
			if in.DiskPoints, err = disk.Points(geometry.Disk, cfg.Plots.ScatterPoints); err != nil {
				return pl.WrapError(err, "failed to sample disk points")
			}
			if in.SquarePair[0], in.SquarePair[1], err = square.Pair(geometry.Square); err != nil {
				return pl.WrapError(err, "failed to sample square pair")
			}
			if in.DiskPair[0], in.DiskPair[1], err = disk.Pair(geometry.Disk); err != nil {
				return pl.WrapError(err, "failed to sample disk pair")
			}

			images, err := display.PlotAll(cfg.Plots.OutputDir, in)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				return printJSON(w, images)
			}
			fmt.Fprintf(w, "Disk sampling acceptance rate: %.4f (%d draws)\n", disk.AcceptanceRate(), disk.Draws())
			for _, f := range []string{images.Distributions, images.Convergence, images.SamplePoints, images.Diagrams} {
				fmt.Fprintf(w, "Saved %s\n", f)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&domain, "domain", "d", "square", "domain of the convergence plot")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the image paths as JSON")
	return cmd
}
