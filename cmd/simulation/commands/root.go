package commands

import (
	"context"
	"encoding/json"
	"fmt"
	pl "github.com/HannahMarsh/PrettyLogger"
	"github.com/HannahMarsh/monte_carlo_geometry/config"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/data"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/display"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/geometry"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/simulation"
	"github.com/HannahMarsh/monte_carlo_geometry/pkg/utils"
	"github.com/HannahMarsh/monte_carlo_geometry/pkg/utils/executor"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/exp/slog"
	"io"
	"os"
	"os/signal"
	"syscall"
)

var (
	configPath string
	logLevel   string
	seed       uint64
	trials     int
	workers    int
	outDir     string

	cfg  *config.Config
	pool *executor.WorkerPool
	stop context.CancelFunc
)

func Execute() error {
	return execute(newRootCmd())
}

// execute runs root and always releases the pool and signal handler, also when a command fails
func execute(root *cobra.Command) error {
	defer shutdown()
	return root.Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "simulation",
		Short:        "Monte Carlo estimate of the average distance between two random points in the unit square and the unit circle",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.InitGlobal(configPath); err != nil {
				return err
			}
			cfg = config.GlobalConfig
			applyFlags(cmd)
			if err := cfg.Validate(); err != nil {
				return err
			}

			pl.SetUpLogrusAndSlog(cfg.LogLevel)

			// set GOMAXPROCS
			if _, err := maxprocs.Set(); err != nil {
				slog.Error("failed set max procs", err)
				return pl.WrapError(err, "failed to set max procs")
			}

			cfg.ResolveSeed()
			pool = executor.NewWorkerPoolWithMax(cfg.WorkerCount())

			var ctx context.Context
			ctx, stop = signal.NotifyContext(config.GlobalCtx, os.Interrupt, syscall.SIGTERM)
			cmd.SetContext(ctx)

			slog.Debug("⚡ init simulation", "trials", cfg.Simulation.Trials, "seed", cfg.Simulation.Seed, "workers", pool.MaxWorkers(), "batchSize", cfg.Simulation.BatchSize)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default config/config.yml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().Uint64Var(&seed, "seed", 0, "random seed, 0 derives one from the clock")
	root.PersistentFlags().IntVar(&trials, "trials", 0, "number of trials per domain")
	root.PersistentFlags().IntVar(&workers, "workers", 0, "worker pool size (default number of CPUs)")
	root.PersistentFlags().StringVar(&outDir, "out", "", "output directory for plots")

	root.AddCommand(runCmd(), estimateCmd(), convergeCmd(), plotCmd())
	return root
}

// applyFlags overrides the loaded configuration with the flags given on the command line
func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("seed") {
		cfg.Simulation.Seed = seed
	}
	if flags.Changed("trials") {
		cfg.Simulation.Trials = trials
	}
	if flags.Changed("workers") {
		cfg.Simulation.Workers = workers
	}
	if flags.Changed("out") {
		cfg.Plots.OutputDir = outDir
	}
}

func shutdown() {
	if stop != nil {
		stop()
		stop = nil
	}
	if config.GlobalCancel != nil {
		config.GlobalCancel()
	}
	if pool != nil {
		pool.Stop()
		pool = nil
	}
}

func runOptions(extra ...simulation.RunOption) []simulation.RunOption {
	return append([]simulation.RunOption{
		simulation.WithSamplerOptions(geometry.WithMaxRejections(cfg.Simulation.MaxRejections)),
	}, extra...)
}

func parameters(d geometry.Domain) data.Parameters {
	return data.Parameters{
		Domain:    d,
		Trials:    cfg.Simulation.Trials,
		Seed:      cfg.Simulation.Seed,
		BatchSize: cfg.Simulation.BatchSize,
	}
}

func printJSON(w io.Writer, v any) error {
	str, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return pl.WrapError(err, "couldn't marshal result")
	}
	_, err = fmt.Fprintln(w, string(str))
	return err
}

func printResult(w io.Writer, r *data.Result, histogram bool) {
	fmt.Fprintf(w, "Average distance between two random points in the %s\n", r.P.Domain.Title())
	fmt.Fprintf(w, "Monte Carlo Result: %.6f\n", r.Mean)
	fmt.Fprintf(w, "Analytical Value:   %.6f\n", r.Expected)
	fmt.Fprintf(w, "Absolute Error:     %.6f (std err %.6f)\n", r.AbsError, r.StdErr)
	if histogram {
		fmt.Fprintln(w)
		fmt.Fprint(w, display.FormatHistogram(r.Samples, cfg.Plots.Bins, 40))
	}
	fmt.Fprintln(w)
}

func summaries(results map[geometry.Domain]*data.Result) []data.Summary {
	return utils.Map(geometry.Domains(), func(d geometry.Domain) data.Summary {
		return results[d].Summary()
	})
}
