package simulation

import (
	"context"
	"fmt"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/data"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/geometry"
	"github.com/HannahMarsh/monte_carlo_geometry/pkg/utils"
	"github.com/HannahMarsh/monte_carlo_geometry/pkg/utils/executor"
	"github.com/emirpasic/gods/sets/treeset"
	"golang.org/x/exp/slog"
)

// DefaultConvergenceSizes are the sample sizes of the convergence plot
var DefaultConvergenceSizes = []int{100, 500, 1000, 5000, 10000, 50000, 100000}

// Convergence estimates d once per sample size, each with fresh randomness, to show the estimate
// approaching the analytical value as n grows. Sizes are deduplicated and visited in ascending order.
func Convergence(ctx context.Context, wp *executor.WorkerPool, d geometry.Domain, sizes []int, seed uint64, batchSize int, opts ...RunOption) ([]data.ConvergencePoint, error) {
	schedule := treeset.NewWithIntComparator()
	for _, n := range sizes {
		if n <= 0 {
			return nil, fmt.Errorf("%w: convergence size %d", data.ErrInvalidTrialCount, n)
		}
		schedule.Add(n)
	}
	if schedule.Empty() {
		return nil, fmt.Errorf("%w: no convergence sizes", data.ErrInvalidTrialCount)
	}

	points := make([]data.ConvergencePoint, 0, schedule.Size())
	it := schedule.Iterator()
	for it.Next() {
		n := it.Value().(int)
		r, err := Run(ctx, wp, data.Parameters{Domain: d, Trials: n, Seed: BatchSeed(seed, n), BatchSize: batchSize}, opts...)
		if err != nil {
			return nil, err
		}
		cp := data.NewConvergencePoint(d, n, r.Mean)
		slog.Info("convergence", "domain", d.String(), "n", n, "estimate", cp.Estimate, "error", cp.AbsError)
		points = append(points, cp)
	}
	return points, nil
}

// TotalTrials is the number of trials Convergence will draw for sizes
func TotalTrials(sizes []int) int {
	schedule := treeset.NewWithIntComparator()
	for _, n := range sizes {
		if n > 0 {
			schedule.Add(n)
		}
	}
	return utils.Sum(utils.Map(schedule.Values(), func(v interface{}) int {
		return v.(int)
	}))
}
