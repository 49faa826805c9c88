package simulation

import (
	"context"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/data"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/geometry"
	"github.com/HannahMarsh/monte_carlo_geometry/pkg/utils/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"sync/atomic"
	"testing"
)

type maxSource struct{}

func (maxSource) Uint64() uint64 { return math.MaxUint64 }
func (maxSource) Seed(uint64)    {}

type countingSource struct {
	maxSource
	calls *atomic.Int64
}

func (c countingSource) Uint64() uint64 {
	c.calls.Add(1)
	return math.MaxUint64
}

func TestEstimateBounds(t *testing.T) {
	for _, d := range geometry.Domains() {
		t.Run(d.String(), func(t *testing.T) {
			r, err := Estimate(geometry.NewSampler(11), d, 20000)
			require.NoError(t, err)
			require.Len(t, r.Samples, 20000)
			for _, s := range r.Samples {
				assert.GreaterOrEqual(t, s, 0.0)
				assert.LessOrEqual(t, s, d.MaxDistance())
			}
			assert.LessOrEqual(t, r.Max, d.MaxDistance())
			assert.InDelta(t, d.Expected(), r.Mean, 0.02)
		})
	}
}

func TestEstimateSingleTrial(t *testing.T) {
	for _, d := range geometry.Domains() {
		r, err := Estimate(geometry.NewSampler(5), d, 1)
		require.NoError(t, err)
		require.Len(t, r.Samples, 1)
		assert.Equal(t, r.Samples[0], r.Mean)
		assert.False(t, math.IsNaN(r.StdDev))
	}
}

func TestEstimateInvalidTrials(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		r, err := Estimate(geometry.NewSampler(1), geometry.Square, n)
		assert.ErrorIs(t, err, data.ErrInvalidTrialCount)
		assert.Nil(t, r)
	}
}

func TestEstimateRecordsSamplerSeed(t *testing.T) {
	r, err := Estimate(geometry.NewSampler(2024), geometry.Disk, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(2024), r.P.Seed)
	assert.Equal(t, uint64(2024), r.Summary().Seed)
}

func TestEstimateDeterministic(t *testing.T) {
	for _, d := range geometry.Domains() {
		a, err := Estimate(geometry.NewSampler(2024), d, 1000)
		require.NoError(t, err)
		b, err := Estimate(geometry.NewSampler(2024), d, 1000)
		require.NoError(t, err)
		assert.Equal(t, a.Samples, b.Samples)
		assert.Equal(t, a.Mean, b.Mean)
	}
}

func TestEstimateRejectionLimit(t *testing.T) {
	s := geometry.NewSampler(0, geometry.WithSource(maxSource{}), geometry.WithMaxRejections(8))
	_, err := Estimate(s, geometry.Disk, 10)
	assert.ErrorIs(t, err, geometry.ErrRejectionLimit)
}

func TestConvergenceOneMillion(t *testing.T) {
	if testing.Short() {
		t.Skip("draws a million pairs per domain")
	}
	wp := executor.NewWorkerPool()
	defer wp.Stop()

	for _, d := range geometry.Domains() {
		r, err := Run(context.Background(), wp, data.Parameters{Domain: d, Trials: 1000000, Seed: 7, BatchSize: 50000})
		require.NoError(t, err)
		assert.Len(t, r.Samples, 1000000)
		assert.InDelta(t, d.Expected(), r.Mean, 0.01, "domain %s", d)
		// four standard errors is far inside the 0.01 tolerance
		assert.Less(t, r.StdErr*4, 0.01)
	}
}

func TestRunDeterministicAcrossWorkers(t *testing.T) {
	p := data.Parameters{Domain: geometry.Disk, Trials: 25000, Seed: 99, BatchSize: 4000}

	wp1 := executor.NewWorkerPoolWithMax(1)
	defer wp1.Stop()
	wp4 := executor.NewWorkerPoolWithMax(4)
	defer wp4.Stop()

	a, err := Run(context.Background(), wp1, p)
	require.NoError(t, err)
	b, err := Run(context.Background(), wp4, p)
	require.NoError(t, err)

	assert.Len(t, a.Samples, 25000)
	assert.Equal(t, a.Samples, b.Samples)
	assert.Equal(t, a.Mean, b.Mean)

	p.Seed = 100
	c, err := Run(context.Background(), wp4, p)
	require.NoError(t, err)
	assert.NotEqual(t, a.Samples, c.Samples)
}

func TestRunMatchesSequentialSingleBatch(t *testing.T) {
	wp := executor.NewWorkerPoolWithMax(2)
	defer wp.Stop()

	const seed = 31
	r, err := Run(context.Background(), wp, data.Parameters{Domain: geometry.Square, Trials: 500, Seed: seed, BatchSize: 500})
	require.NoError(t, err)
	seq, err := Estimate(geometry.NewSampler(BatchSeed(DomainSeed(seed, geometry.Square), 0)), geometry.Square, 500)
	require.NoError(t, err)
	assert.Equal(t, seq.Samples, r.Samples)
}

func TestRunInvalidParameters(t *testing.T) {
	wp := executor.NewWorkerPoolWithMax(2)
	defer wp.Stop()

	_, err := Run(context.Background(), wp, data.Parameters{Domain: geometry.Square, Trials: 0, BatchSize: 10})
	assert.ErrorIs(t, err, data.ErrInvalidTrialCount)
	_, err = Run(context.Background(), wp, data.Parameters{Domain: geometry.Square, Trials: -5, BatchSize: 10})
	assert.ErrorIs(t, err, data.ErrInvalidTrialCount)
	_, err = Run(context.Background(), wp, data.Parameters{Domain: geometry.Square, Trials: 5, BatchSize: 0})
	assert.ErrorIs(t, err, data.ErrInvalidBatchSize)
}

func TestRunRejectionLimit(t *testing.T) {
	wp := executor.NewWorkerPoolWithMax(2)
	defer wp.Stop()

	_, err := Run(context.Background(), wp,
		data.Parameters{Domain: geometry.Disk, Trials: 100, Seed: 1, BatchSize: 10},
		WithSamplerOptions(geometry.WithSource(maxSource{}), geometry.WithMaxRejections(4)))
	assert.ErrorIs(t, err, geometry.ErrRejectionLimit)
}

func TestRunStopsAfterFirstFailure(t *testing.T) {
	wp := executor.NewWorkerPoolWithMax(1)
	defer wp.Stop()

	run := func(trials int) int64 {
		var calls atomic.Int64
		_, err := Run(context.Background(), wp,
			data.Parameters{Domain: geometry.Disk, Trials: trials, Seed: 1, BatchSize: 10},
			WithSamplerOptions(geometry.WithSource(countingSource{calls: &calls}), geometry.WithMaxRejections(4)))
		assert.ErrorIs(t, err, geometry.ErrRejectionLimit)
		return calls.Load()
	}

	single := run(10)
	require.Greater(t, single, int64(0))
	// with one worker the remaining batches start after the failure and bail out before drawing
	assert.Equal(t, single, run(500))
}

func TestRunCancelled(t *testing.T) {
	wp := executor.NewWorkerPoolWithMax(2)
	defer wp.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, wp, data.Parameters{Domain: geometry.Square, Trials: 1000, Seed: 1, BatchSize: 100})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunProgress(t *testing.T) {
	wp := executor.NewWorkerPoolWithMax(3)
	defer wp.Stop()

	total, calls := 0, 0
	_, err := Run(context.Background(), wp, data.Parameters{Domain: geometry.Square, Trials: 2500, Seed: 1, BatchSize: 1000},
		WithProgress(func(n int) {
			total += n
			calls++
		}))
	require.NoError(t, err)
	assert.Equal(t, 2500, total)
	assert.Equal(t, 3, calls)
}

func TestRunAll(t *testing.T) {
	wp := executor.NewWorkerPool()
	defer wp.Stop()

	results, err := RunAll(context.Background(), wp, 2000, 3, 500)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, geometry.Square, results[geometry.Square].P.Domain)
	assert.Equal(t, geometry.Disk, results[geometry.Disk].P.Domain)
}

func TestRunAllDomainsUseDistinctStreams(t *testing.T) {
	wp := executor.NewWorkerPool()
	defer wp.Stop()

	results, err := RunAll(context.Background(), wp, 100000, 42, 10000)
	require.NoError(t, err)
	square, disk := results[geometry.Square].Samples, results[geometry.Disk].Samples

	aligned := 0
	for i := range square {
		if disk[i] == 2*square[i] {
			aligned++
		}
	}
	assert.Zero(t, aligned)
	assert.Equal(t, uint64(42), results[geometry.Disk].P.Seed)
}

func TestDomainSeed(t *testing.T) {
	assert.NotEqual(t, DomainSeed(42, geometry.Square), DomainSeed(42, geometry.Disk))
	for _, d := range geometry.Domains() {
		ds := DomainSeed(42, d)
		assert.NotEqual(t, uint64(42), ds)
		for i := 0; i < 100; i++ {
			assert.NotEqual(t, BatchSeed(ds, i), PointsSeed(42, d))
			assert.NotEqual(t, BatchSeed(42, i), ds)
		}
	}
}

func TestBatchSeed(t *testing.T) {
	seen := make(map[uint64]bool)
	for i := 0; i < 1000; i++ {
		s := BatchSeed(42, i)
		assert.False(t, seen[s], "duplicate seed for batch %d", i)
		seen[s] = true
	}
	assert.Equal(t, BatchSeed(42, 3), BatchSeed(42, 3))
	assert.NotEqual(t, BatchSeed(42, 3), BatchSeed(43, 3))
}
