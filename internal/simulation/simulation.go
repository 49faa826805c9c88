package simulation

import (
	"context"
	"fmt"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/data"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/geometry"
	"github.com/HannahMarsh/monte_carlo_geometry/pkg/utils"
	"github.com/HannahMarsh/monte_carlo_geometry/pkg/utils/executor"
	"golang.org/x/exp/slog"
	"sync"
)

type runOptions struct {
	sampler  []geometry.SamplerOption
	progress func(trials int)
}

type RunOption func(*runOptions)

// WithSamplerOptions is applied to every per-batch sampler
func WithSamplerOptions(opts ...geometry.SamplerOption) RunOption {
	return func(o *runOptions) {
		o.sampler = append(o.sampler, opts...)
	}
}

// WithProgress is called on the caller's goroutine after each batch is merged, with the batch's trial count
func WithProgress(progress func(trials int)) RunOption {
	return func(o *runOptions) {
		o.progress = progress
	}
}

// Estimate is the sequential estimator: it draws trials independent pairs from d using s and returns
// every distance in draw order together with the mean.
func Estimate(s *geometry.Sampler, d geometry.Domain, trials int) (*data.Result, error) {
	if trials <= 0 {
		return nil, fmt.Errorf("%w: got %d", data.ErrInvalidTrialCount, trials)
	}
	samples, err := sampleDistances(s, d, trials)
	if err != nil {
		return nil, err
	}
	return data.NewResult(data.Parameters{Domain: d, Trials: trials, Seed: s.Seed(), BatchSize: trials}, samples)
}

func sampleDistances(s *geometry.Sampler, d geometry.Domain, n int) ([]float64, error) {
	distances := make([]float64, n)
	for i := range distances {
		p1, p2, err := s.Pair(d)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}
		distances[i] = geometry.Distance(p1, p2)
	}
	return distances, nil
}

// Run splits p.Trials into batches of p.BatchSize, samples each batch on the worker pool with its own
// sampler seeded by BatchSeed(DomainSeed(p.Seed, p.Domain), i), and concatenates the batches in order.
// The samples depend only on (Domain, Seed, Trials, BatchSize), never on the number of workers.
// The first failing batch cancels the ones that have not started yet.
func Run(ctx context.Context, wp *executor.WorkerPool, p data.Parameters, opts ...RunOption) (*data.Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	o := &runOptions{}
	for _, opt := range opts {
		opt(o)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	var cause error
	fail := func(err error) {
		mu.Lock()
		if cause == nil {
			cause = err
		}
		mu.Unlock()
		cancel()
	}

	seed := DomainSeed(p.Seed, p.Domain)
	chunks := utils.Chunks(p.Trials, p.BatchSize)
	futs := make([]*executor.Future[[]float64], len(chunks))
	for i, n := range chunks {
		batch, size := i, n
		futs[i] = executor.SubmitWithError(wp, nil, func() ([]float64, error) {
			if err := runCtx.Err(); err != nil {
				return nil, err
			}
			s := geometry.NewSampler(BatchSeed(seed, batch), o.sampler...)
			return sampleDistances(s, p.Domain, size)
		})
		futs[i].HandleError(fail)
	}

	batches := make([][]float64, len(futs))
	for i, fut := range futs {
		samples, err := fut.GetContext(ctx)
		if err != nil {
			mu.Lock()
			if cause != nil {
				err = cause
			}
			mu.Unlock()
			return nil, fmt.Errorf("%s batch %d/%d: %w", p.Domain, i+1, len(futs), err)
		}
		batches[i] = samples
		if o.progress != nil {
			o.progress(len(samples))
		}
	}

	slog.Debug("simulation finished", "run", p.Hash(), "batches", len(batches))
	return data.NewResult(p, utils.Flatten(batches))
}

// RunAll runs every domain with the same trial count, seed and batch size
func RunAll(ctx context.Context, wp *executor.WorkerPool, trials int, seed uint64, batchSize int, opts ...RunOption) (map[geometry.Domain]*data.Result, error) {
	results := make(map[geometry.Domain]*data.Result)
	for _, d := range geometry.Domains() {
		r, err := Run(ctx, wp, data.Parameters{Domain: d, Trials: trials, Seed: seed, BatchSize: batchSize}, opts...)
		if err != nil {
			return nil, err
		}
		results[d] = r
	}
	return results, nil
}

// DomainSeed gives every domain its own stream for the same user seed, so square and disk runs
// never consume identical random sequences.
func DomainSeed(seed uint64, d geometry.Domain) uint64 {
	return BatchSeed(seed, -1-int(d))
}

// PointsSeed seeds the samplers that draw plot points for d. Batch indexes are never negative, so it
// is distinct from every batch seed of the same domain.
func PointsSeed(seed uint64, d geometry.Domain) uint64 {
	return BatchSeed(DomainSeed(seed, d), -2)
}

// BatchSeed derives an independent seed for batch i with the splitmix64 finalizer
func BatchSeed(seed uint64, batch int) uint64 {
	z := seed + uint64(batch+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
