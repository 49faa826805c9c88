package data

import (
	"errors"
	"fmt"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/geometry"
	"github.com/HannahMarsh/monte_carlo_geometry/pkg/utils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"math"
)

var (
	ErrInvalidTrialCount = errors.New("trial count must be positive")
	ErrInvalidBatchSize  = errors.New("batch size must be positive")
)

// Parameters of one estimation run. Seed and BatchSize fully determine the samples.
type Parameters struct {
	Domain    geometry.Domain `json:"domain"`
	Trials    int             `json:"trials"`
	Seed      uint64          `json:"seed"`
	BatchSize int             `json:"batchSize"`
	str       string
}

type Result struct {
	P        Parameters `json:"params"`
	Mean     float64    `json:"mean"`
	Expected float64    `json:"expected"`
	AbsError float64    `json:"absError"`
	StdDev   float64    `json:"stdDev"`
	StdErr   float64    `json:"stdErr"`
	Median   float64    `json:"median"`
	Min      float64    `json:"min"`
	Max      float64    `json:"max"`
	Samples  []float64  `json:"-"`
}

// Summary is the printable part of a Result, without the raw samples
type Summary struct {
	Domain   string  `json:"domain"`
	Trials   int     `json:"trials"`
	Seed     uint64  `json:"seed"`
	Mean     float64 `json:"mean"`
	Expected float64 `json:"expected"`
	AbsError float64 `json:"absError"`
	StdErr   float64 `json:"stdErr"`
	Median   float64 `json:"median"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

type ConvergencePoint struct {
	N        int     `json:"n"`
	Estimate float64 `json:"estimate"`
	Expected float64 `json:"expected"`
	AbsError float64 `json:"absError"`
}

func (p *Parameters) Hash() string {
	if p.str == "" {
		p.str = fmt.Sprintf("%s-%d-%d-%d", p.Domain, p.Trials, p.Seed, p.BatchSize)
	}
	return p.str
}

func (p Parameters) Validate() error {
	if !p.Domain.Valid() {
		return fmt.Errorf("%w: %d", geometry.ErrUnknownDomain, int(p.Domain))
	}
	if p.Trials <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTrialCount, p.Trials)
	}
	if p.BatchSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidBatchSize, p.BatchSize)
	}
	return nil
}

// NewResult aggregates samples into a Result. samples must not be empty.
func NewResult(p Parameters, samples []float64) (*Result, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no samples", ErrInvalidTrialCount)
	}
	mean, std := stat.MeanStdDev(samples, nil)
	if len(samples) == 1 {
		// the unbiased estimator divides by n-1
		std = 0
	}
	expected := p.Domain.Expected()

	sorted := utils.Copy(samples)
	utils.SortOrdered(sorted)

	return &Result{
		P:        p,
		Mean:     mean,
		Expected: expected,
		AbsError: math.Abs(mean - expected),
		StdDev:   std,
		StdErr:   stat.StdErr(std, float64(len(samples))),
		Median:   median(sorted),
		Min:      floats.Min(samples),
		Max:      floats.Max(samples),
		Samples:  samples,
	}, nil
}

// median of sorted values; the two middle values are averaged when the count is even
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func (r *Result) Summary() Summary {
	return Summary{
		Domain:   r.P.Domain.String(),
		Trials:   len(r.Samples),
		Seed:     r.P.Seed,
		Mean:     r.Mean,
		Expected: r.Expected,
		AbsError: r.AbsError,
		StdErr:   r.StdErr,
		Median:   r.Median,
		Min:      r.Min,
		Max:      r.Max,
	}
}

func NewConvergencePoint(d geometry.Domain, n int, estimate float64) ConvergencePoint {
	return ConvergencePoint{
		N:        n,
		Estimate: estimate,
		Expected: d.Expected(),
		AbsError: math.Abs(estimate - d.Expected()),
	}
}
