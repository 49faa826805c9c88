package geometry

import (
	"errors"
	"fmt"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultMaxRejections bounds the rejection loop for the disk. The chance of a fair source
// being rejected this many times in a row is (1-π/4)^1000, i.e. it never happens.
const DefaultMaxRejections = 1000

var ErrRejectionLimit = errors.New("rejection sampling limit exceeded")

// Sampler draws uniform points from a Domain. It owns its random source, so two samplers
// never share state; a single Sampler is not safe for concurrent use.
type Sampler struct {
	seed          uint64
	src           rand.Source
	unit          distuv.Uniform // [0,1) for square coordinates
	bounding      distuv.Uniform // [-1,1) for disk candidates
	maxRejections int
	draws         uint64
	accepted      uint64
}

type SamplerOption func(*Sampler)

// WithMaxRejections caps the number of candidate draws per accepted disk point
func WithMaxRejections(n int) SamplerOption {
	return func(s *Sampler) {
		if n > 0 {
			s.maxRejections = n
		}
	}
}

// WithSource replaces the seeded PCG source, e.g. with a source shared by a caller that
// synchronises access itself.
func WithSource(src rand.Source) SamplerOption {
	return func(s *Sampler) {
		if src != nil {
			s.src = src
		}
	}
}

func NewSampler(seed uint64, opts ...SamplerOption) *Sampler {
	s := &Sampler{
		seed:          seed,
		src:           rand.NewSource(seed),
		maxRejections: DefaultMaxRejections,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.unit = distuv.Uniform{Min: 0, Max: 1, Src: s.src}
	s.bounding = distuv.Uniform{Min: -1, Max: 1, Src: s.src}
	return s
}

// Point draws one point uniformly from d.
func (s *Sampler) Point(d Domain) (Point, error) {
	switch d {
	case Square:
		s.draws++
		s.accepted++
		return Point{X: s.unit.Rand(), Y: s.unit.Rand()}, nil
	case Disk:
		return s.diskPoint()
	default:
		return Point{}, fmt.Errorf("%w: %d", ErrUnknownDomain, int(d))
	}
}

// diskPoint uses rejection sampling: candidates come from the bounding square [-1,1]² and
// are kept iff x²+y² ≤ 1. Sampling angle and radius uniformly would crowd the center.
func (s *Sampler) diskPoint() (Point, error) {
	for i := 0; i < s.maxRejections; i++ {
		s.draws++
		p := Point{X: s.bounding.Rand(), Y: s.bounding.Rand()}
		if p.normSquared() <= 1 {
			s.accepted++
			return p, nil
		}
	}
	return Point{}, fmt.Errorf("%w: no candidate inside the disk after %d draws", ErrRejectionLimit, s.maxRejections)
}

// Pair draws two independent points from d
func (s *Sampler) Pair(d Domain) (Point, Point, error) {
	p1, err := s.Point(d)
	if err != nil {
		return Point{}, Point{}, err
	}
	p2, err := s.Point(d)
	if err != nil {
		return Point{}, Point{}, err
	}
	return p1, p2, nil
}

// Points draws n independent points from d
func (s *Sampler) Points(d Domain, n int) ([]Point, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative point count: %d", n)
	}
	points := make([]Point, n)
	for i := range points {
		p, err := s.Point(d)
		if err != nil {
			return nil, err
		}
		points[i] = p
	}
	return points, nil
}

// Seed is the seed the sampler was created with
func (s *Sampler) Seed() uint64 {
	return s.seed
}

// Draws is the number of candidate points consumed so far, including rejected ones.
func (s *Sampler) Draws() uint64 {
	return s.draws
}

// AcceptanceRate is accepted/drawn; for the disk it tends to π/4.
func (s *Sampler) AcceptanceRate() float64 {
	if s.draws == 0 {
		return 0
	}
	return float64(s.accepted) / float64(s.draws)
}
