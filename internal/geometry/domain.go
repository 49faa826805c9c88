package geometry

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrUnknownDomain = errors.New("unknown domain")

// Domain selects the shape that points are drawn from.
type Domain int

const (
	// Square is the axis-aligned unit square [0,1]×[0,1]
	Square Domain = iota
	// Disk is the closed unit disk of radius 1 centered at the origin
	Disk
)

var (
	// SquareExpected is the mean distance between two uniform points in the unit square,
	// (√2 + 2 + 5·ln(1+√2)) / 15 ≈ 0.521405
	SquareExpected = (math.Sqrt2 + 2 + 5*math.Log(1+math.Sqrt2)) / 15
	// DiskExpected is the mean distance between two uniform points in the unit disk, 128/(45π) ≈ 0.905414
	DiskExpected = 128 / (45 * math.Pi)
)

// Domains returns every supported domain in display order
func Domains() []Domain {
	return []Domain{Square, Disk}
}

func ParseDomain(s string) (Domain, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "square", "unit-square":
		return Square, nil
	case "disk", "circle", "unit-disk", "unit-circle":
		return Disk, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDomain, s)
	}
}

func (d Domain) String() string {
	switch d {
	case Square:
		return "square"
	case Disk:
		return "disk"
	default:
		return fmt.Sprintf("domain(%d)", int(d))
	}
}

// Title is the human readable name used in plots and reports
func (d Domain) Title() string {
	switch d {
	case Square:
		return "Unit Square"
	case Disk:
		return "Unit Circle"
	default:
		return d.String()
	}
}

func (d Domain) Valid() bool {
	return d == Square || d == Disk
}

// Contains reports whether p lies in the closed domain
func (d Domain) Contains(p Point) bool {
	switch d {
	case Square:
		return 0 <= p.X && p.X <= 1 && 0 <= p.Y && p.Y <= 1
	case Disk:
		return p.normSquared() <= 1
	default:
		return false
	}
}

// MaxDistance is the diameter of the domain, an upper bound on any sampled distance
func (d Domain) MaxDistance() float64 {
	switch d {
	case Square:
		return math.Sqrt2
	case Disk:
		return 2
	default:
		return math.NaN()
	}
}

// Expected returns the analytical expectation of the distance between two uniform points
func (d Domain) Expected() float64 {
	switch d {
	case Square:
		return SquareExpected
	case Disk:
		return DiskExpected
	default:
		return math.NaN()
	}
}

// MarshalText lets domains appear by name in JSON output and config files.
func (d Domain) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDomain, int(d))
	}
	return []byte(d.String()), nil
}

func (d *Domain) UnmarshalText(text []byte) error {
	parsed, err := ParseDomain(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
