package geometry

import (
	"github.com/stretchr/testify/assert"
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tt := []struct {
		name string
		p1   Point
		p2   Point
		exp  float64
	}{
		{name: "same point", p1: Point{0.3, 0.4}, p2: Point{0.3, 0.4}, exp: 0},
		{name: "3-4-5", p1: Point{0, 0}, p2: Point{3, 4}, exp: 5},
		{name: "square diagonal", p1: Point{0, 0}, p2: Point{1, 1}, exp: math.Sqrt2},
		{name: "disk diameter", p1: Point{-1, 0}, p2: Point{1, 0}, exp: 2},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.exp, Distance(tc.p1, tc.p2), 1e-12)
			assert.Equal(t, Distance(tc.p1, tc.p2), Distance(tc.p2, tc.p1))
		})
	}
}
