package colony

import (
	"fmt"
	"math"
)

// Grid discretizes a square [lo,hi]×[lo,hi] domain into an evenly spaced
// lattice of candidate points, steps per axis. It is immutable after
// construction.
type Grid struct {
	lo, hi float64
	xs, ys []float64
}

func NewGrid(lo, hi float64, steps int) (*Grid, error) {
	if steps < 2 {
		return nil, fmt.Errorf("%w: grid steps must be >= 2, got %d", ErrInvalidConfig, steps)
	}
	if lo >= hi {
		return nil, fmt.Errorf("%w: bounds must satisfy lo < hi, got [%g, %g]", ErrInvalidConfig, lo, hi)
	}
	return &Grid{
		lo: lo,
		hi: hi,
		xs: linspace(lo, hi, steps),
		ys: linspace(lo, hi, steps),
	}, nil
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for k := range out {
		out[k] = lo + float64(k)*step
	}
	// The incremental form accumulates rounding error; the last sample must
	// equal hi exactly.
	out[n-1] = hi
	return out
}

func (g *Grid) Steps() int { return len(g.xs) }

func (g *Grid) Bounds() (lo, hi float64) { return g.lo, g.hi }

// X maps an x-axis index to its coordinate.
func (g *Grid) X(i int) float64 { return g.xs[i] }

// Y maps a y-axis index to its coordinate.
func (g *Grid) Y(j int) float64 { return g.ys[j] }

// NearestX snaps a continuous x coordinate to the index of the closest grid
// value. Ties resolve to the lower index.
func (g *Grid) NearestX(x float64) int { return nearestIndex(g.xs, x) }

// NearestY snaps a continuous y coordinate to the index of the closest grid
// value. Ties resolve to the lower index.
func (g *Grid) NearestY(y float64) int { return nearestIndex(g.ys, y) }

func nearestIndex(vals []float64, v float64) int {
	best := 0
	bestDiff := math.Abs(vals[0] - v)
	for k := 1; k < len(vals); k++ {
		diff := math.Abs(vals[k] - v)
		if diff < bestDiff {
			best = k
			bestDiff = diff
		}
	}
	return best
}
