package colony

import "formica/internal/objective"

// heuristicEpsilon keeps cell desirability finite where the objective
// reaches zero. The denominator is additionally clamped from below so that
// surfaces dipping past zero still yield a positive desirability.
const heuristicEpsilon = 1e-10

// HeuristicField is the static problem-derived desirability of every grid
// cell, the inverse of the objective value at the cell. Computed once,
// read-only thereafter.
type HeuristicField struct {
	n      int
	values []float64
}

func NewHeuristicField(grid *Grid, fn objective.Func) *HeuristicField {
	n := grid.Steps()
	values := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			den := fn.Evaluate(grid.X(i), grid.Y(j)) + heuristicEpsilon
			if den < heuristicEpsilon {
				den = heuristicEpsilon
			}
			values[i*n+j] = 1 / den
		}
	}
	return &HeuristicField{n: n, values: values}
}

func (h *HeuristicField) At(i, j int) float64 { return h.values[i*h.n+j] }
