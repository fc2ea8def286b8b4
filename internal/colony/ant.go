package colony

import (
	"math"
	"math/rand"

	"formica/internal/model"
	"formica/internal/objective"
)

// ant constructs one candidate solution per iteration: a uniform random
// start followed by a fixed number of pheromone-guided jumps across the
// whole grid. Each ant owns its RNG stream, so a walk is deterministic for
// a given seed regardless of scheduling.
type ant struct {
	id      int
	rng     *rand.Rand
	weights []float64
}

func newAnt(id int, seed int64, gridSteps int) *ant {
	return &ant{
		id:      id,
		rng:     rand.New(rand.NewSource(seed + int64(id))),
		weights: make([]float64, gridSteps*gridSteps),
	}
}

// walk runs the start → walking → terminal trajectory and returns the
// terminal coordinate evaluated by the objective.
func (a *ant) walk(grid *Grid, pheromone *PheromoneField, heuristic *HeuristicField, fn objective.Func, alpha, beta float64, steps int) (model.Solution, error) {
	n := grid.Steps()
	i := a.rng.Intn(n)
	j := a.rng.Intn(n)

	for step := 0; step < steps; step++ {
		next, err := a.selectCell(n, pheromone, heuristic, alpha, beta)
		if err != nil {
			return model.Solution{}, err
		}
		i, j = next/n, next%n
	}

	x, y := grid.X(i), grid.Y(j)
	return model.Solution{X: x, Y: y, Value: fn.Evaluate(x, y)}, nil
}

// selectCell draws one cell from the distribution induced by
// pheromone^alpha * heuristic^beta over the entire grid. The transition
// rule is global: any cell may be chosen, not only neighbors.
func (a *ant) selectCell(n int, pheromone *PheromoneField, heuristic *HeuristicField, alpha, beta float64) (int, error) {
	total := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			w := math.Pow(pheromone.At(i, j), alpha) * math.Pow(heuristic.At(i, j), beta)
			a.weights[i*n+j] = w
			total += w
		}
	}
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, ErrDegenerateWeights
	}

	pick := a.rng.Float64() * total
	acc := 0.0
	for k, w := range a.weights {
		acc += w
		if pick <= acc {
			return k, nil
		}
	}
	// Rounding can leave pick marginally above the accumulated sum.
	return len(a.weights) - 1, nil
}
