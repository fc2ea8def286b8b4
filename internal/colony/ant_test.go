package colony

import (
	"errors"
	"testing"
)

func TestWalkAlwaysSelectsTheOnlyWeightedCell(t *testing.T) {
	g, err := NewGrid(-1, 1, 3)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	h := NewHeuristicField(g, constObjective{value: 5})

	// Pheromone is zero everywhere except one cell, so with alpha=1 every
	// transition lands there regardless of the heuristic.
	p := NewPheromoneField(3, 0)
	p.Deposit(2, 1, 1)

	for trial := 0; trial < 20; trial++ {
		a := newAnt(trial, 99, 3)
		s, err := a.walk(g, p, h, constObjective{value: 5}, 1, 2, 4)
		if err != nil {
			t.Fatalf("walk: %v", err)
		}
		if s.X != g.X(2) || s.Y != g.Y(1) {
			t.Fatalf("terminal = (%g, %g), want the only weighted cell (%g, %g)", s.X, s.Y, g.X(2), g.Y(1))
		}
		if s.Value != 5 {
			t.Fatalf("terminal value = %g, want 5", s.Value)
		}
	}
}

func TestWalkWithZeroStepsKeepsStartPosition(t *testing.T) {
	g, err := NewGrid(-1, 1, 3)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	h := NewHeuristicField(g, constObjective{value: 5})
	p := NewPheromoneField(3, 1)

	a := newAnt(0, 7, 3)
	b := newAnt(0, 7, 3)

	s, err := a.walk(g, p, h, constObjective{value: 5}, 1, 1, 0)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	// Replaying the identical RNG stream yields the same start indices.
	i := b.rng.Intn(3)
	j := b.rng.Intn(3)
	if s.X != g.X(i) || s.Y != g.Y(j) {
		t.Fatalf("terminal = (%g, %g), want start (%g, %g)", s.X, s.Y, g.X(i), g.Y(j))
	}
	if s.Value != 5 {
		t.Fatalf("terminal value = %g, want 5", s.Value)
	}
}

func TestWalkSurfacesDegenerateWeights(t *testing.T) {
	g, err := NewGrid(-1, 1, 3)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	h := NewHeuristicField(g, constObjective{value: 5})
	p := NewPheromoneField(3, 0)

	a := newAnt(0, 1, 3)
	if _, err := a.walk(g, p, h, constObjective{value: 5}, 1, 0, 1); !errors.Is(err, ErrDegenerateWeights) {
		t.Fatalf("expected degenerate weights, got %v", err)
	}
}

func TestUniformWeightsVisitEveryCell(t *testing.T) {
	g, err := NewGrid(-1, 1, 3)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	h := NewHeuristicField(g, constObjective{value: 5})
	p := NewPheromoneField(3, 1)

	a := newAnt(0, 42, 3)
	seen := map[int]int{}
	for trial := 0; trial < 900; trial++ {
		cell, err := a.selectCell(3, p, h, 1, 1)
		if err != nil {
			t.Fatalf("select cell: %v", err)
		}
		seen[cell]++
	}
	if len(seen) != 9 {
		t.Fatalf("uniform sampling visited %d of 9 cells", len(seen))
	}
}
