package colony

import (
	"errors"
	"testing"
)

func TestNewGridValidation(t *testing.T) {
	if _, err := NewGrid(-1, 1, 1); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected invalid config for steps=1, got %v", err)
	}
	if _, err := NewGrid(2, 2, 10); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected invalid config for lo==hi, got %v", err)
	}
	if _, err := NewGrid(3, -3, 10); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected invalid config for lo>hi, got %v", err)
	}
}

func TestGridSpacing(t *testing.T) {
	g, err := NewGrid(-5, 5, 101)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}

	if g.Steps() != 101 {
		t.Fatalf("steps = %d, want 101", g.Steps())
	}
	if g.X(0) != -5 || g.X(100) != 5 {
		t.Fatalf("endpoints = %g, %g, want -5, 5 exactly", g.X(0), g.X(100))
	}
	for i := 1; i < g.Steps(); i++ {
		if g.X(i) <= g.X(i-1) {
			t.Fatalf("x values not strictly increasing at index %d: %g <= %g", i, g.X(i), g.X(i-1))
		}
		if g.Y(i) <= g.Y(i-1) {
			t.Fatalf("y values not strictly increasing at index %d", i)
		}
	}
}

func TestGridNearestRoundTrip(t *testing.T) {
	g, err := NewGrid(-3, 7, 33)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}

	for i := 0; i < g.Steps(); i++ {
		if got := g.NearestX(g.X(i)); got != i {
			t.Fatalf("NearestX(X(%d)) = %d", i, got)
		}
		if got := g.NearestY(g.Y(i)); got != i {
			t.Fatalf("NearestY(Y(%d)) = %d", i, got)
		}
	}
}

func TestGridNearestSnapsAndBreaksTiesLow(t *testing.T) {
	g, err := NewGrid(0, 4, 5)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}

	if got := g.NearestX(1.2); got != 1 {
		t.Fatalf("NearestX(1.2) = %d, want 1", got)
	}
	if got := g.NearestX(2.9); got != 3 {
		t.Fatalf("NearestX(2.9) = %d, want 3", got)
	}
	// Exactly between samples 1 and 2.
	if got := g.NearestX(1.5); got != 1 {
		t.Fatalf("NearestX(1.5) = %d, want the lower index 1", got)
	}
	// Out-of-range coordinates clamp to the nearest edge.
	if got := g.NearestX(-100); got != 0 {
		t.Fatalf("NearestX(-100) = %d, want 0", got)
	}
	if got := g.NearestX(100); got != 4 {
		t.Fatalf("NearestX(100) = %d, want 4", got)
	}
}
