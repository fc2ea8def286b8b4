package platform

import (
	"context"
	"strings"
	"testing"

	"formica/internal/objective"
	"formica/internal/storage"
)

func newTestLab(t *testing.T) *Lab {
	t.Helper()

	lab := NewLab(Config{Store: storage.NewMemoryStore()})
	if err := lab.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	for _, fn := range objective.Defaults() {
		if err := lab.RegisterObjective(fn); err != nil {
			t.Fatalf("RegisterObjective %s: %v", fn.Name(), err)
		}
	}
	return lab
}

func testOptimizationConfig(name string) OptimizationConfig {
	return OptimizationConfig{
		RunID:            "run-" + name,
		ObjectiveName:    name,
		Ants:             6,
		Iterations:       5,
		AntSteps:         3,
		GridSteps:        21,
		Alpha:            1,
		Beta:             2,
		EvaporationRate:  0.1,
		InitialPheromone: 1,
		DepositFactor:    10,
		Workers:          2,
		Seed:             11,
	}
}

func TestLabInitRequiresStore(t *testing.T) {
	lab := NewLab(Config{})
	if err := lab.Init(context.Background()); err == nil {
		t.Fatal("expected error without store")
	}
}

func TestLabRegisterObjectiveRequiresInit(t *testing.T) {
	lab := NewLab(Config{Store: storage.NewMemoryStore()})
	if err := lab.RegisterObjective(objective.Ackley{}); err == nil {
		t.Fatal("expected error before Init")
	}
}

func TestLabRegisteredObjectivesSorted(t *testing.T) {
	lab := newTestLab(t)

	names := lab.RegisteredObjectives()
	if len(names) != len(objective.Defaults()) {
		t.Fatalf("registered %d objectives, want %d", len(names), len(objective.Defaults()))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}

	if _, ok := lab.Objective("ackley"); !ok {
		t.Fatal("ackley not registered")
	}
	if _, ok := lab.Objective("nope"); ok {
		t.Fatal("unknown objective reported as registered")
	}
}

func TestLabRunOptimizationUnknownObjective(t *testing.T) {
	lab := newTestLab(t)

	cfg := testOptimizationConfig("nope")
	if _, err := lab.RunOptimization(context.Background(), cfg); err == nil || !strings.Contains(err.Error(), "not registered") {
		t.Fatalf("RunOptimization error = %v", err)
	}
}

func TestLabRunOptimizationPersistsEverything(t *testing.T) {
	ctx := context.Background()
	lab := newTestLab(t)

	cfg := testOptimizationConfig("sphere")
	result, err := lab.RunOptimization(ctx, cfg)
	if err != nil {
		t.Fatalf("RunOptimization: %v", err)
	}
	if result.RunID != cfg.RunID {
		t.Fatalf("run id = %s, want %s", result.RunID, cfg.RunID)
	}
	if len(result.BestByIteration) != cfg.Iterations {
		t.Fatalf("history length = %d, want %d", len(result.BestByIteration), cfg.Iterations)
	}

	record, ok, err := lab.Store().GetRunRecord(ctx, cfg.RunID)
	if err != nil || !ok {
		t.Fatalf("GetRunRecord: ok=%v err=%v", ok, err)
	}
	if record.Objective != "sphere" || record.Seed != cfg.Seed {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.Best != result.Best {
		t.Fatalf("record best %+v != result best %+v", record.Best, result.Best)
	}
	lo, hi := objective.Sphere{}.Bounds()
	if record.LowerBound != lo || record.UpperBound != hi {
		t.Fatalf("bounds not defaulted from objective: %+v", record)
	}

	history, ok, err := lab.Store().GetConvergenceHistory(ctx, cfg.RunID)
	if err != nil || !ok {
		t.Fatalf("GetConvergenceHistory: ok=%v err=%v", ok, err)
	}
	if len(history) != cfg.Iterations {
		t.Fatalf("stored history length = %d", len(history))
	}

	diagnostics, ok, err := lab.Store().GetIterationDiagnostics(ctx, cfg.RunID)
	if err != nil || !ok {
		t.Fatalf("GetIterationDiagnostics: ok=%v err=%v", ok, err)
	}
	if len(diagnostics) != cfg.Iterations {
		t.Fatalf("stored diagnostics length = %d", len(diagnostics))
	}
}

func TestLabObjectiveSummaryKeepsLowestValue(t *testing.T) {
	ctx := context.Background()
	lab := newTestLab(t)

	first := testOptimizationConfig("sphere")
	firstResult, err := lab.RunOptimization(ctx, first)
	if err != nil {
		t.Fatalf("RunOptimization: %v", err)
	}

	second := testOptimizationConfig("sphere")
	second.RunID = "run-sphere-2"
	second.Seed = 99
	secondResult, err := lab.RunOptimization(ctx, second)
	if err != nil {
		t.Fatalf("RunOptimization: %v", err)
	}

	summary, ok, err := lab.Store().GetObjectiveSummary(ctx, "sphere")
	if err != nil || !ok {
		t.Fatalf("GetObjectiveSummary: ok=%v err=%v", ok, err)
	}
	if summary.Runs != 2 {
		t.Fatalf("summary runs = %d, want 2", summary.Runs)
	}
	wantBest := firstResult.Best.Value
	if secondResult.Best.Value < wantBest {
		wantBest = secondResult.Best.Value
	}
	if summary.Best.Value != wantBest {
		t.Fatalf("summary best = %v, want %v", summary.Best.Value, wantBest)
	}
}

func TestLabReset(t *testing.T) {
	ctx := context.Background()
	lab := newTestLab(t)

	if _, err := lab.RunOptimization(ctx, testOptimizationConfig("ackley")); err != nil {
		t.Fatalf("RunOptimization: %v", err)
	}
	if err := lab.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, ok, _ := lab.Store().GetRunRecord(ctx, "run-ackley"); ok {
		t.Fatal("run record survived reset")
	}
	if !lab.Started() {
		t.Fatal("lab not started after reset")
	}
}

func TestLabRunOptimizationDefaultsRunID(t *testing.T) {
	lab := newTestLab(t)

	cfg := testOptimizationConfig("ackley")
	cfg.RunID = ""
	result, err := lab.RunOptimization(context.Background(), cfg)
	if err != nil {
		t.Fatalf("RunOptimization: %v", err)
	}
	if result.RunID != "aco:ackley:11" {
		t.Fatalf("defaulted run id = %s", result.RunID)
	}
}
