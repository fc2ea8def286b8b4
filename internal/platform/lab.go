package platform

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"formica/internal/colony"
	"formica/internal/model"
	"formica/internal/objective"
	"formica/internal/storage"
)

type Config struct {
	Store storage.Store
}

type OptimizationConfig struct {
	RunID            string
	ObjectiveName    string
	Ants             int
	Iterations       int
	AntSteps         int
	GridSteps        int
	Alpha            float64
	Beta             float64
	EvaporationRate  float64
	InitialPheromone float64
	DepositFactor    float64
	LowerBound       float64
	UpperBound       float64
	Workers          int
	Seed             int64

	Progress func(iteration int, bestValue float64)
}

type OptimizationResult struct {
	RunID           string
	Record          model.RunRecord
	Best            model.Solution
	BestByIteration []float64
	Diagnostics     []model.IterationDiagnostics
}

// Lab owns the registered objective surfaces and the persistent store, and
// drives colony runs end to end.
type Lab struct {
	store storage.Store

	mu         sync.RWMutex
	objectives map[string]objective.Func
	started    bool

	config Config
}

func NewLab(cfg Config) *Lab {
	return &Lab{
		store:      cfg.Store,
		objectives: make(map[string]objective.Func),
		config:     cfg,
	}
}

func (l *Lab) Init(ctx context.Context) error {
	if l.store == nil {
		return fmt.Errorf("store is required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return nil
	}
	if err := l.store.Init(ctx); err != nil {
		return err
	}
	l.started = true
	return nil
}

func (l *Lab) Reset(ctx context.Context) error {
	if resetter, ok := l.store.(storage.Resetter); ok {
		if err := resetter.Reset(ctx); err != nil {
			return err
		}
	}
	return l.Init(ctx)
}

func (l *Lab) RegisterObjective(fn objective.Func) error {
	if fn == nil {
		return fmt.Errorf("objective is nil")
	}

	name := fn.Name()
	if name == "" {
		return fmt.Errorf("objective name is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.started {
		return fmt.Errorf("lab is not initialized")
	}
	l.objectives[name] = fn
	return nil
}

func (l *Lab) Objective(name string) (objective.Func, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	fn, ok := l.objectives[name]
	return fn, ok
}

func (l *Lab) RegisteredObjectives() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.objectives))
	for name := range l.objectives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (l *Lab) Started() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.started
}

func (l *Lab) Store() storage.Store {
	return l.store
}

// RunOptimization executes one colony run against a registered objective,
// persists its record, convergence history and diagnostics, and folds the
// result into the objective summary.
func (l *Lab) RunOptimization(ctx context.Context, cfg OptimizationConfig) (OptimizationResult, error) {
	if cfg.ObjectiveName == "" {
		return OptimizationResult{}, fmt.Errorf("objective name is required")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	l.mu.RLock()
	fn, ok := l.objectives[cfg.ObjectiveName]
	started := l.started
	l.mu.RUnlock()

	if !started {
		return OptimizationResult{}, fmt.Errorf("lab is not initialized")
	}
	if !ok {
		return OptimizationResult{}, fmt.Errorf("objective not registered: %s", cfg.ObjectiveName)
	}

	runID := cfg.RunID
	if runID == "" {
		runID = fmt.Sprintf("aco:%s:%d", cfg.ObjectiveName, cfg.Seed)
	}

	lo, hi := cfg.LowerBound, cfg.UpperBound
	if lo == 0 && hi == 0 {
		lo, hi = fn.Bounds()
	}
	grid, err := colony.NewGrid(lo, hi, cfg.GridSteps)
	if err != nil {
		return OptimizationResult{}, err
	}

	monitor, err := colony.NewColonyMonitor(colony.MonitorConfig{
		Objective:        fn,
		Grid:             grid,
		Ants:             cfg.Ants,
		Iterations:       cfg.Iterations,
		AntSteps:         cfg.AntSteps,
		Alpha:            cfg.Alpha,
		Beta:             cfg.Beta,
		EvaporationRate:  cfg.EvaporationRate,
		InitialPheromone: cfg.InitialPheromone,
		DepositFactor:    cfg.DepositFactor,
		Workers:          cfg.Workers,
		Seed:             cfg.Seed,
		Progress:         cfg.Progress,
	})
	if err != nil {
		return OptimizationResult{}, err
	}

	result, err := monitor.Run(ctx)
	if err != nil {
		return OptimizationResult{}, err
	}

	record := model.RunRecord{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		RunID:            runID,
		Objective:        cfg.ObjectiveName,
		Seed:             cfg.Seed,
		Ants:             cfg.Ants,
		Iterations:       cfg.Iterations,
		AntSteps:         cfg.AntSteps,
		GridSteps:        cfg.GridSteps,
		Alpha:            cfg.Alpha,
		Beta:             cfg.Beta,
		EvaporationRate:  cfg.EvaporationRate,
		InitialPheromone: cfg.InitialPheromone,
		DepositFactor:    cfg.DepositFactor,
		LowerBound:       lo,
		UpperBound:       hi,
		Workers:          cfg.Workers,
		Best:             result.Best,
		CreatedAtUTC:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := l.store.SaveRunRecord(ctx, record); err != nil {
		return OptimizationResult{}, err
	}
	if err := l.store.SaveConvergenceHistory(ctx, runID, result.BestByIteration); err != nil {
		return OptimizationResult{}, err
	}
	if err := l.store.SaveIterationDiagnostics(ctx, runID, result.Diagnostics); err != nil {
		return OptimizationResult{}, err
	}
	if err := l.updateObjectiveSummary(ctx, fn, result.Best); err != nil {
		return OptimizationResult{}, err
	}

	return OptimizationResult{
		RunID:           runID,
		Record:          record,
		Best:            result.Best,
		BestByIteration: result.BestByIteration,
		Diagnostics:     result.Diagnostics,
	}, nil
}

func (l *Lab) updateObjectiveSummary(ctx context.Context, fn objective.Func, best model.Solution) error {
	summary, ok, err := l.store.GetObjectiveSummary(ctx, fn.Name())
	if err != nil {
		return err
	}
	if !ok {
		summary = model.ObjectiveSummary{
			VersionedRecord: model.VersionedRecord{
				SchemaVersion: storage.CurrentSchemaVersion,
				CodecVersion:  storage.CurrentCodecVersion,
			},
			Name:        fn.Name(),
			Description: fn.Description(),
			Best:        best,
		}
	}
	summary.Runs++
	if best.Value < summary.Best.Value {
		summary.Best = best
	}
	return l.store.SaveObjectiveSummary(ctx, summary)
}
