package colony

import (
	"context"
	"fmt"
	"math"
	"sync"

	"formica/internal/model"
	"formica/internal/objective"
)

// depositFloor bounds the denominator of the inverse deposit formula away
// from zero.
const depositFloor = 1e-12

// antSeedOffset separates the per-ant RNG streams from other consumers of
// the run seed.
const antSeedOffset = 1000

type MonitorConfig struct {
	Objective        objective.Func
	Grid             *Grid
	Ants             int
	Iterations       int
	AntSteps         int
	Alpha            float64
	Beta             float64
	EvaporationRate  float64
	InitialPheromone float64
	DepositFactor    float64
	Workers          int
	Seed             int64

	// Progress, when set, is called after every iteration with the best
	// value seen so far.
	Progress func(iteration int, bestValue float64)
}

type RunResult struct {
	Best            model.Solution
	BestByIteration []float64
	Diagnostics     []model.IterationDiagnostics
}

// ColonyMonitor owns the pheromone field and drives a fixed number of
// iterations: dispatch ants, collect their terminal solutions, update the
// global best, then evaporate and deposit. Ants only ever read the field;
// the monitor is its single writer.
type ColonyMonitor struct {
	cfg       MonitorConfig
	pheromone *PheromoneField
	heuristic *HeuristicField
	ants      []*ant
}

func NewColonyMonitor(cfg MonitorConfig) (*ColonyMonitor, error) {
	if cfg.Objective == nil {
		return nil, fmt.Errorf("%w: objective is required", ErrInvalidConfig)
	}
	if cfg.Grid == nil {
		return nil, fmt.Errorf("%w: grid is required", ErrInvalidConfig)
	}
	if cfg.Ants < 1 {
		return nil, fmt.Errorf("%w: ants must be >= 1, got %d", ErrInvalidConfig, cfg.Ants)
	}
	if cfg.Iterations < 1 {
		return nil, fmt.Errorf("%w: iterations must be >= 1, got %d", ErrInvalidConfig, cfg.Iterations)
	}
	if cfg.AntSteps < 0 {
		return nil, fmt.Errorf("%w: ant steps must be >= 0, got %d", ErrInvalidConfig, cfg.AntSteps)
	}
	if cfg.Alpha < 0 {
		return nil, fmt.Errorf("%w: alpha must be >= 0, got %g", ErrInvalidConfig, cfg.Alpha)
	}
	if cfg.Beta < 0 {
		return nil, fmt.Errorf("%w: beta must be >= 0, got %g", ErrInvalidConfig, cfg.Beta)
	}
	if cfg.EvaporationRate < 0 || cfg.EvaporationRate >= 1 {
		return nil, fmt.Errorf("%w: evaporation rate must be in [0, 1), got %g", ErrInvalidConfig, cfg.EvaporationRate)
	}
	if cfg.InitialPheromone <= 0 {
		return nil, fmt.Errorf("%w: initial pheromone must be > 0, got %g", ErrInvalidConfig, cfg.InitialPheromone)
	}
	if cfg.DepositFactor <= 0 {
		return nil, fmt.Errorf("%w: deposit factor must be > 0, got %g", ErrInvalidConfig, cfg.DepositFactor)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	n := cfg.Grid.Steps()
	ants := make([]*ant, cfg.Ants)
	for i := range ants {
		ants[i] = newAnt(i, cfg.Seed+antSeedOffset, n)
	}

	return &ColonyMonitor{
		cfg:       cfg,
		pheromone: NewPheromoneField(n, cfg.InitialPheromone),
		heuristic: NewHeuristicField(cfg.Grid, cfg.Objective),
		ants:      ants,
	}, nil
}

func (m *ColonyMonitor) Run(ctx context.Context) (RunResult, error) {
	best := model.Solution{Value: math.Inf(1)}
	bestHistory := make([]float64, 0, m.cfg.Iterations)
	diagnostics := make([]model.IterationDiagnostics, 0, m.cfg.Iterations)

	for iter := 0; iter < m.cfg.Iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}

		solutions, err := m.dispatchAnts(ctx)
		if err != nil {
			return RunResult{}, err
		}

		iterBest := math.Inf(1)
		iterWorst := math.Inf(-1)
		sum := 0.0
		for _, s := range solutions {
			sum += s.Value
			if s.Value < iterBest {
				iterBest = s.Value
			}
			if s.Value > iterWorst {
				iterWorst = s.Value
			}
			if s.Value < best.Value {
				best = s
			}
		}

		// The inverse deposit formula assumes positive values. When the
		// batch reaches zero or below, shift every value by the iteration
		// minimum so the best ant deposits exactly DepositFactor and the
		// quality ordering survives.
		shift := 0.0
		if iterBest <= 0 {
			shift = 1 - iterBest
		}

		// Evaporate the whole field exactly once, then deposit per ant in
		// ant order so the floating-point fold is reproducible.
		m.pheromone.Evaporate(m.cfg.EvaporationRate)
		for _, s := range solutions {
			i := m.cfg.Grid.NearestX(s.X)
			j := m.cfg.Grid.NearestY(s.Y)
			m.pheromone.Deposit(i, j, m.depositAmount(s.Value+shift))
		}

		bestHistory = append(bestHistory, best.Value)
		diagnostics = append(diagnostics, model.IterationDiagnostics{
			Iteration:          iter + 1,
			BestValue:          best.Value,
			IterationBestValue: iterBest,
			MeanValue:          sum / float64(len(solutions)),
			WorstValue:         iterWorst,
			PheromoneTotal:     m.pheromone.Total(),
		})
		if m.cfg.Progress != nil {
			m.cfg.Progress(iter+1, best.Value)
		}
	}

	return RunResult{
		Best:            best,
		BestByIteration: bestHistory,
		Diagnostics:     diagnostics,
	}, nil
}

func (m *ColonyMonitor) depositAmount(value float64) float64 {
	if value < depositFloor {
		value = depositFloor
	}
	return m.cfg.DepositFactor / value
}

// dispatchAnts runs every ant's walk for one iteration over a bounded
// worker pool and joins the results before returning, so the pheromone
// update never races a walk. Solutions are collected by ant index to keep
// the subsequent deposit order deterministic.
func (m *ColonyMonitor) dispatchAnts(ctx context.Context) ([]model.Solution, error) {
	type job struct {
		idx int
	}
	type result struct {
		idx      int
		solution model.Solution
		err      error
	}

	workerCount := m.cfg.Workers
	if workerCount > len(m.ants) {
		workerCount = len(m.ants)
	}

	jobs := make(chan job)
	results := make(chan result, len(m.ants))

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for jb := range jobs {
				if err := ctx.Err(); err != nil {
					results <- result{idx: jb.idx, err: err}
					continue
				}
				s, err := m.ants[jb.idx].walk(
					m.cfg.Grid, m.pheromone, m.heuristic,
					m.cfg.Objective, m.cfg.Alpha, m.cfg.Beta, m.cfg.AntSteps,
				)
				results <- result{idx: jb.idx, solution: s, err: err}
			}
		}()
	}

	for i := range m.ants {
		jobs <- job{idx: i}
	}
	close(jobs)

	wg.Wait()
	close(results)

	solutions := make([]model.Solution, len(m.ants))
	for res := range results {
		if res.err != nil {
			return nil, res.err
		}
		solutions[res.idx] = res.solution
	}
	return solutions, nil
}
