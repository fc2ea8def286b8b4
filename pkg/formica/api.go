// Package formica is the embedding API for the ant colony optimizer. It
// wires the storage backend, the lab and the artifacts directory together
// behind a single client.
package formica

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"formica/internal/model"
	"formica/internal/objective"
	"formica/internal/platform"
	"formica/internal/stats"
	"formica/internal/storage"
)

const (
	defaultBenchmarksDir = "benchmarks"
	defaultExportsDir    = "exports"
	defaultDBPath        = "formica.db"
)

type Options struct {
	StoreKind     string
	DBPath        string
	BenchmarksDir string
	ExportsDir    string
}

type Client struct {
	store storage.Store
	lab   *platform.Lab

	benchmarksDir string
	exportsDir    string
}

// RunRequest configures one optimization run. Zero is a meaningful setting
// for AntSteps, Alpha, Beta and EvaporationRate, so those fields are
// pointers; leaving them nil selects the default.
type RunRequest struct {
	RunID            string
	Objective        string
	Ants             int
	Iterations       int
	AntSteps         *int
	GridSteps        int
	Alpha            *float64
	Beta             *float64
	EvaporationRate  *float64
	InitialPheromone float64
	Q                float64
	LowerBound       float64
	UpperBound       float64
	Seed             int64
	Workers          int

	Progress func(iteration int, bestValue float64)
}

type RunSummary struct {
	RunID           string
	ArtifactsDir    string
	Best            model.Solution
	BestByIteration []float64
	FinalBestValue  float64
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID          string
	CreatedAtUTC   string
	Objective      string
	Seed           int64
	Ants           int
	Iterations     int
	FinalBestValue float64
}

type HistoryRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type DiagnosticsRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

type PlotRequest struct {
	RunID  string
	Latest bool
}

type PlotSummary struct {
	RunID           string
	ConvergencePath string
	SurfacePath     string
}

type ObjectiveSummaryItem struct {
	Name        string
	Description string
	Runs        int
	Best        model.Solution
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	benchmarksDir := opts.BenchmarksDir
	if benchmarksDir == "" {
		benchmarksDir = defaultBenchmarksDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:         store,
		benchmarksDir: benchmarksDir,
		exportsDir:    exportsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	_, err := c.ensureLab(ctx)
	return err
}

func (c *Client) Reset(ctx context.Context) error {
	lab, err := c.ensureLab(ctx)
	if err != nil {
		return err
	}
	return lab.Reset(ctx)
}

// Run executes one optimization, persists it and writes the run artifacts.
// Unset request fields fall back to defaults chosen for the Ackley
// demonstration.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.Objective == "" {
		req.Objective = "ackley"
	}
	if req.Ants <= 0 {
		req.Ants = 30
	}
	if req.Iterations <= 0 {
		req.Iterations = 100
	}
	antSteps := 20
	if req.AntSteps != nil {
		antSteps = *req.AntSteps
	}
	if req.GridSteps <= 0 {
		req.GridSteps = 100
	}
	alpha := 1.0
	if req.Alpha != nil {
		alpha = *req.Alpha
	}
	beta := 2.0
	if req.Beta != nil {
		beta = *req.Beta
	}
	evaporationRate := 0.1
	if req.EvaporationRate != nil {
		evaporationRate = *req.EvaporationRate
	}
	if req.InitialPheromone <= 0 {
		req.InitialPheromone = 1
	}
	if req.Q <= 0 {
		req.Q = 100
	}
	if req.Workers <= 0 {
		req.Workers = 4
	}

	lab, err := c.ensureLab(ctx)
	if err != nil {
		return RunSummary{}, err
	}

	runID := req.RunID
	if runID == "" {
		runID = fmt.Sprintf("%s-%d-%s", req.Objective, req.Seed, uuid.NewString()[:8])
	}

	result, err := lab.RunOptimization(ctx, platform.OptimizationConfig{
		RunID:            runID,
		ObjectiveName:    req.Objective,
		Ants:             req.Ants,
		Iterations:       req.Iterations,
		AntSteps:         antSteps,
		GridSteps:        req.GridSteps,
		Alpha:            alpha,
		Beta:             beta,
		EvaporationRate:  evaporationRate,
		InitialPheromone: req.InitialPheromone,
		DepositFactor:    req.Q,
		LowerBound:       req.LowerBound,
		UpperBound:       req.UpperBound,
		Workers:          req.Workers,
		Seed:             req.Seed,
		Progress:         req.Progress,
	})
	if err != nil {
		return RunSummary{}, err
	}

	runDir, err := stats.WriteRunArtifacts(c.benchmarksDir, stats.RunArtifacts{
		Config:          result.Record,
		BestByIteration: result.BestByIteration,
		Diagnostics:     result.Diagnostics,
		Best:            result.Best,
		FinalBestValue:  result.Best.Value,
	})
	if err != nil {
		return RunSummary{}, err
	}

	if err := stats.AppendRunIndex(c.benchmarksDir, stats.RunIndexEntry{
		RunID:          runID,
		Objective:      req.Objective,
		Ants:           req.Ants,
		Iterations:     req.Iterations,
		GridSteps:      req.GridSteps,
		Seed:           req.Seed,
		Workers:        req.Workers,
		FinalBestValue: result.Best.Value,
		CreatedAtUTC:   time.Now().UTC().Format(time.RFC3339Nano),
	}); err != nil {
		return RunSummary{}, err
	}

	return RunSummary{
		RunID:           runID,
		ArtifactsDir:    filepath.Clean(runDir),
		Best:            result.Best,
		BestByIteration: append([]float64(nil), result.BestByIteration...),
		FinalBestValue:  result.Best.Value,
	}, nil
}

func (c *Client) Runs(_ context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	entries, err := stats.ListRunIndex(c.benchmarksDir)
	if err != nil {
		return nil, err
	}
	if len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}

	out := make([]RunItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, RunItem{
			RunID:          e.RunID,
			CreatedAtUTC:   e.CreatedAtUTC,
			Objective:      e.Objective,
			Seed:           e.Seed,
			Ants:           e.Ants,
			Iterations:     e.Iterations,
			FinalBestValue: e.FinalBestValue,
		})
	}
	return out, nil
}

func (c *Client) History(ctx context.Context, req HistoryRequest) ([]float64, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}

	runID, err := c.resolveRunID(req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}

	if _, err := c.ensureLab(ctx); err != nil {
		return nil, err
	}
	history, ok, err := c.store.GetConvergenceHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("convergence history not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(history) > req.Limit {
		history = history[:req.Limit]
	}
	return append([]float64(nil), history...), nil
}

func (c *Client) Diagnostics(ctx context.Context, req DiagnosticsRequest) ([]model.IterationDiagnostics, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}

	runID, err := c.resolveRunID(req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}

	if _, err := c.ensureLab(ctx); err != nil {
		return nil, err
	}
	diagnostics, ok, err := c.store.GetIterationDiagnostics(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("diagnostics not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(diagnostics) > req.Limit {
		diagnostics = diagnostics[:req.Limit]
	}
	out := make([]model.IterationDiagnostics, len(diagnostics))
	copy(out, diagnostics)
	return out, nil
}

func (c *Client) Export(_ context.Context, req ExportRequest) (ExportSummary, error) {
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}

	runID, err := c.resolveRunID(req.RunID, req.Latest)
	if err != nil {
		return ExportSummary{}, err
	}

	exportedDir, err := stats.ExportRunArtifacts(c.benchmarksDir, runID, req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: filepath.Clean(exportedDir)}, nil
}

// RenderPlots draws the convergence trace and the objective surface for a
// finished run into its artifacts directory.
func (c *Client) RenderPlots(ctx context.Context, req PlotRequest) (PlotSummary, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest)
	if err != nil {
		return PlotSummary{}, err
	}

	lab, err := c.ensureLab(ctx)
	if err != nil {
		return PlotSummary{}, err
	}

	cfg, ok, err := stats.ReadRunConfig(c.benchmarksDir, runID)
	if err != nil {
		return PlotSummary{}, err
	}
	if !ok {
		return PlotSummary{}, fmt.Errorf("run artifacts not found for run id: %s", runID)
	}

	history, ok, err := stats.ReadConvergence(c.benchmarksDir, runID)
	if err != nil {
		return PlotSummary{}, err
	}
	if !ok {
		return PlotSummary{}, fmt.Errorf("convergence artifacts not found for run id: %s", runID)
	}

	fn, ok := lab.Objective(cfg.Objective)
	if !ok {
		return PlotSummary{}, fmt.Errorf("objective not registered: %s", cfg.Objective)
	}

	convergencePath, err := stats.WriteConvergencePlot(c.benchmarksDir, runID, history)
	if err != nil {
		return PlotSummary{}, err
	}
	var surface stats.Surface = fn
	if lo, hi := fn.Bounds(); cfg.LowerBound != lo || cfg.UpperBound != hi {
		// The run searched a custom domain, so the surface is drawn over it.
		surface = boundedSurface{fn: fn, lo: cfg.LowerBound, hi: cfg.UpperBound}
	}
	surfacePath, err := stats.WriteSurfacePlot(c.benchmarksDir, runID, surface, cfg.GridSteps, cfg.Best)
	if err != nil {
		return PlotSummary{}, err
	}

	return PlotSummary{
		RunID:           runID,
		ConvergencePath: convergencePath,
		SurfacePath:     surfacePath,
	}, nil
}

func (c *Client) Objectives(ctx context.Context) ([]string, error) {
	lab, err := c.ensureLab(ctx)
	if err != nil {
		return nil, err
	}
	return lab.RegisteredObjectives(), nil
}

func (c *Client) ObjectiveSummary(ctx context.Context, name string) (ObjectiveSummaryItem, error) {
	if name == "" {
		return ObjectiveSummaryItem{}, errors.New("objective name is required")
	}
	if _, err := c.ensureLab(ctx); err != nil {
		return ObjectiveSummaryItem{}, err
	}
	summary, ok, err := c.store.GetObjectiveSummary(ctx, name)
	if err != nil {
		return ObjectiveSummaryItem{}, err
	}
	if !ok {
		return ObjectiveSummaryItem{}, fmt.Errorf("objective summary not found: %s", name)
	}
	return ObjectiveSummaryItem{
		Name:        summary.Name,
		Description: summary.Description,
		Runs:        summary.Runs,
		Best:        summary.Best,
	}, nil
}

type boundedSurface struct {
	fn     objective.Func
	lo, hi float64
}

func (s boundedSurface) Bounds() (float64, float64) { return s.lo, s.hi }

func (s boundedSurface) Evaluate(x, y float64) float64 { return s.fn.Evaluate(x, y) }

func (c *Client) resolveRunID(runID string, latest bool) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if latest {
		entries, err := stats.ListRunIndex(c.benchmarksDir)
		if err != nil {
			return "", err
		}
		if len(entries) == 0 {
			return "", errors.New("no runs available")
		}
		return entries[0].RunID, nil
	}
	if runID == "" {
		return "", errors.New("run id or latest is required")
	}
	return runID, nil
}

func (c *Client) ensureLab(ctx context.Context) (*platform.Lab, error) {
	if c.lab != nil {
		return c.lab, nil
	}
	lab := platform.NewLab(platform.Config{Store: c.store})
	if err := lab.Init(ctx); err != nil {
		return nil, err
	}
	for _, fn := range objective.Defaults() {
		if err := lab.RegisterObjective(fn); err != nil {
			return nil, err
		}
	}
	c.lab = lab
	return c.lab, nil
}
