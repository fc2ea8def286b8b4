package storage

import (
	"context"

	"formica/internal/model"
)

// Store defines persistence for optimization runs and their histories.
type Store interface {
	Init(ctx context.Context) error
	SaveRunRecord(ctx context.Context, record model.RunRecord) error
	GetRunRecord(ctx context.Context, runID string) (model.RunRecord, bool, error)
	ListRunIDs(ctx context.Context) ([]string, error)
	SaveConvergenceHistory(ctx context.Context, runID string, history []float64) error
	GetConvergenceHistory(ctx context.Context, runID string) ([]float64, bool, error)
	SaveIterationDiagnostics(ctx context.Context, runID string, diagnostics []model.IterationDiagnostics) error
	GetIterationDiagnostics(ctx context.Context, runID string) ([]model.IterationDiagnostics, bool, error)
	SaveObjectiveSummary(ctx context.Context, summary model.ObjectiveSummary) error
	GetObjectiveSummary(ctx context.Context, name string) (model.ObjectiveSummary, bool, error)
}

// Resetter is implemented by stores that can drop all persisted state.
type Resetter interface {
	Reset(ctx context.Context) error
}
