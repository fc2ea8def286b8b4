package storage

import (
	"context"
	"sort"
	"sync"

	"formica/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]model.RunRecord
	histories   map[string][]float64
	diagnostics map[string][]model.IterationDiagnostics
	objectives  map[string]model.ObjectiveSummary
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]model.RunRecord)
	s.histories = make(map[string][]float64)
	s.diagnostics = make(map[string][]model.IterationDiagnostics)
	s.objectives = make(map[string]model.ObjectiveSummary)
	return nil
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	return s.Init(ctx)
}

func (s *MemoryStore) SaveRunRecord(_ context.Context, record model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[record.RunID] = record
	return nil
}

func (s *MemoryStore) GetRunRecord(_ context.Context, runID string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.runs[runID]
	return record, ok, nil
}

func (s *MemoryStore) ListRunIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.runs))
	for id := range s.runs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) SaveConvergenceHistory(_ context.Context, runID string, history []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.histories[runID] = append([]float64(nil), history...)
	return nil
}

func (s *MemoryStore) GetConvergenceHistory(_ context.Context, runID string) ([]float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.histories[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]float64(nil), history...), true, nil
}

func (s *MemoryStore) SaveIterationDiagnostics(_ context.Context, runID string, diagnostics []model.IterationDiagnostics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.diagnostics[runID] = append([]model.IterationDiagnostics(nil), diagnostics...)
	return nil
}

func (s *MemoryStore) GetIterationDiagnostics(_ context.Context, runID string) ([]model.IterationDiagnostics, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	diagnostics, ok := s.diagnostics[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]model.IterationDiagnostics(nil), diagnostics...), true, nil
}

func (s *MemoryStore) SaveObjectiveSummary(_ context.Context, summary model.ObjectiveSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.objectives[summary.Name] = summary
	return nil
}

func (s *MemoryStore) GetObjectiveSummary(_ context.Context, name string) (model.ObjectiveSummary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, ok := s.objectives[name]
	return summary, ok, nil
}
