package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"formica/internal/model"
)

const runIndexFile = "run_index.json"

// RunArtifacts bundles everything a finished optimization run leaves behind
// on disk.
type RunArtifacts struct {
	Config          model.RunRecord              `json:"config"`
	BestByIteration []float64                    `json:"best_by_iteration"`
	Diagnostics     []model.IterationDiagnostics `json:"diagnostics,omitempty"`
	Best            model.Solution               `json:"best"`
	FinalBestValue  float64                      `json:"final_best_value"`
}

// RunIndexEntry is one row of the benchmarks directory index.
type RunIndexEntry struct {
	RunID          string  `json:"run_id"`
	Objective      string  `json:"objective"`
	Ants           int     `json:"ants"`
	Iterations     int     `json:"iterations"`
	GridSteps      int     `json:"grid_steps"`
	Seed           int64   `json:"seed"`
	Workers        int     `json:"workers"`
	FinalBestValue float64 `json:"final_best_value"`
	CreatedAtUTC   string  `json:"created_at_utc"`
}

// WriteRunArtifacts materializes the run directory under baseDir and returns
// its path.
func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Config.RunID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Config.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "config.json"), artifacts.Config); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "convergence.json"), map[string]any{"best_by_iteration": artifacts.BestByIteration, "final_best_value": artifacts.FinalBestValue}); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "diagnostics.json"), artifacts.Diagnostics); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "best.json"), artifacts.Best); err != nil {
		return "", err
	}

	return runDir, nil
}

// AppendRunIndex records entry in the index, replacing any previous entry
// with the same run id.
func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}

	for i := range index {
		if index[i].RunID == entry.RunID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, runIndexFile), index)
		}
	}

	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, runIndexFile), index)
}

// ListRunIndex returns the index entries newest first.
func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	path := filepath.Join(baseDir, runIndexFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	// RFC3339Nano trims trailing fractional zeros, so the raw strings do
	// not sort chronologically. Compare parsed times; unparsable entries
	// carry the zero time and sink to the end.
	type indexedEntry struct {
		entry   RunIndexEntry
		created time.Time
		idx     int
	}
	indexed := make([]indexedEntry, len(entries))
	for i := range entries {
		created, _ := time.Parse(time.RFC3339Nano, entries[i].CreatedAtUTC)
		indexed[i] = indexedEntry{entry: entries[i], created: created, idx: i}
	}
	sort.Slice(indexed, func(i, j int) bool {
		if indexed[i].created.Equal(indexed[j].created) {
			// Prefer later appended entries for equal timestamps.
			return indexed[i].idx > indexed[j].idx
		}
		return indexed[i].created.After(indexed[j].created)
	})

	sorted := make([]RunIndexEntry, 0, len(indexed))
	for _, item := range indexed {
		sorted = append(sorted, item.entry)
	}
	return sorted, nil
}

// ExportRunArtifacts copies one run directory into outDir and returns the
// destination path. Plot images are copied when present.
func ExportRunArtifacts(baseDir, runID, outDir string) (string, error) {
	if runID == "" {
		return "", fmt.Errorf("run id is required")
	}

	src := filepath.Join(baseDir, runID)
	if _, err := os.Stat(src); err != nil {
		return "", err
	}

	dst := filepath.Join(outDir, runID)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", err
	}

	files := []string{"config.json", "convergence.json", "diagnostics.json", "best.json"}
	for _, file := range files {
		if err := copyFile(filepath.Join(src, file), filepath.Join(dst, file)); err != nil {
			return "", err
		}
	}
	for _, optional := range []string{convergencePlotFile, surfacePlotFile} {
		path := filepath.Join(src, optional)
		if _, err := os.Stat(path); err == nil {
			if err := copyFile(path, filepath.Join(dst, optional)); err != nil {
				return "", err
			}
		} else if !os.IsNotExist(err) {
			return "", err
		}
	}

	return dst, nil
}

// ReadRunConfig loads the persisted run configuration for one run.
func ReadRunConfig(baseDir, runID string) (model.RunRecord, bool, error) {
	path := filepath.Join(baseDir, runID, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.RunRecord{}, false, nil
		}
		return model.RunRecord{}, false, err
	}

	var cfg model.RunRecord
	if err := json.Unmarshal(data, &cfg); err != nil {
		return model.RunRecord{}, false, err
	}
	return cfg, true, nil
}

// ReadConvergence loads the best-by-iteration trace written by
// WriteRunArtifacts.
func ReadConvergence(baseDir, runID string) ([]float64, bool, error) {
	path := filepath.Join(baseDir, runID, "convergence.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var payload struct {
		BestByIteration []float64 `json:"best_by_iteration"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, false, err
	}
	return payload.BestByIteration, true, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
