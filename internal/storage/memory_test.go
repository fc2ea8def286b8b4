package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"formica/internal/model"
)

func testRunRecord(runID string) model.RunRecord {
	return model.RunRecord{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: CurrentSchemaVersion,
			CodecVersion:  CurrentCodecVersion,
		},
		RunID:            runID,
		Objective:        "ackley",
		Seed:             42,
		Ants:             30,
		Iterations:       100,
		AntSteps:         20,
		GridSteps:        100,
		Alpha:            1,
		Beta:             2,
		EvaporationRate:  0.1,
		InitialPheromone: 1,
		DepositFactor:    100,
		LowerBound:       -5,
		UpperBound:       5,
		Workers:          4,
		Best:             model.Solution{X: 0.05, Y: -0.05, Value: 0.42},
		CreatedAtUTC:     "2026-08-30T12:00:00Z",
	}
}

func TestMemoryStoreRunRecordRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}

	record := testRunRecord("run-1")
	if err := store.SaveRunRecord(ctx, record); err != nil {
		t.Fatalf("SaveRunRecord: %v", err)
	}

	got, ok, err := store.GetRunRecord(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRunRecord: %v", err)
	}
	if !ok {
		t.Fatal("expected run record to exist")
	}
	if !reflect.DeepEqual(got, record) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, record)
	}
}

func TestMemoryStoreMissingRecords(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if _, ok, err := store.GetRunRecord(ctx, "absent"); err != nil || ok {
		t.Fatalf("GetRunRecord absent: ok=%v err=%v", ok, err)
	}
	if _, ok, err := store.GetConvergenceHistory(ctx, "absent"); err != nil || ok {
		t.Fatalf("GetConvergenceHistory absent: ok=%v err=%v", ok, err)
	}
	if _, ok, err := store.GetIterationDiagnostics(ctx, "absent"); err != nil || ok {
		t.Fatalf("GetIterationDiagnostics absent: ok=%v err=%v", ok, err)
	}
	if _, ok, err := store.GetObjectiveSummary(ctx, "absent"); err != nil || ok {
		t.Fatalf("GetObjectiveSummary absent: ok=%v err=%v", ok, err)
	}
}

func TestMemoryStoreListRunIDsSorted(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}

	for _, id := range []string{"run-c", "run-a", "run-b"} {
		if err := store.SaveRunRecord(ctx, testRunRecord(id)); err != nil {
			t.Fatalf("SaveRunRecord %s: %v", id, err)
		}
	}

	ids, err := store.ListRunIDs(ctx)
	if err != nil {
		t.Fatalf("ListRunIDs: %v", err)
	}
	want := []string{"run-a", "run-b", "run-c"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("ListRunIDs = %v, want %v", ids, want)
	}
}

func TestMemoryStoreHistoryIsCopied(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}

	history := []float64{3, 2, 1}
	if err := store.SaveConvergenceHistory(ctx, "run-1", history); err != nil {
		t.Fatalf("SaveConvergenceHistory: %v", err)
	}

	history[0] = 99

	got, ok, err := store.GetConvergenceHistory(ctx, "run-1")
	if err != nil || !ok {
		t.Fatalf("GetConvergenceHistory: ok=%v err=%v", ok, err)
	}
	if got[0] != 3 {
		t.Fatalf("stored history aliases caller slice: got[0] = %v", got[0])
	}

	got[1] = 99
	again, _, err := store.GetConvergenceHistory(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetConvergenceHistory: %v", err)
	}
	if again[1] != 2 {
		t.Fatalf("returned history aliases stored slice: again[1] = %v", again[1])
	}
}

func TestMemoryStoreReset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if err := store.SaveRunRecord(ctx, testRunRecord("run-1")); err != nil {
		t.Fatalf("SaveRunRecord: %v", err)
	}
	if err := store.SaveObjectiveSummary(ctx, model.ObjectiveSummary{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: CurrentSchemaVersion,
			CodecVersion:  CurrentCodecVersion,
		},
		Name: "ackley",
		Runs: 1,
	}); err != nil {
		t.Fatalf("SaveObjectiveSummary: %v", err)
	}

	if err := store.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	if _, ok, _ := store.GetRunRecord(ctx, "run-1"); ok {
		t.Fatal("run record survived reset")
	}
	if _, ok, _ := store.GetObjectiveSummary(ctx, "ackley"); ok {
		t.Fatal("objective summary survived reset")
	}
}

func TestCodecRejectsVersionMismatch(t *testing.T) {
	record := testRunRecord("run-1")
	record.SchemaVersion = CurrentSchemaVersion + 1

	payload, err := EncodeRunRecord(record)
	if err != nil {
		t.Fatalf("EncodeRunRecord: %v", err)
	}
	if _, err := DecodeRunRecord(payload); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("DecodeRunRecord error = %v, want ErrVersionMismatch", err)
	}

	summary := model.ObjectiveSummary{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: CurrentSchemaVersion,
			CodecVersion:  CurrentCodecVersion + 1,
		},
		Name: "ackley",
	}
	payload, err = EncodeObjectiveSummary(summary)
	if err != nil {
		t.Fatalf("EncodeObjectiveSummary: %v", err)
	}
	if _, err := DecodeObjectiveSummary(payload); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("DecodeObjectiveSummary error = %v, want ErrVersionMismatch", err)
	}
}

func TestNewStoreKinds(t *testing.T) {
	store, err := NewStore(KindMemory, "")
	if err != nil {
		t.Fatalf("NewStore(memory): %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Fatalf("NewStore(memory) = %T, want *MemoryStore", store)
	}
	if err := CloseIfSupported(store); err != nil {
		t.Fatalf("CloseIfSupported(memory): %v", err)
	}

	if _, err := NewStore("bogus", ""); err == nil {
		t.Fatal("expected error for unknown store kind")
	}
}
