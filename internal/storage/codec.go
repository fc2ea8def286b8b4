package storage

import (
	"encoding/json"
	"errors"

	"formica/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRunRecord(r model.RunRecord) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRunRecord(data []byte) (model.RunRecord, error) {
	var record model.RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.RunRecord{}, err
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return record, nil
}

func EncodeObjectiveSummary(s model.ObjectiveSummary) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeObjectiveSummary(data []byte) (model.ObjectiveSummary, error) {
	var summary model.ObjectiveSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return model.ObjectiveSummary{}, err
	}
	if err := checkVersion(summary.VersionedRecord); err != nil {
		return model.ObjectiveSummary{}, err
	}
	return summary, nil
}

func EncodeConvergenceHistory(history []float64) ([]byte, error) {
	return json.Marshal(history)
}

func DecodeConvergenceHistory(data []byte) ([]float64, error) {
	var history []float64
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func EncodeIterationDiagnostics(diagnostics []model.IterationDiagnostics) ([]byte, error) {
	return json.Marshal(diagnostics)
}

func DecodeIterationDiagnostics(data []byte) ([]model.IterationDiagnostics, error) {
	var diagnostics []model.IterationDiagnostics
	if err := json.Unmarshal(data, &diagnostics); err != nil {
		return nil, err
	}
	return diagnostics, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
