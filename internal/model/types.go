package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Solution is one candidate point on the search domain together with its
// objective value.
type Solution struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Value float64 `json:"value"`
}

// IterationDiagnostics summarizes the colony state after one iteration.
type IterationDiagnostics struct {
	Iteration          int     `json:"iteration"`
	BestValue          float64 `json:"best_value"`
	IterationBestValue float64 `json:"iteration_best_value"`
	MeanValue          float64 `json:"mean_value"`
	WorstValue         float64 `json:"worst_value"`
	PheromoneTotal     float64 `json:"pheromone_total"`
}

type RunRecord struct {
	VersionedRecord
	RunID            string   `json:"run_id"`
	Objective        string   `json:"objective"`
	Seed             int64    `json:"seed"`
	Ants             int      `json:"ants"`
	Iterations       int      `json:"iterations"`
	AntSteps         int      `json:"ant_steps"`
	GridSteps        int      `json:"grid_steps"`
	Alpha            float64  `json:"alpha"`
	Beta             float64  `json:"beta"`
	EvaporationRate  float64  `json:"evaporation_rate"`
	InitialPheromone float64  `json:"initial_pheromone"`
	DepositFactor    float64  `json:"deposit_factor"`
	LowerBound       float64  `json:"lower_bound"`
	UpperBound       float64  `json:"upper_bound"`
	Workers          int      `json:"workers"`
	Best             Solution `json:"best"`
	CreatedAtUTC     string   `json:"created_at_utc"`
}

type ObjectiveSummary struct {
	VersionedRecord
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Runs        int      `json:"runs"`
	Best        Solution `json:"best"`
}
