package main

import (
	"encoding/json"
	"os"

	formicaapi "formica/pkg/formica"
)

func loadRunRequestFromConfig(path string) (formicaapi.RunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return formicaapi.RunRequest{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return formicaapi.RunRequest{}, err
	}

	var req formicaapi.RunRequest
	if v, ok := asString(raw["run_id"]); ok {
		req.RunID = v
	}
	if v, ok := asString(raw["objective"]); ok {
		req.Objective = v
	}
	if v, ok := asInt(raw["ants"]); ok {
		req.Ants = v
	}
	if v, ok := asInt(raw["iterations"]); ok {
		req.Iterations = v
	}
	if v, ok := asInt(raw["ant_steps"]); ok {
		req.AntSteps = &v
	}
	if v, ok := asInt(raw["grid_steps"]); ok {
		req.GridSteps = v
	}
	if v, ok := asFloat64(raw["alpha"]); ok {
		req.Alpha = &v
	}
	if v, ok := asFloat64(raw["beta"]); ok {
		req.Beta = &v
	}
	if v, ok := asFloat64(raw["evaporation_rate"]); ok {
		req.EvaporationRate = &v
	}
	if v, ok := asFloat64(raw["initial_pheromone"]); ok {
		req.InitialPheromone = v
	}
	if v, ok := asFloat64(raw["q"]); ok {
		req.Q = v
	}
	if v, ok := asFloat64(raw["lower_bound"]); ok {
		req.LowerBound = v
	}
	if v, ok := asFloat64(raw["upper_bound"]); ok {
		req.UpperBound = v
	}
	if v, ok := asInt64(raw["seed"]); ok {
		req.Seed = v
	}
	if v, ok := asInt(raw["workers"]); ok {
		req.Workers = v
	}
	return req, nil
}

func overrideFromFlags(req *formicaapi.RunRequest, set map[string]bool, flagValue map[string]any) {
	for name := range set {
		v, ok := flagValue[name]
		if !ok {
			continue
		}
		switch name {
		case "run-id":
			req.RunID = v.(string)
		case "objective":
			req.Objective = v.(string)
		case "ants":
			req.Ants = v.(int)
		case "iterations":
			req.Iterations = v.(int)
		case "ant-steps":
			req.AntSteps = v.(*int)
		case "grid-steps":
			req.GridSteps = v.(int)
		case "alpha":
			req.Alpha = v.(*float64)
		case "beta":
			req.Beta = v.(*float64)
		case "evaporation":
			req.EvaporationRate = v.(*float64)
		case "pheromone":
			req.InitialPheromone = v.(float64)
		case "q":
			req.Q = v.(float64)
		case "lo":
			req.LowerBound = v.(float64)
		case "hi":
			req.UpperBound = v.(float64)
		case "seed":
			req.Seed = v.(int64)
		case "workers":
			req.Workers = v.(int)
		}
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}
