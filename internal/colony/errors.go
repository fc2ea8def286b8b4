package colony

import "errors"

var (
	// ErrInvalidConfig marks a colony parameter outside its documented domain.
	ErrInvalidConfig = errors.New("invalid colony configuration")

	// ErrDegenerateWeights is returned when no transition distribution can be
	// formed because the cell weights sum to zero or overflow.
	ErrDegenerateWeights = errors.New("degenerate transition weights")
)
