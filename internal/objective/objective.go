package objective

import "fmt"

// Func is a continuous two-variable cost surface defined and finite on a
// square [lo,hi]×[lo,hi] domain. Implementations must be stateless and safe
// for any number of concurrent callers.
type Func interface {
	Name() string
	Description() string
	Bounds() (lo, hi float64)
	Evaluate(x, y float64) float64
}

// Defaults lists the built-in benchmark surfaces.
func Defaults() []Func {
	return []Func{
		Ackley{},
		Sphere{},
		Rastrigin{},
		Himmelblau{},
		Eggholder{},
	}
}

func ByName(name string) (Func, error) {
	for _, f := range Defaults() {
		if f.Name() == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("unknown objective: %s", name)
}
