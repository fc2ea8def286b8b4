package objective

import "math"

// Sphere is the simplest convex benchmark, global minimum 0 at the origin.
type Sphere struct{}

func (Sphere) Name() string { return "sphere" }

func (Sphere) Description() string {
	return "sphere function, global minimum 0 at (0, 0)"
}

func (Sphere) Bounds() (float64, float64) { return -5.12, 5.12 }

func (Sphere) Evaluate(x, y float64) float64 { return x*x + y*y }

// Rastrigin is highly multimodal with a regular lattice of local minima and
// a global minimum of 0 at the origin.
type Rastrigin struct{}

func (Rastrigin) Name() string { return "rastrigin" }

func (Rastrigin) Description() string {
	return "Rastrigin function, global minimum 0 at (0, 0)"
}

func (Rastrigin) Bounds() (float64, float64) { return -5.12, 5.12 }

func (Rastrigin) Evaluate(x, y float64) float64 {
	return 20 + x*x - 10*math.Cos(2*math.Pi*x) + y*y - 10*math.Cos(2*math.Pi*y)
}

// Himmelblau has four identical global minima of 0.
type Himmelblau struct{}

func (Himmelblau) Name() string { return "himmelblau" }

func (Himmelblau) Description() string {
	return "Himmelblau function, four global minima of 0"
}

func (Himmelblau) Bounds() (float64, float64) { return -6, 6 }

func (Himmelblau) Evaluate(x, y float64) float64 {
	a := x*x + y - 11
	b := x + y*y - 7
	return a*a + b*b
}

// Eggholder is a deceptive surface whose global minimum of about -959.64
// sits near a corner of the domain. Its range crosses zero, which exercises
// the colony's deposit clamping.
type Eggholder struct{}

func (Eggholder) Name() string { return "eggholder" }

func (Eggholder) Description() string {
	return "Eggholder function, global minimum about -959.64 at (512, 404.23)"
}

func (Eggholder) Bounds() (float64, float64) { return -512, 512 }

func (Eggholder) Evaluate(x, y float64) float64 {
	return -(y+47)*math.Sin(math.Sqrt(math.Abs(x/2+y+47))) -
		x*math.Sin(math.Sqrt(math.Abs(x-(y+47))))
}
