package objective

import "math"

// Ackley is the classic multimodal benchmark with a single global minimum of
// 0 at the origin surrounded by a nearly flat outer region riddled with
// local minima. The additive constants keep the surface finite everywhere.
type Ackley struct{}

func (Ackley) Name() string { return "ackley" }

func (Ackley) Description() string {
	return "Ackley function, global minimum 0 at (0, 0)"
}

func (Ackley) Bounds() (float64, float64) { return -5, 5 }

func (Ackley) Evaluate(x, y float64) float64 {
	return -20*math.Exp(-0.2*math.Sqrt(0.5*(x*x+y*y))) -
		math.Exp(0.5*(math.Cos(2*math.Pi*x)+math.Cos(2*math.Pi*y))) +
		math.E + 20
}
