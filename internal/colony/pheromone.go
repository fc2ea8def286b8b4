package colony

// PheromoneField is the shared n×n intensity matrix reinforced by good
// solutions and decayed once per iteration. It is the only mutable state
// carried across iterations; all writes happen between walk phases, so ants
// never observe a partial update.
type PheromoneField struct {
	n      int
	values []float64
}

func NewPheromoneField(n int, initial float64) *PheromoneField {
	values := make([]float64, n*n)
	for k := range values {
		values[k] = initial
	}
	return &PheromoneField{n: n, values: values}
}

func (p *PheromoneField) At(i, j int) float64 { return p.values[i*p.n+j] }

// Evaporate applies uniform multiplicative decay to the whole field.
func (p *PheromoneField) Evaporate(rate float64) {
	factor := 1 - rate
	for k := range p.values {
		p.values[k] *= factor
	}
}

// Deposit adds a non-negative amount of intensity to a single cell.
func (p *PheromoneField) Deposit(i, j int, amount float64) {
	p.values[i*p.n+j] += amount
}

// Total is the summed intensity over the whole field, used for diagnostics.
func (p *PheromoneField) Total() float64 {
	total := 0.0
	for _, v := range p.values {
		total += v
	}
	return total
}
