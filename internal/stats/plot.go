package stats

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"formica/internal/model"
)

const (
	convergencePlotFile = "convergence.png"
	surfacePlotFile     = "surface.png"
)

// Surface is the slice of the objective landscape rendered by
// WriteSurfacePlot.
type Surface interface {
	Bounds() (lo, hi float64)
	Evaluate(x, y float64) float64
}

// WriteConvergencePlot renders the best-so-far trace of one run as a line
// plot and returns the image path.
func WriteConvergencePlot(baseDir, runID string, bestByIteration []float64) (string, error) {
	if runID == "" {
		return "", fmt.Errorf("run id is required")
	}
	if len(bestByIteration) == 0 {
		return "", fmt.Errorf("convergence history is empty")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Convergence %s", runID)
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "Best value"

	pts := make(plotter.XYs, len(bestByIteration))
	for i, v := range bestByIteration {
		pts[i].X = float64(i)
		pts[i].Y = v
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return "", err
	}
	line.Color = color.RGBA{R: 196, G: 60, B: 40, A: 255}

	p.Add(plotter.NewGrid(), line)
	p.Legend.Add("best so far", line)

	runDir := filepath.Join(baseDir, runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(runDir, convergencePlotFile)
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return "", err
	}
	return path, nil
}

// WriteSurfacePlot renders the objective landscape as a heat map with the
// run's best solution marked, and returns the image path.
func WriteSurfacePlot(baseDir, runID string, surface Surface, steps int, best model.Solution) (string, error) {
	if runID == "" {
		return "", fmt.Errorf("run id is required")
	}
	if steps < 2 {
		steps = 100
	}

	grid := newSurfaceGrid(surface, steps)
	heatMap := plotter.NewHeatMap(grid, palette.Heat(64, 1))

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Surface %s", runID)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(heatMap)

	marker, err := plotter.NewScatter(plotter.XYs{{X: best.X, Y: best.Y}})
	if err != nil {
		return "", err
	}
	marker.GlyphStyle.Shape = draw.CrossGlyph{}
	marker.GlyphStyle.Radius = vg.Points(5)
	marker.GlyphStyle.Color = color.RGBA{B: 255, A: 255}
	p.Add(marker)

	runDir := filepath.Join(baseDir, runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(runDir, surfacePlotFile)
	if err := p.Save(5*vg.Inch, 5*vg.Inch, path); err != nil {
		return "", err
	}
	return path, nil
}

// surfaceGrid adapts an objective surface to plotter.GridXYZ, evaluating
// every cell once up front.
type surfaceGrid struct {
	lo, hi float64
	steps  int
	values []float64
}

func newSurfaceGrid(surface Surface, steps int) *surfaceGrid {
	lo, hi := surface.Bounds()
	g := &surfaceGrid{lo: lo, hi: hi, steps: steps, values: make([]float64, steps*steps)}
	for c := 0; c < steps; c++ {
		for r := 0; r < steps; r++ {
			g.values[c*steps+r] = surface.Evaluate(g.X(c), g.Y(r))
		}
	}
	return g
}

func (g *surfaceGrid) Dims() (c, r int) { return g.steps, g.steps }

func (g *surfaceGrid) X(c int) float64 { return g.coord(c) }

func (g *surfaceGrid) Y(r int) float64 { return g.coord(r) }

func (g *surfaceGrid) Z(c, r int) float64 { return g.values[c*g.steps+r] }

func (g *surfaceGrid) coord(i int) float64 {
	if i == g.steps-1 {
		return g.hi
	}
	return g.lo + float64(i)*(g.hi-g.lo)/float64(g.steps-1)
}
