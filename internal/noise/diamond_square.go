package noise

import (
	"log/slog"

	"github.com/talgya/tidemap/internal/entropy"
	"github.com/talgya/tidemap/internal/grid"
)

// DiamondSquare generates midpoint-displacement noise. All reads and writes
// wrap, so the field tiles on the torus.
type DiamondSquare struct {
	FeatureSize int
	MinRes      int
	RNG         entropy.Source
}

// Generate seeds a lattice every FeatureSize cells and refines it by
// alternating diamond and square passes until every cell is set.
// FeatureSize must be a power of two.
func (d *DiamondSquare) Generate(w, h int) (*grid.Grid[float32], error) {
	g, err := d.fill(w, h)
	if err != nil {
		return nil, err
	}

	if !grid.Normalise(g) {
		slog.Warn("diamond-square produced a constant field", "width", w, "height", h)
	}
	return g, nil
}

// fill runs the displacement passes without normalising.
func (d *DiamondSquare) fill(w, h int) (*grid.Grid[float32], error) {
	if err := validateDiamondSquare(d.FeatureSize, d.MinRes); err != nil {
		return nil, err
	}
	g, err := grid.NewFromElem(w, h, float32(0))
	if err != nil {
		return nil, err
	}

	for y := 0; y < h; y += d.FeatureSize {
		for x := 0; x < w; x += d.FeatureSize {
			g.Set(x, y, d.RNG.Float32())
		}
	}

	step := d.FeatureSize
	factor := float32(1)

	for step > 1 {
		half := step / 2

		// Diamond: centre of each square from its four corners.
		for y := half; y < h+half; y += step {
			for x := half; x < w+half; x += step {
				g.Set(x, y, averageCorners(g, x, y, half)+d.displace(factor))
			}
		}

		// Square: edge midpoints from their four neighbours.
		for y := 0; y < h; y += step {
			for x := 0; x < w; x += step {
				g.Set(x+half, y, averageSides(g, x+half, y, half)+d.displace(factor))
				g.Set(x, y+half, averageSides(g, x, y+half, half)+d.displace(factor))
			}
		}

		step = half
		if step >= d.MinRes {
			factor /= 2
		} else {
			factor = 0
		}
	}

	return g, nil
}

func (d *DiamondSquare) displace(factor float32) float32 {
	return (d.RNG.Float32()*2 - 1) * factor
}

func averageCorners(g *grid.Grid[float32], x, y, off int) float32 {
	return (g.Get(x-off, y-off) + g.Get(x+off, y-off) +
		g.Get(x-off, y+off) + g.Get(x+off, y+off)) / 4
}

func averageSides(g *grid.Grid[float32], x, y, off int) float32 {
	return (g.Get(x-off, y) + g.Get(x+off, y) +
		g.Get(x, y-off) + g.Get(x, y+off)) / 4
}
