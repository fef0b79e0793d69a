package noise

import (
	"fmt"
	"log/slog"
	"math"

	perlin "github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/tidemap/internal/grid"
)

// Coherent is a deterministic smooth noise function returning values in [-1, 1].
type Coherent interface {
	Eval2(x, y float64) float64
}

// coherent4 is implemented by backends that can sample four dimensions,
// which lets a 2D field wrap on both axes.
type coherent4 interface {
	Eval4(x, y, z, w float64) float64
}

// perlinNoise adapts go-perlin to Coherent.
type perlinNoise struct {
	p *perlin.Perlin
}

func (n perlinNoise) Eval2(x, y float64) float64 {
	return n.p.Noise2D(x, y)
}

func newCoherent(b Backend, seed int64) (Coherent, error) {
	switch b {
	case BackendOpenSimplex:
		return opensimplex.New(seed), nil
	case BackendPerlin:
		return perlinNoise{p: perlin.NewPerlin(2, 2, 3, seed)}, nil
	}
	return nil, fmt.Errorf("%w: unknown backend %d", ErrInvalidParams, b)
}

// Fractal sums octaves of coherent noise at increasing frequency and
// decreasing amplitude.
type Fractal struct {
	Source      Coherent
	Frequency   float64
	Octaves     int
	Persistence float64
	Lacunarity  float64
	Tileable    bool
}

// Generate samples every cell and normalises the result.
func (f *Fractal) Generate(w, h int) (*grid.Grid[float32], error) {
	sample := f.sampler(w, h)
	g, err := grid.NewFromFn(w, h, func(x, y int) float32 {
		return float32(sample(float64(x), float64(y)))
	})
	if err != nil {
		return nil, err
	}

	if !grid.Normalise(g) {
		slog.Warn("fractal noise produced a constant field", "width", w, "height", h)
	}
	return g, nil
}

// sampler returns the per-cell octave sum. Tileable sampling maps each axis
// onto a circle in 4D space so opposite edges meet without a seam.
func (f *Fractal) sampler(w, h int) func(x, y float64) float64 {
	src4, ok := f.Source.(coherent4)
	if f.Tileable && !ok {
		slog.Warn("noise backend cannot tile, sampling the plane")
	}

	if f.Tileable && ok {
		// Circumference equals the grid size, so Frequency means the same as in the plane.
		rx := float64(w) / (2 * math.Pi)
		ry := float64(h) / (2 * math.Pi)
		return func(x, y float64) float64 {
			ax := 2 * math.Pi * x / float64(w)
			ay := 2 * math.Pi * y / float64(h)
			sx, cx := math.Sincos(ax)
			sy, cy := math.Sincos(ay)
			return f.octaves(func(freq float64) float64 {
				return src4.Eval4(cx*rx*freq, sx*rx*freq, cy*ry*freq, sy*ry*freq)
			})
		}
	}

	return func(x, y float64) float64 {
		return f.octaves(func(freq float64) float64 {
			return f.Source.Eval2(x*freq, y*freq)
		})
	}
}

func (f *Fractal) octaves(eval func(freq float64) float64) float64 {
	total := 0.0
	amplitude := 1.0
	frequency := f.Frequency

	for i := 0; i < f.Octaves; i++ {
		total += eval(frequency) * amplitude
		amplitude *= f.Persistence
		frequency *= f.Lacunarity
	}
	return total
}
