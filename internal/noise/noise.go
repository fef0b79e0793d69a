// Package noise synthesizes normalised fractal fields for map generation.
// Two strategies are available: diamond-square midpoint displacement and
// summed-octave coherent noise. Both produce a grid scaled into [0, 1].
package noise

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"

	"github.com/talgya/tidemap/internal/entropy"
	"github.com/talgya/tidemap/internal/grid"
)

// ErrInvalidParams is returned for noise parameters that cannot produce a field.
var ErrInvalidParams = errors.New("noise: invalid parameters")

// Generator fills a width x height grid with noise normalised to [0, 1].
type Generator interface {
	Generate(w, h int) (*grid.Grid[float32], error)
}

// Kind selects the noise strategy.
type Kind uint8

const (
	KindDiamondSquare Kind = iota // Midpoint displacement, driven by the RNG
	KindFractal                   // Summed octaves of coherent noise, driven by Seed
)

// Backend selects the coherent noise primitive used by KindFractal.
type Backend uint8

const (
	BackendOpenSimplex Backend = iota
	BackendPerlin
)

// Config holds the parameters of every strategy; only the fields of the
// selected Kind are read.
type Config struct {
	Kind Kind

	// Diamond-square.
	FeatureSize int // Spacing of the initial random samples
	MinRes      int // Below this step size displacement stops (0 = never)

	// Fractal.
	Frequency   float64
	Octaves     int
	Persistence float64 // Amplitude multiplier per octave
	Lacunarity  float64 // Frequency multiplier per octave
	Backend     Backend
	Tileable    bool // Wrap seamlessly on the torus (opensimplex only)
	Seed        int64
}

// DiamondSquareConfig returns a diamond-square configuration.
func DiamondSquareConfig(featureSize, minRes int) Config {
	return Config{Kind: KindDiamondSquare, FeatureSize: featureSize, MinRes: minRes}
}

// FractalConfig returns an opensimplex fractal configuration with the
// usual persistence 0.5 and lacunarity 2.
func FractalConfig(frequency float64, octaves int, seed int64) Config {
	return Config{
		Kind:        KindFractal,
		Frequency:   frequency,
		Octaves:     octaves,
		Persistence: 0.5,
		Lacunarity:  2,
		Backend:     BackendOpenSimplex,
		Tileable:    true,
		Seed:        seed,
	}
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// FloorPowerOfTwo returns the largest power of two not above n, or 1 for n < 1.
func FloorPowerOfTwo(n int) int {
	if n < 1 {
		return 1
	}
	return 1 << (bits.Len(uint(n)) - 1)
}

// Validate checks the fields read by the selected Kind.
func (c Config) Validate() error {
	switch c.Kind {
	case KindDiamondSquare:
		return validateDiamondSquare(c.FeatureSize, c.MinRes)

	case KindFractal:
		if c.Octaves <= 0 {
			return fmt.Errorf("%w: octaves %d", ErrInvalidParams, c.Octaves)
		}
		if c.Frequency <= 0 {
			return fmt.Errorf("%w: frequency %g", ErrInvalidParams, c.Frequency)
		}
		if c.Backend != BackendOpenSimplex && c.Backend != BackendPerlin {
			return fmt.Errorf("%w: unknown backend %d", ErrInvalidParams, c.Backend)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown kind %d", ErrInvalidParams, c.Kind)
}

// The halving passes only land on the seeded lattice when the feature
// size is a power of two.
func validateDiamondSquare(featureSize, minRes int) error {
	if !IsPowerOfTwo(featureSize) {
		return fmt.Errorf("%w: feature size %d is not a power of two", ErrInvalidParams, featureSize)
	}
	if minRes < 0 {
		return fmt.Errorf("%w: min resolution %d", ErrInvalidParams, minRes)
	}
	return nil
}

// New resolves cfg into a Generator. Diamond-square draws from rng; the
// fractal strategy is seeded by cfg.Seed and ignores rng.
func New(cfg Config, rng entropy.Source) (Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Kind {
	case KindDiamondSquare:
		if rng == nil {
			return nil, fmt.Errorf("%w: diamond-square needs a random source", ErrInvalidParams)
		}
		return &DiamondSquare{FeatureSize: cfg.FeatureSize, MinRes: cfg.MinRes, RNG: rng}, nil

	case KindFractal:
		src, err := newCoherent(cfg.Backend, cfg.Seed)
		if err != nil {
			return nil, err
		}
		f := &Fractal{
			Source:      src,
			Frequency:   cfg.Frequency,
			Octaves:     cfg.Octaves,
			Persistence: cfg.Persistence,
			Lacunarity:  cfg.Lacunarity,
			Tileable:    cfg.Tileable,
		}
		if f.Persistence <= 0 {
			f.Persistence = 0.5
		}
		if f.Lacunarity <= 0 {
			f.Lacunarity = 2
		}
		return f, nil
	}

	return nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidParams, cfg.Kind)
}

// String returns the configuration name of the kind.
func (k Kind) String() string {
	switch k {
	case KindDiamondSquare:
		return "diamond-square"
	case KindFractal:
		return "fractal"
	default:
		return "unknown"
	}
}

// ParseKind accepts the names produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "diamond-square", "diamondsquare", "ds":
		return KindDiamondSquare, nil
	case "fractal", "fbm":
		return KindFractal, nil
	}
	return 0, fmt.Errorf("%w: unknown noise kind %q", ErrInvalidParams, s)
}

// String returns the configuration name of the backend.
func (b Backend) String() string {
	switch b {
	case BackendOpenSimplex:
		return "opensimplex"
	case BackendPerlin:
		return "perlin"
	default:
		return "unknown"
	}
}

// ParseBackend accepts the names produced by Backend.String.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "opensimplex", "simplex":
		return BackendOpenSimplex, nil
	case "perlin":
		return BackendPerlin, nil
	}
	return 0, fmt.Errorf("%w: unknown backend %q", ErrInvalidParams, s)
}
