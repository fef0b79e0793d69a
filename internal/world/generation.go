// Package world generates island maps on a toroidal grid.
// Pipeline: base noise → island compositing → land roughness → coastline
// index and sea depth shaping → optional ocean current simulation.
package world

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/talgya/tidemap/internal/entropy"
	"github.com/talgya/tidemap/internal/geom"
	"github.com/talgya/tidemap/internal/grid"
	"github.com/talgya/tidemap/internal/noise"
	"github.com/talgya/tidemap/internal/ocean"
)

var (
	// ErrInvalidConfig is returned when a GenConfig cannot produce a map.
	ErrInvalidConfig = errors.New("world: invalid generation config")

	// ErrSizeMismatch is returned when two layers that must align differ in size.
	ErrSizeMismatch = errors.New("world: layer size mismatch")
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Width  int
	Height int
	Seed   int64 // Random seed (0 = random)

	SeaLevel float32       // Threshold on noise*island factor below which a cell is sea
	Islands  []geom.Circle // Island influence regions (nil = one central island)

	Elevation noise.Config // Base texture noise
	Roughness noise.Config // Second layer reshaping land elevation

	ShelfWidth float32 // Distance from coast (cells) at which the sea reaches full depth
	ShelfDepth float32 // Fraction of full depth kept right at the coast (0–1)

	Flow FlowConfig
}

// FlowConfig controls the ocean current simulation.
type FlowConfig struct {
	Enabled bool
	Scale   int          // Flow is simulated at 1/Scale resolution and upscaled back
	Steps   int          // Simulation iterations
	Angles  noise.Config // Noise driving the initial current direction
}

// DefaultGenConfig returns a 512x512 world with ocean currents.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Seed:       0,
		SeaLevel:   0.32,
		ShelfWidth: 24,
		ShelfDepth: 0.25,
		Flow: FlowConfig{
			Enabled: true,
			Scale:   4,
			Steps:   ocean.DefaultSteps,
		},
	}.WithSize(512, 512)
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() GenConfig {
	cfg := DefaultGenConfig().WithSize(64, 64)
	cfg.Seed = 42
	cfg.ShelfWidth = 6
	return cfg
}

// WithSize returns a copy of c resized to w x h, with the diamond-square
// feature sizes scaled to match and rounded down to a power of two.
func (c GenConfig) WithSize(w, h int) GenConfig {
	c.Width, c.Height = w, h
	c.Elevation = noise.DiamondSquareConfig(noise.FloorPowerOfTwo(w/4), 16)
	c.Roughness = noise.DiamondSquareConfig(noise.FloorPowerOfTwo(w/8), 0)
	scale := max(c.Flow.Scale, 1)
	c.Flow.Angles = noise.DiamondSquareConfig(noise.FloorPowerOfTwo(w/scale/8), 0)
	return c
}

// Validate checks that the configuration can produce a map.
func (c GenConfig) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("size %dx%d must be positive", c.Width, c.Height))
	}
	if c.SeaLevel <= 0 || c.SeaLevel >= 1 {
		errs = append(errs, fmt.Errorf("sea level %g outside (0, 1)", c.SeaLevel))
	}
	if c.ShelfWidth <= 0 {
		errs = append(errs, fmt.Errorf("shelf width %g must be positive", c.ShelfWidth))
	}
	if c.ShelfDepth < 0 || c.ShelfDepth > 1 {
		errs = append(errs, fmt.Errorf("shelf depth %g outside [0, 1]", c.ShelfDepth))
	}
	for i, is := range c.Islands {
		if is.Radius <= 0 {
			errs = append(errs, fmt.Errorf("island %d radius %g must be positive", i, is.Radius))
		}
	}
	if err := c.Elevation.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("elevation: %w", err))
	}
	if err := c.Roughness.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("roughness: %w", err))
	}
	if c.Flow.Enabled {
		if err := c.Flow.Angles.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("flow angles: %w", err))
		}
		switch {
		case c.Flow.Scale <= 0:
			errs = append(errs, fmt.Errorf("flow scale %d must be positive", c.Flow.Scale))
		case c.Width%c.Flow.Scale != 0 || c.Height%c.Flow.Scale != 0:
			errs = append(errs, fmt.Errorf("size %dx%d not divisible by flow scale %d", c.Width, c.Height, c.Flow.Scale))
		}
		if c.Flow.Steps < 0 {
			errs = append(errs, fmt.Errorf("flow steps %d must not be negative", c.Flow.Steps))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Generate creates a complete map. All randomness flows from one RNG seeded
// by cfg.Seed, so equal configs with a non-zero seed give identical maps.
func Generate(cfg GenConfig) (*UpperMap, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := entropy.New(cfg.Seed)
	w, h := cfg.Width, cfg.Height
	m := &UpperMap{Stats: Stats{Seed: rng.Seed()}}

	slog.Debug("generating island noise", "width", w, "height", h, "kind", cfg.Elevation.Kind)
	elev, err := generateNoise(cfg.Elevation, rng, w, h)
	if err != nil {
		return nil, fmt.Errorf("elevation noise: %w", err)
	}

	islands := cfg.Islands
	if islands == nil {
		islands = DefaultIslands(w, h)
	}
	CreateIslands(elev, islands, cfg.SeaLevel)

	rough, err := generateNoise(cfg.Roughness, rng, w, h)
	if err != nil {
		return nil, fmt.Errorf("roughness noise: %w", err)
	}
	if err := RandomizeElevation(elev, rough); err != nil {
		return nil, err
	}

	coast := Coastline(elev)
	m.Stats.CoastCells = len(coast)
	if idx, ok := NewCoastIndex(coast, w, h); ok {
		m.Stats.ShapedSeaCells = ShapeSeaDepth(elev, idx, cfg.ShelfWidth, cfg.ShelfDepth)
		slog.Debug("sea depth shaped", "coast", len(coast), "cells", m.Stats.ShapedSeaCells)
	} else {
		slog.Warn("map has no coastline, skipping depth shaping")
	}

	m.Elevation = elev
	m.Stats.LandCells, m.Stats.SeaCells = countCells(elev)

	if cfg.Flow.Enabled {
		if err := simulateFlow(m, cfg, rng); err != nil {
			return nil, fmt.Errorf("ocean flow: %w", err)
		}
	}

	slog.Info("world generated",
		"seed", m.Stats.Seed,
		"width", w,
		"height", h,
		"land", m.Stats.LandCells,
		"sea", m.Stats.SeaCells,
		"coast", m.Stats.CoastCells,
	)
	return m, nil
}

// simulateFlow runs the current simulation on a downsampled land map and
// upscales the result to the elevation resolution.
func simulateFlow(m *UpperMap, cfg GenConfig, rng *entropy.RNG) error {
	scale := cfg.Flow.Scale
	land, err := grid.Downsample(m.Elevation, scale)
	if err != nil {
		return err
	}

	angles, err := generateNoise(cfg.Flow.Angles, rng, land.Width(), land.Height())
	if err != nil {
		return fmt.Errorf("angle noise: %w", err)
	}

	seed, seeded, err := ocean.SeedFlow(land, angles, 0, 0)
	if err != nil {
		return err
	}
	m.Stats.FlowSeeded = seeded

	sim := ocean.NewSimulator(rng)
	sim.Steps = cfg.Flow.Steps
	flow, res, err := sim.Simulate(land, seed)
	if err != nil {
		return err
	}
	m.Stats.TrappedWater = res.TotalTrapped()
	m.Stats.FlowMagnitude = res.Magnitude

	m.OceanFlow, err = grid.Upscale(flow, scale, geom.BilerpVec2[float32])
	if err != nil {
		return err
	}

	slog.Debug("ocean flow simulated",
		"steps", sim.Steps,
		"seeded", seeded,
		"trapped", m.Stats.TrappedWater,
	)
	return nil
}

// generateNoise builds a noise layer. Fractal configs without a seed draw
// one from rng so the whole map still follows cfg.Seed.
func generateNoise(cfg noise.Config, rng *entropy.RNG, w, h int) (*grid.Grid[float32], error) {
	if cfg.Kind == noise.KindFractal && cfg.Seed == 0 {
		cfg.Seed = rng.Int63()
	}
	gen, err := noise.New(cfg, rng)
	if err != nil {
		return nil, err
	}
	return gen.Generate(w, h)
}
