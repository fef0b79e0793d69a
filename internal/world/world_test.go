package world

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/tidemap/internal/geom"
	"github.com/talgya/tidemap/internal/grid"
	"github.com/talgya/tidemap/internal/kdtree"
	"github.com/talgya/tidemap/internal/noise"
)

func TestIslandFactor(t *testing.T) {
	islands := []geom.Circle{
		{Center: geom.V[float32](10, 10), Radius: 5},
		{Center: geom.V[float32](30, 10), Radius: 10},
	}

	assert.Equal(t, float32(1), IslandFactor(islands, geom.V[float32](10, 10)))
	assert.Equal(t, float32(1), IslandFactor(islands, geom.V[float32](30, 10)))
	// Overlap region takes the strongest island.
	assert.InDelta(t, 0.5, IslandFactor(islands, geom.V[float32](25, 10)), 1e-6)
	assert.Equal(t, float32(0), IslandFactor(islands, geom.V[float32](10, 30)))
	assert.Equal(t, float32(0), IslandFactor(nil, geom.V[float32](10, 10)))
}

func TestCreateIslands(t *testing.T) {
	elev, err := grid.NewFromElem(20, 20, float32(0.6))
	require.NoError(t, err)
	elev.Set(5, 2, 0.2)
	elev.Set(15, 0, 0)
	islands := []geom.Circle{{Center: geom.V[float32](5, 5), Radius: 4}}

	CreateIslands(elev, islands, 0.3)

	// Island centre: h == 1, so the noise alone decides.
	assert.Equal(t, float32(1), elev.Get(5, 5))
	// Outside every island: h == 0, always sea, depth = noise.
	assert.Equal(t, float32(-0.6), elev.Get(15, 15))
	// Low noise three quarters out (h == 0.25) drops below sea level.
	assert.Equal(t, float32(-0.2), elev.Get(5, 2))
	// Zero noise still reads as sea.
	assert.Less(t, elev.Get(15, 0), float32(0))
	// Half way out: 0.6 * 0.5 == 0.3 is not below sea level.
	assert.InDelta(t, 0.5, elev.Get(7, 5), 1e-6)
}

func TestRandomizeElevation(t *testing.T) {
	elev, err := grid.FromRaw(3, 1, []float32{0.25, -0.4, 0})
	require.NoError(t, err)
	rough, err := grid.FromRaw(3, 1, []float32{0.5, 0.9, 0.9})
	require.NoError(t, err)

	require.NoError(t, RandomizeElevation(elev, rough))
	assert.InDelta(t, 0.8*0.5*0.5+0.2*0.5, elev.Get(0, 0), 1e-6)
	assert.Equal(t, float32(-0.4), elev.Get(1, 0), "sea is untouched")
	assert.Equal(t, float32(0), elev.Get(2, 0))

	small, err := grid.NewFromElem(2, 1, float32(0))
	require.NoError(t, err)
	assert.ErrorIs(t, RandomizeElevation(elev, small), ErrSizeMismatch)
}

func TestCoastline(t *testing.T) {
	elev, err := grid.NewFromElem(6, 6, float32(-1))
	require.NoError(t, err)
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			elev.Set(x, y, 1)
		}
	}

	coast := Coastline(elev)
	assert.Len(t, coast, 8, "ring of the 3x3 block, centre is inland")
	assert.NotContains(t, coast, kdtree.Point2{X: 2, Y: 2})
	assert.Contains(t, coast, kdtree.Point2{X: 1, Y: 1})
}

func TestCoastIndexWraps(t *testing.T) {
	_, ok := NewCoastIndex(nil, 10, 10)
	assert.False(t, ok)

	idx, ok := NewCoastIndex([]kdtree.Point2{{X: 0, Y: 0}}, 10, 10)
	require.True(t, ok)
	assert.InDelta(t, math.Sqrt2, idx.Distance(9, 9), 1e-9)
	assert.InDelta(t, 3, idx.Distance(7, 0), 1e-9)
	assert.InDelta(t, 0, idx.Distance(0, 0), 1e-9)
}

func TestShapeSeaDepth(t *testing.T) {
	elev, err := grid.NewFromElem(20, 1, float32(-0.8))
	require.NoError(t, err)
	elev.Set(0, 0, 0.5)

	idx, ok := NewCoastIndex(Coastline(elev), 20, 1)
	require.True(t, ok)
	n := ShapeSeaDepth(elev, idx, 4, 0.25)
	assert.Equal(t, 19, n)

	assert.Equal(t, float32(0.5), elev.Get(0, 0), "land untouched")
	// One cell out: t = 1/4.
	assert.InDelta(t, -0.8*(0.25+0.75*0.25), elev.Get(1, 0), 1e-6)
	// Wrapped neighbour on the other edge is equally close.
	assert.InDelta(t, elev.Get(1, 0), elev.Get(19, 0), 1e-6)
	// Beyond the shelf the full depth is kept.
	assert.InDelta(t, -0.8, elev.Get(10, 0), 1e-6)
	for v := range elev.All() {
		if v != 0.5 {
			assert.Less(t, v, float32(0))
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := SmallTestConfig()

	a, err := Generate(cfg)
	require.NoError(t, err)
	b, err := Generate(cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Elevation.Values(), b.Elevation.Values())
	require.NotNil(t, a.OceanFlow)
	assert.Equal(t, a.OceanFlow.Values(), b.OceanFlow.Values())
	assert.Equal(t, a.Stats, b.Stats)
}

func TestGenerateLayers(t *testing.T) {
	m, err := Generate(SmallTestConfig())
	require.NoError(t, err)

	assert.Equal(t, 64, m.Width())
	assert.Equal(t, 64, m.Height())
	assert.Equal(t, 64*64, m.Stats.LandCells+m.Stats.SeaCells)
	assert.Equal(t, int64(42), m.Stats.Seed)
	require.NotNil(t, m.OceanFlow)
	assert.True(t, grid.SameSize(m.Elevation, m.OceanFlow))
	assert.Len(t, m.Stats.FlowMagnitude, 25)

	for v := range m.Elevation.All() {
		assert.GreaterOrEqual(t, v, float32(-1))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestGenerateWithoutFlow(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Flow.Enabled = false
	cfg.Width = 50 // Not divisible by the flow scale; fine without flow.

	m, err := Generate(cfg)
	require.NoError(t, err)
	assert.Nil(t, m.OceanFlow)
	assert.Equal(t, 50, m.Width())
}

func TestGenerateFractal(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Elevation = noise.FractalConfig(0.04, 5, 0)
	cfg.Roughness = noise.FractalConfig(0.1, 3, 0)
	cfg.Roughness.Backend = noise.BackendPerlin
	cfg.Roughness.Tileable = false

	a, err := Generate(cfg)
	require.NoError(t, err)
	b, err := Generate(cfg)
	require.NoError(t, err)
	assert.Equal(t, a.Elevation.Values(), b.Elevation.Values())
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultGenConfig().Validate())
	require.NoError(t, SmallTestConfig().Validate())

	bad := []func(*GenConfig){
		func(c *GenConfig) { c.Width = 0 },
		func(c *GenConfig) { c.SeaLevel = 0 },
		func(c *GenConfig) { c.SeaLevel = 1.2 },
		func(c *GenConfig) { c.ShelfWidth = 0 },
		func(c *GenConfig) { c.ShelfDepth = 2 },
		func(c *GenConfig) { c.Islands = []geom.Circle{{Radius: 0}} },
		func(c *GenConfig) { c.Height = 66 },
		func(c *GenConfig) { c.Flow.Scale = 0 },
		func(c *GenConfig) { c.Flow.Steps = -1 },
		func(c *GenConfig) { c.Elevation.FeatureSize = 24 },
		func(c *GenConfig) { c.Roughness = noise.FractalConfig(0, 3, 1) },
		func(c *GenConfig) { c.Flow.Angles.FeatureSize = 3 },
	}
	for i, mutate := range bad {
		cfg := SmallTestConfig()
		mutate(&cfg)
		err := cfg.Validate()
		assert.ErrorIs(t, err, ErrInvalidConfig, "case %d", i)

		_, err = Generate(cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig, "case %d", i)
	}
}

func TestWithSizeRoundsFeatureSizes(t *testing.T) {
	for _, size := range []int{96, 100, 144, 512} {
		cfg := DefaultGenConfig().WithSize(size, size)
		require.NoError(t, cfg.Validate(), "size %d", size)

		for _, fs := range []int{cfg.Elevation.FeatureSize, cfg.Roughness.FeatureSize, cfg.Flow.Angles.FeatureSize} {
			assert.True(t, noise.IsPowerOfTwo(fs), "size %d feature %d", size, fs)
		}
	}

	cfg := DefaultGenConfig().WithSize(96, 96)
	assert.Equal(t, 16, cfg.Elevation.FeatureSize)
	assert.Equal(t, 8, cfg.Roughness.FeatureSize)
	assert.Equal(t, 2, cfg.Flow.Angles.FeatureSize)
}

func TestGenerateNonPowerOfTwoSize(t *testing.T) {
	cfg := DefaultGenConfig().WithSize(96, 96)
	cfg.Seed = 7
	cfg.ShelfWidth = 6

	m, err := Generate(cfg)
	require.NoError(t, err)
	assert.Equal(t, 96*96, m.Stats.LandCells+m.Stats.SeaCells)
}
