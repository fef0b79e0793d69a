package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/tidemap/internal/entropy"
	"github.com/talgya/tidemap/internal/grid"
)

func generate(t *testing.T, cfg Config, seed int64, w, h int) *grid.Grid[float32] {
	t.Helper()
	gen, err := New(cfg, entropy.New(seed))
	require.NoError(t, err)
	g, err := gen.Generate(w, h)
	require.NoError(t, err)
	return g
}

func assertNormalised(t *testing.T, g *grid.Grid[float32]) {
	t.Helper()
	for v := range g.All() {
		require.GreaterOrEqual(t, v, float32(0))
		require.LessOrEqual(t, v, float32(1))
	}
	lo, hi := grid.Bounds(g)
	assert.Equal(t, float32(0), lo)
	assert.Equal(t, float32(1), hi)
}

func TestDiamondSquareDeterministic(t *testing.T) {
	cfg := DiamondSquareConfig(16, 4)
	a := generate(t, cfg, 77, 64, 48)
	b := generate(t, cfg, 77, 64, 48)
	assert.Equal(t, a.Values(), b.Values())

	c := generate(t, cfg, 78, 64, 48)
	assert.NotEqual(t, a.Values(), c.Values())
}

func TestDiamondSquareNormalised(t *testing.T) {
	for _, cfg := range []Config{
		DiamondSquareConfig(16, 0),
		DiamondSquareConfig(8, 16),
		DiamondSquareConfig(1, 0),
	} {
		assertNormalised(t, generate(t, cfg, 5, 32, 32))
	}
}

// constSource always returns the same value.
type constSource float32

func (c constSource) Float32() float32 { return float32(c) }

func TestDiamondSquareWritesEveryCell(t *testing.T) {
	// A constant source above 0.5 makes every displacement positive, so any
	// written cell ends up above zero and only untouched cells stay at 0.
	sizes := [][3]int{
		{16, 64, 64},
		{8, 37, 21},
		{16, 100, 100},
		{4, 96, 96},
		{1, 5, 3},
	}
	for _, sz := range sizes {
		d := &DiamondSquare{FeatureSize: sz[0], RNG: constSource(0.75)}
		g, err := d.fill(sz[1], sz[2])
		require.NoError(t, err)

		unset := 0
		for v := range g.All() {
			if v <= 0 {
				unset++
			}
		}
		assert.Zero(t, unset, "feature %d size %dx%d", sz[0], sz[1], sz[2])
	}
}

func TestDiamondSquareOddSizes(t *testing.T) {
	assertNormalised(t, generate(t, DiamondSquareConfig(8, 2), 9, 37, 21))
}

func TestDiamondSquareRejectsNonPowerOfTwo(t *testing.T) {
	for _, fs := range []int{3, 12, 24, 25, 100} {
		_, err := New(DiamondSquareConfig(fs, 0), entropy.New(1))
		assert.ErrorIs(t, err, ErrInvalidParams, "feature %d", fs)

		d := &DiamondSquare{FeatureSize: fs, RNG: constSource(0.5)}
		_, err = d.Generate(96, 96)
		assert.ErrorIs(t, err, ErrInvalidParams, "feature %d", fs)
	}
}

func TestPowerOfTwoHelpers(t *testing.T) {
	assert.True(t, IsPowerOfTwo(1))
	assert.True(t, IsPowerOfTwo(64))
	assert.False(t, IsPowerOfTwo(0))
	assert.False(t, IsPowerOfTwo(-8))
	assert.False(t, IsPowerOfTwo(24))

	assert.Equal(t, 1, FloorPowerOfTwo(0))
	assert.Equal(t, 1, FloorPowerOfTwo(1))
	assert.Equal(t, 16, FloorPowerOfTwo(24))
	assert.Equal(t, 16, FloorPowerOfTwo(31))
	assert.Equal(t, 32, FloorPowerOfTwo(32))
}

func TestDiamondSquareFrozenDetailIsSmooth(t *testing.T) {
	// With displacement frozen below step 8 the last square pass writes pure
	// averages of its four side neighbours.
	g := generate(t, DiamondSquareConfig(16, 8), 3, 32, 32)
	for y := 0; y < 32; y += 2 {
		for x := 1; x < 32; x += 2 {
			v := g.Get(x, y)
			hi := max(g.Get(x-1, y), g.Get(x+1, y), g.Get(x, y-1), g.Get(x, y+1))
			lo := min(g.Get(x-1, y), g.Get(x+1, y), g.Get(x, y-1), g.Get(x, y+1))
			assert.LessOrEqual(t, v, hi+1e-6)
			assert.GreaterOrEqual(t, v, lo-1e-6)
		}
	}
}

func TestFractalDeterministic(t *testing.T) {
	for _, b := range []Backend{BackendOpenSimplex, BackendPerlin} {
		cfg := FractalConfig(0.05, 4, 1234)
		cfg.Backend = b

		a := generate(t, cfg, 1, 40, 30)
		// The fractal strategy ignores the RNG entirely.
		c := generate(t, cfg, 2, 40, 30)
		assert.Equal(t, a.Values(), c.Values(), "backend %s", b)
		assertNormalised(t, a)

		cfg.Seed = 99
		d := generate(t, cfg, 1, 40, 30)
		assert.NotEqual(t, a.Values(), d.Values(), "backend %s", b)
	}
}

func TestFractalTileableWraps(t *testing.T) {
	gen, err := New(FractalConfig(0.03, 3, 8), nil)
	require.NoError(t, err)
	f := gen.(*Fractal)

	sample := f.sampler(50, 40)
	for y := 0.0; y < 40; y += 7 {
		for x := 0.0; x < 50; x += 9 {
			assert.InDelta(t, sample(x, y), sample(x+50, y), 1e-9)
			assert.InDelta(t, sample(x, y), sample(x, y-40), 1e-9)
		}
	}
}

func TestNewRejectsBadParams(t *testing.T) {
	cases := []Config{
		DiamondSquareConfig(0, 0),
		DiamondSquareConfig(8, -1),
		FractalConfig(0, 4, 1),
		FractalConfig(0.1, 0, 1),
		{Kind: Kind(9)},
		{Kind: KindFractal, Frequency: 1, Octaves: 1, Backend: Backend(7)},
	}
	for _, cfg := range cases {
		_, err := New(cfg, entropy.New(1))
		assert.ErrorIs(t, err, ErrInvalidParams, "%+v", cfg)
	}

	_, err := New(DiamondSquareConfig(8, 0), nil)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestParseNames(t *testing.T) {
	k, err := ParseKind("Fractal")
	require.NoError(t, err)
	assert.Equal(t, KindFractal, k)

	k, err = ParseKind(KindDiamondSquare.String())
	require.NoError(t, err)
	assert.Equal(t, KindDiamondSquare, k)

	b, err := ParseBackend("perlin")
	require.NoError(t, err)
	assert.Equal(t, BackendPerlin, b)

	_, err = ParseKind("voronoi")
	assert.ErrorIs(t, err, ErrInvalidParams)
}
