package world

import (
	"fmt"
	"math"

	"github.com/talgya/tidemap/internal/geom"
	"github.com/talgya/tidemap/internal/grid"
)

// IslandFactor returns the strongest radial fade any island exerts on p.
// With no islands it is 0.
func IslandFactor(islands []geom.Circle, p geom.Vec2[float32]) float32 {
	var h float32
	for _, c := range islands {
		h = max(h, geom.RadialFade(c, p))
	}
	return h
}

// minDepth keeps zero-noise sea cells strictly below zero.
const minDepth = 1e-6

// CreateIslands splits base noise into land and sea in place. A cell whose
// noise times island factor falls below seaLevel becomes sea and stores its
// noise negated as depth; otherwise it becomes land at the island factor.
func CreateIslands(elev *grid.Grid[float32], islands []geom.Circle, seaLevel float32) {
	w := elev.Width()
	vals := elev.Values()
	for i, base := range vals {
		p := geom.V(float32(i%w), float32(i/w))
		h := IslandFactor(islands, p)

		if base*h < seaLevel {
			vals[i] = -max(base, minDepth)
		} else {
			vals[i] = h
		}
	}
}

// RandomizeElevation reshapes every land cell with a second noise layer,
// leaving the sea untouched.
func RandomizeElevation(elev, rough *grid.Grid[float32]) error {
	if !grid.SameSize(elev, rough) {
		return fmt.Errorf("%w: elevation %s, roughness %s", ErrSizeMismatch, elev, rough)
	}

	noise := rough.Values()
	vals := elev.Values()
	for i, v := range vals {
		if v > 0 {
			n := noise[i]
			vals[i] = 0.8*float32(math.Sqrt(float64(v)))*n + 0.2*n
		}
	}
	return nil
}

// DefaultIslands returns the single central island used when none are configured.
func DefaultIslands(w, h int) []geom.Circle {
	return []geom.Circle{{
		Center: geom.V(float32(w/2), float32(h/2)),
		Radius: float32(w) / 1.3,
	}}
}
