// Package ocean evolves a surface-current field over a land/sea grid.
//
// The simulation is a fixed-step cellular automaton. Each step rebuilds the
// field from a damped copy of the seed flow, advects every sea cell's vector
// one cell along its own direction, pushes water stranded on land back out
// to adjacent sea, and finally decays the whole field.
package ocean

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/talgya/tidemap/internal/entropy"
	"github.com/talgya/tidemap/internal/geom"
	"github.com/talgya/tidemap/internal/grid"
)

// Vec is a flow vector.
type Vec = geom.Vec2[float32]

// ErrSizeMismatch is returned when the land and flow grids differ in size.
var ErrSizeMismatch = errors.New("ocean: grid size mismatch")

// Default simulation constants.
const (
	DefaultSteps       = 25
	DefaultSeedDamping = 0.1
	DefaultDecay       = 0.9
	DefaultTurbulence  = geom.Tau / 10
)

// neighbours lists the 3x3 offsets around a cell, including the cell itself.
var neighbours = [9][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {0, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Simulator holds the tunables of the flow automaton.
type Simulator struct {
	Steps       int     // Number of iterations; not convergence based
	SeedDamping float32 // Share of the seed flow re-injected every step
	Decay       float32 // Global multiplier applied at the end of a step
	Turbulence  float32 // Max rotation (radians) of flow pushed off land
	RNG         entropy.Source
}

// NewSimulator returns a simulator with the default constants.
func NewSimulator(rng entropy.Source) *Simulator {
	return &Simulator{
		Steps:       DefaultSteps,
		SeedDamping: DefaultSeedDamping,
		Decay:       DefaultDecay,
		Turbulence:  DefaultTurbulence,
		RNG:         rng,
	}
}

// Result records per-step diagnostics of a simulation run.
type Result struct {
	Trapped   []int     // Land cells per step whose water had no sea to drain to
	Magnitude []float32 // Sum of vector lengths after each step
}

// TotalTrapped sums trapped-water events over all steps.
func (r Result) TotalTrapped() int {
	n := 0
	for _, t := range r.Trapped {
		n += t
	}
	return n
}

// Simulate runs the automaton and returns the final field. Land cells are
// those with land >= 0. The seed grid is not modified.
func (s *Simulator) Simulate(land *grid.Grid[float32], seed *grid.Grid[Vec]) (*grid.Grid[Vec], Result, error) {
	if !grid.SameSize(land, seed) {
		return nil, Result{}, fmt.Errorf("%w: land %s, flow %s", ErrSizeMismatch, land, seed)
	}
	if s.Turbulence != 0 && s.RNG == nil {
		return nil, Result{}, errors.New("ocean: turbulence needs a random source")
	}

	res := Result{
		Trapped:   make([]int, 0, s.Steps),
		Magnitude: make([]float32, 0, s.Steps),
	}

	w, h := land.Width(), land.Height()
	current := seed.Clone()
	scratch := seed.Clone()
	seedVals := seed.Values()

	for step := 0; step < s.Steps; step++ {
		// The new field starts from the damped seed; the previous field
		// becomes the read-only snapshot for this step.
		next := scratch.Values()
		for i, v := range seedVals {
			next[i] = v.Scale(s.SeedDamping)
		}
		old := current
		current, scratch = scratch, old

		trapped := 0
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v := old.Get(x, y)
				switch {
				case v.LengthSqr() == 0:
					continue
				case land.Get(x, y) < 0:
					advect(current, x, y, v)
				default:
					if !s.drain(current, land, x, y) {
						trapped++
					}
				}
			}
		}

		total := float32(0)
		vals := current.Values()
		for i, v := range vals {
			vals[i] = v.Scale(s.Decay)
			total += vals[i].Length()
		}

		res.Trapped = append(res.Trapped, trapped)
		res.Magnitude = append(res.Magnitude, total)
	}

	if n := res.TotalTrapped(); n > 0 {
		slog.Debug("ocean flow left water on land", "events", n)
	}
	return current, res, nil
}

// advect moves v one cell along its own direction, splitting it between the
// neighbours in proportion to how much of the moved unit cell overlaps each.
func advect(dst *grid.Grid[Vec], x, y int, v Vec) {
	dir := v.Unit()
	moved := geom.UnitRect(float32(x)+dir.X, float32(y)+dir.Y)

	for _, off := range neighbours {
		nx, ny := x+off[0], y+off[1]
		area := moved.IntersectArea(geom.UnitRect(float32(nx), float32(ny)))
		if area == 0 {
			continue
		}
		p := dst.Ptr(nx, ny)
		*p = p.Add(v.Scale(area))
	}
}

// drain pushes water on a land cell towards every adjacent sea cell, with a
// random twist on each push, and empties the land cell. It reports false if
// no sea is adjacent.
func (s *Simulator) drain(dst *grid.Grid[Vec], land *grid.Grid[float32], x, y int) bool {
	var sea [9][2]int
	n := 0
	for _, off := range neighbours {
		if land.Get(x+off[0], y+off[1]) < 0 {
			sea[n] = off
			n++
		}
	}
	if n == 0 {
		slog.Debug("trapped water", "x", x, "y", y)
		return false
	}

	share := 0.5 / float32(n)
	for _, off := range sea[:n] {
		push := geom.V(float32(off[0]), float32(off[1])).Unit().Scale(share)
		if s.Turbulence != 0 {
			push = push.Rotate(s.Turbulence * (s.RNG.Float32()*2 - 1))
		}
		p := dst.Ptr(x+off[0], y+off[1])
		*p = p.Add(push)
	}

	dst.Set(x, y, Vec{})
	return true
}
