package ocean

import (
	"fmt"
	"log/slog"

	"github.com/talgya/tidemap/internal/geom"
	"github.com/talgya/tidemap/internal/grid"
)

// SeedFlow builds the initial current field: a unit vector pointing at
// angle*Tau/4 on every sea cell connected to the origin, zero elsewhere.
// angles is expected in [0, 1]. If the origin is land, the first sea cell in
// row-major order is used instead. It returns the number of seeded cells.
func SeedFlow(land, angles *grid.Grid[float32], ox, oy int) (*grid.Grid[Vec], int, error) {
	if !grid.SameSize(land, angles) {
		return nil, 0, fmt.Errorf("%w: land %s, angles %s", ErrSizeMismatch, land, angles)
	}

	flow, err := grid.NewFromElem(land.Width(), land.Height(), Vec{})
	if err != nil {
		return nil, 0, err
	}

	ox, oy = land.Wrap(ox, oy)
	if land.Get(ox, oy) >= 0 {
		found := false
		for i, v := range land.Cells() {
			if v < 0 {
				ox, oy = i%land.Width(), i/land.Width()
				found = true
				break
			}
		}
		if !found {
			slog.Warn("no sea to seed ocean flow")
			return flow, 0, nil
		}
	}

	filled := floodFill(land, ox, oy, func(x, y int) {
		flow.Set(x, y, geom.FromPolar(angles.Get(x, y)*geom.Tau/4, 1))
	})
	return flow, filled, nil
}

// floodFill visits every sea cell 4-connected to (x, y), wrapping at the
// edges, and calls visit once per cell.
func floodFill(land *grid.Grid[float32], x, y int, visit func(x, y int)) int {
	w := land.Width()
	seen := make([]bool, land.Len())
	stack := [][2]int{{x, y}}
	n := 0

	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cx, cy := land.Wrap(c[0], c[1])
		i := cx + cy*w
		if seen[i] || land.Get(cx, cy) >= 0 {
			continue
		}
		seen[i] = true
		visit(cx, cy)
		n++

		stack = append(stack,
			[2]int{cx, cy - 1},
			[2]int{cx, cy + 1},
			[2]int{cx - 1, cy},
			[2]int{cx + 1, cy},
		)
	}
	return n
}
