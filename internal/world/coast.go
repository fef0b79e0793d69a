package world

import (
	"math"

	"github.com/talgya/tidemap/internal/grid"
	"github.com/talgya/tidemap/internal/kdtree"
)

// Coastline returns every land cell with at least one sea cell among its
// eight wrapped neighbours.
func Coastline(elev *grid.Grid[float32]) []kdtree.Point2 {
	var coast []kdtree.Point2
	w, h := elev.Width(), elev.Height()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if elev.Get(x, y) < 0 {
				continue
			}
			if touchesSea(elev, x, y) {
				coast = append(coast, kdtree.Point2{X: float64(x), Y: float64(y)})
			}
		}
	}
	return coast
}

func touchesSea(elev *grid.Grid[float32], x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if elev.Get(x+dx, y+dy) < 0 {
				return true
			}
		}
	}
	return false
}

// CoastIndex answers distance-to-coast queries on the torus.
type CoastIndex struct {
	tree *kdtree.Tree[kdtree.Point2]
}

// NewCoastIndex indexes coast points for a w x h torus. Each point is also
// inserted shifted by one map size in every direction, so a planar nearest
// neighbour search sees across the wrapped edges. It reports false when
// there is no coast.
func NewCoastIndex(coast []kdtree.Point2, w, h int) (*CoastIndex, bool) {
	if len(coast) == 0 {
		return nil, false
	}

	points := make([]kdtree.Point2, 0, 9*len(coast))
	for oy := -1; oy <= 1; oy++ {
		for ox := -1; ox <= 1; ox++ {
			for _, p := range coast {
				points = append(points, kdtree.Point2{
					X: p.X + float64(ox*w),
					Y: p.Y + float64(oy*h),
				})
			}
		}
	}

	tree, ok := kdtree.Build(points)
	if !ok {
		return nil, false
	}
	return &CoastIndex{tree: tree}, true
}

// Distance returns the wrapped distance from (x, y) to the nearest coast cell.
func (c *CoastIndex) Distance(x, y int) float64 {
	q := kdtree.Point2{X: float64(x), Y: float64(y)}
	p, ok := c.tree.FindNearest(q)
	if !ok {
		return math.Inf(1)
	}
	return math.Sqrt(p.DistSqr(q))
}

// ShapeSeaDepth deepens sea cells with distance from the coast: a cell on
// the shelf keeps shelfDepth of its depth, rising linearly to its full depth
// at shelfWidth cells out. It returns the number of cells shaped.
func ShapeSeaDepth(elev *grid.Grid[float32], idx *CoastIndex, shelfWidth, shelfDepth float32) int {
	w := elev.Width()
	vals := elev.Values()
	shaped := 0

	for i, v := range vals {
		if v >= 0 {
			continue
		}
		d := float32(idx.Distance(i%w, i/w))
		t := min(d/shelfWidth, 1)
		vals[i] = -abs32(v) * (shelfDepth + (1-shelfDepth)*t)
		shaped++
	}
	return shaped
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
