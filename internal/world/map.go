package world

import (
	"fmt"

	"github.com/talgya/tidemap/internal/grid"
	"github.com/talgya/tidemap/internal/ocean"
)

// UpperMap holds the finished layers of a generated world.
// Elevation is positive on land and negative (depth) at sea.
type UpperMap struct {
	Elevation *grid.Grid[float32]
	OceanFlow *grid.Grid[ocean.Vec] // nil when flow simulation is disabled
	Stats     Stats
}

// Stats summarises a generation run.
type Stats struct {
	Seed           int64     `json:"seed"`
	LandCells      int       `json:"land_cells"`
	SeaCells       int       `json:"sea_cells"`
	CoastCells     int       `json:"coast_cells"`
	ShapedSeaCells int       `json:"shaped_sea_cells"`
	FlowSeeded     int       `json:"flow_seeded"`
	TrappedWater   int       `json:"trapped_water"`
	FlowMagnitude  []float32 `json:"flow_magnitude,omitempty"` // Per simulation step
}

// Width returns the map width in cells.
func (m *UpperMap) Width() int { return m.Elevation.Width() }

// Height returns the map height in cells.
func (m *UpperMap) Height() int { return m.Elevation.Height() }

// IsLand reports whether the cell at (x, y) is above sea level.
func (m *UpperMap) IsLand(x, y int) bool {
	return m.Elevation.Get(x, y) >= 0
}

// LandFraction returns the share of cells that are land.
func (m *UpperMap) LandFraction() float64 {
	total := m.Stats.LandCells + m.Stats.SeaCells
	if total == 0 {
		return 0
	}
	return float64(m.Stats.LandCells) / float64(total)
}

// String returns a summary of the map.
func (m *UpperMap) String() string {
	return fmt.Sprintf("UpperMap(%dx%d, land=%d, sea=%d, flow=%t)",
		m.Width(), m.Height(), m.Stats.LandCells, m.Stats.SeaCells, m.OceanFlow != nil)
}

// countCells tallies land (>= 0) and sea (< 0) cells.
func countCells(elev *grid.Grid[float32]) (land, sea int) {
	for v := range elev.All() {
		if v < 0 {
			sea++
		} else {
			land++
		}
	}
	return land, sea
}
