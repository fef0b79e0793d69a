package kdtree

// Point2 is a point in the plane.
type Point2 struct {
	X, Y float64
}

// Dims returns 2.
func (p Point2) Dims() int { return 2 }

// Coord returns X for axis 0 and Y otherwise.
func (p Point2) Coord(axis int) float64 {
	if axis == 0 {
		return p.X
	}
	return p.Y
}

// DistSqr returns the squared Euclidean distance to o.
func (p Point2) DistSqr(o Point2) float64 {
	dx, dy := p.X-o.X, p.Y-o.Y
	return dx*dx + dy*dy
}
