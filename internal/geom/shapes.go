package geom

// Circle is an island influence region.
type Circle struct {
	Center Vec2[float32] `json:"center"`
	Radius float32       `json:"radius"`
}

// RadialFade returns 1 at the circle's center, falling linearly to 0 at its
// radius, and 0 beyond.
func RadialFade(c Circle, p Vec2[float32]) float32 {
	dist := c.Center.Sub(p).Length()
	if dist > c.Radius {
		return 0
	}
	return 1 - dist/c.Radius
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// UnitRect returns the 1x1 rectangle with its origin at (x, y).
func UnitRect(x, y float32) Rect {
	return Rect{X: x, Y: y, Width: 1, Height: 1}
}

// Left returns the smallest X covered by r.
func (r Rect) Left() float32 { return r.X }

// Right returns the X just past r.
func (r Rect) Right() float32 { return r.X + r.Width }

// Top returns the smallest Y covered by r.
func (r Rect) Top() float32 { return r.Y }

// Bottom returns the Y just past r.
func (r Rect) Bottom() float32 { return r.Y + r.Height }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2[float32] {
	return Vec2[float32]{r.X + r.Width/2, r.Y + r.Height/2}
}

// Translate returns r moved by d.
func (r Rect) Translate(d Vec2[float32]) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// IntersectArea returns the area shared by r and o, or 0 if they are disjoint.
func (r Rect) IntersectArea(o Rect) float32 {
	w := min(r.Right(), o.Right()) - max(r.Left(), o.Left())
	h := min(r.Bottom(), o.Bottom()) - max(r.Top(), o.Top())
	if w < 0 || h < 0 {
		return 0
	}
	return w * h
}
