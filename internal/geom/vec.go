// Package geom provides the small vector and shape types used by map generation.
package geom

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Tau is a full turn in radians.
const Tau = 2 * math.Pi

// Vec2 is a 2D vector value. Every operation returns a new value.
type Vec2[T constraints.Float] struct {
	X T `json:"x"`
	Y T `json:"y"`
}

// V is shorthand for constructing a Vec2.
func V[T constraints.Float](x, y T) Vec2[T] {
	return Vec2[T]{X: x, Y: y}
}

// FromPolar builds a vector from an angle in radians and a magnitude.
func FromPolar[T constraints.Float](angle, mag T) Vec2[T] {
	sin, cos := math.Sincos(float64(angle))
	return Vec2[T]{X: mag * T(cos), Y: mag * T(sin)}
}

// Add returns v + o.
func (v Vec2[T]) Add(o Vec2[T]) Vec2[T] { return Vec2[T]{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2[T]) Sub(o Vec2[T]) Vec2[T] { return Vec2[T]{v.X - o.X, v.Y - o.Y} }

// Scale returns v multiplied by s.
func (v Vec2[T]) Scale(s T) Vec2[T] { return Vec2[T]{v.X * s, v.Y * s} }

// Dot returns the dot product of v and o.
func (v Vec2[T]) Dot(o Vec2[T]) T { return v.X*o.X + v.Y*o.Y }

// LengthSqr returns the squared length, avoiding a square root.
func (v Vec2[T]) LengthSqr() T { return v.Dot(v) }

// Length returns the Euclidean length.
func (v Vec2[T]) Length() T { return T(math.Sqrt(float64(v.LengthSqr()))) }

// IsZero reports whether both components are zero.
func (v Vec2[T]) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Unit returns v scaled to length 1. The zero vector has no direction and
// is returned unchanged.
func (v Vec2[T]) Unit() Vec2[T] {
	l := v.Length()
	if l == 0 {
		return v
	}
	return Vec2[T]{v.X / l, v.Y / l}
}

// Rotate returns v rotated counter-clockwise by angle radians.
func (v Vec2[T]) Rotate(angle T) Vec2[T] {
	sin, cos := math.Sincos(float64(angle))
	s, c := T(sin), T(cos)
	return Vec2[T]{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// Angle returns the direction of v in radians, measured from the +X axis.
func (v Vec2[T]) Angle() T {
	return T(math.Atan2(float64(v.Y), float64(v.X)))
}

// String formats the vector as [x, y].
func (v Vec2[T]) String() string {
	return fmt.Sprintf("[%g, %g]", float64(v.X), float64(v.Y))
}

// LerpVec2 interpolates each component independently.
func LerpVec2[T constraints.Float](a, b Vec2[T], t float64) Vec2[T] {
	tt := T(t)
	return Vec2[T]{a.X + tt*(b.X-a.X), a.Y + tt*(b.Y-a.Y)}
}

// BilerpVec2 bilinearly interpolates a 2x2 neighbourhood of vectors, where
// v[i][j] is the sample at (x+i, y+j). It matches grid.Bilerp.
func BilerpVec2[T constraints.Float](v [2][2]Vec2[T], dx, dy float64) Vec2[T] {
	v0 := LerpVec2(v[0][0], v[0][1], dy)
	v1 := LerpVec2(v[1][0], v[1][1], dy)
	return LerpVec2(v0, v1, dx)
}
