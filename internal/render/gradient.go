// Package render turns generated layers into images.
package render

import (
	"errors"
	"image/color"
	"math"
)

// Palette colours.
var (
	Azure     = color.RGBA{0x00, 0x7F, 0xFF, 0xFF}
	Beaver    = color.RGBA{0x9F, 0x81, 0x70, 0xFF}
	Black     = color.RGBA{0x00, 0x00, 0x00, 0xFF}
	Buff      = color.RGBA{0xF0, 0xDC, 0x82, 0xFF}
	CoolBlack = color.RGBA{0x00, 0x2E, 0x63, 0xFF}
	White     = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
)

// ErrGradient is returned for a gradient with fewer than two stops.
var ErrGradient = errors.New("render: gradient needs at least two colours")

// Gradient maps [0, 1] onto evenly spaced colour stops.
type Gradient struct {
	stops []color.RGBA
}

// NewGradient builds a gradient through the given colours in order.
func NewGradient(stops ...color.RGBA) (Gradient, error) {
	if len(stops) < 2 {
		return Gradient{}, ErrGradient
	}
	return Gradient{stops: append([]color.RGBA(nil), stops...)}, nil
}

// MustGradient is NewGradient for package-level palettes.
func MustGradient(stops ...color.RGBA) Gradient {
	g, err := NewGradient(stops...)
	if err != nil {
		panic(err)
	}
	return g
}

// At returns the colour at t. Values outside [0, 1] are clamped.
func (g Gradient) At(t float64) color.RGBA {
	if !(t > 0) {
		return g.stops[0]
	}
	if t >= 1 {
		return g.stops[len(g.stops)-1]
	}

	bands := float64(len(g.stops) - 1)
	i := int(t * bands)
	frac := t*bands - float64(i)
	return blend(g.stops[i], g.stops[i+1], frac)
}

// ReducedAt quantises t to n levels before sampling, giving banded output.
func (g Gradient) ReducedAt(t float64, n int) color.RGBA {
	if n <= 0 {
		return g.At(t)
	}
	return g.At(math.Round(t*float64(n)) / float64(n))
}

// blend mixes two colours in squared space.
func blend(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		fx, fy := float64(x), float64(y)
		return uint8(math.Sqrt(fx*fx + t*(fy*fy-fx*fx)))
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), mix(a.A, b.A)}
}
