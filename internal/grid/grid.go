// Package grid provides the toroidal 2D container every map layer is stored in.
// Coordinates wrap in both directions, so any integer (x, y) is a valid index.
package grid

import (
	"errors"
	"fmt"
	"iter"
)

var (
	// ErrInvalidSize is returned when a grid dimension or scale factor is not positive.
	ErrInvalidSize = errors.New("grid: dimensions must be positive")

	// ErrLengthMismatch is returned when a raw buffer does not hold width*height values.
	ErrLengthMismatch = errors.New("grid: raw buffer length mismatch")
)

// Grid is a dense row-major 2D array whose edges wrap around (a torus).
type Grid[T any] struct {
	width  int
	height int
	data   []T
}

func checkSize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	return nil
}

// NewFromFn builds a grid by calling f for every cell in row-major order.
func NewFromFn[T any](w, h int, f func(x, y int) T) (*Grid[T], error) {
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	data := make([]T, w*h)
	for i := range data {
		data[i] = f(i%w, i/w)
	}
	return &Grid[T]{width: w, height: h, data: data}, nil
}

// NewFromElem builds a grid with every cell set to elem.
func NewFromElem[T any](w, h int, elem T) (*Grid[T], error) {
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	data := make([]T, w*h)
	for i := range data {
		data[i] = elem
	}
	return &Grid[T]{width: w, height: h, data: data}, nil
}

// FromRaw wraps an existing row-major buffer. The grid takes ownership of data.
func FromRaw[T any](w, h int, data []T) (*Grid[T], error) {
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	if len(data) != w*h {
		return nil, fmt.Errorf("%w: got %d values for %dx%d", ErrLengthMismatch, len(data), w, h)
	}
	return &Grid[T]{width: w, height: h, data: data}, nil
}

// Width returns the number of columns.
func (g *Grid[T]) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid[T]) Height() int { return g.height }

// Len returns the number of cells.
func (g *Grid[T]) Len() int { return len(g.data) }

// Wrap maps (x, y) onto the grid using true modulo, never negative.
func (g *Grid[T]) Wrap(x, y int) (int, int) {
	x = (x%g.width + g.width) % g.width
	y = (y%g.height + g.height) % g.height
	return x, y
}

func (g *Grid[T]) index(x, y int) int {
	x, y = g.Wrap(x, y)
	return x + y*g.width
}

// Get returns the value at the wrapped coordinate.
func (g *Grid[T]) Get(x, y int) T {
	return g.data[g.index(x, y)]
}

// Ptr returns a pointer to the cell at the wrapped coordinate.
func (g *Grid[T]) Ptr(x, y int) *T {
	return &g.data[g.index(x, y)]
}

// Set stores v at the wrapped coordinate.
func (g *Grid[T]) Set(x, y int, v T) {
	g.data[g.index(x, y)] = v
}

// Values exposes the backing slice in row-major order (x fastest).
// Callers may read and write through it but must not resize it.
func (g *Grid[T]) Values() []T { return g.data }

// All yields every cell value once in row-major order.
func (g *Grid[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range g.data {
			if !yield(v) {
				return
			}
		}
	}
}

// Cells yields the linear index and value of every cell in row-major order.
func (g *Grid[T]) Cells() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range g.data {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Fill sets every cell from f, reusing the existing storage.
func (g *Grid[T]) Fill(f func(x, y int) T) {
	for i := range g.data {
		g.data[i] = f(i%g.width, i/g.width)
	}
}

// Clone returns an independent copy of the grid.
func (g *Grid[T]) Clone() *Grid[T] {
	data := make([]T, len(g.data))
	copy(data, g.data)
	return &Grid[T]{width: g.width, height: g.height, data: data}
}

// SameSize reports whether two grids share dimensions.
func SameSize[A, B any](a *Grid[A], b *Grid[B]) bool {
	return a.width == b.width && a.height == b.height
}

// String returns a summary of the grid.
func (g *Grid[T]) String() string {
	return fmt.Sprintf("Grid(%dx%d)", g.width, g.height)
}
