// Package kdtree provides a balanced k-d tree for nearest-neighbour queries.
//
// Nodes live in a flat arena addressed by index. A branch stores the median
// point of its slice as the split value; that point is not repeated in
// either child. Leaves hold zero or one point.
package kdtree

import (
	"cmp"
	"slices"
)

// Point is anything with coordinates in a fixed number of dimensions.
type Point[P any] interface {
	Dims() int
	Coord(axis int) float64
	DistSqr(other P) float64
}

const none int32 = -1

type node[P any] struct {
	branch bool
	filled bool // leaf only: holds pt
	axis   int
	pt     P
	left   int32
	right  int32
}

// Tree is an immutable k-d tree built once from a point set.
type Tree[P Point[P]] struct {
	nodes []node[P]
	root  int32
	size  int
	dims  int
}

// Build constructs a tree over points. It reports false for an empty input.
// The slice is reordered in place; point values are not modified.
func Build[P Point[P]](points []P) (*Tree[P], bool) {
	if len(points) == 0 {
		return nil, false
	}

	t := &Tree[P]{
		nodes: make([]node[P], 0, 2*len(points)),
		size:  len(points),
		dims:  points[0].Dims(),
	}
	t.root = t.build(points, 0)
	return t, true
}

func (t *Tree[P]) build(points []P, axis int) int32 {
	idx := int32(len(t.nodes))

	switch len(points) {
	case 0:
		t.nodes = append(t.nodes, node[P]{left: none, right: none})
		return idx
	case 1:
		t.nodes = append(t.nodes, node[P]{filled: true, pt: points[0], left: none, right: none})
		return idx
	}

	slices.SortFunc(points, func(a, b P) int {
		return cmp.Compare(a.Coord(axis), b.Coord(axis))
	})

	m := len(points) / 2
	t.nodes = append(t.nodes, node[P]{branch: true, axis: axis, pt: points[m]})

	next := (axis + 1) % t.dims
	left := t.build(points[:m], next)
	right := t.build(points[m+1:], next)
	t.nodes[idx].left = left
	t.nodes[idx].right = right
	return idx
}

// Len returns the number of points in the tree.
func (t *Tree[P]) Len() int {
	if t == nil {
		return 0
	}
	return t.size
}

// Depth returns the number of levels from the root to the deepest node.
func (t *Tree[P]) Depth() int {
	if t == nil {
		return 0
	}
	return t.depth(t.root)
}

func (t *Tree[P]) depth(i int32) int {
	n := &t.nodes[i]
	if !n.branch {
		return 1
	}
	return 1 + max(t.depth(n.left), t.depth(n.right))
}

// search carries the best candidate found so far.
type search[P Point[P]] struct {
	query P
	best  P
	dist  float64
	found bool
}

func (s *search[P]) offer(p P) {
	d := p.DistSqr(s.query)
	if !s.found || d < s.dist {
		s.best, s.dist, s.found = p, d, true
	}
}

// FindNearest returns the stored point closest to q. It reports false only
// for a nil tree.
func (t *Tree[P]) FindNearest(q P) (P, bool) {
	s := search[P]{query: q}
	if t == nil {
		return s.best, false
	}
	t.nearest(t.root, &s)
	return s.best, s.found
}

func (t *Tree[P]) nearest(i int32, s *search[P]) {
	n := &t.nodes[i]
	if !n.branch {
		if n.filled {
			s.offer(n.pt)
		}
		return
	}

	near, far := n.left, n.right
	if s.query.Coord(n.axis) >= n.pt.Coord(n.axis) {
		near, far = far, near
	}

	t.nearest(near, s)
	s.offer(n.pt)

	// The far half-space can only hold a closer point if the splitting
	// plane itself is closer than the current best.
	d := s.query.Coord(n.axis) - n.pt.Coord(n.axis)
	if !s.found || d*d < s.dist {
		t.nearest(far, s)
	}
}
