package grid

// Normalise rescales g in place so its minimum becomes 0 and its maximum 1.
// A constant grid has no range to map, so every cell is set to 0 and false
// is returned.
func Normalise(g *Grid[float32]) bool {
	lo, hi := Bounds(g)
	if hi == lo {
		for i := range g.data {
			g.data[i] = 0
		}
		return false
	}

	span := hi - lo
	for i, v := range g.data {
		g.data[i] = (v - lo) / span
	}
	return true
}

// Bounds returns the smallest and largest value in g.
func Bounds(g *Grid[float32]) (lo, hi float32) {
	lo, hi = g.data[0], g.data[0]
	for _, v := range g.data {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}
