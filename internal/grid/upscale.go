package grid

import "fmt"

// Bilerp interpolates a 2x2 neighbourhood. v[i][j] holds the sample at
// (x+i, y+j); dx and dy are the fractional offsets in [0, 1).
type Bilerp[T any] func(v [2][2]T, dx, dy float64) T

// BilerpFloat32 is the bilinear interpolator for scalar layers.
func BilerpFloat32(v [2][2]float32, dx, dy float64) float32 {
	x, y := float32(dx), float32(dy)
	return v[0][0]*(1-x)*(1-y) + v[1][0]*x*(1-y) + v[0][1]*(1-x)*y + v[1][1]*x*y
}

// Upscale enlarges g by factor, bilinearly interpolating between the wrapped
// 2x2 neighbourhood of each source cell.
func Upscale[T any](g *Grid[T], factor int, bilerp Bilerp[T]) (*Grid[T], error) {
	if factor <= 0 {
		return nil, fmt.Errorf("%w: upscale factor %d", ErrInvalidSize, factor)
	}

	fs := float64(factor)
	return NewFromFn(g.width*factor, g.height*factor, func(x, y int) T {
		sx, sy := x/factor, y/factor
		v := [2][2]T{
			{g.Get(sx, sy), g.Get(sx, sy+1)},
			{g.Get(sx+1, sy), g.Get(sx+1, sy+1)},
		}
		dx := float64(x%factor) / fs
		dy := float64(y%factor) / fs
		return bilerp(v, dx, dy)
	})
}

// Downsample shrinks g by factor, averaging each factor x factor block.
func Downsample(g *Grid[float32], factor int) (*Grid[float32], error) {
	if factor <= 0 {
		return nil, fmt.Errorf("%w: downsample factor %d", ErrInvalidSize, factor)
	}

	area := float32(factor * factor)
	return NewFromFn(g.width/factor, g.height/factor, func(x, y int) float32 {
		var acc float32
		for by := y * factor; by < (y+1)*factor; by++ {
			for bx := x * factor; bx < (x+1)*factor; bx++ {
				acc += g.Get(bx, by)
			}
		}
		return acc / area
	})
}
