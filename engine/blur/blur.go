package blur

import (
	"github.com/npillmayer/autokern/engine/glyph"
)

// Coverage blurs a coverage grid with a Gaussian of a given sigma and returns
// a new grid of the same dimensions. The input grid is left untouched.
//
// The separable algorithm processes horizontal and vertical passes
// independently, achieving O(w*h*r) complexity instead of O(w*h*r²).
func Coverage(grid glyph.Grid, sigma float64, cache *KernelCache) glyph.Grid {
	if grid.Width < 1 || grid.Height < 1 {
		return grid.Clone()
	}
	kernel := cache.Kernel(Radius(sigma))
	temp := glyph.NewGrid(grid.Width, grid.Height)
	blurHorizontal(grid, temp, kernel)
	dst := glyph.NewGrid(grid.Width, grid.Height)
	blurVertical(temp, dst, kernel)
	return dst
}

// Glyph returns a blurred copy of g. Metrics are retained.
func Glyph(g *glyph.Glyph, sigma float64, cache *KernelCache) *glyph.Glyph {
	return g.WithCoverage(Coverage(g.Coverage, sigma, cache))
}

// blurHorizontal applies 1D horizontal convolution, clamping taps to the
// row's edges.
func blurHorizontal(src, dst glyph.Grid, kernel []float64) {
	half := len(kernel) / 2
	w := src.Width
	for y := 0; y < src.Height; y++ {
		in, out := src.Row(y), dst.Row(y)
		for x := 0; x < w; x++ {
			var v float64
			for k, weight := range kernel {
				kx := x + k - half
				if kx < 0 {
					kx = 0
				} else if kx >= w {
					kx = w - 1
				}
				v += in[kx] * weight
			}
			out[x] = v
		}
	}
}

// blurVertical applies 1D vertical convolution, clamping taps to the
// column's edges.
func blurVertical(src, dst glyph.Grid, kernel []float64) {
	half := len(kernel) / 2
	w, h := src.Width, src.Height
	for y := 0; y < h; y++ {
		out := dst.Row(y)
		for x := 0; x < w; x++ {
			var v float64
			for k, weight := range kernel {
				ky := y + k - half
				if ky < 0 {
					ky = 0
				} else if ky >= h {
					ky = h - 1
				}
				v += src.Values[ky*w+x] * weight
			}
			out[x] = v
		}
	}
}
