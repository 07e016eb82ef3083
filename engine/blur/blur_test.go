package blur

import (
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/npillmayer/autokern/engine/glyph"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGaussianKernel(t *testing.T) {
	assert.Equal(t, []float64{1.0}, GaussianKernel(0))
	assert.Equal(t, []float64{1.0}, GaussianKernel(-5))
	for _, r := range []int{1, 2, 3, 5, 10, 20} {
		kernel := GaussianKernel(r)
		require.Len(t, kernel, 2*r+1)
		sum := 0.0
		for _, v := range kernel {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-12, "kernel of radius %d not normalized", r)
		for i := 0; i < r; i++ {
			assert.Equal(t, kernel[i], kernel[len(kernel)-1-i], "kernel must be symmetric")
			assert.Less(t, kernel[i], kernel[i+1], "kernel must peak at center")
		}
	}
}

func TestRadius(t *testing.T) {
	assert.Equal(t, 0, Radius(-1))
	assert.Equal(t, 0, Radius(math.NaN()))
	assert.Equal(t, 0, Radius(0.4))
	assert.Equal(t, 1, Radius(0.5))
	assert.Equal(t, 5, Radius(SigmaForKernelWidth(21)))
	assert.Equal(t, 3.0, SigmaForWidth(0.05, 60))
}

func TestKernelCache(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "autokern.blur")
	defer teardown()
	//
	var nilCache *KernelCache
	assert.Equal(t, GaussianKernel(3), nilCache.Kernel(3))
	assert.Equal(t, 0, nilCache.Len())
	cache := NewKernelCache()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			k := cache.Kernel(r % 4)
			assert.Len(t, k, 2*(r%4)+1)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 4, cache.Len())
	assert.Equal(t, GaussianKernel(2), cache.Kernel(2))
}

func uniformGrid(w, h int, v float64) glyph.Grid {
	g := glyph.NewGrid(w, h)
	for i := range g.Values {
		g.Values[i] = v
	}
	return g
}

func TestBlurUniform(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "autokern.blur")
	defer teardown()
	//
	approx := cmpopts.EquateApprox(0, 1e-9)
	for _, sigma := range []float64{0, 1, 2.6, 7} {
		zero := uniformGrid(12, 9, 0)
		if diff := cmp.Diff(zero, Coverage(zero, sigma, nil), approx); diff != "" {
			t.Errorf("blur of all-zero grid at sigma %g (-want +got):\n%s", sigma, diff)
		}
		one := uniformGrid(12, 9, 1)
		if diff := cmp.Diff(one, Coverage(one, sigma, nil), approx); diff != "" {
			t.Errorf("blur of all-one grid at sigma %g (-want +got):\n%s", sigma, diff)
		}
	}
}

func TestBlurDimensions(t *testing.T) {
	cache := NewKernelCache()
	for _, dim := range [][2]int{{1, 1}, {3, 17}, {40, 2}} {
		for _, sigma := range []float64{0, 0.7, 3, 50} {
			g := uniformGrid(dim[0], dim[1], 0.5)
			b := Coverage(g, sigma, cache)
			assert.Equal(t, dim[0], b.Width)
			assert.Equal(t, dim[1], b.Height)
			assert.Len(t, b.Values, dim[0]*dim[1])
		}
	}
}

func TestBlurSeparable(t *testing.T) {
	// a single inked pixel spreads into the outer product of the kernel
	g := glyph.NewGrid(9, 9)
	g.Set(4, 4, 1)
	b := Coverage(g, 2, nil)
	kernel := GaussianKernel(2)
	want := glyph.NewGrid(9, 9)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			want.Set(x+2, y+2, kernel[x]*kernel[y])
		}
	}
	if diff := cmp.Diff(want, b, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("blurred impulse (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1.0, g.At(4, 4), "input must not be modified")
	assert.InDelta(t, 1.0, b.Ink(), 1e-12)
}

func TestBlurClampsEdges(t *testing.T) {
	// an inked left column keeps its full value at the edge, as taps
	// outside of the grid repeat the edge pixel
	g := glyph.NewGrid(6, 3)
	for y := 0; y < 3; y++ {
		g.Set(0, y, 1)
		g.Set(1, y, 1)
		g.Set(2, y, 1)
	}
	b := Coverage(g, 1, nil)
	kernel := GaussianKernel(1)
	for y := 0; y < 3; y++ {
		assert.InDelta(t, 1.0, b.At(0, y), 1e-12)
		assert.InDelta(t, kernel[0]+kernel[1], b.At(2, y), 1e-12)
	}
}

func TestBlurGlyph(t *testing.T) {
	g := glyph.Uniform('x', 10, 10, 12, 1, 1)
	b := Glyph(g, 2, nil)
	assert.NotSame(t, g, b)
	assert.Equal(t, g.Advance, b.Advance)
	assert.Equal(t, g.Bearing, b.Bearing)
	assert.Equal(t, g.Char, b.Char)
	b1, b2 := Glyph(g, 3.3, nil), Glyph(g, 3.3, NewKernelCache())
	assert.Equal(t, b1.Coverage.Values, b2.Coverage.Values, "cache must not be observable")
}
