package blur

import (
	"math"
	"sync"
)

// Radius returns the kernel radius for a given sigma, i.e. round(sigma).
// Negative or NaN sigmas yield radius 0.
func Radius(sigma float64) int {
	if !(sigma > 0) {
		return 0
	}
	return int(math.Round(sigma))
}

// SigmaForKernelWidth returns the sigma for an explicit kernel width,
// as used during calibration.
func SigmaForKernelWidth(kernelWidth int) float64 {
	return float64(kernelWidth) / 4
}

// SigmaForWidth returns the default sigma, relative to a bitmap width.
func SigmaForWidth(factor float64, bitmapWidth int) float64 {
	return factor * float64(bitmapWidth)
}

// GaussianKernel generates a 1-D Gaussian kernel sampled at integer offsets
// −radius … radius, with a standard deviation of radius.
// The kernel is normalized so all values sum to 1.0.
//
// For radius <= 0, returns a single-element kernel [1.0] (identity).
func GaussianKernel(radius int) []float64 {
	if radius <= 0 {
		return []float64{1.0}
	}
	size := 2*radius + 1
	kernel := make([]float64, size)
	sigma := float64(radius)
	twoSigmaSq := 2 * sigma * sigma
	sum := 0.0
	for i := 0; i < size; i++ {
		x := float64(i - radius)
		val := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = val
		sum += val
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// KernelCache caches Gaussian kernels by radius. It is safe for concurrent
// use. Kernels handed out by a cache are shared and must be treated as
// read-only.
//
// A nil *KernelCache is valid and computes a fresh kernel on every call.
type KernelCache struct {
	mu    sync.RWMutex
	cache map[int][]float64
}

// NewKernelCache creates an empty kernel cache.
func NewKernelCache() *KernelCache {
	return &KernelCache{cache: make(map[int][]float64)}
}

// Kernel retrieves a kernel from the cache or generates and caches it.
func (c *KernelCache) Kernel(radius int) []float64 {
	if radius < 0 {
		radius = 0
	}
	if c == nil {
		return GaussianKernel(radius)
	}
	c.mu.RLock()
	if kernel, ok := c.cache[radius]; ok {
		c.mu.RUnlock()
		return kernel
	}
	c.mu.RUnlock()
	kernel := GaussianKernel(radius)
	c.mu.Lock()
	defer c.mu.Unlock()
	if k, ok := c.cache[radius]; ok {
		return k
	}
	if c.cache == nil {
		c.cache = make(map[int][]float64)
	}
	c.cache[radius] = kernel
	tracer().Debugf("kernel cache: added kernel of radius %d", radius)
	return kernel
}

// Len returns the number of cached kernels.
func (c *KernelCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
