package kern

import (
	"math"

	"github.com/npillmayer/autokern/core/parameters"
	"github.com/npillmayer/autokern/engine/blur"
	"github.com/npillmayer/autokern/engine/glyph"
	"github.com/npillmayer/autokern/engine/overlap"
)

// Bounds are the self-overlap bounds found by calibration.
type Bounds struct {
	Min, Max float64
}

// CalibrationBounds switch a Searcher into calibration mode.
var CalibrationBounds = Bounds{Min: 0, Max: 1e10}

// IsCalibration is true for CalibrationBounds.
func (b Bounds) IsCalibration() bool {
	return b == CalibrationBounds
}

func (b Bounds) contain(e float64) bool {
	return e >= b.Min && e <= b.Max
}

// Params are the parameters of a kern search, in pixels.
type Params struct {
	MaxKern    float64  // search range is [−MaxKern, MaxKern]
	KernStep   float64  // distance between samples
	Epsilon    float64  // overlap energy considered no overlap
	BlurFactor float64  // default sigma relative to bitmap width
	Strategy   Strategy // kern selection
}

// DefaultParams returns the default parameters for a font size.
func DefaultParams(fontSize float64) Params {
	return Params{
		MaxKern:    math.Round(0.3 * fontSize),
		KernStep:   1,
		Epsilon:    0.5,
		BlurFactor: 0.05,
		Strategy:   Conservative,
	}
}

// ParamsFromRegisters extracts search parameters from a parameter set.
func ParamsFromRegisters(regs *parameters.Registers) (Params, error) {
	strategy, err := ParseStrategy(regs.S(parameters.P_STRATEGY))
	if err != nil {
		return Params{}, err
	}
	return Params{
		MaxKern:    regs.MaxKern(),
		KernStep:   regs.F(parameters.P_KERNSTEP),
		Epsilon:    regs.F(parameters.P_EPSILON),
		BlurFactor: regs.F(parameters.P_BLURFACTOR),
		Strategy:   strategy,
	}, nil
}

// Sample is the overlap energy at a trial kern.
type Sample struct {
	Kern, Overlap float64
}

// Searcher searches kerns for glyph pairs. A Searcher may be used
// concurrently, as long as Params are not modified.
type Searcher struct {
	Params Params
	Cache  *blur.KernelCache // may be nil
}

// NewSearcher creates a searcher with its own kernel cache.
func NewSearcher(params Params) *Searcher {
	return &Searcher{Params: params, Cache: blur.NewKernelCache()}
}

// steps returns m = ⌊MaxKern / KernStep⌋.
func (s *Searcher) steps() int {
	if s.Params.KernStep <= 0 || s.Params.MaxKern <= 0 {
		return 0
	}
	return int(math.Floor(s.Params.MaxKern/s.Params.KernStep + 1e-9))
}

// Blur blurs a glyph the way KernPair does: with sigma = kernelWidth / 4,
// or relative to the glyph's width if kernelWidth ≤ 0.
func (s *Searcher) Blur(g *glyph.Glyph, kernelWidth int) *glyph.Glyph {
	sigma := blur.SigmaForKernelWidth(kernelWidth)
	if kernelWidth <= 0 {
		sigma = blur.SigmaForWidth(s.Params.BlurFactor, g.Width())
	}
	return blur.Glyph(g, sigma, s.Cache)
}

// KernPair returns the kern for a pair of un-blurred glyphs, in pixels,
// within [−MaxKern, MaxKern].
//
// If bounds are CalibrationBounds, the searcher's strategy is ignored and
// KernPair returns the kern of maximum overlap within [−MaxKern, 0].
func (s *Searcher) KernPair(left, right *glyph.Glyph, bounds Bounds, kernelWidth int) float64 {
	l, r := s.Blur(left, kernelWidth), s.Blur(right, kernelWidth)
	if bounds.IsCalibration() {
		return s.calibrationPeak(l, r)
	}
	samples := s.sample(l, r)
	k := s.Params.Strategy.Select(samples, bounds, s.Params.Epsilon)
	tracer().Debugf("kern(%q,%q) = %g [%s]", left.Char, right.Char, k, s.Params.Strategy)
	return k
}

// Samples returns the overlap energies of a pair of un-blurred glyphs at
// every trial kern, ordered from −MaxKern to MaxKern.
func (s *Searcher) Samples(left, right *glyph.Glyph, kernelWidth int) []Sample {
	return s.sample(s.Blur(left, kernelWidth), s.Blur(right, kernelWidth))
}

func (s *Searcher) sample(l, r *glyph.Glyph) []Sample {
	m := s.steps()
	samples := make([]Sample, 0, 2*m+1)
	for i := -m; i <= m; i++ {
		k := float64(i) * s.Params.KernStep
		samples = append(samples, Sample{Kern: k, Overlap: overlap.Energy(l, r, k)})
	}
	return samples
}

func (s *Searcher) calibrationPeak(l, r *glyph.Glyph) float64 {
	m := s.steps()
	best, peak := 0.0, math.Inf(-1)
	for i := -m; i <= 0; i++ {
		k := float64(i) * s.Params.KernStep
		if e := overlap.Energy(l, r, k); e >= peak {
			best, peak = k, e
		}
	}
	return best
}

// Select chooses a kern from samples ordered by ascending kern, as produced
// by Searcher.Samples. Samples must be symmetric around a zero kern sample.
// If no sample qualifies, Select returns 0.
func (st Strategy) Select(samples []Sample, bounds Bounds, epsilon float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	zero := len(samples) / 2
	switch st {
	case Calibrated:
		e := samples[zero].Overlap
		if bounds.contain(e) {
			return 0
		}
		if e < bounds.Min { // too loose, move closer
			for i := zero - 1; i >= 0; i-- {
				if bounds.contain(samples[i].Overlap) {
					return samples[i].Kern
				}
			}
		} else {
			for i := zero + 1; i < len(samples); i++ {
				if bounds.contain(samples[i].Overlap) {
					return samples[i].Kern
				}
			}
		}
		return 0
	case Midpoint:
		mid := (bounds.Min + bounds.Max) / 2
		best, dist := 0, math.Inf(1)
		for i, smpl := range samples {
			if d := math.Abs(smpl.Overlap - mid); d < dist {
				best, dist = i, d
			}
		}
		return samples[best].Kern
	case Argmax:
		best := 0
		for i, smpl := range samples {
			if smpl.Overlap > samples[best].Overlap {
				best = i
			}
		}
		return samples[best].Kern
	case NoOverlap:
		for d := 0; d <= zero; d++ {
			if samples[zero-d].Overlap <= epsilon {
				return samples[zero-d].Kern
			}
			if samples[zero+d].Overlap <= epsilon {
				return samples[zero+d].Kern
			}
		}
		return 0
	case Conservative:
		for _, smpl := range samples {
			if smpl.Overlap <= epsilon {
				return smpl.Kern
			}
		}
		return 0
	}
	tracer().Errorf("kern selection with unknown strategy %d", int(st))
	return 0
}
