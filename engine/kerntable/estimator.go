package kerntable

import (
	"fmt"

	"github.com/npillmayer/autokern/core"
	"github.com/npillmayer/autokern/core/font"
	"github.com/npillmayer/autokern/core/parameters"
	"github.com/npillmayer/autokern/core/percent"
	"github.com/npillmayer/autokern/engine/calibrate"
	"github.com/npillmayer/autokern/engine/glyph"
	"github.com/npillmayer/autokern/engine/kern"
)

// Decision is the estimated kern of a character pair.
type Decision struct {
	Left, Right rune
	Pixels      float64         // kern in pixels, within [−MaxKern, MaxKern]
	Advance     float64         // advance width of the left glyph, in pixels
	Percent     percent.Percent // Pixels relative to Advance
}

// Pair returns the two characters of d as a string.
func (d Decision) Pair() string {
	return string([]rune{d.Left, d.Right})
}

func (d Decision) String() string {
	return fmt.Sprintf("%q: %.2fpx (%s)", d.Pair(), d.Pixels, d.Percent)
}

// Estimator estimates kerns for pairs of characters of one type case.
// An Estimator is safe for concurrent use.
type Estimator struct {
	Fontname    string
	Renderer    *glyph.Renderer
	Searcher    *kern.Searcher
	Calibration calibrate.Result
}

// NewEstimator creates an estimator for a type case, configured by a parameter
// set. The font size is taken from tc, not from regs. The type case is
// calibrated once and the calibration is remembered in store. If calibration fails, NewEstimator returns a *calibrate.FailedError.
func NewEstimator(tc *font.TypeCase, regs *parameters.Registers, store *calibrate.Store) (*Estimator, error) {
	if regs == nil {
		regs = parameters.NewRegisters()
	}
	sized := *regs // derived parameters follow the type case's size
	sized.Push(parameters.P_FONTSIZE, tc.Size())
	regs = &sized
	if store == nil {
		store = calibrate.GlobalStore()
	}
	params, err := kern.ParamsFromRegisters(regs)
	if err != nil {
		return nil, err
	}
	est := &Estimator{
		Fontname: tc.ScalableFontParent().Fontname,
		Renderer: glyph.NewRenderer(tc, regs.Padding()),
		Searcher: kern.NewSearcher(params),
	}
	est.Calibration, err = store.Calibration(calibrationKey(tc, regs), tc.Size(), func() (calibrate.Result, error) {
		return calibrate.Calibrate(est.Renderer, tc.Size(), est.Searcher, calibrate.FromRegisters(regs)...)
	})
	if err != nil {
		return nil, err
	}
	tracer().Infof("estimator for %s at %.1fpx: %s", est.Fontname, tc.Size(), est.Calibration)
	return est, nil
}

// calibrationKey identifies a calibration within a store. Besides font and
// size, calibration results depend on the tuning characters, the padding and
// the iteration limit.
func calibrationKey(tc *font.TypeCase, regs *parameters.Registers) string {
	f := tc.ScalableFontParent()
	return fmt.Sprintf("%s:%s/%s/%d/%d", f.Filepath, f.Fontname, regs.S(parameters.P_TUNINGCHARS),
		regs.Padding(), regs.N(parameters.P_MAXITERATIONS))
}

// EstimateKern estimates the kern between left and right.
//
// If the font has no glyph for one of the characters, EstimateKern returns
// ok = false and no error: the pair is to be skipped.
func (est *Estimator) EstimateKern(left, right rune) (d Decision, ok bool, err error) {
	d = Decision{Left: left, Right: right}
	if !est.Renderer.Has(left) || !est.Renderer.Has(right) {
		tracer().Debugf("skipping pair %q, glyph missing", d.Pair())
		return d, false, nil
	}
	l, err := est.Renderer.Glyph(left)
	if err != nil {
		return d, false, ignoreMissing(err)
	}
	r, err := est.Renderer.Glyph(right)
	if err != nil {
		return d, false, ignoreMissing(err)
	}
	d.Pixels = est.Searcher.KernPair(l, r, est.Calibration.Bounds(), est.Calibration.KernelWidth)
	d.Advance = l.Advance
	d.Percent = percent.OfAdvance(d.Pixels, d.Advance)
	return d, true, nil
}

// Samples returns the sampled overlap curve of a pair, for diagnostics.
func (est *Estimator) Samples(left, right rune) ([]kern.Sample, error) {
	l, err := est.Renderer.Glyph(left)
	if err != nil {
		return nil, err
	}
	r, err := est.Renderer.Glyph(right)
	if err != nil {
		return nil, err
	}
	return est.Searcher.Samples(l, r, est.Calibration.KernelWidth), nil
}

func ignoreMissing(err error) error {
	if core.Code(err) == core.EMISSING {
		return nil
	}
	return err
}
