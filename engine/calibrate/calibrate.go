package calibrate

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/autokern/core"
	"github.com/npillmayer/autokern/core/parameters"
	"github.com/npillmayer/autokern/engine/glyph"
	"github.com/npillmayer/autokern/engine/kern"
	"github.com/npillmayer/autokern/engine/overlap"
)

// GlyphSource delivers un-blurred glyphs. It is implemented by *glyph.Renderer.
type GlyphSource interface {
	Glyph(r rune) (*glyph.Glyph, error)
}

var _ GlyphSource = (*glyph.Renderer)(nil)

// State is the state of a calibration.
type State int

// Calibration states. A calibration starts in state Searching and ends in
// either Converged or Failed.
const (
	Searching State = iota
	Converged
	Failed
)

func (s State) String() string {
	switch s {
	case Searching:
		return "searching"
	case Converged:
		return "converged"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// CharSample is the calibration measurement for one tuning character.
type CharSample struct {
	Char        rune
	SelfOverlap float64 // overlap of the blurred glyph with itself at kern 0
	PeakKern    float64 // kern of maximum self-overlap within [−MaxKern, 0]
}

// Result is the outcome of a calibration.
type Result struct {
	MinOverlap  float64
	MaxOverlap  float64
	KernelWidth int
	Converged   bool
	Iterations  int
	Samples     []CharSample // measurements of the final iteration
}

// Bounds returns the overlap bounds for kern searches.
func (r Result) Bounds() kern.Bounds {
	return kern.Bounds{Min: r.MinOverlap, Max: r.MaxOverlap}
}

// State returns the terminal state of a calibration.
func (r Result) State() State {
	if r.Converged {
		return Converged
	}
	if r.Iterations > 0 {
		return Failed
	}
	return Searching
}

func (r Result) String() string {
	return fmt.Sprintf("calibration[%s kw=%d overlap=[%.4g,%.4g] after %d iterations]",
		r.State(), r.KernelWidth, r.MinOverlap, r.MaxOverlap, r.Iterations)
}

// ErrCalibrationFailed is wrapped by every *FailedError.
var ErrCalibrationFailed = errors.New("kernel width calibration did not converge")

// FailedError reports a calibration which did not converge. It carries the
// last result for diagnostics. Its error code is core.ENOCONVERGE.
type FailedError struct {
	Result Result
	Reason string
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("[%d] %s: %s", core.ENOCONVERGE, ErrCalibrationFailed.Error(), e.Reason)
}

// Unwrap makes FailedError match ErrCalibrationFailed with errors.Is.
func (e *FailedError) Unwrap() error {
	return ErrCalibrationFailed
}

// ErrorCode makes FailedError a core.AppError.
func (e *FailedError) ErrorCode() int {
	return core.ENOCONVERGE
}

// UserMessage makes FailedError a core.AppError.
func (e *FailedError) UserMessage() string {
	return fmt.Sprintf("cannot calibrate font: %s (last kernel width %d)", e.Reason, e.Result.KernelWidth)
}

var _ core.AppError = (*FailedError)(nil)

// --- Options ---------------------------------------------------------------

type config struct {
	tuning        []rune
	maxIterations int
}

// Option configures a calibration.
type Option func(*config)

// TuningChars sets the characters to calibrate with. The default is "lno".
func TuningChars(chars string) Option {
	return func(c *config) {
		if chars != "" {
			c.tuning = []rune(chars)
		}
	}
}

// MaxIterations limits the number of calibration iterations. The default is 1000.
func MaxIterations(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxIterations = n
		}
	}
}

// FromRegisters creates options from a parameter set.
func FromRegisters(regs *parameters.Registers) []Option {
	return []Option{
		TuningChars(regs.S(parameters.P_TUNINGCHARS)),
		MaxIterations(regs.N(parameters.P_MAXITERATIONS)),
	}
}

// --- Calibration -----------------------------------------------------------

// StartWidth returns the initial kernel width for a font size:
// round(0.2 × fontSize), forced odd.
func StartWidth(fontSize float64) int {
	kw := int(math.Round(0.2 * fontSize))
	if kw%2 == 0 {
		kw++
	}
	return kw
}

// Calibrate searches a kernel width for the glyphs delivered by src, rendered at
// fontSize. Glyphs are blurred and, for diagnostics, searched by searcher.
//
// If calibration does not converge, Calibrate returns the last result
// together with a *FailedError. Tuning characters missing from the font are
// skipped; if none of them is present, Calibrate returns an error with code
// core.EMISSING.
func Calibrate(src GlyphSource, fontSize float64, searcher *kern.Searcher, opts ...Option) (Result, error) {
	conf := config{tuning: []rune("lno"), maxIterations: 1000}
	for _, opt := range opts {
		opt(&conf)
	}
	glyphs := make([]*glyph.Glyph, 0, len(conf.tuning))
	for _, r := range conf.tuning {
		g, err := src.Glyph(r)
		if err != nil {
			if core.Code(err) == core.EMISSING {
				tracer().Infof("tuning character %q not in font, skipping", r)
				continue
			}
			return Result{}, err
		}
		glyphs = append(glyphs, g)
	}
	if len(glyphs) == 0 {
		return Result{}, core.Error(core.EMISSING, "font has none of the tuning characters %q",
			string(conf.tuning))
	}
	result := Result{KernelWidth: StartWidth(fontSize)}
	for {
		result.Iterations++
		result.Samples = measure(glyphs, result.KernelWidth, searcher)
		result.MinOverlap, result.MaxOverlap = math.Inf(1), math.Inf(-1)
		for _, s := range result.Samples {
			result.MinOverlap = math.Min(result.MinOverlap, s.SelfOverlap)
			result.MaxOverlap = math.Max(result.MaxOverlap, s.SelfOverlap)
		}
		tracer().Debugf("iteration %d: kw=%d min=%g max=%g", result.Iterations,
			result.KernelWidth, result.MinOverlap, result.MaxOverlap)
		if result.MinOverlap > result.MaxOverlap/2 {
			result.Converged = true
			peaks(glyphs, &result, searcher)
			tracer().Infof("%s", result)
			return result, nil
		}
		if result.Iterations >= conf.maxIterations {
			err := fail(&result, glyphs, searcher,
				fmt.Sprintf("no convergence within %d iterations", conf.maxIterations))
			return result, err
		}
		if float64(result.KernelWidth+2) > 2*fontSize {
			err := fail(&result, glyphs, searcher,
				fmt.Sprintf("kernel width exceeds %g", 2*fontSize))
			return result, err
		}
		result.KernelWidth += 2
	}
}

func fail(result *Result, glyphs []*glyph.Glyph, searcher *kern.Searcher, reason string) error {
	peaks(glyphs, result, searcher)
	tracer().Errorf("%s: %s", result, reason)
	return &FailedError{Result: *result, Reason: reason}
}

func measure(glyphs []*glyph.Glyph, kw int, searcher *kern.Searcher) []CharSample {
	samples := make([]CharSample, len(glyphs))
	for i, g := range glyphs {
		b := searcher.Blur(g, kw)
		samples[i] = CharSample{Char: g.Char, SelfOverlap: overlap.Energy(b, b, 0)}
	}
	return samples
}

// peaks records the kern of maximum self-overlap for every tuning character,
// through the calibration invocation of the kern searcher.
func peaks(glyphs []*glyph.Glyph, result *Result, searcher *kern.Searcher) {
	for i, g := range glyphs {
		result.Samples[i].PeakKern = searcher.KernPair(g, g, kern.CalibrationBounds, result.KernelWidth)
	}
}
