package kern

import (
	"testing"

	"github.com/npillmayer/autokern/core"
	"github.com/npillmayer/autokern/core/font"
	"github.com/npillmayer/autokern/core/parameters"
	"github.com/npillmayer/autokern/engine/glyph"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kernel width 1 gives sigma 0.25, i.e. radius 0: no blur
const noBlur = 1

func squareSearcher(st Strategy) *Searcher {
	return NewSearcher(Params{
		MaxKern:  12,
		KernStep: 1,
		Epsilon:  0.5,
		Strategy: st,
	})
}

func TestParseStrategy(t *testing.T) {
	for _, name := range Strategies() {
		st, err := ParseStrategy(name)
		require.NoError(t, err)
		assert.Equal(t, name, st.String())
	}
	st, err := ParseStrategy("No_Overlap")
	require.NoError(t, err)
	assert.Equal(t, NoOverlap, st)
	st, err = ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, Conservative, st)
	_, err = ParseStrategy("aggressive")
	assert.Equal(t, core.EINVALID, core.Code(err))
	assert.Equal(t, "unknown", Strategy(17).String())
}

func TestParams(t *testing.T) {
	p := DefaultParams(100)
	assert.Equal(t, 30.0, p.MaxKern)
	assert.Equal(t, Conservative, p.Strategy)
	regs := parameters.NewRegisters()
	regs.Push(parameters.P_FONTSIZE, 50.0)
	regs.Push(parameters.P_STRATEGY, "midpoint")
	p, err := ParamsFromRegisters(regs)
	require.NoError(t, err)
	assert.Equal(t, 15.0, p.MaxKern)
	assert.Equal(t, Midpoint, p.Strategy)
	assert.Equal(t, 0.05, p.BlurFactor)
	regs.Push(parameters.P_STRATEGY, "nonsense")
	_, err = ParamsFromRegisters(regs)
	assert.Error(t, err)
}

func TestSquareSamples(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "autokern.kern")
	defer teardown()
	//
	g := glyph.Uniform('#', 10, 10, 10, 0, 1)
	samples := squareSearcher(Conservative).Samples(g, g, noBlur)
	require.Len(t, samples, 25)
	assert.Equal(t, Sample{Kern: -12, Overlap: 80}, samples[0])
	assert.Equal(t, Sample{Kern: -10, Overlap: 100}, samples[2])
	assert.Equal(t, Sample{Kern: -5, Overlap: 50}, samples[7])
	assert.Equal(t, Sample{Kern: 0, Overlap: 0}, samples[12])
	assert.Equal(t, Sample{Kern: 12, Overlap: 0}, samples[24])
}

func TestSquareStrategies(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "autokern.kern")
	defer teardown()
	//
	g := glyph.Uniform('#', 10, 10, 10, 0, 1)
	for _, tc := range []struct {
		st     Strategy
		bounds Bounds
		kern   float64
	}{
		{Conservative, Bounds{40, 60}, 0},
		{Argmax, Bounds{40, 60}, -10},
		{Midpoint, Bounds{40, 60}, -5},
		{NoOverlap, Bounds{40, 60}, 0},
		{Calibrated, Bounds{20, 30}, -2},
		{Calibrated, Bounds{200, 300}, 0},
		{Calibrated, Bounds{0, 30}, 0},
		{Argmax, CalibrationBounds, -10},
	} {
		k := squareSearcher(tc.st).KernPair(g, g, tc.bounds, noBlur)
		assert.Equal(t, tc.kern, k, "strategy %s with bounds %v", tc.st, tc.bounds)
	}
}

func TestCalibrationTies(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "autokern.kern")
	defer teardown()
	//
	// the narrow glyph fits into the wide one for kerns in [−10, −4]
	narrow := glyph.Uniform('i', 4, 10, 4, 0, 1)
	wide := glyph.Uniform('W', 10, 10, 10, 0, 1)
	s := squareSearcher(Argmax)
	assert.Equal(t, -4.0, s.KernPair(narrow, wide, CalibrationBounds, noBlur),
		"calibration scan resolves ties to the least negative kern")
	assert.Equal(t, -10.0, s.KernPair(narrow, wide, Bounds{1, 2}, noBlur),
		"argmax resolves ties to the most negative kern")
}

func TestSelectTies(t *testing.T) {
	samples := []Sample{{-2, 5}, {-1, 5}, {0, 1}, {1, 5}, {2, 5}}
	assert.Equal(t, -2.0, Argmax.Select(samples, Bounds{4, 6}, 0.5))
	assert.Equal(t, -2.0, Midpoint.Select(samples, Bounds{4, 6}, 0.5))
	assert.Equal(t, 0.0, NoOverlap.Select(samples, Bounds{4, 6}, 0.5))
	assert.Equal(t, 0.0, Conservative.Select(samples, Bounds{4, 6}, 0.5))
	assert.Equal(t, 0.0, Conservative.Select(nil, Bounds{}, 0.5))
	//
	samples = []Sample{{-1, 0}, {0, 3}, {1, 0}}
	assert.Equal(t, -1.0, NoOverlap.Select(samples, Bounds{}, 0.5), "negative side first")
	assert.Equal(t, -1.0, Conservative.Select(samples, Bounds{}, 0.5))
	samples = []Sample{{-1, 20}, {0, 10}, {1, 5}}
	assert.Equal(t, 1.0, Calibrated.Select(samples, Bounds{4, 6}, 0.5), "too tight, move apart")
}

func TestSelectUnknownStrategy(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "autokern.kern")
	defer teardown()
	//
	samples := []Sample{{-1, 0}, {0, 3}, {1, 0}}
	assert.Equal(t, -1.0, Conservative.Select(samples, Bounds{}, 0.5))
	assert.Equal(t, 0.0, Strategy(17).Select(samples, Bounds{}, 0.5))
	assert.Equal(t, 0.0, Strategy(-1).Select(samples, Bounds{}, 0.5))
}

func TestKernPairDeterminism(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "autokern.kern")
	defer teardown()
	//
	tc, err := font.FallbackFont().PrepareCase(40)
	require.NoError(t, err)
	left, err := glyph.New(tc, 'A', 10)
	require.NoError(t, err)
	right, err := glyph.New(tc, 'V', 10)
	require.NoError(t, err)
	bounds := Bounds{Min: 1, Max: 50}
	for _, name := range Strategies() {
		st, _ := ParseStrategy(name)
		params := DefaultParams(40)
		params.Strategy = st
		s := NewSearcher(params)
		k1 := s.KernPair(left, right, bounds, 9)
		k2 := s.KernPair(left, right, bounds, 9)
		assert.Equal(t, k1, k2, "strategy %s must be deterministic", st)
		assert.LessOrEqual(t, k1, params.MaxKern)
		assert.GreaterOrEqual(t, k1, -params.MaxKern)
		k3 := s.KernPair(left, right, bounds, 0)
		assert.Equal(t, k3, s.KernPair(left, right, bounds, 0))
	}
}
