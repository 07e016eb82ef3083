package kerntable

import (
	"bytes"
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/npillmayer/autokern/core"
	"github.com/npillmayer/autokern/core/font"
	"github.com/npillmayer/autokern/core/parameters"
	"github.com/npillmayer/autokern/core/percent"
	"github.com/npillmayer/autokern/engine/calibrate"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestCharset(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "autokern.table")
	defer teardown()
	//
	assert.Equal(t, []rune("AV"), Charset("AVA"))
	assert.Equal(t, []rune{'T', '\u00e9'}, Charset("Te\u0301"), "combining sequence should be composed")
	assert.Equal(t, []rune{'x'}, Charset("g\u0308x"), "clusters without precomposed form are dropped")
	assert.Empty(t, Charset(""))
}

func TestPair(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "autokern.table")
	defer teardown()
	//
	l, r, err := Pair("oo")
	require.NoError(t, err)
	assert.Equal(t, 'o', l)
	assert.Equal(t, 'o', r)
	l, r, err = Pair("e\u0301V")
	require.NoError(t, err)
	assert.Equal(t, '\u00e9', l)
	assert.Equal(t, 'V', r)
	for _, bad := range []string{"", "o", "ooo", "g\u0308x"} {
		_, _, err = Pair(bad)
		assert.Equal(t, core.EINVALID, core.Code(err), "pair %q", bad)
	}
}

func TestTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "autokern.table")
	defer teardown()
	//
	table := NewTable("Go Sans", 100)
	table.Put("To", -12.25)
	table.Put("AV", -7.5)
	table.Put("AT", 0)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []string{"AT", "AV", "To"}, table.Pairs())
	p, ok := table.Get("AV")
	assert.True(t, ok)
	assert.Equal(t, percent.Percent(-7.5), p)
	_, ok = table.Get("VA")
	assert.False(t, ok)
	assert.Equal(t, []string{"AT", "AV"}, table.WithLeft('A'))
	assert.Empty(t, table.WithLeft('x'))
	var seen []string
	table.Each(func(pair string, _ percent.Percent) { seen = append(seen, pair) })
	assert.Equal(t, table.Pairs(), seen)
}

func TestTableJSON(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "autokern.table")
	defer teardown()
	//
	table := NewTable("Go Sans", 100)
	table.Put("AV", -7.5)
	table.Put("To", -12.25)
	//
	var flat bytes.Buffer
	require.NoError(t, table.WriteJSON(&flat, false))
	assert.Contains(t, flat.String(), `"AV": -7.5`)
	assert.NotContains(t, flat.String(), "fontSize")
	assert.Less(t, strings.Index(flat.String(), "AV"), strings.Index(flat.String(), "To"))
	back, err := ReadJSON(&flat)
	require.NoError(t, err)
	assert.Equal(t, table.Pairs(), back.Pairs())
	p, _ := back.Get("To")
	assert.Equal(t, percent.Percent(-12.25), p)
	assert.Equal(t, "", back.Font)
	//
	var wrapped bytes.Buffer
	require.NoError(t, table.WriteJSON(&wrapped, true))
	assert.Contains(t, wrapped.String(), `"font": "Go Sans"`)
	assert.Contains(t, wrapped.String(), `"fontSize": 100`)
	back, err = ReadJSON(&wrapped)
	require.NoError(t, err)
	assert.Equal(t, "Go Sans", back.Font)
	assert.Equal(t, 100.0, back.FontSize)
	assert.Equal(t, 2, back.Len())
	assert.Equal(t, []string{"AV"}, back.WithLeft('A'))
	//
	_, err = ReadJSON(strings.NewReader(`["AV"]`))
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = ReadJSON(strings.NewReader(`{"AV": "tight"}`))
	assert.Equal(t, core.EINVALID, core.Code(err))
}

// --- Estimation ------------------------------------------------------------

func TestCalibrationKey(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "autokern.table")
	defer teardown()
	//
	tc, err := font.FallbackFont().PrepareCase(40)
	require.NoError(t, err)
	store := calibrate.NewStore()
	regs := parameters.NewRegisters()
	_, err = NewEstimator(tc, regs, store)
	require.NoError(t, err)
	_, err = NewEstimator(tc, regs, store)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
	limited := parameters.NewRegisters()
	limited.Push(parameters.P_MAXITERATIONS, 500)
	_, err = NewEstimator(tc, limited, store)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len(), "iteration limit is part of the key")
	other := *font.FallbackFont()
	other.Filepath = "elsewhere/GoRegular.ttf"
	tc2, err := other.PrepareCase(40)
	require.NoError(t, err)
	_, err = NewEstimator(tc2, regs, store)
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len(), "fonts from different files do not share calibrations")
}

type EstimatorSuite struct {
	suite.Suite
	teardown func()
	est      *Estimator
}

func TestEstimatorSuite(t *testing.T) {
	suite.Run(t, new(EstimatorSuite))
}

func (s *EstimatorSuite) SetupSuite() {
	s.teardown = gotestingadapter.QuickConfig(s.T(), "autokern.table")
	tc, err := font.FallbackFont().PrepareCase(40)
	s.Require().NoError(err)
	regs := parameters.NewRegisters()
	s.est, err = NewEstimator(tc, regs, calibrate.NewStore())
	s.Require().NoError(err)
}

func (s *EstimatorSuite) TearDownSuite() {
	s.teardown()
}

func (s *EstimatorSuite) TestCalibrated() {
	s.True(s.est.Calibration.Converged)
	s.Equal("Go Sans", s.est.Fontname)
	s.Equal(12.0, s.est.Searcher.Params.MaxKern, "max kern follows the type case's size")
	s.Equal(10, s.est.Renderer.Padding())
}

func (s *EstimatorSuite) TestEstimateKern() {
	d, ok, err := s.est.EstimateKern('A', 'V')
	s.Require().NoError(err)
	s.Require().True(ok)
	s.T().Logf("%s", d)
	s.Equal("AV", d.Pair())
	s.LessOrEqual(d.Pixels, 12.0)
	s.GreaterOrEqual(d.Pixels, -12.0)
	s.Greater(d.Advance, 0.0)
	s.Equal(percent.OfAdvance(d.Pixels, d.Advance), d.Percent)
	again, _, _ := s.est.EstimateKern('A', 'V')
	s.Equal(d, again)
	samples, err := s.est.Samples('A', 'V')
	s.Require().NoError(err)
	s.Len(samples, 25)
}

func (s *EstimatorSuite) TestDoubledPair() {
	l, r, err := Pair("oo")
	s.Require().NoError(err)
	d, ok, err := s.est.EstimateKern(l, r)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("oo", d.Pair())
}

func (s *EstimatorSuite) TestMissingGlyph() {
	_, ok, err := s.est.EstimateKern('A', '\U0010FFFD')
	s.NoError(err)
	s.False(ok)
	_, ok, err = s.est.EstimateKern('\U0010FFFD', 'A')
	s.NoError(err)
	s.False(ok)
}

func (s *EstimatorSuite) TestGenerate() {
	chars := append(Charset("AVo"), '\U0010FFFD')
	var calls int64
	serial, err := Generate(context.Background(), s.est, chars, Options{
		Workers: 1,
		Progress: func(d Decision, done, total int) {
			atomic.AddInt64(&calls, 1)
		},
	})
	s.Require().NoError(err)
	s.Equal(int64(16), calls, "progress is reported for skipped pairs as well")
	s.Equal(9, serial.Len())
	s.Equal("Go Sans", serial.Font)
	s.Equal(40.0, serial.FontSize)
	parallel, err := Generate(context.Background(), s.est, chars, Options{Workers: 4})
	s.Require().NoError(err)
	s.Equal(serial.Pairs(), parallel.Pairs())
	serial.Each(func(pair string, p percent.Percent) {
		q, ok := parallel.Get(pair)
		s.True(ok)
		s.Equal(p, q, "pair %q", pair)
	})
	omitted, err := Generate(context.Background(), s.est, chars, Options{Workers: 2, OmitZero: true})
	s.Require().NoError(err)
	omitted.Each(func(pair string, p percent.Percent) {
		s.NotEqual(percent.Percent(0), p)
	})
}

func (s *EstimatorSuite) TestGenerateCancelled() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Generate(ctx, s.est, []rune("AVo"), Options{Workers: 2})
	s.ErrorIs(err, context.Canceled)
}
