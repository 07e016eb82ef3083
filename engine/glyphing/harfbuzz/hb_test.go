package harfbuzz_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/npillmayer/autokern/core"
	"github.com/npillmayer/autokern/core/font"
	"github.com/npillmayer/autokern/engine/glyphing/harfbuzz"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestHBScript(t *testing.T) {
	id := "Plrd"
	script := language.MustParseScript(id)
	hb_script := harfbuzz.Script4HB(script)
	hstr := fmt.Sprintf("%x", uint32(hb_script))
	if hstr != "706c7264" {
		t.Logf("script %q: %x => %x", id, script, uint32(hb_script))
		t.Errorf("expected HB script of 706c7264, is %s", hstr)
	}
}

func TestHBLang(t *testing.T) {
	l := "de_DE"
	langT, err := language.Parse(l)
	if err != nil {
		t.Error(err)
	}
	h := harfbuzz.Lang4HB(langT)
	if h != "de-de" {
		t.Logf("Go lang = %v", langT)
		t.Logf("HB lang = %v, expected de-de", h)
		t.Fail()
	}
}

func TestReferenceKern(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "autokern.glyphs")
	defer teardown()
	//
	tc, err := font.FallbackFont().PrepareCase(100)
	require.NoError(t, err)
	kerner, err := harfbuzz.NewKerner(tc, language.English)
	require.NoError(t, err)
	for _, pair := range []string{"AV", "To", "ll", "Wa"} {
		r := []rune(pair)
		k, err := kerner.Kern(r[0], r[1])
		require.NoError(t, err)
		t.Logf("reference kern for %q = %.2fpx", pair, k)
		assert.Less(t, math.Abs(k), 50.0, "kern should be a fraction of the em")
		again, _ := kerner.Kern(r[0], r[1])
		assert.Equal(t, k, again)
	}
	_, err = kerner.Kern('A', '\U0010FFFD')
	assert.Equal(t, core.EMISSING, core.Code(err))
}
