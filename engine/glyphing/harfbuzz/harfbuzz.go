/*
Package harfbuzz reads reference kerning from a font, using HarfBuzz.

Kerning estimation does not interpret a font's own kerning. For comparison,
this package shapes character pairs with the HarfBuzz shaper, thus applying
the font's GPOS pair positioning (and, for older fonts, its 'kern' table).
The kern of a pair is the difference between the left glyph's advance when
shaped as part of the pair and its advance when shaped alone.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package harfbuzz

import (
	"bytes"
	"encoding/binary"
	"sync"
	"unicode"

	hbtt "github.com/benoitkugler/textlayout/fonts/truetype"
	hb "github.com/benoitkugler/textlayout/harfbuzz"
	hblang "github.com/benoitkugler/textlayout/language"
	"github.com/npillmayer/autokern/core"
	"github.com/npillmayer/autokern/core/font"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/language"
)

// tracer traces with key 'autokern.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("autokern.glyphs")
}

// --- Type conversion -------------------------------------------------------

// Lang4HB returns a language tag as a HarfBuzz language.
func Lang4HB(l language.Tag) hblang.Language {
	return hblang.NewLanguage(l.String())
}

// Script4HB returns a script as a HarfBuzz script.
func Script4HB(s language.Script) hblang.Script {
	b := []byte(s.String())
	b[0] = byte(unicode.ToLower(rune(b[0])))
	h := binary.BigEndian.Uint32(b)
	return hblang.Script(h)
}

// --- Reference kerning -----------------------------------------------------

// Kerner reports the kerning a font defines for character pairs.
// A Kerner is safe for concurrent use.
type Kerner struct {
	mx    sync.Mutex
	font  *hb.Font
	props hb.SegmentProperties
	scale float64 // pixels per font unit
}

// NewKerner creates a kerner for a type case. Kerns are reported for
// Latin script and language tag lang (which may be language.Und).
func NewKerner(tc *font.TypeCase, lang language.Tag) (*Kerner, error) {
	sf := tc.ScalableFontParent()
	f := bytes.NewReader(sf.Binary)
	face, err := hbtt.Parse(f, true)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "HarfBuzz cannot parse font %s", sf.Fontname)
	}
	upem := tc.EmMetrics().UnitsPerEm
	k := &Kerner{
		font:  hb.NewFont(face),
		scale: tc.Size() / upem,
	}
	k.font.XScale, k.font.YScale = int32(upem), int32(upem) // positions in font units
	k.props.Direction = hb.LeftToRight
	k.props.Script = Script4HB(language.MustParseScript("Latn"))
	if lang != language.Und {
		k.props.Language = Lang4HB(lang)
	}
	return k, nil
}

// Kern returns the kern between left and right as defined by the font, in
// pixels. If the font does not contain one of the characters, Kern returns an
// error with code core.EMISSING.
func (k *Kerner) Kern(left, right rune) (float64, error) {
	k.mx.Lock()
	defer k.mx.Unlock()
	pair, err := k.shape([]rune{left, right})
	if err != nil {
		return 0, err
	}
	single, err := k.shape([]rune{left})
	if err != nil {
		return 0, err
	}
	kern := float64(pair[0]-single[0]) * k.scale
	tracer().Debugf("reference kern(%q,%q) = %.2fpx", left, right, kern)
	return kern, nil
}

// shape returns the x-advances of the glyphs of runes, in font units.
func (k *Kerner) shape(runes []rune) ([]int32, error) {
	buf := hb.NewBuffer()
	buf.Props = k.props
	buf.AddRunes(runes, 0, len(runes))
	buf.Shape(k.font, nil)
	if len(buf.Info) != len(runes) {
		return nil, core.Error(core.EINVALID, "shaping %q produced %d glyphs", string(runes), len(buf.Info))
	}
	advances := make([]int32, len(buf.Info))
	for i, ginfo := range buf.Info {
		if ginfo.Glyph == 0 {
			return nil, core.WrapError(font.ErrNoGlyph, core.EMISSING, "font has no glyph for %#U",
				runes[ginfo.Cluster])
		}
		advances[i] = int32(buf.Pos[i].XAdvance)
	}
	return advances, nil
}
