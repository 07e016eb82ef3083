/*
Package font is for typeface and font handling.

There is a certain confusion in the nomenclature of typesetting. We will
stick to the following definitions:

* A "typeface" is a family of fonts. An example is "Helvetica".
This corresponds to a TrueType "collection" (*.ttc).

* A "scalable font" is a font, i.e. a variant of a typeface with a
certain weight, slant, etc.  An example is "Helvetica regular".

* A "typecase" is a scaled font, i.e. a font in a certain size.
The name is reminiscend on the wooden boxes of typesetters in the
aera of metal type. For kerning estimation, sizes are given in pixels
per em.

Please note that Go (Golang) does use the terms "font" and "face"
differently–actually more or less in an opposite manner.

A TypeCase answers all the questions glyph bitmap construction asks of a
font: glyph presence, advance widths, bounding boxes, em metrics, and it
rasterizes glyph outlines onto a black-on-white canvas.

BSD License

Copyright (c) 2017-21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package font

import (
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/npillmayer/autokern/core"
	"github.com/npillmayer/schuko/tracing"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// tracer traces with key 'autokern.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("autokern.fonts")
}

// ErrNoGlyph is returned for code-points not mapped by a font.
var ErrNoGlyph = errors.New("font has no glyph for code-point")

// ScalableFont is a font as loaded from a font file.
type ScalableFont struct {
	Fontname string
	Filepath string     // file path
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // the font's container; safe for concurrent use
}

// LoadOpenTypeFont loads a TrueType or OpenType font from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read font file %s", fontfile)
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont parses the binary data of a TrueType or OpenType font.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "font format not supported")
	}
	f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFull)
	return
}

// PrepareCase creates a typecase of sf at a given size, in pixels per em.
func (sf *ScalableFont) PrepareCase(size float64) (*TypeCase, error) {
	if size < 4.0 || size > 2000.0 {
		return nil, core.Error(core.EINVALID, "font size must be 4px ≤ size ≤ 2000px, is %g", size)
	}
	tc := &TypeCase{
		scalableFontParent: sf,
		size:               size,
		ppem:               fixed.Int26_6(size * 64),
	}
	upem := sf.SFNT.UnitsPerEm()
	m, err := sf.SFNT.Metrics(nil, fixed.I(int(upem)), xfont.HintingNone)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot read metrics of font %s", sf.Fontname)
	}
	tc.em = EmMetrics{
		Ascender:   float64(m.Ascent) / 64,
		Descender:  -float64(m.Descent) / 64,
		UnitsPerEm: float64(upem),
	}
	tracer().Debugf("prepared %s at %.1fpx, em = %+v", sf.Fontname, size, tc.em)
	return tc, nil
}

// --- Fallback font ---------------------------------------------------------

// FallbackFont returns a font to be used if everything else failes. It is
// always present. Currently we use Go Sans.
func FallbackFont() *ScalableFont {
	fallbackFontLoading.Do(func() {
		fallbackFont = loadFallbackFont()
	})
	return fallbackFont
}

var fallbackFontLoading sync.Once

// fallbackFont is a font that is used if everything else failes.
var fallbackFont *ScalableFont

func loadFallbackFont() *ScalableFont {
	var err error
	gofont := &ScalableFont{
		Fontname: "Go Sans",
		Filepath: "internal",
		Binary:   goregular.TTF,
	}
	gofont.SFNT, err = sfnt.Parse(gofont.Binary)
	if err != nil {
		panic("cannot load default font") // this cannot happen
	}
	return gofont
}

// --- Type cases ------------------------------------------------------------

// BBox is a glyph's ink bounding box in pixels, relative to the glyph origin.
// The y-axis increases downwards, thus Top is negative for glyphs reaching
// above the baseline.
type BBox struct {
	Left, Top, Right, Bottom float64
}

// Dx returns the width of the box.
func (b BBox) Dx() float64 {
	return b.Right - b.Left
}

// EmMetrics holds the vertical metrics of a font, in font units.
// Descender is negative for glyphs extending below the baseline.
type EmMetrics struct {
	Ascender, Descender float64
	UnitsPerEm          float64
}

// Height returns the scaled em-box height for a given size in pixels.
func (em EmMetrics) Height(size float64) float64 {
	return (em.Ascender - em.Descender) * size / em.UnitsPerEm
}

// Baseline returns the scaled distance from top of the em-box to the baseline.
func (em EmMetrics) Baseline(size float64) float64 {
	return em.Ascender * size / em.UnitsPerEm
}

// TypeCase is a scalable font at a fixed size.
type TypeCase struct {
	scalableFontParent *ScalableFont
	size               float64       // pixels per em
	ppem               fixed.Int26_6 // size as fixed point
	em                 EmMetrics
	faceOnce           sync.Once
	face               xfont.Face
}

// ScalableFontParent returns the font tc has been derived from.
func (tc *TypeCase) ScalableFontParent() *ScalableFont {
	return tc.scalableFontParent
}

// Size returns the size of tc in pixels per em.
func (tc *TypeCase) Size() float64 {
	return tc.size
}

// EmMetrics returns the vertical metrics of the underlying font.
func (tc *TypeCase) EmMetrics() EmMetrics {
	return tc.em
}

// Face returns an x/image face for tc, suitable for drawing text.
func (tc *TypeCase) Face() xfont.Face {
	tc.faceOnce.Do(func() {
		f, err := opentype.NewFace(tc.scalableFontParent.SFNT, &opentype.FaceOptions{
			Size:    tc.size,
			DPI:     72, // points == pixels
			Hinting: xfont.HintingNone,
		})
		if err != nil {
			tracer().Errorf("cannot create face for %s: %v", tc.scalableFontParent.Fontname, err)
			return
		}
		tc.face = f
	})
	return tc.face
}

// sfnt.Buffer is not safe for concurrent use, sfnt.Font is.
var buffers = sync.Pool{
	New: func() interface{} { return &sfnt.Buffer{} },
}

func (tc *TypeCase) glyphIndex(buf *sfnt.Buffer, r rune) (sfnt.GlyphIndex, error) {
	gid, err := tc.scalableFontParent.SFNT.GlyphIndex(buf, r)
	if err != nil {
		return 0, err
	}
	if gid == 0 {
		return 0, ErrNoGlyph
	}
	return gid, nil
}

// HasGlyph is a predicate: does the font contain a glyph for r?
func (tc *TypeCase) HasGlyph(r rune) bool {
	buf := buffers.Get().(*sfnt.Buffer)
	defer buffers.Put(buf)
	_, err := tc.glyphIndex(buf, r)
	return err == nil
}

// AdvanceWidth returns the horizontal advance of r, in pixels.
func (tc *TypeCase) AdvanceWidth(r rune) (float64, error) {
	buf := buffers.Get().(*sfnt.Buffer)
	defer buffers.Put(buf)
	gid, err := tc.glyphIndex(buf, r)
	if err != nil {
		return 0, tc.glyphError(err, r)
	}
	adv, err := tc.scalableFontParent.SFNT.GlyphAdvance(buf, gid, tc.ppem, xfont.HintingNone)
	if err != nil {
		return 0, tc.glyphError(err, r)
	}
	return fixedToFloat(adv), nil
}

// BoundingBox returns the ink bounds of r, in pixels.
func (tc *TypeCase) BoundingBox(r rune) (BBox, error) {
	buf := buffers.Get().(*sfnt.Buffer)
	defer buffers.Put(buf)
	gid, err := tc.glyphIndex(buf, r)
	if err != nil {
		return BBox{}, tc.glyphError(err, r)
	}
	b, _, err := tc.scalableFontParent.SFNT.GlyphBounds(buf, gid, tc.ppem, xfont.HintingNone)
	if err != nil {
		return BBox{}, tc.glyphError(err, r)
	}
	return BBox{
		Left:   fixedToFloat(b.Min.X),
		Top:    fixedToFloat(b.Min.Y),
		Right:  fixedToFloat(b.Max.X),
		Bottom: fixedToFloat(b.Max.Y),
	}, nil
}

// Kern returns the kerning of the pair (left, right) as found in the
// font's legacy 'kern' table, in pixels. Fonts without a 'kern' table
// report 0.
func (tc *TypeCase) Kern(left, right rune) (float64, error) {
	buf := buffers.Get().(*sfnt.Buffer)
	defer buffers.Put(buf)
	g0, err := tc.glyphIndex(buf, left)
	if err != nil {
		return 0, tc.glyphError(err, left)
	}
	g1, err := tc.glyphIndex(buf, right)
	if err != nil {
		return 0, tc.glyphError(err, right)
	}
	k, err := tc.scalableFontParent.SFNT.Kern(buf, g0, g1, tc.ppem, xfont.HintingNone)
	if errors.Is(err, sfnt.ErrNotFound) {
		return 0, nil
	} else if err != nil {
		return 0, tc.glyphError(err, left)
	}
	return fixedToFloat(k), nil
}

func (tc *TypeCase) glyphError(err error, r rune) error {
	if errors.Is(err, ErrNoGlyph) {
		return core.WrapError(err, core.EMISSING, "font %s has no glyph for %#U",
			tc.scalableFontParent.Fontname, r)
	}
	return core.WrapError(err, core.EINVALID, "cannot read glyph %#U from font %s",
		r, tc.scalableFontParent.Fontname)
}

func fixedToFloat(x fixed.Int26_6) float64 {
	return float64(x) / 64
}

// NormalizeFontname creates a lookup key from a font's name or file name.
func NormalizeFontname(fname string) string {
	fname = strings.TrimSpace(fname)
	fname = strings.ReplaceAll(fname, " ", "_")
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		fname = fname[:dot]
	}
	fname = strings.ToLower(fname)
	return fname
}
