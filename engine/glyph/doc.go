/*
Package glyph holds the bitmap model of a single rendered character.

A Glyph is a character rasterized at a fixed font size into a grid of coverage
values. Coverage is inverted grayscale: 0 is background, 1 is fully inked.

Coordinate conventions

Every glyph of a type case spans the font's full em-box vertically, from
ascender to descender, with the baseline at the same row. Glyphs of one
type case therefore share one bitmap height and need no vertical realignment
when compared.

Horizontally, a bitmap covers the glyph's ink bounds plus a padding margin on
either side. The typographic origin of the glyph sits at column

    Bearing = padding − floor(bbox.Left)

of the bitmap. Bearing is integral, so two glyphs can be placed relative to each
other with pixel precision.

Characters without ink, e.g. a space, produce a valid glyph of ink width 1.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glyph

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'autokern.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("autokern.glyphs")
}
