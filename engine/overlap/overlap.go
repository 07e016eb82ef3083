/*
Package overlap measures how much two blurred glyphs collide at a given kern.

The right glyph is fixed, with its bitmap's left edge at x = 0. The left
glyph's bitmap is placed one advance width to the left of the right glyph's
origin, corrected for both glyphs' bearings and shifted by the kern. A negative
kern pulls the glyphs closer together.

The overlap energy is the sum of l² × r² over every pixel covered by both
bitmaps, where l and r are the coverage values of the left and the right glyph.
Squaring both sides concentrates the metric on pixels where both glyphs carry
substantial ink.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package overlap

import (
	"math"

	"github.com/npillmayer/autokern/engine/glyph"
)

// Offset returns the horizontal position of the left glyph's bitmap,
// relative to the right glyph's bitmap, for a given kern.
//
//     lOffset = −(left.Advance + left.Bearing) + right.Bearing − kern
//
// Offset is rounded to the nearest pixel.
func Offset(left, right *glyph.Glyph, kern float64) int {
	off := -(left.Advance + left.Bearing) + right.Bearing - kern
	return int(math.Round(off))
}

// Energy returns the overlap energy of two glyphs placed at kern.
// It will be 0 if the glyphs' bitmaps do not intersect. Energy is never negative.
//
// Clients will usually call Energy with blurred glyphs.
func Energy(left, right *glyph.Glyph, kern float64) float64 {
	s := Offset(left, right, kern)
	x0, x1 := max(0, s), min(right.Width(), s+left.Width())
	if x0 >= x1 {
		return 0
	}
	h := max(left.Height(), right.Height())
	var sum float64
	for y := 0; y < h; y++ {
		for x := x0; x < x1; x++ {
			l := left.Coverage.At(x-s, y)
			if l == 0 {
				continue
			}
			r := right.Coverage.At(x, y)
			sum += l * l * r * r
		}
	}
	return sum
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
