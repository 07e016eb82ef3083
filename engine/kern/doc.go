/*
Package kern searches for the kern of a glyph pair.

A Searcher blurs both glyphs of a pair, samples the overlap energy over a range
of trial kerns and selects one of them according to a Strategy. Samples are
taken at kern = i × KernStep for i in [−m, m], m = ⌊MaxKern / KernStep⌋.

Strategies

    Conservative   most negative kern with overlap ≤ Epsilon, else 0
    Calibrated     0 if the overlap at kern 0 is within the calibration bounds,
                   else the first kern walking back into the bounds, else 0
    Midpoint       kern with overlap closest to the middle of the bounds
    Argmax         kern with maximum overlap
    NoOverlap      kern closest to 0 with overlap ≤ Epsilon, else 0

Ties resolve to the most negative kern. For NoOverlap, at equal distance
from 0 the negative kern wins.

Calibration bounds {0, 1e10} make a Searcher ignore its strategy: it then
scans kerns from −MaxKern to 0 and returns the kern of maximum overlap, ties
resolving to the least negative kern.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package kern

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'autokern.kern'.
func tracer() tracing.Trace {
	return tracing.Select("autokern.kern")
}
