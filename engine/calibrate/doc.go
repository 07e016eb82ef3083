/*
Package calibrate selects a blur kernel width for a font.

Without calibration, naturally wide glyphs like "o" would dominate narrow
ones like "l" purely by bitmap width. Calibration searches for a kernel width
at which the tuning characters (default "l", "n", "o") self-overlap in a
balanced way:

    kw := round(0.2 × fontSize), forced odd
    loop:
        for each tuning character c: s[c] = overlap(blur(c, kw), blur(c, kw), 0)
        if min(s) > max(s) / 2: converged
        kw += 2

Calibration fails if the kernel width exceeds twice the font size or the
number of iterations exceeds a maximum. The calibration result is computed
once per font and size, and it is immutable.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package calibrate

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'autokern.calibrate'.
func tracer() tracing.Trace {
	return tracing.Select("autokern.calibrate")
}
