/*
Package blur softens glyph coverage with a separable Gaussian blur.

The blur is applied as two sequential one-dimensional passes, first
horizontally, then vertically. Taps outside the grid are clamped to the nearest
edge pixel. Results are a pure function of the input grid and sigma.

Kernel coefficients depend on the integer radius round(sigma) only and may be
shared between calls through a KernelCache.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package blur

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'autokern.blur'.
func tracer() tracing.Trace {
	return tracing.Select("autokern.blur")
}
