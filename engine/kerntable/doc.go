/*
Package kerntable estimates kerns for character pairs and collects them in
kerning tables.

An Estimator binds a type case to its calibration and a kern searcher. It
estimates the kern of single pairs, reporting kerns in pixels and as a
percentage of the left glyph's advance width. Generate runs an estimator over
every ordered pair of a character set, optionally in parallel.

Kerning tables are persisted as JSON, either flat

    {"AV": -7.5, "To": -12.25}

or wrapped with metadata

    {"font": "Go Sans", "fontSize": 100, "kerning": {"AV": -7.5, "To": -12.25}}

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package kerntable

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'autokern.table'.
func tracer() tracing.Trace {
	return tracing.Select("autokern.table")
}
