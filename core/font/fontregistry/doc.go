/*
Package fontregistry manages a registry for loaded fonts.

Fonts are stored under a normalized name, typecases under the normalized name
plus their size in pixels per em. A typecase is derived from a font on first
request and cached thereafter.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fontregistry

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'autokern.fonts'
func tracer() tracing.Trace {
	return tracing.Select("autokern.fonts")
}
