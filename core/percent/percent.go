// Package percent implements a simple type for signed percentage values,
// rounded to two decimals.
package percent

import (
	"math"
	"strconv"
	"strings"
)

// Percent is a percentage value with a precision of two decimals.
// Kerning values are usually negative.
type Percent float64

// Round2 rounds f to two decimals. Halves are rounded towards positive
// infinity, i.e. -0.125 will round to -0.12 and 0.125 to 0.13.
// Persisted kerning tables depend on this convention.
func Round2(f float64) float64 {
	return math.Floor(f*100+0.5) / 100
}

// FromFloat creates a percentage from f, rounded to two decimals.
// NaN and infinite values result in 0.
func FromFloat(f float64) Percent {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Percent(0)
	}
	return Percent(Round2(f))
}

// OfAdvance converts a kern value in pixels to a percentage of a glyph's
// advance width. An advance of 0 results in 0.
func OfAdvance(kernPx float64, advance float64) Percent {
	if advance == 0 {
		return Percent(0)
	}
	return FromFloat(kernPx / advance * 100)
}

// FromString parses strings like "-7.25" or "-7.25%".
func FromString(s string) (Percent, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Percent(0), err
	}
	return FromFloat(f), nil
}

// Pixels converts p back to pixels, relative to an advance width.
func (p Percent) Pixels(advance float64) float64 {
	return float64(p) * advance / 100
}

func (p Percent) String() string {
	return strconv.FormatFloat(float64(p), 'f', -1, 64) + "%"
}
