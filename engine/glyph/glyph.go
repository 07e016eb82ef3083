package glyph

import (
	"fmt"
	"image"
	"math"

	"github.com/npillmayer/autokern/core"
	"github.com/npillmayer/autokern/core/font"
)

// Face is what glyph construction needs from a font at a given size.
// It is implemented by *font.TypeCase.
type Face interface {
	HasGlyph(r rune) bool
	AdvanceWidth(r rune) (float64, error)
	BoundingBox(r rune) (font.BBox, error)
	EmMetrics() font.EmMetrics
	Size() float64
	Rasterize(r rune, canvas image.Point, originX, originY float64) (*image.Gray, error)
}

var _ Face = (*font.TypeCase)(nil)

// Grid is a dense, row-major grid of coverage values.
type Grid struct {
	Width, Height int
	Values        []float64
}

// NewGrid creates a zero-filled grid. Dimensions are clamped to at least 1.
func NewGrid(w, h int) Grid {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return Grid{Width: w, Height: h, Values: make([]float64, w*h)}
}

// At returns the value at (x, y). Positions outside the grid have value 0.
func (g Grid) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return 0
	}
	return g.Values[y*g.Width+x]
}

// Set sets the value at (x, y).
func (g Grid) Set(x, y int, v float64) {
	g.Values[y*g.Width+x] = v
}

// Row returns row y as a slice sharing the grid's storage.
func (g Grid) Row(y int) []float64 {
	return g.Values[y*g.Width : (y+1)*g.Width]
}

// Clone returns a deep copy of g.
func (g Grid) Clone() Grid {
	c := Grid{Width: g.Width, Height: g.Height, Values: make([]float64, len(g.Values))}
	copy(c.Values, g.Values)
	return c
}

// Ink returns the sum of all coverage values.
func (g Grid) Ink() (sum float64) {
	for _, v := range g.Values {
		sum += v
	}
	return
}

// Glyph is a character rasterized at a fixed font size.
// Glyphs are immutable after construction.
type Glyph struct {
	Char     rune
	Advance  float64 // horizontal advance in pixels
	Bearing  float64 // column of the typographic origin within the bitmap
	Coverage Grid
}

// Width returns the width of the bitmap in pixels.
func (g *Glyph) Width() int {
	return g.Coverage.Width
}

// Height returns the height of the bitmap in pixels.
func (g *Glyph) Height() int {
	return g.Coverage.Height
}

// WithCoverage returns a copy of g carrying a different coverage grid.
func (g *Glyph) WithCoverage(cov Grid) *Glyph {
	return &Glyph{
		Char:     g.Char,
		Advance:  g.Advance,
		Bearing:  g.Bearing,
		Coverage: cov,
	}
}

func (g *Glyph) String() string {
	return fmt.Sprintf("glyph[%q %dx%d adv=%.2f bearing=%g]", g.Char, g.Width(), g.Height(),
		g.Advance, g.Bearing)
}

// FromCoverage creates a glyph from coverage values given as rows.
// Rows shorter than the longest row are padded with zeros; values are clamped
// to [0,1]. FromCoverage is intended for synthetic glyphs, e.g. test fixtures.
func FromCoverage(r rune, advance, bearing float64, rows [][]float64) *Glyph {
	w := 0
	for _, row := range rows {
		if len(row) > w {
			w = len(row)
		}
	}
	grid := NewGrid(w, len(rows))
	for y, row := range rows {
		for x, v := range row {
			grid.Set(x, y, clamp01(v))
		}
	}
	return &Glyph{Char: r, Advance: advance, Bearing: bearing, Coverage: grid}
}

// Uniform creates a synthetic glyph of size w × h with every pixel set to v.
func Uniform(r rune, w, h int, advance, bearing, v float64) *Glyph {
	grid := NewGrid(w, h)
	v = clamp01(v)
	for i := range grid.Values {
		grid.Values[i] = v
	}
	return &Glyph{Char: r, Advance: advance, Bearing: bearing, Coverage: grid}
}

// New renders character r of face into a glyph, with padding pixels added
// to the left and to the right of the ink bounds.
//
// If face does not contain a glyph for r, New returns an error with code
// core.EMISSING, wrapping font.ErrNoGlyph.
func New(face Face, r rune, padding int) (*Glyph, error) {
	if !face.HasGlyph(r) {
		return nil, core.WrapError(font.ErrNoGlyph, core.EMISSING, "no glyph for %#U", r)
	}
	if padding < 0 {
		padding = 0
	}
	advance, err := face.AdvanceWidth(r)
	if err != nil {
		return nil, err
	}
	box, err := face.BoundingBox(r)
	if err != nil {
		return nil, err
	}
	size := face.Size()
	em := face.EmMetrics()
	height := int(math.Ceil(em.Height(size)))
	if height < 1 {
		height = 1
	}
	left := math.Floor(box.Left)
	inkWidth := int(math.Ceil(box.Right) - left)
	if inkWidth < 1 {
		inkWidth = 1
		left = 0
	}
	width := inkWidth + 2*padding
	bearing := float64(padding) - left
	img, err := face.Rasterize(r, image.Pt(width, height), bearing, em.Baseline(size))
	if err != nil {
		return nil, err
	}
	g := &Glyph{
		Char:     r,
		Advance:  advance,
		Bearing:  bearing,
		Coverage: coverageFromGray(img, width, height),
	}
	tracer().Debugf("rendered %s", g)
	return g, nil
}

// coverageFromGray inverts a black-on-white raster to coverage values.
func coverageFromGray(img *image.Gray, w, h int) Grid {
	grid := NewGrid(w, h)
	b := img.Bounds()
	for y := 0; y < h && y < b.Dy(); y++ {
		for x := 0; x < w && x < b.Dx(); x++ {
			lum := img.GrayAt(b.Min.X+x, b.Min.Y+y).Y
			grid.Set(x, y, 1-float64(lum)/255)
		}
	}
	return grid
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
