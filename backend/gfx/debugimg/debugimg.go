/*
Package debugimg renders glyph pairs into images, for visual inspection of
kerning estimation.

A pair image shows the right glyph in the blue channel and the left glyph,
placed at a given kern, in the red channel. Where the glyphs overlap the
image turns magenta. Coverage of each glyph is normalized to its maximum,
as blurred glyphs are faint.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package debugimg

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/npillmayer/autokern/core"
	"github.com/npillmayer/autokern/engine/glyph"
	"github.com/npillmayer/autokern/engine/overlap"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/draw"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// tracer traces with key 'autokern.debug'.
func tracer() tracing.Trace {
	return tracing.Select("autokern.debug")
}

// Pair renders two glyphs, placed at kern, into an image.
func Pair(left, right *glyph.Glyph, kern float64) *image.RGBA {
	s := overlap.Offset(left, right, kern)
	x0 := min(0, s)
	x1 := max(right.Width(), s+left.Width())
	h := max(left.Height(), right.Height())
	img := image.NewRGBA(image.Rect(0, 0, x1-x0, h))
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)
	lmax, rmax := peak(left.Coverage), peak(right.Coverage)
	for y := 0; y < h; y++ {
		for x := x0; x < x1; x++ {
			l := left.Coverage.At(x-s, y) / lmax
			r := right.Coverage.At(x, y) / rmax
			img.SetRGBA(x-x0, y, color.RGBA{R: shade(l), B: shade(r), A: 0xff})
		}
	}
	return img
}

// Scale enlarges an image by an integral factor, without smoothing.
func Scale(img image.Image, factor int) *image.RGBA {
	if factor < 1 {
		factor = 1
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Caption adds a band with a line of text below an image.
func Caption(img image.Image, face xfont.Face, text string) *image.RGBA {
	b := img.Bounds()
	m := face.Metrics()
	band := (m.Ascent + m.Descent).Ceil() + 8
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()+band))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(0, 0, b.Dx(), b.Dy()), img, b.Min, draw.Src)
	d := &xfont.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(4, b.Dy()+4+m.Ascent.Ceil()),
	}
	d.DrawString(text)
	return dst
}

// WritePNG encodes an image as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return core.WrapError(err, core.EINVALID, "cannot encode debug image")
	}
	return nil
}

// SavePair writes a pair image into a directory, naming the file after the
// pair's code-points. If face is not nil, the image is captioned with the
// pair and its kern. SavePair returns the path of the file.
func SavePair(dir string, left, right *glyph.Glyph, kern float64, face xfont.Face) (string, error) {
	img := Scale(Pair(left, right, kern), 2)
	if face != nil {
		img = Caption(img, face, fmt.Sprintf("%c%c  kern = %.2fpx", left.Char, right.Char, kern))
	}
	name := fmt.Sprintf("pair-%04x-%04x.png", left.Char, right.Char)
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", core.WrapError(err, core.EINVALID, "cannot create debug image %s", path)
	}
	defer f.Close()
	if err = WritePNG(f, img); err != nil {
		return "", err
	}
	tracer().Debugf("wrote debug image %s", path)
	return path, nil
}

func peak(g glyph.Grid) float64 {
	m := 0.0
	for _, v := range g.Values {
		if v > m {
			m = v
		}
	}
	if m == 0 {
		return 1
	}
	return m
}

func shade(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(v*255 + 0.5)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
