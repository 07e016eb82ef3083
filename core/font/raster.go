package font

import (
	"image"
	"image/draw"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Rasterize draws the outline of r in black onto a white canvas of a given
// size. The glyph's origin (on the baseline) is placed at (originX, originY)
// of the canvas. Parts of the glyph outside of the canvas are clipped.
//
// Code-points without an outline (e.g., space) produce a blank canvas.
func (tc *TypeCase) Rasterize(r rune, canvas image.Point, originX, originY float64) (*image.Gray, error) {
	if canvas.X < 1 {
		canvas.X = 1
	}
	if canvas.Y < 1 {
		canvas.Y = 1
	}
	dst := image.NewGray(image.Rectangle{Max: canvas})
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	//
	buf := buffers.Get().(*sfnt.Buffer)
	defer buffers.Put(buf)
	gid, err := tc.glyphIndex(buf, r)
	if err != nil {
		return dst, tc.glyphError(err, r)
	}
	segments, err := tc.scalableFontParent.SFNT.LoadGlyph(buf, gid, tc.ppem, nil)
	if err != nil {
		return dst, tc.glyphError(err, r)
	}
	if len(segments) == 0 {
		return dst, nil
	}
	mask := rasterizeOutline(segments, canvas, originX, originY)
	draw.DrawMask(dst, dst.Bounds(), image.Black, image.Point{}, mask, image.Point{}, draw.Over)
	return dst, nil
}

// rasterizeOutline turns glyph segments into a coverage mask.
// The vector rasterizer expects coordinates in the positive quadrant,
// which is why every point is moved by the origin.
func rasterizeOutline(segments sfnt.Segments, canvas image.Point, ox, oy float64) *image.Alpha {
	z := vector.NewRasterizer(canvas.X, canvas.Y)
	z.DrawOp = draw.Src
	pt := func(p fixed.Point26_6) (float32, float32) {
		return float32(ox + fixedToFloat(p.X)), float32(oy + fixedToFloat(p.Y))
	}
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			z.MoveTo(pt(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			z.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			z.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			dx, dy := pt(seg.Args[2])
			z.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	z.ClosePath()
	mask := image.NewAlpha(z.Bounds())
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}
