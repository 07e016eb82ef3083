package glyph

import "sync"

// Renderer renders glyphs of one face with a fixed padding and memoizes
// them. A Renderer is safe for concurrent use.
type Renderer struct {
	face    Face
	padding int
	mx      sync.Mutex
	glyphs  map[rune]*Glyph
}

// NewRenderer creates a renderer for face.
func NewRenderer(face Face, padding int) *Renderer {
	return &Renderer{
		face:    face,
		padding: padding,
		glyphs:  make(map[rune]*Glyph),
	}
}

// Face returns the face glyphs are rendered from.
func (rd *Renderer) Face() Face {
	return rd.face
}

// Padding returns the horizontal padding of rendered glyphs.
func (rd *Renderer) Padding() int {
	return rd.padding
}

// Has is a predicate: can r be rendered?
func (rd *Renderer) Has(r rune) bool {
	return rd.face.HasGlyph(r)
}

// Glyph returns the glyph for r, rendering it on first request.
// Errors are not memoized.
func (rd *Renderer) Glyph(r rune) (*Glyph, error) {
	rd.mx.Lock()
	g, ok := rd.glyphs[r]
	rd.mx.Unlock()
	if ok {
		return g, nil
	}
	g, err := New(rd.face, r, rd.padding)
	if err != nil {
		return nil, err
	}
	rd.mx.Lock()
	defer rd.mx.Unlock()
	if memo, ok := rd.glyphs[r]; ok { // lost a race, keep the first one
		return memo, nil
	}
	rd.glyphs[r] = g
	return g, nil
}
