// Package text renders strings through a pixi.Renderer using cached glyph
// atlases.
package text

import (
	"image"
	"image/color"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	pixi "github.com/mediafe/pixi.js"
	"github.com/mediafe/pixi.js/texture"
)

const (
	// see subPixels() in github.com/golang/freetype/truetype/face.go
	subPixelsX    = 8
	subPixelBiasX = 4
	subPixelMaskX = -8
	subPixelBiasY = 4
	subPixelMaskY = -8
)

// TextureSize is the size of the font glyph atlas textures. It should be
// no larger than the device's maximum texture size.
var TextureSize = 1024

// A Drawer draws text. The zero value is not usable; see NewDrawer.
//
// Glyphs are rasterized once per subpixel position, packed into atlas
// textures and drawn as texture regions, so whole strings batch like any
// other quads.
type Drawer struct {
	face   font.Face
	glyphs []texture.Region
	cache  map[cacheKey]cacheValue
	ts     []*texture.Texture // atlas textures, last one is current
	p      image.Point        // write position in current atlas
	lh     int                // current line height in the atlas
	mf     texture.FilterMode
}

type cacheKey struct {
	r  rune
	fx uint8
	fy uint8
}

type cacheValue struct {
	index int // glyph index, -1 for empty glyphs
	adv   fixed.Int26_6
}

func NewDrawer(f font.Face, magFilter texture.FilterMode) *Drawer {
	return &Drawer{
		face:  f,
		cache: make(map[cacheKey]cacheValue),
		mf:    magFilter,
	}
}

func (d *Drawer) Face() font.Face {
	return d.face
}

// DrawString draws s at (x, y) with the given tint and returns the
// advance.
func (d *Drawer) DrawString(r pixi.Renderer, x, y float32, s string, c color.Color) (advance float32) {
	dot := fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
	sp := dot.X
	prev := rune(-1)
	for _, rr := range s {
		if prev >= 0 {
			dot.X += d.face.Kern(prev, rr)
		}
		dp, glyph, adv := d.Glyph(dot, rr)
		if glyph != nil {
			r.Draw(glyph, float32(dp.X), float32(dp.Y), 1, 1, 0, c)
		}
		dot.X += adv
		prev = rr
	}
	return float32(dot.X-sp) / 64
}

// DrawBytes is equivalent to DrawString(r, x, y, string(s), c) but may be
// more efficient.
func (d *Drawer) DrawBytes(r pixi.Renderer, x, y float32, s []byte, c color.Color) (advance float32) {
	dot := fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
	sp := dot.X
	prev := rune(-1)
	for len(s) > 0 {
		rr, sz := utf8.DecodeRune(s)
		s = s[sz:]
		if prev >= 0 {
			dot.X += d.face.Kern(prev, rr)
		}
		dp, glyph, adv := d.Glyph(dot, rr)
		if glyph != nil {
			r.Draw(glyph, float32(dp.X), float32(dp.Y), 1, 1, 0, c)
		}
		dot.X += adv
		prev = rr
	}
	return float32(dot.X-sp) / 64
}

func (d *Drawer) currentTexture() *texture.Texture {
	if l := len(d.ts); l > 0 {
		return d.ts[l-1]
	}
	return nil
}

// Glyph returns the cached glyph region for r drawn at dot, rasterizing
// and caching it on first use.
func (d *Drawer) Glyph(dot fixed.Point26_6, r rune) (dp image.Point, gr *texture.Region, advance fixed.Int26_6) {
	dx, dy := (dot.X+subPixelBiasX)&subPixelMaskX, (dot.Y+subPixelBiasY)&subPixelMaskY
	ix, iy := int(dx>>6), int(dy>>6)

	key := cacheKey{r, uint8(dx & 0x3f), uint8(dy & 0x3f)}
	if v, ok := d.cache[key]; ok {
		if idx := v.index; idx >= 0 {
			return image.Point{X: ix, Y: iy}, &d.glyphs[idx], v.adv
		}
		return image.Point{}, nil, v.adv
	}

	dr, mask, maskp, advance, ok := d.face.Glyph(fixed.Point26_6{X: dot.X & 0x3f, Y: dot.Y & 0x3f}, r)
	if !ok {
		return image.Point{}, nil, 0
	}
	sz := dr.Size()
	if sz.X == 0 || sz.Y == 0 {
		// empty glyph
		d.cache[key] = cacheValue{-1, advance}
		return image.Point{}, nil, advance
	}
	// adjust the point of origin to account for rounding when quantizing
	// subpixel positions
	org := image.Pt(-dr.Min.X+(ix-dot.X.Floor()), -dr.Min.Y+(iy-dot.Y.Floor()))
	tr := dr.Add(image.Pt(-dr.Min.X+d.p.X, -dr.Min.Y+d.p.Y))
	t := d.currentTexture()
	if t != nil {
		sz := t.Size()
		if tr.Max.X > sz.X {
			d.p = image.Pt(0, d.p.Y+d.lh)
			tr = tr.Add(image.Pt(-tr.Min.X, d.lh))
		}
		if tr.Max.Y > sz.Y {
			t = nil
		}
	}
	if t == nil {
		t = texture.FromImage(image.NewRGBA(image.Rect(0, 0, TextureSize, TextureSize)),
			texture.Wrap(texture.ClampToBorder, texture.ClampToBorder),
			texture.Filter(texture.Linear, d.mf))
		d.ts = append(d.ts, t)
		d.p = image.Point{}
		tr = dr.Add(image.Pt(-dr.Min.X, -dr.Min.Y))
		d.lh = 0
	}
	t.SetSubImage(tr, mask, maskp)
	d.p.X += tr.Dx() + 1
	if h := tr.Dy() + 1; h > d.lh {
		d.lh = h
	}
	index := len(d.glyphs)
	d.glyphs = append(d.glyphs, *t.Region(tr, org))
	d.cache[key] = cacheValue{index, advance}
	return image.Point{X: ix, Y: iy}, &d.glyphs[index], advance
}

// Close deletes the atlas textures and closes the font face.
func (d *Drawer) Close() error {
	for _, t := range d.ts {
		t.Delete()
	}
	d.ts = nil
	return d.face.Close()
}

// BoundString returns the bounding box of s, drawn at a dot equal to the
// origin, as well as the advance.
func (d *Drawer) BoundString(s string) (bounds fixed.Rectangle26_6, advance fixed.Int26_6) {
	return font.BoundString(d.face, s)
}

// MeasureString returns how far dot would advance by drawing s.
func (d *Drawer) MeasureString(s string) (advance fixed.Int26_6) {
	return font.MeasureString(d.face, s)
}
