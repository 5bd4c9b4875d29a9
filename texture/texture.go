// Package texture provides OpenGL backed textures and texture regions
// implementing pixi.Drawable.
package texture

import (
	"image"
	"image/color"
	"image/draw"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"

	pixi "github.com/mediafe/pixi.js"
)

// FilterMode selects how to filter textures when minifying or magnifying.
// Values map directly to their OpenGL equivalents.
type FilterMode int32

const (
	Nearest              FilterMode = gl.NEAREST
	Linear               FilterMode = gl.LINEAR
	NearestMipmapNearest FilterMode = gl.NEAREST_MIPMAP_NEAREST
	NearestMipmapLinear  FilterMode = gl.NEAREST_MIPMAP_LINEAR
	LinearMipmapNearest  FilterMode = gl.LINEAR_MIPMAP_NEAREST
	LinearMipmapLinear   FilterMode = gl.LINEAR_MIPMAP_LINEAR
)

// WrapMode selects how textures wrap when texture coordinates get outside
// of the range [0, 1]. Values map directly to their OpenGL equivalents.
//
// When used with the batch renderer, the only settings that make sense are
// ClampToEdge (the default) and ClampToBorder.
type WrapMode int32

const (
	Repeat         WrapMode = gl.REPEAT
	MirroredRepeat WrapMode = gl.MIRRORED_REPEAT
	ClampToEdge    WrapMode = gl.CLAMP_TO_EDGE
	ClampToBorder  WrapMode = gl.CLAMP_TO_BORDER
)

// A Texture is a pixi.Drawable backed by an OpenGL texture object.
type Texture struct {
	width  int
	height int
	glID   uint32
	mipmap bool
}

type tp struct {
	wrapS, wrapT         WrapMode
	minFilter, magFilter FilterMode
	border               color.Color
}

// Parameter is implemented by functions setting texture parameters. See New.
type Parameter interface {
	set(*tp)
}

type optionFunc func(*tp)

func (f optionFunc) set(p *tp) {
	f(p)
}

// Wrap sets the wrap modes for texture coordinates s and t.
func Wrap(wrapS, wrapT WrapMode) Parameter {
	return optionFunc(func(p *tp) {
		p.wrapS = wrapS
		p.wrapT = wrapT
	})
}

// Filter sets the minifying and magnifying filters.
func Filter(min, mag FilterMode) Parameter {
	return optionFunc(func(p *tp) {
		p.minFilter = min
		p.magFilter = mag
	})
}

// BorderColor sets the border color used by ClampToBorder.
func BorderColor(c color.Color) Parameter {
	return optionFunc(func(p *tp) {
		p.border = c
	})
}

// New returns a new uninitialized texture of the given width and height.
func New(width, height int, params ...Parameter) *Texture {
	return newTexture(width, height, nil, params...)
}

// FromImage creates a new texture of the same dimensions as the source
// image. Regardless of the source image type, the resulting texture is
// always in (alpha-premultiplied) RGBA format.
func FromImage(src image.Image, params ...Parameter) *Texture {
	var (
		pix *uint8
		sr  = src.Bounds()
		dr  = image.Rectangle{Max: sr.Size()}
	)
	if i, ok := src.(*image.RGBA); ok {
		pix = &i.Pix[0]
	} else {
		dst := image.NewRGBA(dr)
		draw.Draw(dst, dr, src, sr.Min, draw.Src)
		pix = &dst.Pix[0]
	}
	return newTexture(dr.Dx(), dr.Dy(), pix, params...)
}

func newTexture(width, height int, pix *uint8, params ...Parameter) *Texture {
	t := &Texture{width: width, height: height}
	gl.GenTextures(1, &t.glID)
	gl.BindTexture(gl.TEXTURE_2D, t.glID)
	t.setParams(params...)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	var ptr unsafe.Pointer
	if pix != nil {
		ptr = unsafe.Pointer(pix)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr)
	if t.mipmap {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	return t
}

// Parameters sets the given texture parameters.
func (t *Texture) Parameters(params ...Parameter) {
	if len(params) == 0 {
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, t.glID)
	t.setParams(params...)
}

func (t *Texture) setParams(params ...Parameter) {
	var p tp
	for _, o := range params {
		o.set(&p)
	}
	if p.wrapS != 0 {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, int32(p.wrapS))
	}
	if p.wrapT != 0 {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, int32(p.wrapT))
	}
	if p.minFilter != 0 {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, int32(p.minFilter))
		switch p.minFilter {
		case Nearest, Linear:
		default:
			t.mipmap = true
		}
	}
	if p.magFilter != 0 {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, int32(p.magFilter))
	}
	if p.border != nil {
		r, g, b, a := p.border.RGBA()
		c := [4]float32{float32(r) / 0xffff, float32(g) / 0xffff, float32(b) / 0xffff, float32(a) / 0xffff}
		gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &c[0])
	}
}

// SetSubImage draws src to the texture. It works identically to draw.Draw
// with op set to draw.Src.
func (t *Texture) SetSubImage(dr image.Rectangle, src image.Image, sp image.Point) {
	var (
		pix *uint8
		sz  = dr.Size()
		sr  = image.Rectangle{Min: sp, Max: sp.Add(sz)}
	)
	if sz.X == 0 || sz.Y == 0 {
		return
	}
	if i, ok := src.(*image.RGBA); ok && sr == src.Bounds() {
		pix = &i.Pix[0]
	} else {
		r := image.Rectangle{Max: sz}
		dst := image.NewRGBA(r)
		draw.Draw(dst, r, src, sp, draw.Src)
		pix = &dst.Pix[0]
	}

	gl.BindTexture(gl.TEXTURE_2D, t.glID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, int32(dr.Min.X), int32(dr.Min.Y), int32(sz.X), int32(sz.Y), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	if t.mipmap {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
}

// GLCoords returns the coordinates of pt mapped to the range [0, 1].
func (t *Texture) GLCoords(pt pixi.Point) pixi.Point {
	return pixi.Point{
		X: pt.X / float32(t.width),
		Y: pt.Y / float32(t.height),
	}
}

// Origin returns the point of origin of the texture.
func (t *Texture) Origin() image.Point {
	return image.Point{}
}

// Size returns the size of the texture.
func (t *Texture) Size() image.Point {
	return image.Point{X: t.width, Y: t.height}
}

// UV returns the texture's UV coordinates in the range [0, 1].
func (t *Texture) UV() [4]float32 {
	return [4]float32{0, 1, 1, 0}
}

// NativeID returns the native identifier of the texture.
func (t *Texture) NativeID() uint32 {
	return t.glID
}

// Delete deletes the texture.
func (t *Texture) Delete() {
	gl.DeleteTextures(1, &t.glID)
}

// Region returns a region within the texture.
func (t *Texture) Region(bounds image.Rectangle, origin image.Point) *Region {
	return &Region{
		Texture: t,
		origin:  origin,
		bounds:  bounds,
	}
}

// A Region is a pixi.Drawable that represents a sub-region in a Texture or
// another Region.
type Region struct {
	*Texture
	origin image.Point
	bounds image.Rectangle
}

// Origin returns the point of origin of the region.
func (r *Region) Origin() image.Point {
	return r.origin
}

// Rect returns the region's bounding rectangle within the parent texture.
func (r *Region) Rect() image.Rectangle {
	return r.bounds
}

// Size returns the size of the region.
func (r *Region) Size() image.Point {
	return r.bounds.Size()
}

// UV returns the region's UV coordinates in the range [0, 1].
func (r *Region) UV() [4]float32 {
	w, h := float32(r.width), float32(r.height)
	u0, v0 := float32(r.bounds.Min.X)/w, float32(r.bounds.Min.Y)/h
	u1, v1 := float32(r.bounds.Max.X)/w, float32(r.bounds.Max.Y)/h
	return [4]float32{u0, v1, u1, v0}
}

// Region returns a sub-region within the Region.
func (r *Region) Region(bounds image.Rectangle, origin image.Point) *Region {
	return &Region{
		Texture: r.Texture,
		origin:  origin.Add(r.bounds.Min),
		bounds:  bounds.Add(r.bounds.Min),
	}
}
