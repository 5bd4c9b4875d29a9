package batch

import (
	"image/color"
	"math"

	pixi "github.com/mediafe/pixi.js"
)

const (
	vertsPerQuad   = 4
	indicesPerQuad = 6

	// standard layout: pos (2f) + uv (2f) + packed color (4ub) + texture
	// unit index (1f).
	stdVertexSize = 6
)

// A Quad is one drawable's worth of geometry: four transformed corner
// positions, the drawable's UV rectangle and its packed tint color.
type Quad struct {
	TLx, TLy float32
	TRx, TRy float32
	BLx, BLy float32
	BRx, BRy float32
	UV       [4]float32
	Color    uint32
}

// A QuadWriter serializes one quad as four interleaved vertices into dst
// starting at the given float32 offset, using the assigned texture unit
// slot. It returns the number of floats written, which must equal four
// times the layout's vertex size.
type QuadWriter func(dst []float32, offset int, q *Quad, slot int) int

// A Layout defines the interleaved per-vertex attribute format shared by
// the vertex buffer and the paired shading program. The vertex size must
// match the stride the program expects; the factory rejects mismatched
// configurations.
type Layout struct {
	attribs []pixi.VertexAttrib
	size    int // vertex size in 32-bit words
	write   QuadWriter
}

// NewLayout builds a custom layout, e.g. one with a second UV set for
// visual effect strategies. The vertex size is derived from the attribute
// list: UnsignedByte components pack four to a 32-bit word.
func NewLayout(attribs []pixi.VertexAttrib, w QuadWriter) *Layout {
	size := 0
	for _, a := range attribs {
		switch a.Type {
		case pixi.UnsignedByte:
			size += (a.Size + 3) / 4
		default:
			size += a.Size
		}
	}
	return &Layout{attribs: attribs, size: size, write: w}
}

// StandardLayout returns the default 6-word layout: position, UV, packed
// RGBA color, texture unit index.
func StandardLayout() *Layout {
	return &Layout{
		attribs: []pixi.VertexAttrib{
			{Name: "aPos", Size: 2, Type: pixi.Float32, Offset: 0},
			{Name: "aUV", Size: 2, Type: pixi.Float32, Offset: 8},
			{Name: "aColor", Size: 4, Type: pixi.UnsignedByte, Offset: 16, Normalized: true},
			{Name: "aTexID", Size: 1, Type: pixi.Float32, Offset: 20},
		},
		size:  stdVertexSize,
		write: writeStdQuad,
	}
}

// VertexSize returns the size of one vertex in 32-bit words.
func (l *Layout) VertexSize() int {
	return l.size
}

// VertexLayout returns the device-facing description of the layout.
func (l *Layout) VertexLayout() pixi.VertexLayout {
	return pixi.VertexLayout{
		Stride:  l.size * 4,
		Attribs: l.attribs,
	}
}

// Write serializes q at offset using the assigned texture unit slot and
// returns the number of floats written.
func (l *Layout) Write(dst []float32, offset int, q *Quad, slot int) int {
	return l.write(dst, offset, q, slot)
}

func writeStdQuad(dst []float32, offset int, q *Quad, slot int) int {
	var (
		c  = math.Float32frombits(q.Color)
		id = float32(slot)
		i  = offset
	)
	// top left
	dst[i+0], dst[i+1] = q.TLx, q.TLy
	dst[i+2], dst[i+3] = q.UV[0], q.UV[1]
	dst[i+4], dst[i+5] = c, id
	// top right
	dst[i+6], dst[i+7] = q.TRx, q.TRy
	dst[i+8], dst[i+9] = q.UV[2], q.UV[1]
	dst[i+10], dst[i+11] = c, id
	// bottom left
	dst[i+12], dst[i+13] = q.BLx, q.BLy
	dst[i+14], dst[i+15] = q.UV[0], q.UV[3]
	dst[i+16], dst[i+17] = c, id
	// bottom right
	dst[i+18], dst[i+19] = q.BRx, q.BRy
	dst[i+20], dst[i+21] = q.UV[2], q.UV[3]
	dst[i+22], dst[i+23] = c, id
	return stdVertexSize * vertsPerQuad
}

// IndexPattern returns the six indices rendering a quad as two triangles
// from four vertices starting at base.
func IndexPattern(base uint32) [6]uint32 {
	return [6]uint32{base, base + 1, base + 2, base + 2, base + 1, base + 3}
}

// quadIndices builds the static index sequence for maxQuads quads.
func quadIndices(maxQuads int) []uint32 {
	indices := make([]uint32, maxQuads*indicesPerQuad)
	for i, j := 0, uint32(0); i < len(indices); i, j = i+indicesPerQuad, j+vertsPerQuad {
		p := IndexPattern(j)
		copy(indices[i:], p[:])
	}
	return indices
}

// PackColor packs c into a single 32-bit word, one byte per channel with
// alpha in the high byte, matching the normalized unsigned-byte color
// attribute of the standard layout. Channels are alpha-premultiplied. A
// nil color packs to opaque white.
func PackColor(c color.Color) uint32 {
	if c == nil {
		return 0xffffffff
	}
	r, g, b, a := c.RGBA()
	return uint32(r>>8) | uint32(g>>8)<<8 | uint32(b>>8)<<16 | uint32(a>>8)<<24
}
