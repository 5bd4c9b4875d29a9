package batch

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pixi "github.com/mediafe/pixi.js"
)

func TestStandardLayout(t *testing.T) {
	l := StandardLayout()
	assert.Equal(t, 6, l.VertexSize())

	vl := l.VertexLayout()
	assert.Equal(t, 24, vl.Stride)
	require.Len(t, vl.Attribs, 4)
	assert.Equal(t, "aPos", vl.Attribs[0].Name)
	assert.Equal(t, "aTexID", vl.Attribs[3].Name)
	assert.True(t, vl.Attribs[2].Normalized)

	// offsets are contiguous
	off := 0
	for _, a := range vl.Attribs {
		assert.Equal(t, off, a.Offset, a.Name)
		switch a.Type {
		case pixi.UnsignedByte:
			off += a.Size
		default:
			off += a.Size * 4
		}
	}
	assert.Equal(t, vl.Stride, off)
}

func TestNewLayout_vertexSize(t *testing.T) {
	l := NewLayout([]pixi.VertexAttrib{
		{Name: "aPos", Size: 2, Type: pixi.Float32, Offset: 0},
		{Name: "aUV", Size: 2, Type: pixi.Float32, Offset: 8},
		{Name: "aUV2", Size: 2, Type: pixi.Float32, Offset: 16},
		{Name: "aColor", Size: 4, Type: pixi.UnsignedByte, Offset: 24, Normalized: true},
		{Name: "aTexID", Size: 1, Type: pixi.Float32, Offset: 28},
	}, nil)
	assert.Equal(t, 8, l.VertexSize())
	assert.Equal(t, 32, l.VertexLayout().Stride)
}

func TestWriteQuad(t *testing.T) {
	l := StandardLayout()
	q := Quad{
		TLx: 1, TLy: 2,
		TRx: 3, TRy: 4,
		BLx: 5, BLy: 6,
		BRx: 7, BRy: 8,
		UV:    [4]float32{0.1, 0.9, 0.6, 0.4},
		Color: 0xff0080ff,
	}
	dst := make([]float32, 48)
	n := l.Write(dst, 24, &q, 3)
	assert.Equal(t, 24, n)

	c := math.Float32frombits(q.Color)
	want := []float32{
		1, 2, 0.1, 0.9, c, 3,
		3, 4, 0.6, 0.9, c, 3,
		5, 6, 0.1, 0.4, c, 3,
		7, 8, 0.6, 0.4, c, 3,
	}
	assert.Equal(t, want, dst[24:])
	// untouched below offset
	assert.Equal(t, make([]float32, 24), dst[:24])
}

func TestIndexPattern(t *testing.T) {
	assert.Equal(t, [6]uint32{0, 1, 2, 2, 1, 3}, IndexPattern(0))
	assert.Equal(t, [6]uint32{8, 9, 10, 10, 9, 11}, IndexPattern(8))

	idx := quadIndices(3)
	require.Len(t, idx, 18)
	assert.Equal(t, []uint32{0, 1, 2, 2, 1, 3, 4, 5, 6, 6, 5, 7, 8, 9, 10, 10, 9, 11}, idx)
}

func TestPackColor(t *testing.T) {
	assert.Equal(t, uint32(0xffffffff), PackColor(nil))
	assert.Equal(t, uint32(0xffffffff), PackColor(color.White))
	assert.Equal(t, uint32(0xff000000), PackColor(color.Black))
	assert.Equal(t, uint32(0xff0000ff), PackColor(color.RGBA{R: 255, A: 255}))
	assert.Equal(t, uint32(0xffff0000), PackColor(color.RGBA{B: 255, A: 255}))
	assert.Equal(t, uint32(0x00000000), PackColor(color.RGBA{}))
}
