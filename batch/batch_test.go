package batch

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pixi "github.com/mediafe/pixi.js"
)

// fakeDevice records every device interaction so tests can assert on the
// exact draw call stream the engine emits.
type fakeDevice struct {
	units int

	vertex   []byte
	fragment []byte
	layout   pixi.VertexLayout
	programs []*fakeProgram
	vboSize  int
	indices  []uint32

	uploads  [][]float32
	calls    []pixi.DrawCall
	clears   []color.Color
	viewport image.Rectangle

	compileErr error
	vboErr     error
	iboErr     error
}

type fakeProgram struct{ deleted bool }

func (p *fakeProgram) Delete() { p.deleted = true }

type fakeBuffer struct{ deleted bool }

func (b *fakeBuffer) Delete() { b.deleted = true }

func (d *fakeDevice) MaxTextureUnits() int { return d.units }

func (d *fakeDevice) CompileProgram(vertex, fragment []byte, layout pixi.VertexLayout) (pixi.Program, error) {
	if d.compileErr != nil {
		return nil, d.compileErr
	}
	d.vertex, d.fragment, d.layout = vertex, fragment, layout
	p := &fakeProgram{}
	d.programs = append(d.programs, p)
	return p, nil
}

func (d *fakeDevice) NewVertexBuffer(size int) (pixi.Buffer, error) {
	if d.vboErr != nil {
		return nil, d.vboErr
	}
	d.vboSize = size
	return &fakeBuffer{}, nil
}

func (d *fakeDevice) NewIndexBuffer(indices []uint32) (pixi.Buffer, error) {
	if d.iboErr != nil {
		return nil, d.iboErr
	}
	d.indices = indices
	return &fakeBuffer{}, nil
}

func (d *fakeDevice) UploadVertices(b pixi.Buffer, data []float32) {
	d.uploads = append(d.uploads, append([]float32(nil), data...))
}

func (d *fakeDevice) Submit(call *pixi.DrawCall) {
	c := *call
	c.Textures = append([]uint32(nil), call.Textures...)
	d.calls = append(d.calls, c)
}

func (d *fakeDevice) SetViewport(r image.Rectangle) { d.viewport = r }

func (d *fakeDevice) Clear(c color.Color) { d.clears = append(d.clears, c) }

// tex is a minimal drawable backed by a native texture id.
type tex uint32

func (t tex) Origin() image.Point { return image.Point{} }
func (t tex) Size() image.Point   { return image.Pt(16, 16) }
func (t tex) UV() [4]float32      { return [4]float32{0, 1, 1, 0} }
func (t tex) NativeID() uint32    { return uint32(t) }

// blended wraps a drawable with an explicit blend mode.
type blended struct {
	tex
	mode pixi.BlendMode
}

func (b blended) BlendMode() pixi.BlendMode { return b.mode }

func newTestBatch(t *testing.T, units int, opts ...Option) (*Batch, *fakeDevice) {
	t.Helper()
	dev := &fakeDevice{units: units}
	b, err := New(dev, opts...)
	require.NoError(t, err)
	return b, dev
}

func TestBatch_sharedTextureSingleCall(t *testing.T) {
	b, dev := newTestBatch(t, 4)
	b.Begin()
	for i := 0; i < 3; i++ {
		b.Draw(tex(7), float32(i)*16, 0, 1, 1, 0, nil)
	}
	b.End()

	require.Len(t, dev.calls, 1)
	c := dev.calls[0]
	assert.Equal(t, []uint32{7}, c.Textures)
	assert.Equal(t, 0, c.First)
	assert.Equal(t, 18, c.Count)
	assert.Equal(t, pixi.BlendNormal, c.Blend)

	require.Len(t, dev.uploads, 1)
	assert.Len(t, dev.uploads[0], 3*4*6)
}

func TestBatch_distinctTexturesShareCall(t *testing.T) {
	b, dev := newTestBatch(t, 4)
	b.Begin()
	b.Draw(tex(1), 0, 0, 1, 1, 0, nil)
	b.Draw(tex(2), 16, 0, 1, 1, 0, nil)
	b.Draw(tex(1), 32, 0, 1, 1, 0, nil)
	b.Draw(tex(2), 48, 0, 1, 1, 0, nil)
	b.End()

	require.Len(t, dev.calls, 1)
	c := dev.calls[0]
	assert.Equal(t, []uint32{1, 2}, c.Textures)
	assert.Equal(t, 24, c.Count)

	// texture unit slots are reused per native id, in draw order
	up := dev.uploads[0]
	for q, want := range []float32{0, 1, 0, 1} {
		for v := 0; v < 4; v++ {
			assert.Equal(t, want, up[q*24+v*6+5], "quad %d vertex %d", q, v)
		}
	}
}

func TestBatch_unitBudgetForcesFlush(t *testing.T) {
	b, dev := newTestBatch(t, 4)
	b.Begin()
	for id := uint32(1); id <= 5; id++ {
		b.Draw(tex(id), 0, 0, 1, 1, 0, nil)
	}
	b.End()

	require.Len(t, dev.calls, 2)
	assert.Equal(t, []uint32{1, 2, 3, 4}, dev.calls[0].Textures)
	assert.Equal(t, 24, dev.calls[0].Count)
	assert.Equal(t, []uint32{5}, dev.calls[1].Textures)
	assert.Equal(t, 0, dev.calls[1].First)
	assert.Equal(t, 6, dev.calls[1].Count)
}

func TestBatch_quadCapacityForcesFlush(t *testing.T) {
	b, dev := newTestBatch(t, 4, MaxQuads(2))
	b.Begin()
	b.Draw(tex(1), 0, 0, 1, 1, 0, nil)
	b.Draw(tex(1), 16, 0, 1, 1, 0, nil)
	require.Empty(t, dev.calls)
	b.Draw(tex(1), 32, 0, 1, 1, 0, nil)
	require.Len(t, dev.calls, 1)
	assert.Equal(t, 12, dev.calls[0].Count)
	b.End()

	require.Len(t, dev.calls, 2)
	assert.Equal(t, 6, dev.calls[1].Count)
	assert.Len(t, dev.uploads[1], 4*6)
}

func TestBatch_blendModeSplitsCalls(t *testing.T) {
	b, dev := newTestBatch(t, 4)
	b.Begin()
	b.Draw(tex(1), 0, 0, 1, 1, 0, nil)
	b.Draw(tex(2), 16, 0, 1, 1, 0, nil)
	b.Draw(blended{tex: 1, mode: pixi.BlendAdd}, 32, 0, 1, 1, 0, nil)
	b.Draw(tex(2), 48, 0, 1, 1, 0, nil)
	b.End()

	require.Len(t, dev.calls, 3)
	require.Len(t, dev.uploads, 1)

	c0, c1, c2 := dev.calls[0], dev.calls[1], dev.calls[2]
	assert.Equal(t, pixi.BlendNormal, c0.Blend)
	assert.Equal(t, 0, c0.First)
	assert.Equal(t, 12, c0.Count)
	assert.Equal(t, pixi.BlendAdd, c1.Blend)
	assert.Equal(t, 12, c1.First)
	assert.Equal(t, 6, c1.Count)
	assert.Equal(t, pixi.BlendNormal, c2.Blend)
	assert.Equal(t, 18, c2.First)
	assert.Equal(t, 6, c2.Count)

	// a blend boundary does not reset texture unit slots
	for _, c := range dev.calls {
		assert.Equal(t, []uint32{1, 2}, c.Textures)
	}
}

func TestBatch_sameBlendNoSplit(t *testing.T) {
	b, dev := newTestBatch(t, 4)
	b.Begin()
	b.Draw(blended{tex: 1, mode: pixi.BlendAdd}, 0, 0, 1, 1, 0, nil)
	b.Draw(blended{tex: 1, mode: pixi.BlendAdd}, 16, 0, 1, 1, 0, nil)
	b.End()

	require.Len(t, dev.calls, 1)
	assert.Equal(t, pixi.BlendAdd, dev.calls[0].Blend)
	assert.Equal(t, 12, dev.calls[0].Count)
}

func TestBatch_flushIdempotent(t *testing.T) {
	b, dev := newTestBatch(t, 4)
	b.Begin()
	b.Flush()
	assert.Empty(t, dev.calls)
	assert.Empty(t, dev.uploads)

	b.Draw(tex(1), 0, 0, 1, 1, 0, nil)
	b.Flush()
	b.Flush()
	b.End()
	assert.Len(t, dev.calls, 1)
	assert.Len(t, dev.uploads, 1)
}

func TestBatch_projectionChangeFlushes(t *testing.T) {
	b, dev := newTestBatch(t, 4)
	var p1, p2 [16]float32
	p1[0] = 1
	p2[0] = 2

	b.Begin()
	b.SetProjectionMatrix(p1)
	b.Draw(tex(1), 0, 0, 1, 1, 0, nil)
	b.SetProjectionMatrix(p2)
	require.Len(t, dev.calls, 1)
	assert.Equal(t, p1, dev.calls[0].Projection)

	b.Draw(tex(1), 0, 0, 1, 1, 0, nil)
	b.End()
	require.Len(t, dev.calls, 2)
	assert.Equal(t, p2, dev.calls[1].Projection)
}

func TestBatch_setView(t *testing.T) {
	b, dev := newTestBatch(t, 4)
	v := &pixi.View{
		Fb:    &pixi.Screen{W: 640, H: 480},
		Rect:  image.Rect(0, 0, 640, 480),
		Scale: 1,
	}
	b.Begin()
	b.SetView(v)
	assert.Equal(t, v.GLRect(), dev.viewport)
	assert.Equal(t, v.ProjectionMatrix(), b.proj)
	b.End()
}

func TestBatch_clear(t *testing.T) {
	b, dev := newTestBatch(t, 4)
	b.Begin()
	b.Draw(tex(1), 0, 0, 1, 1, 0, nil)
	b.Clear(color.Black)
	assert.Len(t, dev.calls, 1, "pending quads flush before clearing")
	assert.Equal(t, []color.Color{color.Black}, dev.clears)
	b.End()
}

func TestBatch_tintColor(t *testing.T) {
	b, dev := newTestBatch(t, 4)
	b.Begin()
	b.Draw(tex(1), 0, 0, 1, 1, 0, color.RGBA{R: 255, A: 255})
	b.End()

	// packed color occupies word 4 of every vertex
	up := dev.uploads[0]
	want := PackColor(color.RGBA{R: 255, A: 255})
	for v := 0; v < 4; v++ {
		assert.Equal(t, want, math.Float32bits(up[v*6+4]))
	}
}

func TestBatch_beginUnflushedPanics(t *testing.T) {
	b, _ := newTestBatch(t, 4)
	b.Begin()
	b.Draw(tex(1), 0, 0, 1, 1, 0, nil)
	assert.Panics(t, func() { b.Begin() })
	b.End()
	assert.NotPanics(t, func() { b.Begin() })
	b.End()
}

func TestBatch_close(t *testing.T) {
	b, _ := newTestBatch(t, 4)
	p := b.program.(*fakeProgram)
	vbo := b.vbo.(*fakeBuffer)
	ibo := b.ibo.(*fakeBuffer)

	b.Close()
	assert.True(t, p.deleted)
	assert.True(t, vbo.deleted)
	assert.True(t, ibo.deleted)
	assert.NotPanics(t, func() { b.Close() })

	assert.Panics(t, func() { b.Begin() })
	assert.Panics(t, func() { b.Draw(tex(1), 0, 0, 1, 1, 0, nil) })
	assert.Panics(t, func() { b.Flush() })
}
