// Package batch implements the multi-texture quad batching engine.
//
// A Batch accumulates textured quads in draw order and defers draw call
// submission until a hard resource limit is reached: the device's texture
// unit budget, or the capacity of the shared vertex buffer. Drawables
// backed by the same texture share a texture unit slot, so any number of
// quads over up to MaxTextureUnits distinct textures coalesce into a
// single draw call. Accumulation order is never changed; only adjacent
// compatible quads are merged.
package batch

import (
	"image/color"

	"github.com/chewxy/math32"

	pixi "github.com/mediafe/pixi.js"
)

const defaultMaxQuads = 10000

// run marks a draw call boundary within the current accumulation: quads
// from first up to the next run's first share one blend mode. Blend mode
// changes open a new run without clearing texture unit slots, since slot
// bindings are shared by every run of a flush.
type run struct {
	first int
	blend pixi.BlendMode
}

// A Batch draws quads in batches. It implements pixi.Renderer.
//
// A Batch is not safe for concurrent use: Draw must be called in draw
// order from the thread owning the graphics context, and a render pass is
// terminated by Flush (or End).
type Batch struct {
	dev     pixi.Device
	program pixi.Program
	layout  *Layout
	vbo     pixi.Buffer
	ibo     pixi.Buffer

	maxQuads int
	maxUnits int
	proj     [16]float32

	vertices []float32       // shared geometry buffer, fixed capacity
	textures []pixi.Drawable // texture unit slot table, cap maxUnits
	runs     []run
	quads    int // write position, in quads
	closed   bool
}

// Begin starts a render pass. It panics if quads from a previous pass have
// not been flushed: interleaving passes would corrupt the shared buffers.
func (b *Batch) Begin() {
	b.checkOpen()
	if b.quads != 0 {
		panic("batch: call Flush() before Begin()")
	}
}

// SetProjectionMatrix sets the projection for subsequent draw calls,
// flushing any pending quads first since a draw call has a single
// projection.
func (b *Batch) SetProjectionMatrix(projection [16]float32) {
	if b.quads != 0 {
		b.Flush()
	}
	b.proj = projection
}

// SetView wraps SetProjectionMatrix(v.ProjectionMatrix()) and a device
// viewport update into a single call.
func (b *Batch) SetView(v *pixi.View) {
	b.SetProjectionMatrix(v.ProjectionMatrix())
	b.dev.SetViewport(v.GLRect())
}

// Draw appends one drawable to the current batch. The drawable is drawn at
// (x, y) with the given scale and rotation, tinted with c (nil for opaque
// white). If d implements pixi.Blender its blend mode applies, otherwise
// BlendNormal.
//
// Draw never fails: exhausting the texture unit budget or the vertex
// buffer triggers an internal flush, not an error.
func (b *Batch) Draw(d pixi.Drawable, x, y, scaleX, scaleY, rot float32, c color.Color) {
	b.checkOpen()
	if b.quads >= b.maxQuads {
		b.Flush()
	}
	slot := b.slotFor(d)

	blend := pixi.BlendNormal
	if bl, ok := d.(pixi.Blender); ok {
		blend = bl.BlendMode()
	}
	if b.quads == 0 {
		b.runs = append(b.runs[:0], run{first: 0, blend: blend})
	} else if blend != b.runs[len(b.runs)-1].blend {
		b.runs = append(b.runs, run{first: b.quads, blend: blend})
	}

	var m0, m1, m3, m4 float32 = 1, 0, 0, 1
	if rot != 0 {
		sin, cos := math32.Sincos(rot)
		m0, m1, m3, m4 = cos, sin, -sin, cos
	}

	o := d.Origin()
	tx, ty := -float32(o.X)*scaleX, -float32(o.Y)*scaleY
	m6, m7 := m0*tx+m3*ty+x, m1*tx+m4*ty+y

	sz := d.Size()
	sX, sY := scaleX*float32(sz.X), scaleY*float32(sz.Y)
	m0 *= sX
	m1 *= sX
	m3 *= sY
	m4 *= sY

	q := Quad{
		TLx: m3 + m6, TLy: m4 + m7,
		TRx: m0 + m3 + m6, TRy: m1 + m4 + m7,
		BLx: m6, BLy: m7,
		BRx: m0 + m6, BRy: m1 + m7,
		UV:    d.UV(),
		Color: PackColor(c),
	}
	b.layout.Write(b.vertices, b.quads*b.layout.VertexSize()*vertsPerQuad, &q, slot)
	b.quads++
}

// slotFor returns the texture unit slot assigned to d's texture, reusing
// an existing slot when the texture is already bound in the current batch.
// When the slot table is full and a new distinct texture arrives, the
// pending quads are flushed and the texture takes slot 0.
func (b *Batch) slotFor(d pixi.Drawable) int {
	id := d.NativeID()
	for i, t := range b.textures {
		if t.NativeID() == id {
			return i
		}
	}
	if len(b.textures) >= b.maxUnits {
		b.Flush()
	}
	b.textures = append(b.textures, d)
	return len(b.textures) - 1
}

// Flush submits all accumulated quads, one draw call per blend mode run,
// then resets the slot table and buffer write position. With nothing
// accumulated, Flush is a no-op.
func (b *Batch) Flush() {
	b.checkOpen()
	if b.quads == 0 {
		return
	}

	vs := b.layout.VertexSize()
	b.dev.UploadVertices(b.vbo, b.vertices[:b.quads*vs*vertsPerQuad])

	ids := make([]uint32, len(b.textures))
	for i, t := range b.textures {
		ids[i] = t.NativeID()
	}

	call := pixi.DrawCall{
		Program:    b.program,
		Vertices:   b.vbo,
		Indices:    b.ibo,
		Textures:   ids,
		Projection: b.proj,
	}
	for i, r := range b.runs {
		end := b.quads
		if i+1 < len(b.runs) {
			end = b.runs[i+1].first
		}
		call.First = r.first * indicesPerQuad
		call.Count = (end - r.first) * indicesPerQuad
		call.Blend = r.blend
		b.dev.Submit(&call)
	}

	b.quads = 0
	b.textures = b.textures[:0]
	b.runs = b.runs[:0]
}

// End terminates the current render pass.
func (b *Batch) End() {
	b.Flush()
}

// Clear flushes pending quads and clears the current render target.
func (b *Batch) Clear(c color.Color) {
	b.Flush()
	b.dev.Clear(c)
}

// Close releases the program and buffers owned by the batch. Quads
// accumulated since the last Flush are dropped. Using the batch after
// Close panics.
func (b *Batch) Close() {
	if b.closed {
		return
	}
	b.closed = true
	b.program.Delete()
	b.vbo.Delete()
	b.ibo.Delete()
}

func (b *Batch) checkOpen() {
	if b.closed {
		panic("batch: use of closed Batch")
	}
}
