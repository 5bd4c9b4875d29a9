package pixi

import (
	"image"
	"image/color"
)

// AttribType is the component type of a vertex attribute.
type AttribType int32

const (
	// Float32 components are 32-bit floats.
	Float32 AttribType = iota
	// UnsignedByte components are 8-bit unsigned integers, typically
	// normalized to [0, 1] (packed colors).
	UnsignedByte
)

// A VertexAttrib describes one attribute of an interleaved vertex format.
type VertexAttrib struct {
	Name       string // attribute name in the shader source
	Size       int    // number of components
	Type       AttribType
	Offset     int // byte offset from the start of the vertex
	Normalized bool
}

// A VertexLayout describes the full interleaved vertex format shared by a
// vertex buffer and a shading program. Attribute locations are implied by
// slice order.
type VertexLayout struct {
	Stride  int // vertex size in bytes
	Attribs []VertexAttrib
}

// Program is an opaque handle to a compiled and linked shading program.
type Program interface {
	Delete()
}

// Buffer is an opaque handle to a device buffer.
type Buffer interface {
	Delete()
}

// A DrawCall instructs the device to render a range of indexed geometry
// with a bound program, textures and blend state. The batch engine emits
// one DrawCall per contiguous run of quads that share texture bindings and
// a blend mode.
type DrawCall struct {
	Program  Program
	Vertices Buffer
	Indices  Buffer
	// Textures holds the native texture ids to bind; Textures[i] is bound
	// to texture unit i. len(Textures) never exceeds the device's
	// MaxTextureUnits.
	Textures   []uint32
	First      int // first index within Indices
	Count      int // number of indices to draw
	Blend      BlendMode
	Projection [16]float32
}

// Device is the contract the batch engine requires from the underlying
// graphics backend. It is deliberately narrow: buffer and program
// management plus draw call submission. The gldevice package provides the
// OpenGL implementation; tests use an in-memory recorder.
//
// All methods must be called from the thread that owns the graphics
// context.
type Device interface {
	// MaxTextureUnits returns the number of texture units a fragment
	// shader can sample from in a single draw call. It is queried once at
	// engine construction and remains constant for the process lifetime.
	MaxTextureUnits() int

	// CompileProgram compiles and links a shading program from the given
	// sources, binding attribute locations in layout order. Compilation
	// errors are returned as reported by the device.
	CompileProgram(vertex, fragment []byte, layout VertexLayout) (Program, error)

	// NewVertexBuffer allocates a dynamic vertex buffer of size bytes.
	NewVertexBuffer(size int) (Buffer, error)

	// NewIndexBuffer allocates a static index buffer holding indices.
	NewIndexBuffer(indices []uint32) (Buffer, error)

	// UploadVertices copies data to the start of vertex buffer b.
	UploadVertices(b Buffer, data []float32)

	// Submit issues one draw call.
	Submit(call *DrawCall)

	// SetViewport sets the device viewport in frame buffer coordinates.
	SetViewport(r image.Rectangle)

	// Clear clears the current render target with the given color.
	Clear(c color.Color)
}
