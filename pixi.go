// Package pixi provides the draw call batching engine of a 2D rendering
// pipeline: it regroups an ordered stream of textured quads into as few GPU
// draw calls as the hardware texture unit budget allows, without changing
// the visible draw order.
//
// The package itself only defines the contracts shared by the engine and
// its collaborators. The engine lives in the batch package, the shading
// program generator in the shader package, and the OpenGL backend in the
// gldevice package.
package pixi

import (
	"image"
	"image/color"
)

// A Drawable is anything that can be drawn by a Renderer: a texture, a
// texture region, a cached glyph. Drawables are owned by the caller; a
// Renderer only reads them during a render pass and never retains one past
// the Flush that ends the pass.
type Drawable interface {
	// Origin returns the point of origin of the drawable, relative to its
	// top-left corner.
	Origin() image.Point
	// Size returns the size of the drawable in pixels.
	Size() image.Point
	// UV returns the drawable's texture coordinates as u0, v0, u1, v1 in
	// the range [0, 1].
	UV() [4]float32
	// NativeID returns the native identifier of the backing texture. It
	// must remain stable for the lifetime of the drawable: the batch
	// engine uses it to share texture unit slots between drawables backed
	// by the same texture.
	NativeID() uint32
}

// Blender is implemented by Drawables that must be composited with a
// specific blend mode. Drawables that do not implement Blender are drawn
// with BlendNormal.
type Blender interface {
	BlendMode() BlendMode
}

// BlendMode selects how a draw call is composited over the frame buffer.
// A single draw call can only use one blend mode, so a mode change between
// consecutive drawables forces a draw call boundary.
type BlendMode int32

const (
	// BlendNormal composites premultiplied source over destination.
	BlendNormal BlendMode = iota
	BlendAdd
	BlendMultiply
	BlendScreen
)

func (m BlendMode) String() string {
	switch m {
	case BlendNormal:
		return "normal"
	case BlendAdd:
		return "add"
	case BlendMultiply:
		return "multiply"
	case BlendScreen:
		return "screen"
	}
	return "unknown"
}

// A Renderer draws Drawables. Draw calls must occur in draw order, on the
// thread that owns the graphics context, with no concurrent use of the same
// Renderer. Flush ends the current render pass.
//
// Renderers are registered by name (see RegisterRenderer) so that scenes
// can select a specific batching strategy.
type Renderer interface {
	Draw(d Drawable, x, y, scaleX, scaleY, rot float32, c color.Color)
	Flush()
}
