package pixi

import (
	"image"
)

// FrameBuffer represents a render target.
type FrameBuffer interface {
	Size() image.Point
}

// A Screen is a FrameBuffer for a physical display. Its size should be
// updated whenever the size of the associated frame buffer changes (e.g.
// from a window resize callback).
type Screen struct {
	W, H int
}

func (s *Screen) Size() image.Point {
	return image.Point{X: s.W, Y: s.H}
}

// A View maps a rectangular region of a frame buffer to a region of world
// space. Rect is in frame buffer pixels with (0,0) the top-left corner,
// Origin is the world coordinate of the view's top-left point.
type View struct {
	Fb     FrameBuffer
	Rect   image.Rectangle
	Origin Point
	Scale  float32
}

// CenterOn adjusts Origin so that the world point (x, y) appears at the
// center of the view.
func (v *View) CenterOn(x, y float32) {
	v.Origin.X = x - float32(v.Rect.Dx())/(2*v.Scale)
	v.Origin.Y = y - float32(v.Rect.Dy())/(2*v.Scale)
}

// ProjectionMatrix returns the projection matrix mapping world coordinates
// to clip space for this view, in column-major order.
func (v *View) ProjectionMatrix() [16]float32 {
	sX, sY := float32(v.Rect.Dx()), float32(v.Rect.Dy())
	s2 := v.Scale * 2
	return [16]float32{
		s2 / sX, 0, 0, 0,
		0, -s2 / sY, 0, 0,
		0, 0, -1, 0,
		-(sX + v.Origin.X*s2) / sX, (sY + v.Origin.Y*s2) / sY, 0, 1,
	}
}

// GLRect returns the view rectangle in device coordinates, where (0,0) is
// the lower-left corner of the frame buffer.
func (v *View) GLRect() image.Rectangle {
	fbh := v.Fb.Size().Y
	return image.Rect(v.Rect.Min.X, fbh-v.Rect.Max.Y, v.Rect.Max.X, fbh-v.Rect.Min.Y)
}

// ScreenToWorld converts frame buffer coordinates to world coordinates.
func (v *View) ScreenToWorld(p image.Point) Point {
	return PtPt(p.Sub(v.Rect.Min)).Div(v.Scale).Add(v.Origin)
}
