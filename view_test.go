package pixi

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestView_projectionMatrix(t *testing.T) {
	v := View{
		Fb:    &Screen{W: 800, H: 600},
		Rect:  image.Rect(0, 0, 800, 600),
		Scale: 1,
	}
	m := v.ProjectionMatrix()

	// world (0,0) maps to top-left of clip space, screen center to origin
	x, y := project(&m, 0, 0)
	assert.InDelta(t, -1, x, 1e-6)
	assert.InDelta(t, 1, y, 1e-6)
	x, y = project(&m, 400, 300)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)
	x, y = project(&m, 800, 600)
	assert.InDelta(t, 1, x, 1e-6)
	assert.InDelta(t, -1, y, 1e-6)
}

func TestView_projectionMatrixOriginScale(t *testing.T) {
	v := View{
		Fb:    &Screen{W: 800, H: 600},
		Rect:  image.Rect(0, 0, 800, 600),
		Scale: 2,
	}
	v.CenterOn(100, 100)
	assert.Equal(t, Pt(-100, -50), v.Origin)

	m := v.ProjectionMatrix()
	x, y := project(&m, 100, 100)
	assert.InDelta(t, 0, x, 1e-5)
	assert.InDelta(t, 0, y, 1e-5)
	// one world unit covers Scale frame buffer pixels
	x2, _ := project(&m, 101, 100)
	assert.InDelta(t, 2.0/800*2, x2-x, 1e-5)
}

func project(m *[16]float32, x, y float32) (float32, float32) {
	return m[0]*x + m[4]*y + m[12], m[1]*x + m[5]*y + m[13]
}

func TestView_glRect(t *testing.T) {
	v := View{
		Fb:   &Screen{W: 800, H: 600},
		Rect: image.Rect(10, 20, 210, 120),
	}
	// y axis flips: top-left rect ends up at the top of the GL frame buffer
	assert.Equal(t, image.Rect(10, 480, 210, 580), v.GLRect())

	v.Rect = image.Rect(0, 0, 800, 600)
	assert.Equal(t, image.Rect(0, 0, 800, 600), v.GLRect())
}

func TestView_screenToWorld(t *testing.T) {
	v := View{
		Fb:     &Screen{W: 800, H: 600},
		Rect:   image.Rect(100, 100, 500, 400),
		Origin: Pt(50, 60),
		Scale:  2,
	}
	assert.Equal(t, Pt(50, 60), v.ScreenToWorld(image.Pt(100, 100)))
	assert.Equal(t, Pt(150, 135), v.ScreenToWorld(image.Pt(300, 250)))
}

func TestPoint(t *testing.T) {
	p := Pt(1, 2).Add(Pt(3, 4))
	assert.True(t, p.Eq(Pt(4, 6)))
	assert.Equal(t, Pt(8, 12), p.Mul(2))
	assert.Equal(t, Pt(2, 3), p.Div(2))
	assert.Equal(t, Pt(1, 2), PtI(1, 2))
	assert.Equal(t, Pt(1, 2), PtPt(image.Pt(1, 2)))
	assert.True(t, Pt(1, 2).In(image.Rect(0, 0, 2, 3)))
	assert.False(t, Pt(2, 2).In(image.Rect(0, 0, 2, 3)))
	assert.Equal(t, "(4.00,6.00)", p.String())
}
