// Package debug provides frame timing helpers and an on-screen info box.
package debug

import (
	"image"
	"image/color"
	"time"

	pixi "github.com/mediafe/pixi.js"
	"github.com/mediafe/pixi.js/batch"
	"github.com/mediafe/pixi.js/text"
)

const samples = 32

// A Timer keeps a rolling average of frame times.
type Timer struct {
	times [samples]time.Duration
	index int
}

func (t *Timer) Add(dt time.Duration) {
	t.times[t.index] = dt
	t.index = (t.index + 1) & (samples - 1)
}

func (t *Timer) Average() time.Duration {
	var avg time.Duration
	for _, dt := range t.times {
		avg += dt
	}
	return avg / time.Duration(len(t.times))
}

func (t *Timer) AveragePerSecond() float64 {
	avg := t.Average()
	if avg == 0 {
		return 0
	}
	return float64(time.Second) / float64(avg)
}

// InfoBox draws s over a black box in a corner of the view: pos 0 is the
// top-left corner, pos 1 the top-right.
type InfoBox struct {
	TD *text.Drawer
}

func (dbg *InfoBox) Draw(b *batch.Batch, v *pixi.View, pos int, s string) {
	bounds, _ := dbg.TD.BoundString(s)
	sz := image.Pt((bounds.Max.X-bounds.Min.X).Ceil()+2, (bounds.Max.Y-bounds.Min.Y).Ceil()+2)
	boxView := pixi.View{Fb: v.Fb, Scale: 1}
	switch pos {
	case 0:
		boxView.Rect = image.Rectangle{Min: v.Rect.Min, Max: v.Rect.Min.Add(sz)}
	case 1:
		boxView.Rect = image.Rect(v.Rect.Max.X-sz.X, v.Rect.Min.Y, v.Rect.Max.X, v.Rect.Min.Y+sz.Y)
	}
	b.SetView(&boxView)
	b.Clear(color.RGBA{A: 255})
	dbg.TD.DrawString(b, 1, float32(-bounds.Min.Y.Ceil()+1), s, color.White)
	b.Flush()
}
