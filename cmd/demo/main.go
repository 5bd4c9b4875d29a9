// Command demo renders a field of rotating sprites with a few distinct
// textures and blend modes, plus an FPS overlay, to exercise the batch
// renderer end to end.
package main

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math/rand"
	"time"

	"github.com/db47h/ofs"
	"golang.org/x/image/font"

	pixi "github.com/mediafe/pixi.js"
	"github.com/mediafe/pixi.js/app"
	"github.com/mediafe/pixi.js/asset"
	"github.com/mediafe/pixi.js/batch"
	"github.com/mediafe/pixi.js/debug"
	"github.com/mediafe/pixi.js/text"
	"github.com/mediafe/pixi.js/texture"
)

const sprites = 20000

type sprite struct {
	d        pixi.Drawable
	pos      pixi.Point
	rot      float32
	dr       float32
	tint     color.Color
	additive bool
}

// glow wraps a drawable with additive blending.
type glow struct {
	pixi.Drawable
}

func (glow) BlendMode() pixi.BlendMode { return pixi.BlendAdd }

type demo struct {
	mgr     *asset.Manager
	b       *batch.Batch
	td      *text.Drawer
	view    pixi.View
	sprites []sprite
	ft      debug.Timer
	info    debug.InfoBox
}

func (g *demo) Init(w app.Window) error {
	var ovl ofs.Overlay
	if err := ovl.Add(false, "assets", "cmd/demo/assets"); err != nil {
		return err
	}
	g.mgr = asset.NewManager(&ovl,
		asset.TexturePath("textures"),
		asset.FontPath("fonts"))
	rc, _ := g.mgr.Preload([]asset.Asset{
		asset.Texture("box.png"),
		asset.Texture("circle.png"),
		asset.Texture("star.png"),
		asset.Font("Go-Regular.ttf"),
	}, false)
	if err := asset.Wait(rc); err != nil {
		return err
	}

	r, err := pixi.NewRenderer("batch", w.Device())
	if err != nil {
		return err
	}
	g.b = r.(*batch.Batch)

	g.td, err = g.mgr.FontDrawer("Go-Regular.ttf", 16, font.HintingFull, texture.Nearest)
	if err != nil {
		return err
	}
	g.info.TD = g.td

	names := []string{"box.png", "circle.png", "star.png"}
	ds := make([]pixi.Drawable, 0, len(names))
	for _, n := range names {
		t, err := g.mgr.Texture(n, texture.Filter(texture.Linear, texture.Nearest))
		if err != nil {
			return err
		}
		ds = append(ds, t)
	}

	sz := w.Screen().Size()
	g.sprites = make([]sprite, sprites)
	for i := range g.sprites {
		s := &g.sprites[i]
		s.d = ds[rand.Intn(len(ds))]
		s.pos = pixi.PtI(rand.Intn(sz.X), rand.Intn(sz.Y))
		s.rot = rand.Float32() * 2 * 3.14159
		s.dr = rand.Float32() - 0.5
		s.tint = color.RGBA{R: uint8(rand.Intn(256)), G: uint8(rand.Intn(256)), B: uint8(rand.Intn(256)), A: 255}
		if s.additive = rand.Intn(8) == 0; s.additive {
			s.d = glow{s.d}
		}
	}

	g.view = pixi.View{Fb: w.Screen(), Scale: 1}
	return nil
}

func (g *demo) Terminate() error {
	g.b.Close()
	return g.mgr.Close()
}

func (g *demo) OnUpdate(dt time.Duration) {
	for i := range g.sprites {
		s := &g.sprites[i]
		s.rot += s.dr * float32(dt.Seconds())
	}
}

func (g *demo) OnDraw(w app.Window, _ time.Duration) {
	start := time.Now()

	g.view.Rect = image.Rectangle{Max: w.Screen().Size()}
	g.b.Begin()
	g.b.SetView(&g.view)
	g.b.Clear(color.RGBA{R: 30, G: 30, B: 46, A: 255})
	for i := range g.sprites {
		s := &g.sprites[i]
		g.b.Draw(s.d, s.pos.X, s.pos.Y, 0.5, 0.5, s.rot, s.tint)
	}
	g.b.Flush()

	g.info.Draw(g.b, &g.view, 1, fmt.Sprintf("%.0f fps", g.ft.AveragePerSecond()))
	g.b.End()

	g.ft.Add(time.Since(start))
}

func main() {
	if err := app.Main(new(demo), app.Title("pixi batch demo"), app.Size(1280, 720)); err != nil {
		log.Fatal(err)
	}
}
