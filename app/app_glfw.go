package app

import (
	"image"
	"log/slog"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	pixi "github.com/mediafe/pixi.js"
	"github.com/mediafe/pixi.js/gldevice"
)

var drv driver = new(glfwDriver)

type glfwDriver struct {
	w *window
	a Interface
}

type window struct {
	glfw   *glfw.Window
	dev    *gldevice.Device
	screen pixi.Screen

	onFrameBufferSize FrameBufferSizeHandler
	setViewport       bool
}

func (w *window) NativeHandle() interface{} { return w.glfw }
func (w *window) Device() *gldevice.Device  { return w.dev }
func (w *window) Screen() *pixi.Screen      { return &w.screen }

func (w *window) glfwFrameBufferSizeCallback(_ *glfw.Window, width, height int) {
	w.screen.W, w.screen.H = width, height
	w.setViewport = true
	if w.onFrameBufferSize != nil {
		w.onFrameBufferSize.OnFrameBufferSize(w, width, height)
	}
}

func (d *glfwDriver) init(a Interface, opts ...WindowOption) error {
	if err := glfw.Init(); err != nil {
		return err
	}
	d.a = a

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)

	if err := d.createWindow(opts...); err != nil {
		glfw.Terminate()
		return err
	}
	if h, ok := a.(FrameBufferSizeHandler); ok {
		d.w.onFrameBufferSize = h
	}
	slog.Debug("app: glfw initialized", "version", glfw.GetVersionString())
	return nil
}

func (d *glfwDriver) terminate() {
	glfw.Terminate()
}

func (d *glfwDriver) createWindow(opts ...WindowOption) error {
	cfg := winCfg{title: "pixi Window", x: -1, y: -1, w: 800, h: 600}
	for _, o := range opts {
		o.set(&cfg)
	}

	var (
		monitor *glfw.Monitor
		width   = cfg.w
		height  = cfg.h
	)
	if cfg.fullScreen {
		monitor = glfw.GetPrimaryMonitor()
		mode := monitor.GetVideoMode()
		glfw.WindowHint(glfw.RedBits, mode.RedBits)
		glfw.WindowHint(glfw.GreenBits, mode.GreenBits)
		glfw.WindowHint(glfw.BlueBits, mode.BlueBits)
		glfw.WindowHint(glfw.RefreshRate, mode.RefreshRate)
		width = mode.Width
		height = mode.Height
	}
	if cfg.hidden || (!cfg.fullScreen && cfg.x >= 0 && cfg.y >= 0) {
		glfw.WindowHint(glfw.Visible, glfw.False)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.True)
	}
	w, err := glfw.CreateWindow(width, height, cfg.title, monitor, nil)
	if err != nil {
		return err
	}
	if !cfg.fullScreen && cfg.x >= 0 && cfg.y >= 0 {
		w.SetPos(cfg.x, cfg.y)
		if !cfg.hidden {
			w.Show()
		}
	}

	w.MakeContextCurrent()
	dev, err := gldevice.New()
	if err != nil {
		w.Destroy()
		return err
	}
	glfw.SwapInterval(1)

	fw, fh := w.GetFramebufferSize()
	d.w = &window{glfw: w, dev: dev, screen: pixi.Screen{W: fw, H: fh}}
	w.SetFramebufferSizeCallback(d.w.glfwFrameBufferSizeCallback)
	return nil
}

func (d *glfwDriver) window() Window {
	return d.w
}

// run drives the fixed-timestep loop: updates are ticked at a constant
// rate, drawing happens once per frame with the leftover partial timestep.
func (d *glfwDriver) run(a Interface) {
	const dt = time.Second / 60
	var (
		tPrev = time.Now()
		tAcc  time.Duration
		w     = d.w
	)
	for !w.glfw.ShouldClose() {
		glfw.PollEvents()
		now := time.Now()
		tAcc += now.Sub(tPrev)
		tPrev = now
		for tAcc >= dt {
			a.OnUpdate(dt)
			tAcc -= dt
		}
		if w.setViewport {
			w.dev.SetViewport(image.Rectangle{Max: w.screen.Size()})
			w.setViewport = false
		}
		a.OnDraw(w, tAcc)
		w.glfw.SwapBuffers()
	}
}
