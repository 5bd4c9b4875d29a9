// Package app provides window creation and a fixed-timestep application
// loop on top of GLFW.
package app

import (
	"runtime"
	"time"

	pixi "github.com/mediafe/pixi.js"
	"github.com/mediafe/pixi.js/gldevice"
)

func init() {
	// the rendering context must live on the main OS thread
	runtime.LockOSThread()
}

// Main initializes the windowing driver, creates the application window
// and runs the event loop until the window is closed. It must be called
// from the program's main goroutine.
func Main(a Interface, opts ...WindowOption) error {
	if err := drv.init(a, opts...); err != nil {
		return err
	}
	defer drv.terminate()
	if err := a.Init(drv.window()); err != nil {
		return err
	}
	drv.run(a)
	return a.Terminate()
}

// Window is the surface an application draws to.
type Window interface {
	NativeHandle() interface{}
	Device() *gldevice.Device
	Screen() *pixi.Screen
}

type driver interface {
	init(Interface, ...WindowOption) error
	terminate()
	run(Interface)
	window() Window
}

// Interface is implemented by applications run with Main. OnUpdate is
// called at a fixed timestep; OnDraw once per frame with the leftover
// partial timestep.
type Interface interface {
	Init(Window) error
	Terminate() error

	OnUpdate(timestep time.Duration)
	OnDraw(w Window, partial time.Duration)
}

// FrameBufferSizeHandler is implemented by applications that want to be
// notified of frame buffer size changes.
type FrameBufferSizeHandler interface {
	OnFrameBufferSize(w Window, width, height int)
}

type winCfg struct {
	title      string
	x, y, w, h int
	fullScreen bool
	hidden     bool
}

// WindowOption is implemented by window options passed to Main.
type WindowOption interface {
	set(*winCfg)
}

type winOption func(*winCfg)

func (f winOption) set(cfg *winCfg) {
	f(cfg)
}

// Title sets the window title.
func Title(title string) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.title = title
	})
}

// Pos sets the window position.
func Pos(x, y int) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.x, cfg.y = x, y
	})
}

// Size sets the window size.
func Size(w, h int) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.w, cfg.h = w, h
	})
}

// FullScreen requests a full screen window.
func FullScreen() WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.fullScreen = true
	})
}

// Visible sets the window visibility.
func Visible(b bool) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.hidden = !b
	})
}
