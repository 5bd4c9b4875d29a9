package pixi

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// RendererConstructor builds a fully wired Renderer for a device. The
// device is passed at construction time, not at registration time, because
// hardware limits such as the texture unit count vary per device.
type RendererConstructor func(dev Device) (Renderer, error)

var (
	renderersMu sync.Mutex
	renderers   = make(map[string]RendererConstructor)
)

// RegisterRenderer makes a renderer constructor selectable under the given
// name. Registrations with distinct names are independent: an error in one
// strategy never affects another.
//
// RegisterRenderer panics if ctor is nil or name is already registered.
func RegisterRenderer(name string, ctor RendererConstructor) {
	renderersMu.Lock()
	defer renderersMu.Unlock()
	if ctor == nil {
		panic("pixi: RegisterRenderer constructor is nil")
	}
	if _, dup := renderers[name]; dup {
		panic("pixi: RegisterRenderer called twice for renderer " + name)
	}
	renderers[name] = ctor
}

// NewRenderer resolves name to a registered constructor and builds a
// Renderer for dev.
func NewRenderer(name string, dev Device) (Renderer, error) {
	renderersMu.Lock()
	ctor, ok := renderers[name]
	renderersMu.Unlock()
	if !ok {
		return nil, errors.Errorf("pixi: unknown renderer %q", name)
	}
	return ctor(dev)
}

// RendererNames returns the names of all registered renderers, sorted.
func RendererNames() []string {
	renderersMu.Lock()
	defer renderersMu.Unlock()
	names := make([]string, 0, len(renderers))
	for name := range renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
