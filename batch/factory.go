package batch

import (
	"github.com/pkg/errors"

	pixi "github.com/mediafe/pixi.js"
	"github.com/mediafe/pixi.js/shader"
)

func init() {
	// default strategy, selectable by name
	Register("batch")
}

// Config collects the options binding a shader pair and a geometry layout
// into a batch renderer. The zero value is completed with the stock
// shaders and the standard layout; see New.
type Config struct {
	Vertex     []byte  // vertex program source
	Fragment   []byte  // fragment program template (see package shader)
	VertexSize int     // vertex size in 32-bit words
	Layout     *Layout // geometry layout paired with the shaders
	MaxQuads   int     // shared buffer capacity, in quads
}

// An Option configures a Batch produced by New or Register.
type Option interface {
	set(*Config)
}

type optionFunc func(*Config)

func (f optionFunc) set(cfg *Config) {
	f(cfg)
}

// Shaders sets the vertex source and fragment template. The fragment
// template must contain the shader package's placeholder tokens.
func Shaders(vertex, fragmentTemplate []byte) Option {
	return optionFunc(func(cfg *Config) {
		cfg.Vertex = vertex
		cfg.Fragment = fragmentTemplate
	})
}

// VertexSize sets the vertex size in 32-bit words for extended layouts.
func VertexSize(n int) Option {
	return optionFunc(func(cfg *Config) {
		cfg.VertexSize = n
	})
}

// WithLayout sets the geometry layout paired with the shaders.
func WithLayout(l *Layout) Option {
	return optionFunc(func(cfg *Config) {
		cfg.Layout = l
	})
}

// MaxQuads sets the capacity of the shared geometry buffer.
func MaxQuads(n int) Option {
	return optionFunc(func(cfg *Config) {
		cfg.MaxQuads = n
	})
}

// New builds a Batch for dev. The device's texture unit count is queried
// here, the fragment template expanded against it and the program
// compiled; configuration errors (bad template, vertex size mismatch) are
// reported now, never at render time. Device compilation errors are
// returned unmodified.
func New(dev pixi.Device, opts ...Option) (*Batch, error) {
	cfg := Config{
		Vertex:     shader.DefaultVertex,
		Fragment:   shader.DefaultFragmentTemplate,
		VertexSize: stdVertexSize,
		MaxQuads:   defaultMaxQuads,
	}
	for _, o := range opts {
		o.set(&cfg)
	}
	if cfg.Layout == nil {
		cfg.Layout = StandardLayout()
	}
	if cfg.VertexSize != cfg.Layout.VertexSize() {
		return nil, errors.Errorf("batch: vertex size %d does not match layout vertex size %d", cfg.VertexSize, cfg.Layout.VertexSize())
	}
	if cfg.MaxQuads < 1 {
		return nil, errors.Errorf("batch: invalid quad capacity %d", cfg.MaxQuads)
	}

	units := dev.MaxTextureUnits()
	frag, err := shader.Expand(cfg.Fragment, units)
	if err != nil {
		return nil, err
	}
	program, err := dev.CompileProgram(cfg.Vertex, frag, cfg.Layout.VertexLayout())
	if err != nil {
		return nil, err
	}

	vbo, err := dev.NewVertexBuffer(cfg.MaxQuads * cfg.VertexSize * 4 * vertsPerQuad)
	if err != nil {
		program.Delete()
		return nil, err
	}
	ibo, err := dev.NewIndexBuffer(quadIndices(cfg.MaxQuads))
	if err != nil {
		program.Delete()
		vbo.Delete()
		return nil, err
	}

	b := &Batch{
		dev:      dev,
		program:  program,
		layout:   cfg.Layout,
		vbo:      vbo,
		ibo:      ibo,
		maxQuads: cfg.MaxQuads,
		maxUnits: units,
		vertices: make([]float32, cfg.MaxQuads*cfg.VertexSize*vertsPerQuad),
		textures: make([]pixi.Drawable, 0, units),
	}
	return b, nil
}

// Register installs a named batch configuration as a selectable rendering
// strategy. Each registration yields an independent engine type: a default
// strategy and custom visual-effect strategies with their own shaders and
// layouts coexist without interfering.
func Register(name string, opts ...Option) {
	pixi.RegisterRenderer(name, func(dev pixi.Device) (pixi.Renderer, error) {
		return New(dev, opts...)
	})
}
