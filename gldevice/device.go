// Package gldevice implements the pixi.Device contract on top of OpenGL
// 3.3 core.
package gldevice

import (
	"image"
	"image/color"
	"log/slog"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"

	pixi "github.com/mediafe/pixi.js"
)

// A Device drives an OpenGL context. All methods must be called from the
// thread that owns the context.
type Device struct {
	maxUnits int
	vao      uint32
}

// New initializes the OpenGL binding for the current context and returns a
// Device. The context must be current on the calling thread.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "gldevice: init")
	}

	var units int32
	gl.GetIntegerv(gl.MAX_TEXTURE_IMAGE_UNITS, &units)
	if units < 1 {
		units = 1
	}

	d := &Device{maxUnits: int(units)}
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	gl.Enable(gl.BLEND)
	gl.Enable(gl.SCISSOR_TEST)

	slog.Debug("gldevice: context initialized",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
		"textureUnits", units)
	return d, nil
}

// MaxTextureUnits returns the number of texture units available to a
// fragment shader.
func (d *Device) MaxTextureUnits() int {
	return d.maxUnits
}

// Release deletes the device's vertex array state.
func (d *Device) Release() {
	gl.DeleteVertexArrays(1, &d.vao)
}

type program struct {
	id          uint32
	layout      pixi.VertexLayout
	uProjection int32
}

func (p *program) Delete() {
	gl.DeleteProgram(p.id)
}

// CompileProgram compiles and links a program, binding attribute locations
// in layout order. Compile and link logs are returned as errors verbatim.
func (d *Device) CompileProgram(vertex, fragment []byte, layout pixi.VertexLayout) (pixi.Program, error) {
	vs, err := compileShader(gl.VERTEX_SHADER, vertex)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vs)
	fs, err := compileShader(gl.FRAGMENT_SHADER, fragment)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(fs)

	id := gl.CreateProgram()
	gl.AttachShader(id, vs)
	gl.AttachShader(id, fs)
	for i, a := range layout.Attribs {
		name, free := gl.Strs(a.Name + "\x00")
		gl.BindAttribLocation(id, uint32(i), *name)
		free()
	}
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		defer gl.DeleteProgram(id)
		return nil, errors.New(programInfoLog(id))
	}

	p := &program{
		id:          id,
		layout:      layout,
		uProjection: gl.GetUniformLocation(id, gl.Str("uProjection\x00")),
	}

	// samplers are statically assigned: uSamplers[i] reads unit i
	if loc := gl.GetUniformLocation(id, gl.Str("uSamplers\x00")); loc >= 0 {
		units := make([]int32, d.maxUnits)
		for i := range units {
			units[i] = int32(i)
		}
		gl.UseProgram(id)
		gl.Uniform1iv(loc, int32(len(units)), &units[0])
	}
	return p, nil
}

func compileShader(xtype uint32, source []byte) (uint32, error) {
	id := gl.CreateShader(xtype)
	src, free := gl.Strs(string(source) + "\x00")
	gl.ShaderSource(id, 1, src, nil)
	free()
	gl.CompileShader(id)

	var status int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var loglen int32
		gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &loglen)
		log := strings.Repeat("\x00", int(loglen)+1)
		gl.GetShaderInfoLog(id, loglen, nil, gl.Str(log))
		gl.DeleteShader(id)
		return 0, errors.New(strings.TrimRight(log, "\x00"))
	}
	return id, nil
}

func programInfoLog(id uint32) string {
	var loglen int32
	gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &loglen)
	log := strings.Repeat("\x00", int(loglen)+1)
	gl.GetProgramInfoLog(id, loglen, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

type buffer struct {
	id     uint32
	target uint32
}

func (b *buffer) Delete() {
	gl.DeleteBuffers(1, &b.id)
}

// NewVertexBuffer allocates a dynamic vertex buffer of size bytes.
func (d *Device) NewVertexBuffer(size int) (pixi.Buffer, error) {
	if size < 1 {
		return nil, errors.Errorf("gldevice: invalid vertex buffer size %d", size)
	}
	b := &buffer{target: gl.ARRAY_BUFFER}
	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(b.target, b.id)
	gl.BufferData(b.target, size, nil, gl.DYNAMIC_DRAW)
	return b, nil
}

// NewIndexBuffer allocates a static index buffer holding indices.
func (d *Device) NewIndexBuffer(indices []uint32) (pixi.Buffer, error) {
	if len(indices) == 0 {
		return nil, errors.New("gldevice: empty index buffer")
	}
	b := &buffer{target: gl.ELEMENT_ARRAY_BUFFER}
	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(b.target, b.id)
	gl.BufferData(b.target, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	return b, nil
}

// UploadVertices copies data to the start of vertex buffer vb.
func (d *Device) UploadVertices(vb pixi.Buffer, data []float32) {
	b := vb.(*buffer)
	gl.BindBuffer(b.target, b.id)
	gl.BufferSubData(b.target, 0, len(data)*4, gl.Ptr(data))
}

// Submit issues one draw call.
func (d *Device) Submit(call *pixi.DrawCall) {
	p := call.Program.(*program)
	gl.UseProgram(p.id)
	gl.UniformMatrix4fv(p.uProjection, 1, false, &call.Projection[0])

	vb, ib := call.Vertices.(*buffer), call.Indices.(*buffer)
	gl.BindBuffer(vb.target, vb.id)
	gl.BindBuffer(ib.target, ib.id)
	for i, a := range p.layout.Attribs {
		gl.EnableVertexAttribArray(uint32(i))
		gl.VertexAttribPointerWithOffset(uint32(i), int32(a.Size), attribType(a.Type), a.Normalized, int32(p.layout.Stride), uintptr(a.Offset))
	}

	for i, tex := range call.Textures {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
		gl.BindTexture(gl.TEXTURE_2D, tex)
	}

	src, dst := blendFunc(call.Blend)
	gl.BlendFunc(src, dst)
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(call.Count), gl.UNSIGNED_INT, uintptr(call.First*4))
}

// SetViewport sets the viewport and clipping region in device coordinates.
func (d *Device) SetViewport(r image.Rectangle) {
	gl.Viewport(int32(r.Min.X), int32(r.Min.Y), int32(r.Dx()), int32(r.Dy()))
	gl.Scissor(int32(r.Min.X), int32(r.Min.Y), int32(r.Dx()), int32(r.Dy()))
}

// Clear clears the color buffer.
func (d *Device) Clear(c color.Color) {
	if c != nil {
		r, g, b, a := c.RGBA()
		gl.ClearColor(float32(r)/0xffff, float32(g)/0xffff, float32(b)/0xffff, float32(a)/0xffff)
	}
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func attribType(t pixi.AttribType) uint32 {
	switch t {
	case pixi.UnsignedByte:
		return gl.UNSIGNED_BYTE
	default:
		return gl.FLOAT
	}
}

// blendFunc maps a blend mode to source and destination factors. Colors
// are alpha-premultiplied throughout the pipeline.
func blendFunc(m pixi.BlendMode) (src, dst uint32) {
	switch m {
	case pixi.BlendAdd:
		return gl.ONE, gl.ONE
	case pixi.BlendMultiply:
		return gl.DST_COLOR, gl.ONE_MINUS_SRC_ALPHA
	case pixi.BlendScreen:
		return gl.ONE, gl.ONE_MINUS_SRC_COLOR
	default:
		return gl.ONE, gl.ONE_MINUS_SRC_ALPHA
	}
}
