// Package graphicstest provides an in-memory graphics.Device that tracks live
// GPU objects and records the calls that change pipeline state.
package graphicstest

import (
	"fmt"
	"regexp"
	"strings"
	"unsafe"

	"volray/internal/graphics"
)

var uniformDecl = regexp.MustCompile(`(?m)^\s*uniform\s+\w+\s+(\w+)\s*(?:\[[^\]]*\])?\s*;`)

type shader struct {
	stage  graphics.Stage
	source string
}

type program struct {
	shaders  []uint32
	uniforms map[string]int32
	names    map[int32]string
}

// Device is a fake GPU. A shader fails to compile when its source contains an
// #error directive, and a program fails to link when LinkFails is set.
// Uniform locations follow the "uniform <type> <name>;" declarations of the
// attached sources; other names resolve to -1.
type Device struct {
	LinkFails bool

	// Calls lists state-changing calls in order, e.g. "cull front", "fbo 3",
	// "use 2", "draw 0 36".
	Calls []string

	// Uniforms holds the last value written per program and uniform name.
	Uniforms map[uint32]map[string]any

	// Created counts every object ever created, by kind.
	Created map[string]int

	ViewportSize [2]int

	next       uint32
	shaders    map[uint32]shader
	programs   map[uint32]*program
	buffers    map[uint32]bool
	vaos       map[uint32]bool
	textures   map[uint32][3]int
	fbos       map[uint32]bool
	current    uint32
	compileLog []string
}

func NewDevice() *Device {
	return &Device{
		Uniforms: make(map[uint32]map[string]any),
		Created:  make(map[string]int),
		shaders:  make(map[uint32]shader),
		programs: make(map[uint32]*program),
		buffers:  make(map[uint32]bool),
		vaos:     make(map[uint32]bool),
		textures: make(map[uint32][3]int),
		fbos:     make(map[uint32]bool),
	}
}

func (d *Device) id(kind string) uint32 {
	d.next++
	d.Created[kind]++
	return d.next
}

// Live returns the number of GPU objects that have been created and not deleted.
func (d *Device) Live() int {
	return len(d.shaders) + len(d.programs) + len(d.buffers) + len(d.vaos) + len(d.textures) + len(d.fbos)
}

// LiveShaders returns the number of shader objects not yet deleted.
func (d *Device) LiveShaders() int { return len(d.shaders) }

// LivePrograms returns the number of program objects not yet deleted.
func (d *Device) LivePrograms() int { return len(d.programs) }

// TextureSize returns the dimensions of a live texture.
func (d *Device) TextureSize(texture uint32) ([3]int, bool) {
	s, ok := d.textures[texture]
	return s, ok
}

// Compiled lists the stages passed to CompileShader, in order.
func (d *Device) Compiled() []string { return d.compileLog }

// ResetCalls clears the recorded call list.
func (d *Device) ResetCalls() { d.Calls = nil }

func (d *Device) record(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *Device) CreateShader(stage graphics.Stage) uint32 {
	id := d.id("shader")
	d.shaders[id] = shader{stage: stage}
	return id
}

func (d *Device) CompileShader(id uint32, source string) (bool, string) {
	s, ok := d.shaders[id]
	if !ok {
		return false, "invalid shader object"
	}
	s.source = source
	d.shaders[id] = s
	d.compileLog = append(d.compileLog, s.stage.String())

	if strings.Contains(source, "#error") {
		return false, "0:1(1): error: #error directive encountered\x00"
	}
	return true, ""
}

func (d *Device) DeleteShader(id uint32) {
	delete(d.shaders, id)
}

func (d *Device) CreateProgram() uint32 {
	id := d.id("program")
	d.programs[id] = &program{}
	return id
}

func (d *Device) AttachShader(prog, sh uint32) {
	if p, ok := d.programs[prog]; ok {
		p.shaders = append(p.shaders, sh)
	}
}

func (d *Device) LinkProgram(id uint32) (bool, string) {
	p, ok := d.programs[id]
	if !ok {
		return false, "invalid program object"
	}
	if d.LinkFails {
		return false, "error: linking failed\x00"
	}

	p.uniforms = make(map[string]int32)
	p.names = make(map[int32]string)
	for _, sh := range p.shaders {
		for _, m := range uniformDecl.FindAllStringSubmatch(d.shaders[sh].source, -1) {
			if _, seen := p.uniforms[m[1]]; !seen {
				loc := int32(len(p.uniforms))
				p.uniforms[m[1]] = loc
				p.names[loc] = m[1]
			}
		}
	}
	return true, ""
}

func (d *Device) DeleteProgram(id uint32) {
	delete(d.programs, id)
	delete(d.Uniforms, id)
}

func (d *Device) UseProgram(id uint32) {
	d.current = id
	d.record("use %d", id)
}

func (d *Device) UniformLocation(prog uint32, name string) int32 {
	p, ok := d.programs[prog]
	if !ok || p.uniforms == nil {
		return -1
	}
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}

func (d *Device) write(location int32, v any) {
	if location < 0 {
		return
	}
	p, ok := d.programs[d.current]
	if !ok {
		return
	}
	name, ok := p.names[location]
	if !ok {
		return
	}
	if d.Uniforms[d.current] == nil {
		d.Uniforms[d.current] = make(map[string]any)
	}
	d.Uniforms[d.current][name] = v
}

func (d *Device) Uniform1i(location int32, v int32)         { d.write(location, v) }
func (d *Device) Uniform1f(location int32, v float32)       { d.write(location, v) }
func (d *Device) Uniform2f(location int32, x, y float32)    { d.write(location, [2]float32{x, y}) }
func (d *Device) Uniform3f(location int32, x, y, z float32) { d.write(location, [3]float32{x, y, z}) }
func (d *Device) Uniform4f(location int32, x, y, z, w float32) {
	d.write(location, [4]float32{x, y, z, w})
}

func (d *Device) UniformMatrix2fv(location int32, m *float32) {
	d.write(location, copyFloats(m, 4))
}

func (d *Device) UniformMatrix3fv(location int32, m *float32) {
	d.write(location, copyFloats(m, 9))
}

func (d *Device) UniformMatrix4fv(location int32, m *float32) {
	d.write(location, copyFloats(m, 16))
}

func copyFloats(p *float32, n int) []float32 {
	if p == nil {
		return nil
	}
	out := make([]float32, n)
	copy(out, unsafe.Slice(p, n))
	return out
}

func (d *Device) CreateVertexArray(vertices []float32, stride int, layout []graphics.Attribute) (uint32, uint32) {
	vao := d.id("vao")
	d.vaos[vao] = true
	vbo := d.id("buffer")
	d.buffers[vbo] = true
	return vao, vbo
}

func (d *Device) DeleteVertexArray(vao, vbo uint32) {
	delete(d.vaos, vao)
	delete(d.buffers, vbo)
}

func (d *Device) BindVertexArray(vao uint32) {
	d.record("vao %d", vao)
}

func (d *Device) DrawTriangles(first, count int32) {
	d.record("draw %d %d", first, count)
}

func (d *Device) CreateTexture2D(width, height int, rgba []uint8) uint32 {
	id := d.id("texture")
	d.textures[id] = [3]int{width, height, 1}
	return id
}

func (d *Device) CreateTexture3D(width, height, depth int, voxels []uint8) uint32 {
	id := d.id("texture")
	d.textures[id] = [3]int{width, height, depth}
	return id
}

func (d *Device) DeleteTexture(id uint32) {
	delete(d.textures, id)
}

func (d *Device) BindTexture(unit uint32, target graphics.TextureTarget, texture uint32) {
	kind := "2d"
	if target == graphics.Texture3D {
		kind = "3d"
	}
	d.record("texture %d %s %d", unit, kind, texture)
}

func (d *Device) CreateColorTarget(width, height int) (uint32, uint32, error) {
	fbo := d.id("framebuffer")
	d.fbos[fbo] = true
	tex := d.id("texture")
	d.textures[tex] = [3]int{width, height, 1}
	return fbo, tex, nil
}

func (d *Device) ResizeColorTarget(texture uint32, width, height int) {
	if _, ok := d.textures[texture]; ok {
		d.textures[texture] = [3]int{width, height, 1}
	}
}

func (d *Device) DeleteFramebuffer(fbo uint32) {
	delete(d.fbos, fbo)
}

func (d *Device) BindFramebuffer(fbo uint32) {
	d.record("fbo %d", fbo)
}

func (d *Device) Viewport(width, height int) {
	d.ViewportSize = [2]int{width, height}
	d.record("viewport %dx%d", width, height)
}

func (d *Device) SetCulling(face graphics.Face) {
	d.record("cull %s", face)
}

func (d *Device) SetDepthTest(enabled bool) {
	d.record("depth %t", enabled)
}

func (d *Device) ClearColor(r, g, b float32) {}

func (d *Device) Clear() {
	d.record("clear")
}

var _ graphics.Device = (*Device)(nil)
