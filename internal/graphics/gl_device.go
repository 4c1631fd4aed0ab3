package graphics

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// GLDevice issues calls on the current OpenGL 3.3 core context.
// gl.Init must have succeeded before any method is called.
type GLDevice struct{}

func NewGLDevice() *GLDevice {
	return &GLDevice{}
}

func (GLDevice) CreateShader(stage Stage) uint32 {
	return gl.CreateShader(stage.Kind())
}

func (GLDevice) CompileShader(shader uint32, source string) (bool, string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return false, log
	}
	return true, ""
}

func (GLDevice) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (GLDevice) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (GLDevice) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (GLDevice) LinkProgram(program uint32) (bool, string) {
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		return false, log
	}
	return true, ""
}

func (GLDevice) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (GLDevice) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (GLDevice) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (GLDevice) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (GLDevice) Uniform1f(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (GLDevice) Uniform2f(location int32, x, y float32) {
	gl.Uniform2f(location, x, y)
}

func (GLDevice) Uniform3f(location int32, x, y, z float32) {
	gl.Uniform3f(location, x, y, z)
}

func (GLDevice) Uniform4f(location int32, x, y, z, w float32) {
	gl.Uniform4f(location, x, y, z, w)
}

func (GLDevice) UniformMatrix2fv(location int32, m *float32) {
	gl.UniformMatrix2fv(location, 1, false, m)
}

func (GLDevice) UniformMatrix3fv(location int32, m *float32) {
	gl.UniformMatrix3fv(location, 1, false, m)
}

func (GLDevice) UniformMatrix4fv(location int32, m *float32) {
	gl.UniformMatrix4fv(location, 1, false, m)
}

func (GLDevice) CreateVertexArray(vertices []float32, stride int, layout []Attribute) (uint32, uint32) {
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	for _, a := range layout {
		gl.EnableVertexAttribArray(a.Index)
		gl.VertexAttribPointerWithOffset(a.Index, a.Size, gl.FLOAT, false, int32(stride*4), uintptr(a.Offset*4))
	}

	gl.BindVertexArray(0)
	return vao, vbo
}

func (GLDevice) DeleteVertexArray(vao, vbo uint32) {
	gl.DeleteVertexArrays(1, &vao)
	gl.DeleteBuffers(1, &vbo)
}

func (GLDevice) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (GLDevice) DrawTriangles(first, count int32) {
	gl.DrawArrays(gl.TRIANGLES, first, count)
}

func (GLDevice) CreateTexture2D(width, height int, rgba []uint8) uint32 {
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texture
}

func (GLDevice) CreateTexture3D(width, height, depth int, voxels []uint8) uint32 {
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_3D, texture)

	gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)

	// Rows of single bytes are not 4-byte aligned for arbitrary widths
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage3D(gl.TEXTURE_3D, 0, gl.R8, int32(width), int32(height), int32(depth), 0,
		gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(voxels))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)

	gl.BindTexture(gl.TEXTURE_3D, 0)
	return texture
}

func (GLDevice) DeleteTexture(texture uint32) {
	gl.DeleteTextures(1, &texture)
}

func (GLDevice) BindTexture(unit uint32, target TextureTarget, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	switch target {
	case Texture3D:
		gl.BindTexture(gl.TEXTURE_3D, texture)
	default:
		gl.BindTexture(gl.TEXTURE_2D, texture)
	}
}

func (GLDevice) CreateColorTarget(width, height int) (uint32, uint32, error) {
	var fbo, texture uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)

	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB16F, int32(width), int32(height), 0, gl.RGB, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	border := [4]float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])

	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, texture, 0)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteTextures(1, &texture)
		gl.DeleteFramebuffers(1, &fbo)
		return 0, 0, fmt.Errorf("framebuffer not complete: status 0x%x", status)
	}
	return fbo, texture, nil
}

func (GLDevice) ResizeColorTarget(texture uint32, width, height int) {
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB16F, int32(width), int32(height), 0, gl.RGB, gl.FLOAT, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (GLDevice) DeleteFramebuffer(fbo uint32) {
	gl.DeleteFramebuffers(1, &fbo)
}

func (GLDevice) BindFramebuffer(fbo uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
}

func (GLDevice) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (GLDevice) SetCulling(face Face) {
	switch face {
	case CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	case CullBack:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	default:
		gl.Disable(gl.CULL_FACE)
	}
}

func (GLDevice) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

func (GLDevice) ClearColor(r, g, b float32) {
	gl.ClearColor(r, g, b, 1.0)
}

func (GLDevice) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}
