package graphics

// Face selects which triangle faces are culled.
type Face int

const (
	CullNone Face = iota
	CullFront
	CullBack
)

func (f Face) String() string {
	switch f {
	case CullFront:
		return "front"
	case CullBack:
		return "back"
	default:
		return "none"
	}
}

// TextureTarget is the binding point a texture is sampled through.
type TextureTarget int

const (
	Texture2D TextureTarget = iota
	Texture3D
)

// Attribute describes one float vertex attribute inside an interleaved buffer.
type Attribute struct {
	Index  uint32
	Size   int32 // components
	Offset int   // in floats
}

// Device is the set of GPU calls the renderer issues. GLDevice forwards them to
// the current OpenGL context; every call must happen on the thread owning it.
type Device interface {
	// Shaders and programs
	CreateShader(stage Stage) uint32
	CompileShader(shader uint32, source string) (ok bool, log string)
	DeleteShader(shader uint32)
	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32) (ok bool, log string)
	DeleteProgram(program uint32)
	UseProgram(program uint32)

	// Uniforms write to the program in use. Location -1 is ignored.
	UniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, x, y float32)
	Uniform3f(location int32, x, y, z float32)
	Uniform4f(location int32, x, y, z, w float32)
	UniformMatrix2fv(location int32, m *float32)
	UniformMatrix3fv(location int32, m *float32)
	UniformMatrix4fv(location int32, m *float32)

	// Geometry
	CreateVertexArray(vertices []float32, stride int, layout []Attribute) (vao, vbo uint32)
	DeleteVertexArray(vao, vbo uint32)
	BindVertexArray(vao uint32)
	DrawTriangles(first, count int32)

	// Textures
	CreateTexture2D(width, height int, rgba []uint8) uint32
	CreateTexture3D(width, height, depth int, voxels []uint8) uint32
	DeleteTexture(texture uint32)
	BindTexture(unit uint32, target TextureTarget, texture uint32)

	// Off-screen targets
	CreateColorTarget(width, height int) (fbo, texture uint32, err error)
	ResizeColorTarget(texture uint32, width, height int)
	DeleteFramebuffer(fbo uint32)
	BindFramebuffer(fbo uint32)

	// Fixed-function state
	Viewport(width, height int)
	SetCulling(face Face)
	SetDepthTest(enabled bool)
	ClearColor(r, g, b float32)
	Clear()
}
