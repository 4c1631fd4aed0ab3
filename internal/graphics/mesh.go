package graphics

// Mesh is static, non-indexed triangle geometry uploaded once.
type Mesh struct {
	dev    Device
	VAO    uint32
	VBO    uint32
	Count  int32 // vertices
	Layout []Attribute
}

// CubeVertices is a unit cube centred on the origin, 12 triangles with
// positions only. Front faces wind counter-clockwise seen from outside.
var CubeVertices = []float32{
	-0.5, -0.5, -0.5,
	-0.5, -0.5, 0.5,
	-0.5, 0.5, 0.5,
	0.5, 0.5, -0.5,
	-0.5, -0.5, -0.5,
	-0.5, 0.5, -0.5,
	0.5, -0.5, 0.5,
	-0.5, -0.5, -0.5,
	0.5, -0.5, -0.5,
	0.5, 0.5, -0.5,
	0.5, -0.5, -0.5,
	-0.5, -0.5, -0.5,
	-0.5, -0.5, -0.5,
	-0.5, 0.5, 0.5,
	-0.5, 0.5, -0.5,
	0.5, -0.5, 0.5,
	-0.5, -0.5, 0.5,
	-0.5, -0.5, -0.5,
	-0.5, 0.5, 0.5,
	-0.5, -0.5, 0.5,
	0.5, -0.5, 0.5,
	0.5, 0.5, 0.5,
	0.5, -0.5, -0.5,
	0.5, 0.5, -0.5,
	0.5, -0.5, -0.5,
	0.5, 0.5, 0.5,
	0.5, -0.5, 0.5,
	0.5, 0.5, 0.5,
	0.5, 0.5, -0.5,
	-0.5, 0.5, -0.5,
	0.5, 0.5, 0.5,
	-0.5, 0.5, -0.5,
	-0.5, 0.5, 0.5,
	0.5, 0.5, 0.5,
	-0.5, 0.5, 0.5,
	0.5, -0.5, 0.5,
}

// PlaneVertices is a full-screen quad in NDC: position.xyz, color.rgb.
var PlaneVertices = []float32{
	-1.0, -1.0, 0.0, 1.0, 0.0, 0.0, // bottom left
	1.0, -1.0, 0.0, 0.0, 1.0, 0.0, // bottom right
	-1.0, 1.0, 0.0, 0.0, 0.0, 1.0, // top left
	1.0, 1.0, 0.0, 0.0, 0.0, 1.0, // top right
	-1.0, 1.0, 0.0, 0.0, 0.0, 1.0, // top left
	1.0, -1.0, 0.0, 0.0, 1.0, 0.0, // bottom right
}

var (
	cubeLayout  = []Attribute{{Index: 0, Size: 3, Offset: 0}}
	planeLayout = []Attribute{
		{Index: 0, Size: 3, Offset: 0}, // position
		{Index: 1, Size: 3, Offset: 3}, // color
	}
)

// NewMesh uploads interleaved float vertices. stride is in floats.
func NewMesh(dev Device, vertices []float32, stride int, layout []Attribute) *Mesh {
	vao, vbo := dev.CreateVertexArray(vertices, stride, layout)
	return &Mesh{
		dev:    dev,
		VAO:    vao,
		VBO:    vbo,
		Count:  int32(len(vertices) / stride),
		Layout: layout,
	}
}

func NewCube(dev Device) *Mesh {
	return NewMesh(dev, CubeVertices, 3, cubeLayout)
}

func NewPlane(dev Device) *Mesh {
	return NewMesh(dev, PlaneVertices, 6, planeLayout)
}

// Draw binds the mesh, draws every vertex and unbinds it.
func (m *Mesh) Draw() {
	m.dev.BindVertexArray(m.VAO)
	m.dev.DrawTriangles(0, m.Count)
	m.dev.BindVertexArray(0)
}

func (m *Mesh) Delete() {
	if m.VAO != 0 || m.VBO != 0 {
		m.dev.DeleteVertexArray(m.VAO, m.VBO)
		m.VAO, m.VBO = 0, 0
	}
}
