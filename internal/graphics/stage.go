package graphics

import "github.com/go-gl/gl/v3.3-core/gl"

// Stage is a programmable pipeline stage together with the GL enum used to
// create its shader object.
type Stage struct {
	kind uint32
	name string
}

var (
	StageVertex   = Stage{kind: gl.VERTEX_SHADER, name: "VERTEX"}
	StageFragment = Stage{kind: gl.FRAGMENT_SHADER, name: "FRAGMENT"}
	StageGeometry = Stage{kind: gl.GEOMETRY_SHADER, name: "GEOMETRY"}
)

// Kind returns the GL shader type constant.
func (s Stage) Kind() uint32 { return s.kind }

func (s Stage) String() string { return s.name }
