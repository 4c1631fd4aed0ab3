package graphics

import (
	"os"

	"github.com/go-gl/mathgl/mgl32"
)

// ProgramSource names the stage source files of a program. Geometry is optional.
type ProgramSource struct {
	Vertex   string
	Fragment string
	Geometry string
}

// Paths lists the source files in stage order.
func (s ProgramSource) Paths() []string {
	paths := []string{s.Vertex, s.Fragment}
	if s.Geometry != "" {
		paths = append(paths, s.Geometry)
	}
	return paths
}

type stageSource struct {
	stage Stage
	path  string
	code  string
}

// Program is a linked GPU program. A *Program only exists once linking
// succeeded; the stage objects it was built from are already released.
type Program struct {
	dev    Device
	id     uint32
	source ProgramSource
}

// NewProgram reads, compiles and links the stages named by src.
//
// All files are read before the GPU is touched, so a missing file fails with a
// *SourceError and creates nothing. Stages compile in order vertex, fragment,
// geometry; the first failure returns a *CompileError after releasing the
// stages compiled so far. A link failure returns a *LinkError and releases the
// program and its stages.
func NewProgram(dev Device, src ProgramSource) (*Program, error) {
	stages, err := readStages(src)
	if err != nil {
		return nil, err
	}

	compiled := make([]uint32, 0, len(stages))
	release := func() {
		for _, id := range compiled {
			dev.DeleteShader(id)
		}
	}

	for _, s := range stages {
		id, err := compileStage(dev, s)
		if err != nil {
			release()
			return nil, err
		}
		compiled = append(compiled, id)
	}

	id, err := linkProgram(dev, compiled, src.Paths())
	release()
	if err != nil {
		return nil, err
	}

	return &Program{dev: dev, id: id, source: src}, nil
}

func readStages(src ProgramSource) ([]stageSource, error) {
	stages := []stageSource{
		{stage: StageVertex, path: src.Vertex},
		{stage: StageFragment, path: src.Fragment},
	}
	if src.Geometry != "" {
		stages = append(stages, stageSource{stage: StageGeometry, path: src.Geometry})
	}

	for i := range stages {
		code, err := os.ReadFile(stages[i].path)
		if err != nil {
			return nil, &SourceError{Stage: stages[i].stage, Path: stages[i].path, Err: err}
		}
		stages[i].code = string(code)
	}
	return stages, nil
}

func compileStage(dev Device, s stageSource) (uint32, error) {
	shader := dev.CreateShader(s.stage)
	ok, log := dev.CompileShader(shader, s.code)
	if !ok {
		dev.DeleteShader(shader)
		return 0, &CompileError{Stage: s.stage, Path: s.path, Log: log}
	}
	return shader, nil
}

// linkProgram links the compiled stages. The caller still owns the stage
// objects and releases them whatever the outcome.
func linkProgram(dev Device, shaders []uint32, paths []string) (uint32, error) {
	program := dev.CreateProgram()
	for _, s := range shaders {
		dev.AttachShader(program, s)
	}

	ok, log := dev.LinkProgram(program)
	if !ok {
		dev.DeleteProgram(program)
		return 0, &LinkError{Paths: paths, Log: log}
	}
	return program, nil
}

// ID returns the GPU program handle.
func (p *Program) ID() uint32 { return p.id }

// Source returns the files the program was built from.
func (p *Program) Source() ProgramSource { return p.source }

// Use activates the program
func (p *Program) Use() {
	p.dev.UseProgram(p.id)
}

// Delete releases the GPU program. The Program must not be used afterwards.
func (p *Program) Delete() {
	if p.id != 0 {
		p.dev.DeleteProgram(p.id)
		p.id = 0
	}
}

// Uniform setters resolve the location on every call and write to the program
// in use. Names the program does not declare resolve to -1 and are ignored.

func (p *Program) location(name string) int32 {
	return p.dev.UniformLocation(p.id, name)
}

// SetBool sets a boolean uniform
func (p *Program) SetBool(name string, value bool) {
	var v int32
	if value {
		v = 1
	}
	p.dev.Uniform1i(p.location(name), v)
}

// SetInt sets an integer uniform (also used for sampler units)
func (p *Program) SetInt(name string, value int32) {
	p.dev.Uniform1i(p.location(name), value)
}

func (p *Program) SetFloat(name string, value float32) {
	p.dev.Uniform1f(p.location(name), value)
}

func (p *Program) SetVec2(name string, v mgl32.Vec2) {
	p.dev.Uniform2f(p.location(name), v[0], v[1])
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	p.dev.Uniform3f(p.location(name), v[0], v[1], v[2])
}

func (p *Program) SetVec4(name string, v mgl32.Vec4) {
	p.dev.Uniform4f(p.location(name), v[0], v[1], v[2], v[3])
}

func (p *Program) SetMat2(name string, m mgl32.Mat2) {
	p.dev.UniformMatrix2fv(p.location(name), &m[0])
}

func (p *Program) SetMat3(name string, m mgl32.Mat3) {
	p.dev.UniformMatrix3fv(p.location(name), &m[0])
}

// SetMat4 sets a 4x4 column-major matrix uniform
func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	p.dev.UniformMatrix4fv(p.location(name), &m[0])
}
