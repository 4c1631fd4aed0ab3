package graphics_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"volray/internal/graphics"
	"volray/internal/graphics/graphicstest"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	validVert = `#version 330 core
layout (location = 0) in vec3 vertexPosition;
uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;
void main() {
	gl_Position = projection * view * model * vec4(vertexPosition, 1.0);
}
`
	validFrag = `#version 330 core
uniform vec2 windowSize;
out vec4 fragColor;
void main() {
	fragColor = vec4(gl_FragCoord.xy / windowSize, 0.0, 1.0);
}
`
	validGeom = `#version 330 core
layout (triangles) in;
layout (triangle_strip, max_vertices = 3) out;
void main() {
	for (int i = 0; i < 3; i++) {
		gl_Position = gl_in[i].gl_Position;
		EmitVertex();
	}
	EndPrimitive();
}
`
	brokenShader = `#version 330 core
#error this stage does not compile
void main() {}
`
)

func writeSource(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewProgramValidPair(t *testing.T) {
	dir := t.TempDir()
	dev := graphicstest.NewDevice()
	src := graphics.ProgramSource{
		Vertex:   writeSource(t, dir, "a.vert", validVert),
		Fragment: writeSource(t, dir, "a.frag", validFrag),
	}

	prog, err := graphics.NewProgram(dev, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prog.ID() == 0 {
		t.Fatal("expected non-zero program id")
	}
	if dev.LiveShaders() != 0 {
		t.Errorf("stage objects should be released after linking, %d live", dev.LiveShaders())
	}
	if dev.LivePrograms() != 1 {
		t.Errorf("expected exactly one live program, got %d", dev.LivePrograms())
	}

	prog.Use()
	prog.SetVec2("windowSize", mgl32.Vec2{800, 600})
	prog.SetMat4("model", mgl32.Ident4())

	got := dev.Uniforms[prog.ID()]
	if got["windowSize"] != [2]float32{800, 600} {
		t.Errorf("windowSize: got %v", got["windowSize"])
	}
	ident := mgl32.Ident4()
	if !reflect.DeepEqual(got["model"], ident[:]) {
		t.Errorf("model: got %v", got["model"])
	}

	prog.Delete()
	if dev.Live() != 0 {
		t.Errorf("expected no live objects after Delete, got %d", dev.Live())
	}
}

func TestNewProgramWithGeometryStage(t *testing.T) {
	dir := t.TempDir()
	dev := graphicstest.NewDevice()
	src := graphics.ProgramSource{
		Vertex:   writeSource(t, dir, "a.vert", validVert),
		Fragment: writeSource(t, dir, "a.frag", validFrag),
		Geometry: writeSource(t, dir, "a.geom", validGeom),
	}

	if _, err := graphics.NewProgram(dev, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"VERTEX", "FRAGMENT", "GEOMETRY"}
	if !reflect.DeepEqual(dev.Compiled(), want) {
		t.Errorf("compile order: got %v, want %v", dev.Compiled(), want)
	}
	if dev.LiveShaders() != 0 {
		t.Errorf("expected stages released, %d live", dev.LiveShaders())
	}
}

func TestNewProgramUnknownUniformIsNoop(t *testing.T) {
	dir := t.TempDir()
	dev := graphicstest.NewDevice()
	prog, err := graphics.NewProgram(dev, graphics.ProgramSource{
		Vertex:   writeSource(t, dir, "a.vert", validVert),
		Fragment: writeSource(t, dir, "a.frag", validFrag),
	})
	if err != nil {
		t.Fatal(err)
	}

	prog.Use()
	prog.SetFloat("doesNotExist", 1)
	prog.SetBool("alsoMissing", true)
	prog.SetVec3("nope", mgl32.Vec3{1, 2, 3})

	if n := len(dev.Uniforms[prog.ID()]); n != 0 {
		t.Errorf("expected no uniform writes, got %d: %v", n, dev.Uniforms[prog.ID()])
	}
}

func TestNewProgramMissingFileCreatesNothing(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name  string
		src   graphics.ProgramSource
		stage graphics.Stage
	}{
		{
			name: "vertex",
			src: graphics.ProgramSource{
				Vertex:   filepath.Join(dir, "missing.vert"),
				Fragment: writeSource(t, dir, "ok.frag", validFrag),
			},
			stage: graphics.StageVertex,
		},
		{
			name: "fragment",
			src: graphics.ProgramSource{
				Vertex:   writeSource(t, dir, "ok.vert", validVert),
				Fragment: filepath.Join(dir, "missing.frag"),
			},
			stage: graphics.StageFragment,
		},
		{
			name: "geometry",
			src: graphics.ProgramSource{
				Vertex:   writeSource(t, dir, "ok2.vert", validVert),
				Fragment: writeSource(t, dir, "ok2.frag", validFrag),
				Geometry: filepath.Join(dir, "missing.geom"),
			},
			stage: graphics.StageGeometry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := graphicstest.NewDevice()
			prog, err := graphics.NewProgram(dev, tt.src)
			if prog != nil {
				t.Fatal("expected nil program")
			}

			var srcErr *graphics.SourceError
			if !errors.As(err, &srcErr) {
				t.Fatalf("expected *SourceError, got %T: %v", err, err)
			}
			if srcErr.Stage != tt.stage {
				t.Errorf("stage: got %v, want %v", srcErr.Stage, tt.stage)
			}
			if !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("expected wrapped fs.ErrNotExist, got %v", err)
			}
			if total := len(dev.Created); total != 0 {
				t.Errorf("no GPU object should be created, got %v", dev.Created)
			}
		})
	}
}

func TestNewProgramCompileFailureReleasesStages(t *testing.T) {
	dir := t.TempDir()
	vert := writeSource(t, dir, "ok.vert", validVert)
	frag := writeSource(t, dir, "ok.frag", validFrag)
	geom := writeSource(t, dir, "ok.geom", validGeom)
	bad := writeSource(t, dir, "bad.glsl", brokenShader)

	tests := []struct {
		name     string
		src      graphics.ProgramSource
		stage    graphics.Stage
		compiled []string
	}{
		{
			name:     "vertex stops before fragment",
			src:      graphics.ProgramSource{Vertex: bad, Fragment: frag},
			stage:    graphics.StageVertex,
			compiled: []string{"VERTEX"},
		},
		{
			name:     "fragment releases vertex",
			src:      graphics.ProgramSource{Vertex: vert, Fragment: bad},
			stage:    graphics.StageFragment,
			compiled: []string{"VERTEX", "FRAGMENT"},
		},
		{
			name:     "geometry releases vertex and fragment",
			src:      graphics.ProgramSource{Vertex: vert, Fragment: frag, Geometry: bad},
			stage:    graphics.StageGeometry,
			compiled: []string{"VERTEX", "FRAGMENT", "GEOMETRY"},
		},
		{
			name:     "vertex failure skips geometry",
			src:      graphics.ProgramSource{Vertex: bad, Fragment: frag, Geometry: geom},
			stage:    graphics.StageVertex,
			compiled: []string{"VERTEX"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := graphicstest.NewDevice()
			baseline := dev.Live()

			_, err := graphics.NewProgram(dev, tt.src)
			var compileErr *graphics.CompileError
			if !errors.As(err, &compileErr) {
				t.Fatalf("expected *CompileError, got %T: %v", err, err)
			}
			if compileErr.Stage != tt.stage {
				t.Errorf("stage: got %v, want %v", compileErr.Stage, tt.stage)
			}
			if compileErr.Path != bad {
				t.Errorf("path: got %q, want %q", compileErr.Path, bad)
			}
			if compileErr.Log == "" {
				t.Error("expected driver log in error")
			}
			if !reflect.DeepEqual(dev.Compiled(), tt.compiled) {
				t.Errorf("compiled stages: got %v, want %v", dev.Compiled(), tt.compiled)
			}
			if dev.Live() != baseline {
				t.Errorf("leaked GPU objects: %d live, baseline %d", dev.Live(), baseline)
			}
			if dev.Created["program"] != 0 {
				t.Error("no program should be created when a stage fails")
			}
		})
	}
}

func TestNewProgramLinkFailureReleasesEverything(t *testing.T) {
	dir := t.TempDir()
	dev := graphicstest.NewDevice()
	dev.LinkFails = true

	_, err := graphics.NewProgram(dev, graphics.ProgramSource{
		Vertex:   writeSource(t, dir, "a.vert", validVert),
		Fragment: writeSource(t, dir, "a.frag", validFrag),
	})

	var linkErr *graphics.LinkError
	if !errors.As(err, &linkErr) {
		t.Fatalf("expected *LinkError, got %T: %v", err, err)
	}
	if linkErr.Log == "" {
		t.Error("expected driver log in error")
	}
	if len(linkErr.Paths) != 2 {
		t.Errorf("expected both paths in error, got %v", linkErr.Paths)
	}
	if dev.Live() != 0 {
		t.Errorf("leaked GPU objects: %d live", dev.Live())
	}
}
