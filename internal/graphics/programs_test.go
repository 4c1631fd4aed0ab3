package graphics_test

import (
	"errors"
	"os"
	"testing"

	"volray/internal/graphics"
	"volray/internal/graphics/graphicstest"

	"go.uber.org/zap"
)

func newRaycastSources(t *testing.T) graphics.ProgramSource {
	t.Helper()
	dir := t.TempDir()
	return graphics.ProgramSource{
		Vertex:   writeSource(t, dir, "raycast.vert", validVert),
		Fragment: writeSource(t, dir, "raycast.frag", validFrag),
	}
}

func TestProgramsReloadTwice(t *testing.T) {
	dev := graphicstest.NewDevice()
	progs := graphics.NewPrograms(dev, zap.NewNop())
	progs.Register("raycast", newRaycastSources(t))

	if err := progs.Reload(); err != nil {
		t.Fatalf("first load: %v", err)
	}
	first := progs.Get("raycast")
	if first == nil {
		t.Fatal("expected program after first load")
	}

	for i := 0; i < 2; i++ {
		if err := progs.Reload(); err != nil {
			t.Fatalf("reload %d: %v", i+1, err)
		}
	}

	p := progs.Get("raycast")
	if p == nil {
		t.Fatal("expected program after reload")
	}
	if p.ID() == first.ID() {
		t.Error("reload should build a new program")
	}
	if dev.LivePrograms() != 1 {
		t.Errorf("old programs should be deleted, %d live", dev.LivePrograms())
	}
	if dev.LiveShaders() != 0 {
		t.Errorf("stages should be released, %d live", dev.LiveShaders())
	}

	// Same behaviour as the first build: uniforms resolve identically
	p.Use()
	p.SetFloat("windowSize", 1)
	p.SetInt("notDeclared", 3)
	if _, ok := dev.Uniforms[p.ID()]["windowSize"]; !ok {
		t.Error("declared uniform should be writable after reload")
	}
	if _, ok := dev.Uniforms[p.ID()]["notDeclared"]; ok {
		t.Error("undeclared uniform should stay a no-op after reload")
	}
}

func TestProgramsReloadFailureKeepsLastGood(t *testing.T) {
	dev := graphicstest.NewDevice()
	progs := graphics.NewPrograms(dev, zap.NewNop())
	src := newRaycastSources(t)
	progs.Register("raycast", src)

	if err := progs.Reload(); err != nil {
		t.Fatal(err)
	}
	good := progs.Get("raycast")

	if err := os.WriteFile(src.Fragment, []byte(brokenShader), 0644); err != nil {
		t.Fatal(err)
	}

	err := progs.Reload()
	var compileErr *graphics.CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("expected *CompileError, got %T: %v", err, err)
	}
	if progs.Get("raycast") != good {
		t.Error("failed reload should keep the last good program")
	}
	if dev.LivePrograms() != 1 || dev.LiveShaders() != 0 {
		t.Errorf("unexpected live objects: %d programs, %d shaders", dev.LivePrograms(), dev.LiveShaders())
	}
}

func TestProgramsMissingProgramStaysAbsent(t *testing.T) {
	dev := graphicstest.NewDevice()
	progs := graphics.NewPrograms(dev, zap.NewNop())
	progs.Register("raycast", newRaycastSources(t))
	progs.Register("posMap", graphics.ProgramSource{Vertex: "nope.vert", Fragment: "nope.frag"})

	err := progs.Reload()
	var srcErr *graphics.SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected *SourceError, got %T: %v", err, err)
	}
	if progs.Get("posMap") != nil {
		t.Error("program that never built must be absent")
	}
	if progs.Get("raycast") == nil {
		t.Error("one failure must not prevent other programs from building")
	}

	progs.Delete()
	if dev.Live() != 0 {
		t.Errorf("Delete should release every program, %d live", dev.Live())
	}
	if progs.Get("raycast") != nil {
		t.Error("Get after Delete should return nil")
	}
}
