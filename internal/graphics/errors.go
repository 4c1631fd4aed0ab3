package graphics

import (
	"fmt"
	"strings"
)

// SourceError reports a shader source file that could not be read.
type SourceError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("could not read %s shader file %s: %v", e.Stage, e.Path, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// CompileError carries the driver log of a stage that failed to compile.
type CompileError struct {
	Stage Stage
	Path  string
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader %s: %s", e.Stage, e.Path, strings.TrimRight(e.Log, "\x00\n "))
}

// LinkError carries the driver log of a program that failed to link.
type LinkError struct {
	Paths []string
	Log   string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program [%s]: %s", strings.Join(e.Paths, ", "), strings.TrimRight(e.Log, "\x00\n "))
}

// ResourceError reports a volume or texture that could not be loaded.
type ResourceError struct {
	Kind string // "volume", "texture"
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("could not load %s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }
