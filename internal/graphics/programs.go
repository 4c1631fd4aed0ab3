package graphics

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Programs is the single owner of the named shader programs. Callers look
// programs up by name every frame instead of holding on to them, so a reload
// never leaves a caller with a deleted program.
type Programs struct {
	dev      Device
	log      *zap.Logger
	names    []string
	sources  map[string]ProgramSource
	programs map[string]*Program
}

func NewPrograms(dev Device, log *zap.Logger) *Programs {
	return &Programs{
		dev:      dev,
		log:      log,
		sources:  make(map[string]ProgramSource),
		programs: make(map[string]*Program),
	}
}

// Register records the sources of a program. It is built by the next Reload.
func (p *Programs) Register(name string, src ProgramSource) {
	if _, ok := p.sources[name]; !ok {
		p.names = append(p.names, name)
	}
	p.sources[name] = src
}

// Get returns the program registered under name, or nil if it never built.
func (p *Programs) Get(name string) *Program {
	return p.programs[name]
}

// Reload rebuilds every registered program from source. A program that
// rebuilds replaces (and deletes) the previous one; one that fails keeps the
// last good build, if any. The returned error joins every failure.
func (p *Programs) Reload() error {
	var errs []error
	for _, name := range p.names {
		src := p.sources[name]
		prog, err := NewProgram(p.dev, src)
		if err != nil {
			_, kept := p.programs[name]
			p.log.Error("shader program failed to build",
				zap.String("program", name),
				zap.Strings("sources", src.Paths()),
				zap.Bool("kept_previous", kept),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("program %s: %w", name, err))
			continue
		}

		if old := p.programs[name]; old != nil {
			old.Delete()
		}
		p.programs[name] = prog
		p.log.Debug("shader program built",
			zap.String("program", name),
			zap.Uint32("id", prog.ID()))
	}
	return errors.Join(errs...)
}

// Delete releases every program.
func (p *Programs) Delete() {
	for name, prog := range p.programs {
		prog.Delete()
		delete(p.programs, name)
	}
}
