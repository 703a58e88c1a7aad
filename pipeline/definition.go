package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/textforge/errors"
	"github.com/kbukum/textforge/logger"
	"github.com/kbukum/textforge/stage"
)

// Definition describes a pipeline in configuration.
type Definition struct {
	Name   string       `yaml:"name" mapstructure:"name"`
	Stages []stage.Spec `yaml:"stages" mapstructure:"stages" validate:"dive"`
}

// Build constructs every stage described by specs and returns a frozen
// pipeline. The first construction error is returned.
func Build(reg *stage.Registry, specs []stage.Spec, opts ...Option) (*Pipeline, error) {
	p := New(opts...)
	for i, spec := range specs {
		s, err := reg.Build(spec)
		if err != nil {
			return nil, errors.Wrap(err).WithDetail(logger.FieldStageIndex, i)
		}
		if err := p.AddStage(s); err != nil {
			return nil, err
		}
	}
	p.Freeze()
	return p, nil
}

// FromDefinition builds the pipeline described by def. The definition name
// is applied before opts, so WithName still overrides it.
func FromDefinition(reg *stage.Registry, def Definition, opts ...Option) (*Pipeline, error) {
	return Build(reg, def.Stages, append([]Option{WithName(def.Name)}, opts...)...)
}

// LoadDefinition reads a YAML pipeline definition from path.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IO(fmt.Sprintf("failed to read pipeline definition %s", path)).
			WithCause(err).
			WithDetail("path", path)
	}
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, errors.InvalidConfig("pipeline", fmt.Sprintf("parsing %s: %v", path, err)).WithCause(err)
	}
	return &def, nil
}

// FileLoader finds pipeline definitions by name in a set of directories.
type FileLoader struct {
	dirs []string
}

// NewFileLoader creates a loader searching dirs in order.
func NewFileLoader(dirs ...string) *FileLoader {
	return &FileLoader{dirs: dirs}
}

// Load returns the definition stored as {name}.yaml or {name}.yml in the
// first directory holding one. A definition without a name takes name.
func (l *FileLoader) Load(name string) (*Definition, error) {
	for _, dir := range l.dirs {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, name+ext)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			def, err := LoadDefinition(path)
			if err != nil {
				return nil, err
			}
			if def.Name == "" {
				def.Name = name
			}
			return def, nil
		}
	}
	return nil, errors.IO(fmt.Sprintf("pipeline definition %q not found in %v", name, l.dirs)).
		WithDetail("name", name)
}
