package stage

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/kbukum/textforge/errors"
)

// Params carries the free-form parameters of a stage spec.
type Params map[string]any

// String returns the string parameter key.
func (p Params) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case fmt.Stringer:
		return s.String(), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}

// RequireString returns the non-empty string parameter key or an
// INVALID_INPUT configuration error.
func (p Params) RequireString(key string) (string, error) {
	s, ok := p.String(key)
	if !ok || s == "" {
		return "", errors.InvalidConfig(key, fmt.Sprintf("parameter %q is required", key))
	}
	return s, nil
}

// Bool returns the boolean parameter key, def when absent. String values
// such as "true" (from environment overrides) are parsed.
func (p Params) Bool(key string, def bool) (bool, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return def, nil
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return def, errors.InvalidConfig(key, fmt.Sprintf("parameter %q must be a boolean (got %q)", key, b))
		}
		return parsed, nil
	default:
		return def, errors.InvalidConfig(key, fmt.Sprintf("parameter %q must be a boolean (got %T)", key, v))
	}
}

// Spec describes one stage coming from configuration.
type Spec struct {
	// Kind selects the registered factory.
	Kind string `yaml:"kind" mapstructure:"kind" validate:"required"`
	// Name optionally renames the built stage.
	Name string `yaml:"name,omitempty" mapstructure:"name"`
	// Params are passed to the factory.
	Params Params `yaml:"params,omitempty" mapstructure:"params"`
}

// Factory builds a stage from parameters. It runs once per pipeline build
// and may fail, e.g. when a dictionary file cannot be read.
type Factory func(params Params) (Stage, error)

// Registry maps stage kinds to factories. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds or replaces the factory for kind.
func (r *Registry) Register(kind string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[kind] = factory
}

// Has reports whether kind is registered.
func (r *Registry) Has(kind string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[kind]
	return ok
}

// Build instantiates the stage described by spec.
func (r *Registry) Build(spec Spec) (Stage, error) {
	r.mu.RLock()
	factory, ok := r.factories[spec.Kind]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.UnknownStageKind(spec.Kind)
	}

	params := spec.Params
	if params == nil {
		params = Params{}
	}
	s, err := factory(params)
	if err != nil {
		return nil, errors.Wrap(err).WithDetail("kind", spec.Kind)
	}
	if s == nil {
		return nil, errors.Unknown(fmt.Sprintf("factory for stage kind %q returned no stage", spec.Kind))
	}
	return Named(spec.Name, s), nil
}

// Kinds returns sorted names of all registered kinds.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
