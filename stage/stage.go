package stage

import (
	"context"
	"strings"

	"github.com/kbukum/textforge/errors"
	"github.com/kbukum/textforge/value"
)

// Stage is a unit of text processing.
type Stage interface {
	// Name returns a diagnostic name for logs and errors.
	Name() string
	// Process transforms in. It must not mutate in or the stage itself.
	Process(ctx context.Context, in value.Value) (value.Value, error)
}

// Func adapts a plain function to the Stage interface.
func Func(name string, fn func(ctx context.Context, in value.Value) (value.Value, error)) Stage {
	return &funcStage{name: name, fn: fn}
}

type funcStage struct {
	name string
	fn   func(ctx context.Context, in value.Value) (value.Value, error)
}

func (s *funcStage) Name() string { return s.name }

func (s *funcStage) Process(ctx context.Context, in value.Value) (value.Value, error) {
	return s.fn(ctx, in)
}

// Named returns s under a different diagnostic name. Errors raised by s
// keep the name s reports itself.
func Named(name string, s Stage) Stage {
	if name == "" || name == s.Name() {
		return s
	}
	return &namedStage{name: name, inner: s}
}

type namedStage struct {
	name  string
	inner Stage
}

func (s *namedStage) Name() string { return s.name }

func (s *namedStage) Process(ctx context.Context, in value.Value) (value.Value, error) {
	return s.inner.Process(ctx, in)
}

// Unwrap returns the renamed stage.
func (s *namedStage) Unwrap() Stage { return s.inner }

// Expect returns an INVALID_INPUT error naming the stage when v is not one
// of the accepted kinds.
func Expect(name string, v value.Value, kinds ...value.Kind) error {
	for _, k := range kinds {
		if v.Kind() == k {
			return nil
		}
	}
	return errors.InvalidInput(name, expected(kinds)).WithDetail("got", v.Kind().String())
}

func expected(kinds []value.Kind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, "|")
}
