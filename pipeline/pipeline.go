package pipeline

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/kbukum/textforge/errors"
	"github.com/kbukum/textforge/logger"
	"github.com/kbukum/textforge/stage"
	"github.com/kbukum/textforge/value"
)

// DefaultName is used when no name is configured.
const DefaultName = "pipeline"

// Pipeline runs a value through its stages in registration order.
type Pipeline struct {
	name   string
	log    *logger.Logger
	mws    []stage.Middleware
	stages []stage.Stage
	frozen atomic.Bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithName sets the pipeline name used in logs and diagnostics.
func WithName(name string) Option {
	return func(p *Pipeline) {
		if name != "" {
			p.name = name
		}
	}
}

// WithLogger sets the logger. Without it the pipeline logs through
// logger.Get("pipeline").
func WithLogger(log *logger.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// WithMiddleware decorates every stage added afterwards. The first
// middleware is the outermost.
func WithMiddleware(mws ...stage.Middleware) Option {
	return func(p *Pipeline) {
		p.mws = append(p.mws, mws...)
	}
}

// New creates an empty pipeline in its build phase.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{name: DefaultName}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Get("pipeline")
	} else {
		p.log = p.log.WithComponent("pipeline")
	}
	p.log = p.log.WithFields(logger.Fields(logger.FieldPipeline, p.name))
	return p
}

// AddStage appends s. It is not safe for concurrent use and fails once the
// pipeline is frozen.
func (p *Pipeline) AddStage(s stage.Stage) error {
	if s == nil {
		return errors.InvalidConfig("stage", "stage must not be nil")
	}
	if p.frozen.Load() {
		return errors.Frozen().WithDetail("stage", s.Name())
	}
	p.stages = append(p.stages, stage.Apply(s, p.mws...))
	return nil
}

// Freeze ends the build phase. It is idempotent.
func (p *Pipeline) Freeze() {
	if p == nil {
		return
	}
	if p.frozen.CompareAndSwap(false, true) {
		p.log.Debug("pipeline frozen", logger.Fields(logger.FieldCount, len(p.stages)))
	}
}

// Frozen reports whether the build phase has ended.
func (p *Pipeline) Frozen() bool { return p != nil && p.frozen.Load() }

// Process runs in through every stage and returns the last stage's output.
// The first failing stage stops the run; its error carries the stage index.
// A nil pipeline behaves like an empty one.
func (p *Pipeline) Process(ctx context.Context, in value.Value) (value.Value, error) {
	p.Freeze()
	if p.Len() == 0 {
		return value.Value{}, errors.EmptyPipeline()
	}

	v := in
	for i, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return value.Value{}, stageError(errors.Canceled(err), i, s)
		}
		out, err := s.Process(ctx, v)
		if err != nil {
			return value.Value{}, stageError(err, i, s)
		}
		v = out
	}
	return v, nil
}

// stageError copies the failure into a new AppError annotated with the
// failing position. Stage errors may be shared values, so they are not
// modified in place.
func stageError(err error, index int, s stage.Stage) *errors.AppError {
	src := errors.Wrap(err)
	out := *src
	out.Details = make(map[string]any, len(src.Details)+2)
	for k, v := range src.Details {
		out.Details[k] = v
	}
	out.Details[logger.FieldStageIndex] = index
	out.Details["pipeline_stage"] = s.Name()
	return &out
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string {
	if p == nil {
		return DefaultName
	}
	return p.name
}

// Len returns the number of stages. A nil pipeline has none.
func (p *Pipeline) Len() int {
	if p == nil {
		return 0
	}
	return len(p.stages)
}

// Stages returns the stage names in order.
func (p *Pipeline) Stages() []string {
	if p == nil {
		return nil
	}
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// String renders the pipeline as "name: a -> b -> c".
func (p *Pipeline) String() string {
	return p.name + ": " + strings.Join(p.Stages(), " -> ")
}
