package stage

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/textforge/errors"
	"github.com/kbukum/textforge/logger"
	"github.com/kbukum/textforge/observability"
	"github.com/kbukum/textforge/value"
)

// Middleware decorates a stage. Decorated stages keep the inner name.
type Middleware func(Stage) Stage

// Apply wraps s with mws so that mws[0] is the outermost decorator.
func Apply(s Stage, mws ...Middleware) Stage {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			s = mws[i](s)
		}
	}
	return s
}

// WithTracing wraps a stage with OpenTelemetry span creation.
// Each invocation creates a span named "{prefix}.{stageName}".
func WithTracing(prefix string) Middleware {
	return func(s Stage) Stage {
		return &tracingStage{inner: s, prefix: prefix}
	}
}

type tracingStage struct {
	inner  Stage
	prefix string
}

func (s *tracingStage) Name() string { return s.inner.Name() }

func (s *tracingStage) Process(ctx context.Context, in value.Value) (value.Value, error) {
	ctx, span := observability.StartSpan(ctx, s.prefix+"."+s.inner.Name())
	defer span.End()

	observability.SetSpanAttribute(ctx, observability.AttrStage, s.inner.Name())

	out, err := s.inner.Process(ctx, in)
	if err != nil {
		observability.SetSpanError(ctx, err)
	}
	return out, err
}

// WithMetrics records invocation count, duration and errors per stage.
func WithMetrics(metrics *observability.Metrics) Middleware {
	return func(s Stage) Stage {
		return &metricsStage{inner: s, metrics: metrics}
	}
}

type metricsStage struct {
	inner   Stage
	metrics *observability.Metrics
}

func (s *metricsStage) Name() string { return s.inner.Name() }

func (s *metricsStage) Process(ctx context.Context, in value.Value) (value.Value, error) {
	start := time.Now()
	out, err := s.inner.Process(ctx, in)
	duration := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
		s.metrics.RecordError(ctx, string(errors.Wrap(err).Code), s.inner.Name())
	}
	s.metrics.RecordStage(ctx, s.inner.Name(), status, duration)
	return out, err
}

// WithLogging logs stage name, duration and outcome. Successful
// invocations are logged at debug level.
func WithLogging(log *logger.Logger) Middleware {
	return func(s Stage) Stage {
		return &loggingStage{inner: s, log: log}
	}
}

type loggingStage struct {
	inner Stage
	log   *logger.Logger
}

func (s *loggingStage) Name() string { return s.inner.Name() }

func (s *loggingStage) Process(ctx context.Context, in value.Value) (value.Value, error) {
	start := time.Now()
	out, err := s.inner.Process(ctx, in)
	duration := time.Since(start)

	fields := map[string]interface{}{
		logger.FieldStage:    s.inner.Name(),
		logger.FieldDuration: duration.Milliseconds(),
	}
	if err != nil {
		fields[logger.FieldError] = err.Error()
		fields[logger.FieldErrorCode] = string(errors.Wrap(err).Code)
		s.log.Error("stage failed", fields)
	} else if s.log.DebugEnabled() {
		s.log.Debug("stage completed", fields)
	}
	return out, err
}

// WithRecover turns a panic inside the stage into an UNKNOWN_ERROR so one
// bad input cannot take down a worker.
func WithRecover() Middleware {
	return func(s Stage) Stage {
		return &recoverStage{inner: s}
	}
}

type recoverStage struct {
	inner Stage
}

func (s *recoverStage) Name() string { return s.inner.Name() }

func (s *recoverStage) Process(ctx context.Context, in value.Value) (out value.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = value.Value{}
			err = errors.Unknown(fmt.Sprintf("stage %s panicked: %v", s.inner.Name(), r)).
				WithDetail("stage", s.inner.Name())
		}
	}()
	return s.inner.Process(ctx, in)
}
