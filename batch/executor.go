package batch

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kbukum/textforge/errors"
	"github.com/kbukum/textforge/logger"
	"github.com/kbukum/textforge/observability"
	"github.com/kbukum/textforge/value"
)

// Pipeline is what an Executor runs. *pipeline.Pipeline implements it.
type Pipeline interface {
	Name() string
	Len() int
	Freeze()
	Process(ctx context.Context, in value.Value) (value.Value, error)
}

// Executor runs batches on a bounded worker pool. Each call to Process
// starts its own workers; nothing is shared between runs.
type Executor struct {
	cfg     Config
	log     *logger.Logger
	metrics *observability.Metrics
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger. Without it the executor logs through
// logger.Get("batch").
func WithLogger(log *logger.Logger) Option {
	return func(e *Executor) {
		if log != nil {
			e.log = log
		}
	}
}

// WithMetrics records request and buffer metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// NewExecutor creates an Executor. Unset config fields take their defaults.
func NewExecutor(cfg Config, opts ...Option) *Executor {
	cfg.ApplyDefaults()
	e := &Executor{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.Get("batch")
	} else {
		e.log = e.log.WithComponent("batch")
	}
	return e
}

// Config returns the effective configuration.
func (e *Executor) Config() Config { return e.cfg }

type job struct {
	seq int
	req Request
}

// Process starts running p over reqs and returns the result stream. The
// pipeline is frozen first. Errors are returned only for an unusable
// pipeline; failures of individual requests are reported in their Result.
//
// The caller must Close the stream when it stops reading before the end.
func (e *Executor) Process(ctx context.Context, p Pipeline, reqs []Request) (*Stream, error) {
	if p == nil {
		return nil, errors.InvalidConfig("pipeline", "pipeline must not be nil")
	}
	if p.Len() == 0 {
		return nil, errors.EmptyPipeline()
	}
	p.Freeze()

	runID := uuid.NewString()
	log := e.log.WithFields(logger.Fields(logger.FieldRunID, runID, logger.FieldPipeline, p.Name()))

	workers := min(e.cfg.Workers, len(reqs))
	runCtx, cancel := context.WithCancel(ctx)
	out := make(chan Result, e.cfg.Capacity)
	s := &Stream{
		ch:      out,
		total:   len(reqs),
		parent:  ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		metrics: e.metrics,
	}

	log.Info("batch started", logger.Fields(logger.FieldCount, len(reqs), logger.FieldWorkers, workers))
	start := time.Now()

	g, gctx := errgroup.WithContext(runCtx)
	jobs := make(chan job)

	g.Go(func() error {
		defer close(jobs)
		for i, r := range reqs {
			select {
			case jobs <- job{seq: i, req: r}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var failed, produced atomic.Int64
	for range workers {
		g.Go(func() error {
			for j := range jobs {
				res := e.run(gctx, p, runID, j)
				if !res.OK() {
					failed.Add(1)
				}
				e.metrics.RecordBuffered(gctx, 1)
				select {
				case out <- res:
					produced.Add(1)
				case <-gctx.Done():
					e.metrics.RecordBuffered(gctx, -1)
					return gctx.Err()
				}
			}
			return nil
		})
	}

	go func() {
		defer close(s.done)
		err := g.Wait()
		close(out)

		fields := logger.Fields(
			logger.FieldCount, produced.Load(),
			"failed", failed.Load(),
			logger.FieldDuration, time.Since(start).Milliseconds(),
		)
		if err != nil {
			log.Warn("batch ended early", fields)
			return
		}
		log.Info("batch finished", fields)
	}()

	return s, nil
}

// Submit runs p over (id, text) pairs.
func (e *Executor) Submit(ctx context.Context, p Pipeline, pairs [][2]string) (*Stream, error) {
	reqs := make([]Request, len(pairs))
	for i, pair := range pairs {
		reqs[i] = Request{ID: pair[0], Input: pair[1]}
	}
	return e.Process(ctx, p, reqs)
}

// run processes one request. It never panics and always returns a result
// for j.
func (e *Executor) run(ctx context.Context, p Pipeline, runID string, j job) (res Result) {
	start := time.Now()
	res = Result{ID: j.req.ID, Seq: j.seq}

	ctx, span := observability.StartSpan(ctx, "batch.request")
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrRequestID, j.req.ID)
	observability.SetSpanAttribute(ctx, observability.AttrRunID, runID)

	defer func() {
		if r := recover(); r != nil {
			res.Content = value.Value{}
			res.Err = errors.Unknown(fmt.Sprintf("request %s panicked: %v", j.req.ID, r))
		}

		status := "ok"
		if res.Err != nil {
			status = "error"
			observability.SetSpanError(ctx, res.Err)
			e.metrics.RecordError(ctx, string(res.Err.Code), "batch")
			e.log.Debug("request failed", logger.Fields(
				logger.FieldRunID, runID,
				logger.FieldRequestID, j.req.ID,
				logger.FieldErrorCode, string(res.Err.Code),
				logger.FieldError, res.Err.Error(),
			))
		}
		e.metrics.RecordRequest(ctx, p.Name(), status, time.Since(start))
	}()

	out, err := p.Process(ctx, value.RawText(j.req.Input))
	if err == nil {
		out, err = value.ToStructured(out)
	}
	if err != nil {
		res.Err = errors.Wrap(err)
		return res
	}
	res.Content = out
	return res
}
