package batch

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/kbukum/textforge/errors"
	"github.com/kbukum/textforge/observability"
)

// Iterator provides pull-based sequential access to batch results.
type Iterator interface {
	// Next returns the next result. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (Result, bool, error)
	// Close releases the workers behind the iterator.
	Close() error
}

// Stream delivers the results of one run in completion order. A Stream is
// meant for a single consumer goroutine.
type Stream struct {
	ch      <-chan Result
	total   int
	parent  context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	metrics *observability.Metrics

	delivered int
	closed    atomic.Bool
	closeOnce sync.Once
}

// Len returns the number of submitted requests.
func (s *Stream) Len() int { return s.total }

// Next blocks until a result is available. It returns (zero, false, nil)
// once every result was delivered, or a CANCELED error when the run's
// context ended first.
func (s *Stream) Next(ctx context.Context) (Result, bool, error) {
	if s.closed.Load() {
		return Result{}, false, nil
	}
	select {
	case r, open := <-s.ch:
		if !open {
			if s.delivered < s.total && !s.closed.Load() {
				// Workers only stop early when the run context ends.
				return Result{}, false, errors.Canceled(s.parent.Err())
			}
			return Result{}, false, nil
		}
		s.delivered++
		s.metrics.RecordBuffered(ctx, -1)
		return r, true, nil
	case <-ctx.Done():
		return Result{}, false, ctx.Err()
	}
}

// Close stops the workers and waits for them to exit. Results not read yet
// are discarded. Close is idempotent.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.cancel()
		<-s.done
		for range s.ch {
			s.metrics.RecordBuffered(context.Background(), -1)
		}
	})
	return nil
}

// Collect reads it to the end and closes it. On error the results read so
// far are returned with the error.
func Collect(ctx context.Context, it Iterator) ([]Result, error) {
	defer it.Close()
	var results []Result
	for {
		r, ok, err := it.Next(ctx)
		if err != nil {
			return results, err
		}
		if !ok {
			return results, nil
		}
		results = append(results, r)
	}
}

// OrderedStream reorders a Stream into submission order. Results that
// finish early wait in memory until every earlier result was delivered.
type OrderedStream struct {
	s       *Stream
	next    int
	pending map[int]Result
}

// Ordered wraps s to deliver results in submission order.
func Ordered(s *Stream) *OrderedStream {
	return &OrderedStream{s: s, pending: make(map[int]Result)}
}

// Len returns the number of submitted requests.
func (o *OrderedStream) Len() int { return o.s.Len() }

// Next returns the result with the next submission position.
func (o *OrderedStream) Next(ctx context.Context) (Result, bool, error) {
	for {
		if r, ok := o.pending[o.next]; ok {
			delete(o.pending, o.next)
			o.next++
			return r, true, nil
		}
		r, ok, err := o.s.Next(ctx)
		if err != nil || !ok {
			return Result{}, false, err
		}
		if r.Seq == o.next {
			o.next++
			return r, true, nil
		}
		o.pending[r.Seq] = r
	}
}

// Close closes the underlying stream.
func (o *OrderedStream) Close() error {
	o.pending = nil
	return o.s.Close()
}
