package batch

import (
	"github.com/kbukum/textforge/errors"
	"github.com/kbukum/textforge/value"
)

// Request is one unit of work.
type Request struct {
	ID    string
	Input string
}

// Result is the outcome of one request. Exactly one of Content and Err is set.
type Result struct {
	// ID is the ID of the request this result belongs to.
	ID string
	// Seq is the submission position of the request.
	Seq int
	// Content is the structured output on success.
	Content value.Value
	// Err is the failure on error.
	Err *errors.AppError
}

// OK reports whether the request succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Marker returns the result as a structured value:
// {"id": ..., "content": ...} on success or {"id": ..., "error": {...}}.
func (r Result) Marker() value.Value {
	if r.Err != nil {
		return value.Structured(map[string]any{
			"id":    r.ID,
			"error": r.Err.ToMap(),
		})
	}
	tree, _ := r.Content.Tree()
	return value.Structured(map[string]any{
		"id":      r.ID,
		"content": tree,
	})
}
