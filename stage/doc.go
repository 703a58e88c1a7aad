// Package stage defines the single extension point of textforge: a named
// transform from one value.Value to another.
//
// Stages are pure functions of their input and of immutable state built at
// construction time, so one instance can be shared by any number of
// goroutines. A stage declares the shapes it accepts by checking its input
// with Expect; a mismatch is reported as an INVALID_INPUT error naming the
// stage, never silently coerced.
//
// Stages compose in three ways:
//
//   - Chain(a, b) builds a stage running a then b; Then folds a list.
//   - A Registry maps configuration kinds ("tokenizer", "lemmatizer", ...)
//     to factories, so pipelines can be assembled from data at run time.
//   - Middleware decorates a stage with logging, metrics, tracing or panic
//     recovery without changing its name or semantics.
package stage
