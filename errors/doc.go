// Package errors provides the error taxonomy shared by every textforge
// package. All failures are *AppError values carrying a machine-readable
// code, a human-readable message and optional structured details.
//
// Construction-time failures (loading dictionaries, building pipelines) are
// returned synchronously. Per-request failures during batch execution are
// attached to that request's result and never abort sibling requests.
package errors
