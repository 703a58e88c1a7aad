// Package observability provides OpenTelemetry tracing and metrics for
// pipeline stages and batch runs.
//
// Setup:
//
//	shutdown, err := observability.Setup(ctx, cfg)
//	defer shutdown(ctx)
//
// Instruments:
//
//	metrics, err := observability.NewMetrics(observability.Meter("textforge"))
//	metrics.RecordStage(ctx, "tokenizer", "ok", duration)
//	metrics.RecordRequest(ctx, "default", "error", duration)
//
// When no provider is installed the global otel providers are no-ops, so
// instruments and spans are always safe to use.
package observability
