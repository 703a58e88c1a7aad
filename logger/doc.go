// Package logger provides structured logging for textforge using zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers with structured fields. Stage middleware and the
// batch executor log through this package.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("batch")
//	log.Info("run finished", logger.Fields("run_id", id, "requests", n))
package logger
