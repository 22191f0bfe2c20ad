// Package logger provides a structured logging facility based on Zap.
//
// # Context Awareness
//
// WithRayID attaches the request id set by the rayid middleware so that all lines
// of one HTTP request correlate. WithRun does the same for a country sync run.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Server started")
//
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
