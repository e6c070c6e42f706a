// Package log provides tixid's structured logging facade and utilities.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// simple Field type for structured context. Internally it is backed by Go's
// standard library slog via a custom handler that preserves our existing
// formatter/outputs pipeline. This allows adoption of the slog ecosystem
// while keeping consistent output and behavior across the codebase.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("server"), log.Str("ns", "default"))
//	l.Info("server started", log.Int("port", 8080))
//
// # Configuration
//
// Use ApplyConfig to build a logger from a declarative Config, supporting JSON
// or text formatting and multiple outputs (console, file, null). RedactKeys
// and the sampling knobs are applied in the slog handler.
//
// # Interop
//
// To integrate with libraries expecting *log.Logger, use ToStdLogger or
// RedirectStdLog. Pebble and grpc both log through the standard library, so
// the server redirects them at startup.
package log
