// Package log provides the project's structured logging facade.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context. Internally it is backed by Go's
// standard library slog via a bridge handler that feeds a formatter/output
// pipeline, so output stays consistent regardless of which layer emits it.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.WithComponent("http")
//	l.Info("server started", log.Str("addr", ":8080"))
//
// # Configuration
//
// Use ApplyConfig to build a logger from a declarative Config with a level
// name and a text or json format.
//
// # Interop
//
// RedirectStdLog routes the standard library's global logger through a
// Logger so third-party output keeps the same shape.
package log
