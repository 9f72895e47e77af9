// Package logging assembles structured slog loggers and formatting helpers used
// across tichme.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so import code automatically
// tags log lines with the session id, transcript source and round. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
package logging
