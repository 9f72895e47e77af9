package logging

import (
	"context"
	"log/slog"

	"tichme/internal/tichu"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSessionID correlates every line written by one import run.
	FieldSessionID = "session_id"
	// FieldSource is the transcript locator (URL or file path).
	FieldSource = "source"
	// FieldRound is the 0-based round index within a game.
	FieldRound = "round"
	FieldGameID = "game_id"
	FieldError  = "error"
	// FieldErrorKind carries the tichu error classification.
	FieldErrorKind = "error_kind"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := tichu.SessionIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldSessionID, id))
	}
	if source, ok := tichu.SourceFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldSource, source))
	}
	if round, ok := tichu.RoundFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldRound, round))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}

// ErrorAttrs describes err for a log line, including its classification
// when it carries one.
func ErrorAttrs(err error) []Attr {
	attrs := []Attr{Error(err)}
	if kind := tichu.Kind(err); kind != "" {
		attrs = append(attrs, String(FieldErrorKind, kind))
	}
	return attrs
}

// ErrorArgs is ErrorAttrs in the form slog's variadic methods take.
func ErrorArgs(err error) []any {
	return Args(ErrorAttrs(err)...)
}
