package tichu

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrMalformedCardToken = errors.New("malformed card token")
	ErrMalformedGame      = errors.New("malformed game description")
	// ErrDuplicateGame signals the idempotent no-op when a source locator is
	// already recorded. Callers treat it as success.
	ErrDuplicateGame = errors.New("game already recorded")
	// ErrNoDataForPeriod marks a gap computation that ran past the first
	// month the archive holds data for.
	ErrNoDataForPeriod = errors.New("no data for period")
)

// ErrorClassifier allows errors to declare their classification so callers
// can render them without string matching.
type ErrorClassifier interface {
	ErrorKind() string
}

// Error carries the failure kind together with the offending input.
//
// Round is the 0-based round index or -1 when the failure is not tied to a
// round. Line is the 1-based transcript line number or 0 when unknown.
type Error struct {
	Kind  error
	Op    string
	Value string
	Round int
	Line  int
	Err   error
}

func (e *Error) Error() string {
	parts := make([]string, 0, 5)
	if op := strings.TrimSpace(e.Op); op != "" {
		parts = append(parts, op)
	}
	if e.Round >= 0 {
		parts = append(parts, "round "+strconv.Itoa(e.Round))
	}
	if e.Line > 0 {
		parts = append(parts, "line "+strconv.Itoa(e.Line))
	}
	if e.Value != "" {
		parts = append(parts, strconv.Quote(e.Value))
	}
	msg := kindText(e.Kind)
	if len(parts) > 0 {
		msg += ": " + strings.Join(parts, ": ")
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// ErrorKind implements ErrorClassifier.
func (e *Error) ErrorKind() string {
	switch e.Kind {
	case ErrMalformedCardToken:
		return "malformed_card_token"
	case ErrMalformedGame:
		return "malformed_game"
	case ErrDuplicateGame:
		return "duplicate_game"
	case ErrNoDataForPeriod:
		return "no_data_for_period"
	default:
		return "unknown"
	}
}

func kindText(kind error) string {
	if kind == nil {
		return "error"
	}
	return kind.Error()
}

// Malformed builds an ErrMalformedGame error for the given round.
func Malformed(op string, round int, value string, format string, args ...any) *Error {
	return &Error{
		Kind:  ErrMalformedGame,
		Op:    op,
		Value: value,
		Round: round,
		Err:   fmt.Errorf(format, args...),
	}
}

// Wrap tags err with marker and an operation description. A nil marker
// falls back to ErrMalformedGame.
func Wrap(marker error, op, message string, err error) error {
	if marker == nil {
		marker = ErrMalformedGame
	}
	detail := buildDetail(op, message)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns the classification of err, or "" when err does not carry one.
func Kind(err error) string {
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return classifier.ErrorKind()
	}
	return ""
}

func buildDetail(op, message string) string {
	parts := make([]string, 0, 2)
	if op = strings.TrimSpace(op); op != "" {
		parts = append(parts, op)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "tichme failure"
	}
	return strings.Join(parts, ": ")
}
