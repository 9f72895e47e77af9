package tichu_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"tichme/internal/tichu"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := tichu.Wrap(tichu.ErrMalformedGame, "record", "round 3", base)
	if !errors.Is(err, tichu.ErrMalformedGame) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	for _, fragment := range []string{"record", "round 3", "boom"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in error string %q", fragment, err.Error())
		}
	}
}

func TestErrorCarriesKindAndValue(t *testing.T) {
	err := error(&tichu.Error{
		Kind:  tichu.ErrMalformedCardToken,
		Op:    "parse card",
		Value: "X9",
		Round: 2,
		Line:  17,
	})
	wrapped := fmt.Errorf("import: %w", err)

	if !errors.Is(wrapped, tichu.ErrMalformedCardToken) {
		t.Fatalf("expected card token marker, got %v", wrapped)
	}
	if errors.Is(wrapped, tichu.ErrMalformedGame) {
		t.Fatal("did not expect malformed game marker")
	}
	if kind := tichu.Kind(wrapped); kind != "malformed_card_token" {
		t.Fatalf("unexpected kind %q", kind)
	}
	var typed *tichu.Error
	if !errors.As(wrapped, &typed) || typed.Value != "X9" {
		t.Fatalf("expected typed error with offending value, got %#v", typed)
	}
	msg := err.Error()
	for _, fragment := range []string{"round 2", "line 17", `"X9"`} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in %q", fragment, msg)
		}
	}
}

func TestMalformedWrapsCause(t *testing.T) {
	err := tichu.Malformed("validate", -1, "(7)x", "seat %d out of range", 7)
	if !errors.Is(err, tichu.ErrMalformedGame) {
		t.Fatalf("expected malformed marker, got %v", err)
	}
	if strings.Contains(err.Error(), "round") {
		t.Fatalf("round should be omitted when negative: %q", err.Error())
	}
	if tichu.Kind(errors.New("plain")) != "" {
		t.Fatal("expected empty kind for unclassified error")
	}
}

func TestPositions(t *testing.T) {
	want := []tichu.Position{tichu.South, tichu.East, tichu.North, tichu.West}
	for i, pos := range want {
		got, err := tichu.PositionForSeat(i)
		if err != nil || got != pos {
			t.Fatalf("seat %d: got %q, %v", i, got, err)
		}
	}
	if _, err := tichu.PositionForSeat(4); err == nil {
		t.Fatal("expected error for seat 4")
	}
	if tichu.TeamForSeat(0) != tichu.TeamForSeat(2) || tichu.TeamForSeat(1) != tichu.TeamForSeat(3) {
		t.Fatal("partners must share a team")
	}
	if tichu.TeamForSeat(0) == tichu.TeamForSeat(1) {
		t.Fatal("neighbours must be on different teams")
	}
	if tichu.ExchangesPerRound != 12 || tichu.HandSize != 14 {
		t.Fatal("unexpected round constants")
	}
}
