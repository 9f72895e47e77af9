package cards_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tichme/internal/cards"
	"tichme/internal/tichu"
)

func TestTokenRoundTrip(t *testing.T) {
	all := cards.All()
	if len(all) != 56 {
		t.Fatalf("expected 56 cards, got %d", len(all))
	}
	seen := make(map[string]bool, len(all))
	for _, c := range all {
		if !c.Valid() {
			t.Fatalf("catalog card %+v is not valid", c)
		}
		token := c.Token()
		if seen[token] {
			t.Fatalf("duplicate token %q", token)
		}
		seen[token] = true
		parsed, err := cards.Parse(token)
		if err != nil {
			t.Fatalf("parse %q: %v", token, err)
		}
		if parsed != c {
			t.Fatalf("parse %q: got %+v want %+v", token, parsed, c)
		}
		if parsed.Token() != token {
			t.Fatalf("token round trip %q -> %q", token, parsed.Token())
		}
	}
}

func TestParseKnownTokens(t *testing.T) {
	cases := map[string]cards.Card{
		"G6":  cards.Suited(cards.Green, 6),
		"R10": cards.Suited(cards.Red, 10),
		"SB":  cards.Suited(cards.Black, 11),
		"BD":  cards.Suited(cards.Blue, 12),
		"GK":  cards.Suited(cards.Green, 13),
		"SA":  cards.Suited(cards.Black, 14),
		"Ma":  cards.Of(cards.One),
		"Hu":  cards.Of(cards.Dog),
		"Ph":  cards.Of(cards.Phoenix),
		"Dr":  cards.Of(cards.Dragon),
	}
	for token, want := range cases {
		got, err := cards.Parse(token)
		if err != nil {
			t.Fatalf("parse %q: %v", token, err)
		}
		if got != want {
			t.Fatalf("parse %q: got %+v want %+v", token, got, want)
		}
	}
}

func TestParseRejectsUnknownTokens(t *testing.T) {
	for _, token := range []string{"", "X9", "R1", "R11", "G01", "S", "ph", "Dra", "KA", "B 5"} {
		_, err := cards.Parse(token)
		if err == nil {
			t.Fatalf("expected error for %q", token)
		}
		if !errors.Is(err, tichu.ErrMalformedCardToken) {
			t.Fatalf("expected card token marker for %q, got %v", token, err)
		}
		var typed *tichu.Error
		if !errors.As(err, &typed) || typed.Value != token {
			t.Fatalf("expected offending token %q in error, got %v", token, err)
		}
	}
}

func TestDisplayForm(t *testing.T) {
	cases := map[string]string{
		"SD": "KQ",
		"RB": "RJ",
		"G6": "G6",
		"BA": "BA",
		"Dr": "*dragon*",
		"Ph": "*phoenix*",
		"Hu": "*dog*",
		"Ma": "*1*",
	}
	for token, want := range cases {
		if got := cards.MustParse(token).String(); got != want {
			t.Fatalf("display %q: got %q want %q", token, got, want)
		}
	}
}

func TestAnalysisRank(t *testing.T) {
	cases := map[string]int{
		"Ma":  1,
		"R2":  2,
		"S10": 10,
		"GA":  14,
		"Hu":  15,
		"Ph":  16,
		"Dr":  17,
	}
	for token, want := range cases {
		if got := cards.AnalysisRank(cards.MustParse(token)); got != want {
			t.Fatalf("analysis rank %q: got %d want %d", token, got, want)
		}
	}
	if cards.NumAnalysisRanks != 17 {
		t.Fatalf("unexpected rank count %d", cards.NumAnalysisRanks)
	}
	if cards.AnalysisRankLabel(12) != "Q" || cards.AnalysisRankLabel(16) != "Phoenix" {
		t.Fatal("unexpected analysis rank labels")
	}
}

func TestParseRank(t *testing.T) {
	for token, want := range map[string]int{"2": 2, "10": 10, "B": 11, "D": 12, "K": 13, "A": 14} {
		got, err := cards.ParseRank(token)
		if err != nil || got != want {
			t.Fatalf("rank %q: got %d, %v", token, got, err)
		}
	}
	for _, token := range []string{"1", "11", "J", "Q", ""} {
		if _, err := cards.ParseRank(token); !errors.Is(err, tichu.ErrMalformedCardToken) {
			t.Fatalf("expected error for rank %q, got %v", token, err)
		}
	}
}

func TestSortTokens(t *testing.T) {
	tokens := []string{"Dr", "S2", "zz", "R10", "Ma", "R9", "GA"}
	cards.SortTokens(tokens)
	want := []string{"R9", "R10", "GA", "S2", "Ma", "Dr", "zz"}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Fatalf("sorted tokens mismatch (-want +got):\n%s", diff)
	}
	if cards.Index(cards.Card{}) != -1 {
		t.Fatal("zero card should have no catalog index")
	}
}
