package recorder_test

import (
	"errors"
	"testing"

	"tichme/internal/recorder"
	"tichme/internal/testsupport"
	"tichme/internal/tichu"
	"tichme/internal/transcript"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*transcript.Game)
		wantCard bool
	}{
		{"three players", func(g *transcript.Game) { delete(g.Players, 3) }, false},
		{"duplicate name", func(g *transcript.Game) { g.Players[1] = g.Players[0] }, false},
		{"blank name", func(g *transcript.Game) { g.Players[2] = "  " }, false},
		{"short first deal", func(g *transcript.Game) { g.Rounds[0].FirstDeals[0] = g.Rounds[0].FirstDeals[0][1:] }, false},
		{"bad deal token", func(g *transcript.Game) { g.Rounds[0].SecondDeals[1][0] = "X9" }, true},
		{"card in both phases", func(g *transcript.Game) {
			g.Rounds[0].SecondDeals[2][0] = g.Rounds[0].FirstDeals[2][0]
		}, false},
		{"self exchange", func(g *transcript.Game) {
			delete(g.Rounds[0].Exchanges, transcript.Pass{Giver: 1, Taker: 2})
			g.Rounds[0].Exchanges[transcript.Pass{Giver: 1, Taker: 1}] = "G2"
		}, false},
		{"bad exchange token", func(g *transcript.Game) {
			g.Rounds[0].Exchanges[transcript.Pass{Giver: 0, Taker: 1}] = "Q5"
		}, true},
		{"bad wish rank", func(g *transcript.Game) { g.Rounds[0].Wish.Rank = "Z" }, true},
		{"bad call seat", func(g *transcript.Game) { g.Rounds[0].Calls[5] = tichu.GrandTichu }, false},
		{"short finishes", func(g *transcript.Game) { g.Rounds[0].Finishes = []int{2, 1, 3} }, false},
		{"finish out of range", func(g *transcript.Game) { g.Rounds[0].Finishes = []int{2, 1, 4, 0} }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			game, err := transcript.Parse(testsupport.Transcript(t, "one_round_no_tichu.tch"))
			if err != nil {
				t.Fatalf("parse fixture: %v", err)
			}
			if game.Rounds[0].Calls == nil {
				game.Rounds[0].Calls = map[int]tichu.CallKind{}
			}
			tc.mutate(game)

			err = recorder.Validate(game)
			if !errors.Is(err, tichu.ErrMalformedGame) {
				t.Fatalf("expected ErrMalformedGame, got %v", err)
			}
			if got := errors.Is(err, tichu.ErrMalformedCardToken); got != tc.wantCard {
				t.Fatalf("card token marker = %v, want %v (%v)", got, tc.wantCard, err)
			}
			var tErr *tichu.Error
			if !errors.As(err, &tErr) {
				t.Fatalf("expected *tichu.Error, got %T", err)
			}
		})
	}
}

func TestValidateAcceptsFixtures(t *testing.T) {
	for _, name := range []string{
		"one_round_no_tichu.tch",
		"one_round_grand_tichu.tch",
		"one_round_tichu_before.tch",
		"one_round_tichu_after.tch",
		"incomplete.tch",
	} {
		game, err := transcript.Parse(testsupport.Transcript(t, name))
		if err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		if err := recorder.Validate(game); err != nil {
			t.Fatalf("validate %s: %v", name, err)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	if got := recorder.NormalizeName("  Zoe\u0301 "); got != "Zo\u00e9" {
		t.Fatalf("unexpected normalized name %q", got)
	}
}
