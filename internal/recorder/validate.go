package recorder

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"tichme/internal/cards"
	"tichme/internal/tichu"
	"tichme/internal/transcript"
)

// NormalizeName canonicalizes a player name so the same player resolves to
// one row regardless of how the transcript encoded it.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Validate checks a parsed game for structural consistency without touching
// the store. It returns the first violation found.
func Validate(game *transcript.Game) error {
	if game == nil {
		return tichu.Malformed("validate game", -1, "", "no game")
	}
	if err := validatePlayers(game.Players); err != nil {
		return err
	}
	for i := range game.Rounds {
		if err := validateRound(i, &game.Rounds[i]); err != nil {
			return err
		}
	}
	return nil
}

func validatePlayers(players map[int]string) error {
	if len(players) != tichu.SeatCount {
		return tichu.Malformed("validate players", -1, strconv.Itoa(len(players)),
			"expected %d players, got %d", tichu.SeatCount, len(players))
	}
	seen := make(map[string]int, len(players))
	for _, seat := range slices.Sorted(maps.Keys(players)) {
		if !tichu.ValidSeat(seat) {
			return tichu.Malformed("validate players", -1, strconv.Itoa(seat), "seat index out of range")
		}
		name := NormalizeName(players[seat])
		if name == "" {
			return tichu.Malformed("validate players", -1, strconv.Itoa(seat), "empty player name")
		}
		if other, dup := seen[name]; dup {
			return tichu.Malformed("validate players", -1, name, "player sits at seats %d and %d", other, seat)
		}
		seen[name] = seat
	}
	return nil
}

func validateRound(idx int, round *transcript.Round) error {
	if err := validateDeals(idx, round); err != nil {
		return err
	}
	if err := validateExchanges(idx, round.Exchanges); err != nil {
		return err
	}
	for seat, kind := range round.Calls {
		if !tichu.ValidSeat(seat) {
			return tichu.Malformed("validate declarations", idx, strconv.Itoa(seat), "seat index out of range")
		}
		if !kind.Valid() {
			return tichu.Malformed("validate declarations", idx, string(kind), "unknown declaration kind")
		}
	}
	if wish := round.Wish; wish != nil {
		if !tichu.ValidSeat(wish.Seat) {
			return tichu.Malformed("validate wish", idx, strconv.Itoa(wish.Seat), "seat index out of range")
		}
		if wish.Rank != "" {
			if _, err := cards.ParseRank(wish.Rank); err != nil {
				return tichu.Malformed("validate wish", idx, wish.Rank, "%w", err)
			}
		}
	}
	return validateFinishes(idx, round.Finishes)
}

func validateDeals(idx int, round *transcript.Round) error {
	for seat, tokens := range round.FirstDeals {
		if err := validateHand(idx, seat, tichu.FirstEight, tokens, tichu.FirstDealSize); err != nil {
			return err
		}
	}
	for seat, tokens := range round.SecondDeals {
		if err := validateHand(idx, seat, tichu.SecondSix, tokens, tichu.SecondDealSize); err != nil {
			return err
		}
		for _, token := range tokens {
			if slices.Contains(round.FirstDeals[seat], token) {
				return tichu.Malformed("validate deals", idx, token,
					"seat %d received the card in both deal phases", seat)
			}
		}
	}
	return nil
}

func validateHand(idx, seat int, phase tichu.Phase, tokens []string, size int) error {
	op := "validate " + string(phase) + " deal"
	if !tichu.ValidSeat(seat) {
		return tichu.Malformed(op, idx, strconv.Itoa(seat), "seat index out of range")
	}
	if len(tokens) != size {
		return tichu.Malformed(op, idx, strings.Join(tokens, " "),
			"seat %d has %d cards, expected %d", seat, len(tokens), size)
	}
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		if _, err := cards.Parse(token); err != nil {
			return tichu.Malformed(op, idx, token, "%w", err)
		}
		if _, dup := seen[token]; dup {
			return tichu.Malformed(op, idx, token, "seat %d dealt the same card twice", seat)
		}
		seen[token] = struct{}{}
	}
	return nil
}

func validateExchanges(idx int, exchanges map[transcript.Pass]string) error {
	if len(exchanges) > tichu.ExchangesPerRound {
		return tichu.Malformed("validate exchanges", idx, strconv.Itoa(len(exchanges)),
			"at most %d exchanges per round", tichu.ExchangesPerRound)
	}
	for pass, token := range exchanges {
		value := fmt.Sprintf("%d->%d", pass.Giver, pass.Taker)
		if !tichu.ValidSeat(pass.Giver) || !tichu.ValidSeat(pass.Taker) {
			return tichu.Malformed("validate exchanges", idx, value, "seat index out of range")
		}
		if pass.Giver == pass.Taker {
			return tichu.Malformed("validate exchanges", idx, value, "seat exchanges with itself")
		}
		if _, err := cards.Parse(token); err != nil {
			return tichu.Malformed("validate exchanges", idx, token, "%w", err)
		}
	}
	return nil
}

func validateFinishes(idx int, finishes []int) error {
	value := fmt.Sprint(finishes)
	if len(finishes) != tichu.SeatCount {
		return tichu.Malformed("validate finishes", idx, value,
			"finish order has %d seats, expected %d", len(finishes), tichu.SeatCount)
	}
	sorted := slices.Sorted(slices.Values(finishes))
	for i, seat := range sorted {
		if seat != i {
			return tichu.Malformed("validate finishes", idx, value, "finish order is not a permutation of the seats")
		}
	}
	return nil
}
