// Package cards is the catalog of the 56-card Tichu deck: 52 suited cards
// plus the four specials. It owns the transcript token encoding and the
// analysis ranking.
package cards

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"tichme/internal/tichu"
)

// Suit is one of the four suits. Values are the transcript suit letters.
type Suit string

const (
	Red   Suit = "R"
	Green Suit = "G"
	Blue  Suit = "B"
	// Black uses S for "Schwarz".
	Black Suit = "S"
)

// Special identifies one of the four one-of-a-kind cards.
type Special string

const (
	// One is the Mahjong.
	One     Special = "Ma"
	Dog     Special = "Hu"
	Phoenix Special = "Ph"
	Dragon  Special = "Dr"
)

const (
	MinRank = 2
	MaxRank = 14
	// NumAnalysisRanks spans One (1) through Dragon (17).
	NumAnalysisRanks = 17
)

var (
	suits    = []Suit{Red, Green, Blue, Black}
	specials = []Special{One, Dog, Phoenix, Dragon}

	// Face ranks use the German initials: Bauer, Dame, Koenig, Ass.
	faceTokens = map[int]string{11: "B", 12: "D", 13: "K", 14: "A"}
	tokenRanks = map[string]int{"B": 11, "D": 12, "K": 13, "A": 14}

	suitNames = map[Suit]string{Red: "red", Green: "green", Blue: "blue", Black: "black"}

	displaySuits   = map[Suit]string{Red: "R", Green: "G", Blue: "B", Black: "K"}
	displayRanks   = map[int]string{11: "J", 12: "Q", 13: "K", 14: "A"}
	displaySpecial = map[Special]string{One: "*1*", Dog: "*dog*", Phoenix: "*phoenix*", Dragon: "*dragon*"}
	specialNames   = map[Special]string{One: "one", Dog: "dog", Phoenix: "phoenix", Dragon: "dragon"}
	specialRanks   = map[Special]int{One: 1, Dog: 15, Phoenix: 16, Dragon: 17}
)

// Card is a single catalog card. Exactly one of Special or (Rank, Suit) is
// set; the zero value is not a valid card.
type Card struct {
	Rank    int
	Suit    Suit
	Special Special
}

// Suited returns the suited card of the given rank.
func Suited(suit Suit, rank int) Card {
	return Card{Rank: rank, Suit: suit}
}

// Of returns the special card.
func Of(special Special) Card {
	return Card{Special: special}
}

// IsSpecial reports whether c is one of the four specials.
func (c Card) IsSpecial() bool {
	return c.Special != ""
}

// Valid reports whether c is one of the 56 catalog cards.
func (c Card) Valid() bool {
	if c.IsSpecial() {
		_, ok := specialRanks[c.Special]
		return ok && c.Rank == 0 && c.Suit == ""
	}
	_, ok := suitNames[c.Suit]
	return ok && c.Rank >= MinRank && c.Rank <= MaxRank
}

// Token encodes c the way transcripts spell it.
func (c Card) Token() string {
	if c.IsSpecial() {
		return string(c.Special)
	}
	return string(c.Suit) + RankToken(c.Rank)
}

// String renders c in English notation (K for black, J/Q/K/A faces).
func (c Card) String() string {
	if c.IsSpecial() {
		return displaySpecial[c.Special]
	}
	rank, ok := displayRanks[c.Rank]
	if !ok {
		rank = strconv.Itoa(c.Rank)
	}
	return displaySuits[c.Suit] + rank
}

// SuitName returns the lowercase suit name, or "" for specials.
func (c Card) SuitName() string {
	return suitNames[c.Suit]
}

// SpecialName returns the lowercase special name, or "" for suited cards.
func (c Card) SpecialName() string {
	return specialNames[c.Special]
}

// AnalysisRank places c on the 1..17 scale used by exchange statistics:
// One=1, suited 2..14, Dog=15, Phoenix=16, Dragon=17.
func AnalysisRank(c Card) int {
	if c.IsSpecial() {
		return specialRanks[c.Special]
	}
	return c.Rank
}

// AnalysisRankLabel names a position on the analysis scale.
func AnalysisRankLabel(rank int) string {
	switch rank {
	case 1:
		return "1"
	case 15:
		return "Dog"
	case 16:
		return "Phoenix"
	case 17:
		return "Dragon"
	}
	if label, ok := displayRanks[rank]; ok {
		return label
	}
	return strconv.Itoa(rank)
}

// RankToken encodes a suited rank (2..14) as its transcript token.
func RankToken(rank int) string {
	if tok, ok := faceTokens[rank]; ok {
		return tok
	}
	return strconv.Itoa(rank)
}

// ParseRank decodes a transcript rank token such as "7" or "D".
func ParseRank(token string) (int, error) {
	if rank, ok := tokenRanks[token]; ok {
		return rank, nil
	}
	rank, err := strconv.Atoi(token)
	if err != nil || rank < MinRank || rank > 10 || strconv.Itoa(rank) != token {
		return 0, &tichu.Error{
			Kind:  tichu.ErrMalformedCardToken,
			Op:    "parse rank",
			Value: token,
			Round: -1,
		}
	}
	return rank, nil
}

// Parse decodes a transcript card token.
func Parse(token string) (Card, error) {
	for _, special := range specials {
		if token == string(special) {
			return Of(special), nil
		}
	}
	if len(token) >= 2 {
		suit := Suit(token[:1])
		if _, ok := suitNames[suit]; ok {
			if rank, err := ParseRank(token[1:]); err == nil {
				return Suited(suit, rank), nil
			}
		}
	}
	return Card{}, &tichu.Error{
		Kind:  tichu.ErrMalformedCardToken,
		Op:    "parse card",
		Value: token,
		Round: -1,
	}
}

// MustParse is Parse for literals known to be valid.
func MustParse(token string) Card {
	c, err := Parse(token)
	if err != nil {
		panic(fmt.Sprintf("cards: %v", err))
	}
	return c
}

// All returns the 56 cards in catalog order: suits R, G, B, S by rank, then
// the specials One, Dog, Phoenix, Dragon.
func All() []Card {
	out := make([]Card, 0, len(suits)*(MaxRank-MinRank+1)+len(specials))
	for _, suit := range suits {
		for rank := MinRank; rank <= MaxRank; rank++ {
			out = append(out, Suited(suit, rank))
		}
	}
	for _, special := range specials {
		out = append(out, Of(special))
	}
	return out
}

var catalogIndex = func() map[string]int {
	all := All()
	index := make(map[string]int, len(all))
	for i, c := range all {
		index[c.Token()] = i
	}
	return index
}()

// Index returns the position of c in catalog order, or -1 for invalid cards.
func Index(c Card) int {
	if i, ok := catalogIndex[c.Token()]; ok && c.Valid() {
		return i
	}
	return -1
}

// SortTokens orders transcript tokens by catalog position. Unknown tokens
// sort last in lexical order.
func SortTokens(tokens []string) {
	slices.SortStableFunc(tokens, func(a, b string) int {
		ia, oka := catalogIndex[a]
		ib, okb := catalogIndex[b]
		switch {
		case oka && okb:
			return ia - ib
		case oka:
			return -1
		case okb:
			return 1
		}
		return strings.Compare(a, b)
	})
}
