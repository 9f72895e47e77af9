// Package transcript turns a raw session transcript into a structured game
// description. Parsing is pure: it never touches storage and fills neither
// URL nor Date, which callers stamp afterwards.
package transcript

import (
	"time"

	"tichme/internal/tichu"
)

// Game is the parsed description of one session.
type Game struct {
	URL     string
	Date    *time.Time
	Players map[int]string
	Rounds  []Round
}

// Round is one complete hand. Card tokens stay in transcript encoding and
// are sorted in catalog order.
type Round struct {
	FirstDeals  map[int][]string
	SecondDeals map[int][]string
	Exchanges   map[Pass]string
	Calls       map[int]tichu.CallKind
	Scores      [2]int
	Wish        *Wish
	Finishes    []int
}

// Pass identifies one directed exchange between two seats.
type Pass struct {
	Giver int
	Taker int
}

// Wish is the rank requested after the One is played. Rank is "" when the
// player declined to name one.
type Wish struct {
	Seat int
	Rank string
}

// ExchangeCount returns the number of exchanges across all rounds.
func (g *Game) ExchangeCount() int {
	total := 0
	for _, round := range g.Rounds {
		total += len(round.Exchanges)
	}
	return total
}
