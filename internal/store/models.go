package store

import (
	"time"

	"tichme/internal/cards"
	"tichme/internal/tichu"
)

// Game is a recorded game with its round count.
type Game struct {
	ID         int64
	URL        string
	PlayedAt   *time.Time
	RecordedAt time.Time
	Rounds     int
}

// Seat is a player's position in one game.
type Seat struct {
	ID       int64
	GameID   int64
	PlayerID int64
	Player   string
	Position tichu.Position
	Team     int
}

// Round is one hand of a game; Order is 0-based.
type Round struct {
	ID     int64
	GameID int64
	Order  int
}

// Deal is a card a seat received in one deal phase.
type Deal struct {
	RoundID  int64
	SeatID   int64
	Position tichu.Position
	Card     cards.Card
	Phase    tichu.Phase
}

// Exchange is a card passed between two seats before play.
type Exchange struct {
	ID          int64
	RoundID     int64
	GiverSeatID int64
	TakerSeatID int64
	Giver       tichu.Position
	Taker       tichu.Position
	Card        cards.Card
}

// Declaration is a seat's call in one round.
type Declaration struct {
	RoundID  int64
	SeatID   int64
	Position tichu.Position
	Kind     tichu.CallKind
}

// Wish is the rank requested with the One. Rank is nil when the transcript
// named no rank.
type Wish struct {
	RoundID  int64
	SeatID   int64
	Position tichu.Position
	Rank     *int
}

// Finish is the 0-based order in which a seat went out.
type Finish struct {
	RoundID  int64
	SeatID   int64
	Position tichu.Position
	Order    int
}

// Score is a team's points for one round.
type Score struct {
	RoundID int64
	TeamID  int64
	Team    int
	Score   int
}

// CardRow is a catalog entry as stored.
type CardRow struct {
	ID   int64
	Card cards.Card
}

// TableCount is the number of rows held by one table.
type TableCount struct {
	Table string
	Rows  int64
}

// CallGroup buckets exchanges by the call their taker made.
type CallGroup string

const (
	GroupGrandTichu  CallGroup = "grand_tichu"
	GroupTichuBefore CallGroup = "tichu_before"
	// GroupNoCall also holds takers who called only after the exchange.
	GroupNoCall CallGroup = "no_call"
)

// CallGroups returns the groups in display order.
func CallGroups() []CallGroup {
	return []CallGroup{GroupGrandTichu, GroupTichuBefore, GroupNoCall}
}

// GroupForCall maps a taker's declaration onto its group. An empty kind
// means no declaration.
func GroupForCall(kind tichu.CallKind) CallGroup {
	switch kind {
	case tichu.GrandTichu:
		return GroupGrandTichu
	case tichu.TichuBefore:
		return GroupTichuBefore
	default:
		return GroupNoCall
	}
}

// CallExchange is an exchange joined with the taker's declaration.
type CallExchange struct {
	RoundID   int64
	Giver     tichu.Position
	Taker     tichu.Position
	Card      cards.Card
	TakerCall tichu.CallKind
	Group     CallGroup
}
