package tichu

import "fmt"

const (
	SeatCount         = 4
	TeamCount         = 2
	FirstDealSize     = 8
	SecondDealSize    = 6
	HandSize          = FirstDealSize + SecondDealSize
	ExchangesPerRound = SeatCount * (SeatCount - 1)
	// RoundPoints is the card-point total both teams split in a round before
	// declaration bonuses.
	RoundPoints = 100
)

// Position is a fixed compass seat at the table.
type Position string

const (
	South Position = "south"
	East  Position = "east"
	North Position = "north"
	West  Position = "west"
)

var seatPositions = [SeatCount]Position{South, East, North, West}

// PositionForSeat maps a transcript seat index onto its compass position.
func PositionForSeat(seat int) (Position, error) {
	if !ValidSeat(seat) {
		return "", fmt.Errorf("seat index %d out of range", seat)
	}
	return seatPositions[seat], nil
}

// Seat returns the seat index for p, or -1 when p is not a position.
func (p Position) Seat() int {
	for i, pos := range seatPositions {
		if pos == p {
			return i
		}
	}
	return -1
}

// Positions returns the four positions in seat-index order.
func Positions() []Position {
	out := make([]Position, len(seatPositions))
	copy(out, seatPositions[:])
	return out
}

// ValidSeat reports whether seat is one of the four seat indices.
func ValidSeat(seat int) bool {
	return seat >= 0 && seat < SeatCount
}

// TeamForSeat returns the team index for a seat. Partners sit opposite.
func TeamForSeat(seat int) int {
	return seat % TeamCount
}

// CallKind is the strength of a declaration.
type CallKind string

const (
	// GrandTichu is declared before the second deal phase is seen.
	GrandTichu CallKind = "grand_tichu"
	// TichuBefore is declared after the full deal but before the exchange.
	TichuBefore CallKind = "tichu_before"
	// TichuAfter is declared after the exchange, during play.
	TichuAfter CallKind = "tichu_after"
)

// Valid reports whether k is a known declaration kind.
func (k CallKind) Valid() bool {
	switch k {
	case GrandTichu, TichuBefore, TichuAfter:
		return true
	}
	return false
}

// Phase tags the portion of the deal a card arrived in.
type Phase string

const (
	FirstEight Phase = "first_8"
	SecondSix  Phase = "second_6"
)

// Relation names where a giver sits as seen from the taker.
type Relation string

const (
	FromLeft    Relation = "left"
	FromPartner Relation = "partner"
	FromRight   Relation = "right"
)

// Relations returns the three giver relations in display order.
func Relations() []Relation {
	return []Relation{FromLeft, FromPartner, FromRight}
}

// RelationBetween returns where giver sits as seen from taker, with seat
// indices running south, east, north, west.
func RelationBetween(giver, taker int) (Relation, error) {
	if !ValidSeat(giver) || !ValidSeat(taker) || giver == taker {
		return "", fmt.Errorf("no relation between seats %d and %d", giver, taker)
	}
	switch (taker - giver + SeatCount) % SeatCount {
	case 1:
		return FromLeft, nil
	case 2:
		return FromPartner, nil
	default:
		return FromRight, nil
	}
}
