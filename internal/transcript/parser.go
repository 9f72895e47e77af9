package transcript

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"tichme/internal/cards"
	"tichme/internal/tichu"
)

// Section headers as they appear in transcripts.
const (
	FirstDealHeader  = "---------------Gr.Tichukarten------------------"
	SecondDealHeader = "---------------Startkarten------------------"
	ExchangeHeader   = "Schupfen:"
	ActionsHeader    = "---------------Rundenverlauf------------------"
	ResultPrefix     = "Ergebnis:"

	grandTichuPrefix = "Grosses Tichu:"
	tichuPrefix      = "Tichu:"
	wishPrefix       = "Wunsch"
	bombToken        = "BOMBE:"
	exchangeVerb     = "gibt:"
	passToken        = "passt."
	fragmentSep      = "-"
)

type mode int

const (
	modeHeader mode = iota
	modeFirstDeal
	modeSecondDeal
	modeExchange
	modeActions
	modeRoundOver
)

func (m mode) String() string {
	switch m {
	case modeHeader:
		return "header"
	case modeFirstDeal:
		return "first-deal"
	case modeSecondDeal:
		return "second-deal"
	case modeExchange:
		return "exchange"
	case modeActions:
		return "actions"
	case modeRoundOver:
		return "round-over"
	default:
		return "unknown"
	}
}

// state carries the mode and the round being accumulated between lines.
type state struct {
	mode  mode
	line  int
	text  string
	game  *Game
	names map[string]int

	round    *Round
	plays    map[int]map[string]struct{}
	lastSeat int
}

// Parse reads a complete transcript. A trailing round without a result line
// is dropped silently, even when its last lines are damaged; every other
// structural problem is reported as a tichu.ErrMalformedGame error carrying
// the round index and offending line.
func Parse(text string) (*Game, error) {
	s := &state{
		game:     &Game{Players: make(map[int]string, tichu.SeatCount)},
		names:    make(map[string]int, tichu.SeatCount),
		lastSeat: -1,
	}
	// held is the first fault inside the open round. It only surfaces if
	// the round goes on to a result line or a new deal; a round cut off by
	// the end of the text is dropped instead.
	var held error
	for i, raw := range strings.Split(text, "\n") {
		s.line = i + 1
		s.text = strings.TrimSpace(raw)
		if s.text == "" {
			continue
		}
		if held != nil {
			if s.text == FirstDealHeader || strings.HasPrefix(s.text, ResultPrefix) {
				return nil, held
			}
			continue
		}
		if err := s.step(); err != nil {
			if s.round == nil || strings.HasPrefix(s.text, ResultPrefix) {
				return nil, err
			}
			held = err
		}
	}
	if len(s.game.Players) < tichu.SeatCount {
		return nil, s.fail("expected %d player lines, found %d", tichu.SeatCount, len(s.game.Players))
	}
	return s.game, nil
}

// ParsePlayer decodes the seat index from a token shaped "(<digit>)<rest>".
func ParsePlayer(token string) (int, error) {
	seat, _, err := splitPlayer(token)
	return seat, err
}

func splitPlayer(token string) (int, string, error) {
	closing := strings.IndexByte(token, ')')
	if !strings.HasPrefix(token, "(") || closing < 2 {
		return 0, "", fmt.Errorf("seat token %q: missing (<seat>) prefix", token)
	}
	seat, err := strconv.Atoi(token[1:closing])
	if err != nil {
		return 0, "", fmt.Errorf("seat token %q: %w", token, err)
	}
	if !tichu.ValidSeat(seat) {
		return 0, "", fmt.Errorf("seat token %q: seat %d out of range", token, seat)
	}
	return seat, strings.TrimSuffix(token[closing+1:], ":"), nil
}

func (s *state) step() error {
	switch {
	case s.text == FirstDealHeader:
		return s.beginRound()
	case s.text == SecondDealHeader:
		return s.enter(modeSecondDeal, func(r *Round) { r.SecondDeals = make(map[int][]string) })
	case s.text == ExchangeHeader:
		return s.enter(modeExchange, func(r *Round) { r.Exchanges = make(map[Pass]string) })
	case s.text == ActionsHeader:
		return s.enter(modeActions, func(r *Round) {
			r.Wish = nil
			r.Finishes = []int{}
			s.plays = make(map[int]map[string]struct{}, tichu.SeatCount)
			s.lastSeat = -1
		})
	case strings.HasPrefix(s.text, ResultPrefix):
		return s.finishRound()
	}

	switch s.mode {
	case modeHeader:
		s.headerLine()
		return nil
	case modeFirstDeal:
		return s.firstDealLine()
	case modeSecondDeal:
		return s.secondDealLine()
	case modeExchange:
		return s.exchangeLine()
	case modeActions:
		return s.actionLine()
	default:
		// Trailer lines between a result and the next deal carry nothing.
		return nil
	}
}

func (s *state) headerLine() {
	if len(s.game.Players) >= tichu.SeatCount {
		return
	}
	fields := strings.Fields(s.text)
	if len(fields) != 1 {
		return
	}
	seat, name, err := splitPlayer(fields[0])
	if err != nil || name == "" {
		return
	}
	if _, taken := s.game.Players[seat]; taken {
		return
	}
	s.game.Players[seat] = name
	s.names[name] = seat
}

func (s *state) beginRound() error {
	if len(s.game.Players) < tichu.SeatCount {
		return s.fail("deal started with %d of %d players listed", len(s.game.Players), tichu.SeatCount)
	}
	s.mode = modeFirstDeal
	s.round = &Round{
		FirstDeals:  make(map[int][]string, tichu.SeatCount),
		SecondDeals: make(map[int][]string, tichu.SeatCount),
		Exchanges:   make(map[Pass]string, tichu.ExchangesPerRound),
		Calls:       make(map[int]tichu.CallKind),
	}
	return nil
}

func (s *state) enter(next mode, reset func(*Round)) error {
	if s.round == nil {
		return s.fail("%s section outside a round", next)
	}
	s.mode = next
	reset(s.round)
	return nil
}

func (s *state) finishRound() error {
	if s.round == nil || s.mode != modeActions {
		return s.fail("result line without a round in progress")
	}
	fields := strings.Fields(s.text)
	if len(fields) < 4 || fields[2] != fragmentSep {
		return s.fail("result line must read %q", "Ergebnis: <a> - <b>")
	}
	var scores [2]int
	for i, field := range []string{fields[1], fields[3]} {
		score, err := strconv.Atoi(field)
		if err != nil {
			return s.fail("score %q: %w", field, err)
		}
		scores[i] = score
	}
	round := s.round
	round.Scores = scores
	round.Finishes = append(round.Finishes, lo.Without(seatIndices(), round.Finishes...)...)
	s.game.Rounds = append(s.game.Rounds, *round)
	s.round = nil
	s.plays = nil
	s.mode = modeRoundOver
	return nil
}

func (s *state) firstDealLine() error {
	seat, tokens, err := s.seatLine()
	if err != nil {
		return err
	}
	s.round.FirstDeals[seat] = tokens
	return nil
}

func (s *state) secondDealLine() error {
	fields := strings.Fields(s.text)
	switch {
	case strings.HasPrefix(s.text, grandTichuPrefix):
		return s.declare(fields, 2, tichu.GrandTichu)
	case strings.HasPrefix(s.text, tichuPrefix):
		return s.declare(fields, 1, tichu.TichuBefore)
	}
	seat, tokens, err := s.seatLine()
	if err != nil {
		return err
	}
	s.round.SecondDeals[seat] = lo.Without(tokens, s.round.FirstDeals[seat]...)
	return nil
}

func (s *state) exchangeLine() error {
	fields := strings.Fields(s.text)
	if fields[0] == bombToken {
		return nil
	}
	giver, err := ParsePlayer(fields[0])
	if err != nil {
		return s.fail("%w", err)
	}
	if len(fields) < 2 || fields[1] != exchangeVerb {
		return s.fail("exchange line missing %q", exchangeVerb)
	}
	parts := lo.Filter(fields[2:], func(field string, _ int) bool { return field != fragmentSep })
	if len(parts) != 2*(tichu.SeatCount-1) {
		return s.fail("expected %d exchange fragments, found %d tokens", tichu.SeatCount-1, len(parts))
	}
	for _, pair := range lo.Chunk(parts, 2) {
		name := strings.TrimSuffix(pair[0], ":")
		taker, ok := s.names[name]
		if !ok {
			return s.fail("unknown exchange recipient %q", name)
		}
		if taker == giver {
			return s.fail("seat %d exchanges with itself", giver)
		}
		pass := Pass{Giver: giver, Taker: taker}
		if _, dup := s.round.Exchanges[pass]; dup {
			return s.fail("seat %d gives to seat %d twice", giver, taker)
		}
		if _, err := cards.Parse(pair[1]); err != nil {
			return s.fail("%w", err)
		}
		s.round.Exchanges[pass] = pair[1]
	}
	return nil
}

func (s *state) actionLine() error {
	fields := strings.Fields(s.text)
	switch {
	case fields[0] == tichuPrefix:
		return s.declare(fields, 1, tichu.TichuAfter)
	case strings.HasPrefix(fields[0], wishPrefix):
		if s.lastSeat < 0 {
			return s.fail("wish before any play")
		}
		rank := ""
		if idx := strings.LastIndexByte(s.text, ':'); idx >= 0 {
			rank = strings.TrimSpace(s.text[idx+1:])
		}
		s.round.Wish = &Wish{Seat: s.lastSeat, Rank: rank}
		return nil
	case strings.HasPrefix(fields[0], "("):
		return s.playLine(fields)
	}
	return s.fail("unrecognised line in %s section", s.mode)
}

func (s *state) playLine(fields []string) error {
	seat, err := ParsePlayer(fields[0])
	if err != nil {
		return s.fail("%w", err)
	}
	s.lastSeat = seat
	if len(fields) < 2 || fields[1] == passToken {
		return nil
	}
	if err := validateTokens(fields[1:]); err != nil {
		return s.fail("%w", err)
	}
	played, ok := s.plays[seat]
	if !ok {
		played = make(map[string]struct{}, tichu.HandSize)
		s.plays[seat] = played
	}
	for _, token := range fields[1:] {
		played[token] = struct{}{}
	}
	if len(played) >= tichu.HandSize && !lo.Contains(s.round.Finishes, seat) {
		s.round.Finishes = append(s.round.Finishes, seat)
	}
	return nil
}

// seatLine decodes "<seat> <card>*" into a sorted, de-duplicated token list.
func (s *state) seatLine() (int, []string, error) {
	fields := strings.Fields(s.text)
	seat, err := ParsePlayer(fields[0])
	if err != nil {
		return 0, nil, s.fail("%w", err)
	}
	tokens := lo.Uniq(fields[1:])
	if err := validateTokens(tokens); err != nil {
		return 0, nil, s.fail("%w", err)
	}
	cards.SortTokens(tokens)
	return seat, tokens, nil
}

func (s *state) declare(fields []string, at int, kind tichu.CallKind) error {
	if len(fields) <= at {
		return s.fail("declaration without a seat")
	}
	seat, err := ParsePlayer(fields[at])
	if err != nil {
		return s.fail("%w", err)
	}
	s.round.Calls[seat] = kind
	return nil
}

func (s *state) fail(format string, args ...any) error {
	return &tichu.Error{
		Kind:  tichu.ErrMalformedGame,
		Op:    "parse " + s.mode.String(),
		Value: s.text,
		Round: len(s.game.Rounds),
		Line:  s.line,
		Err:   fmt.Errorf(format, args...),
	}
}

func validateTokens(tokens []string) error {
	for _, token := range tokens {
		if _, err := cards.Parse(token); err != nil {
			return err
		}
	}
	return nil
}

func seatIndices() []int {
	out := make([]int, tichu.SeatCount)
	for i := range out {
		out[i] = i
	}
	return out
}
