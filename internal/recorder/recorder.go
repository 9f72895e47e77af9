package recorder

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"tichme/internal/cards"
	"tichme/internal/logging"
	"tichme/internal/store"
	"tichme/internal/tichu"
	"tichme/internal/transcript"
)

// Outcome describes what Record did with a game.
type Outcome struct {
	GameID    int64
	Duplicate bool
	Rounds    int
}

// Recorder writes parsed games into a store.
type Recorder struct {
	store  *store.Store
	logger *slog.Logger
	now    func() time.Time
}

// New constructs a Recorder. A nil logger discards output.
func New(st *store.Store, logger *slog.Logger) *Recorder {
	return &Recorder{
		store:  st,
		logger: logging.NewComponentLogger(logger, "recorder"),
		now:    time.Now,
	}
}

// Record validates game and writes it in one transaction. A game whose URL
// is already recorded aborts the transaction with tichu.ErrDuplicateGame,
// which Record turns into Outcome.Duplicate and no error; nothing is
// written in that case.
func (r *Recorder) Record(ctx context.Context, game *transcript.Game) (Outcome, error) {
	if err := Validate(game); err != nil {
		return Outcome{}, err
	}
	logger := logging.WithContext(ctx, r.logger)

	var outcome Outcome
	err := r.store.WithTx(ctx, func(tx *store.Tx) error {
		outcome = Outcome{}
		exists, err := tx.GameExists(ctx, game.URL)
		if err != nil {
			return err
		}
		if exists {
			return &tichu.Error{Kind: tichu.ErrDuplicateGame, Op: "record game", Value: game.URL, Round: -1}
		}
		w := &gameWriter{tx: tx, game: game}
		if err := w.write(ctx, r.now()); err != nil {
			return err
		}
		outcome.GameID = w.gameID
		outcome.Rounds = len(game.Rounds)
		return nil
	})
	if errors.Is(err, tichu.ErrDuplicateGame) {
		logger.Debug("game already recorded", logging.ErrorArgs(err)...)
		return Outcome{Duplicate: true}, nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("record game: %w", err)
	}

	logger.Info("game recorded",
		logging.Int64(logging.FieldGameID, outcome.GameID),
		logging.String("url", game.URL),
		logging.Int("rounds", outcome.Rounds),
	)
	return outcome, nil
}

// gameWriter holds the ids resolved while writing one game.
type gameWriter struct {
	tx     *store.Tx
	game   *transcript.Game
	gameID int64
	teams  [tichu.TeamCount]int64
	seats  [tichu.SeatCount]int64
	cards  map[string]int64
}

func (w *gameWriter) write(ctx context.Context, recordedAt time.Time) error {
	var err error
	if w.gameID, err = w.tx.InsertGame(ctx, w.game.URL, w.game.Date, recordedAt); err != nil {
		return err
	}
	for idx := range w.teams {
		if w.teams[idx], err = w.tx.InsertTeam(ctx, w.gameID, idx); err != nil {
			return err
		}
	}
	if err := w.writeSeats(ctx); err != nil {
		return err
	}
	if err := w.resolveCards(ctx); err != nil {
		return err
	}
	for idx := range w.game.Rounds {
		if err := w.writeRound(ctx, idx, &w.game.Rounds[idx]); err != nil {
			return fmt.Errorf("round %d: %w", idx, err)
		}
	}
	return nil
}

func (w *gameWriter) writeSeats(ctx context.Context) error {
	for seat, position := range tichu.Positions() {
		playerID, err := w.tx.GetOrCreatePlayer(ctx, NormalizeName(w.game.Players[seat]))
		if err != nil {
			return err
		}
		if w.seats[seat], err = w.tx.InsertSeat(ctx, w.gameID, playerID, position); err != nil {
			return err
		}
		if err := w.tx.AddTeamMember(ctx, w.teams[tichu.TeamForSeat(seat)], playerID); err != nil {
			return err
		}
	}
	return nil
}

func (w *gameWriter) resolveCards(ctx context.Context) error {
	all := cards.All()
	w.cards = make(map[string]int64, len(all))
	for _, card := range all {
		id, err := w.tx.GetOrCreateCard(ctx, card)
		if err != nil {
			return err
		}
		w.cards[card.Token()] = id
	}
	return nil
}

func (w *gameWriter) card(token string) (int64, error) {
	id, ok := w.cards[token]
	if !ok {
		return 0, &tichu.Error{Kind: tichu.ErrMalformedCardToken, Op: "resolve card", Value: token, Round: -1}
	}
	return id, nil
}

func (w *gameWriter) writeRound(ctx context.Context, idx int, round *transcript.Round) error {
	roundID, err := w.tx.InsertRound(ctx, w.gameID, idx)
	if err != nil {
		return err
	}
	if err := w.writeDeals(ctx, roundID, round.FirstDeals, tichu.FirstEight); err != nil {
		return err
	}
	if err := w.writeDeals(ctx, roundID, round.SecondDeals, tichu.SecondSix); err != nil {
		return err
	}

	passes := slices.SortedFunc(maps.Keys(round.Exchanges), func(a, b transcript.Pass) int {
		return cmp.Or(cmp.Compare(a.Giver, b.Giver), cmp.Compare(a.Taker, b.Taker))
	})
	for _, pass := range passes {
		cardID, err := w.card(round.Exchanges[pass])
		if err != nil {
			return err
		}
		if err := w.tx.InsertExchange(ctx, roundID, w.seats[pass.Giver], w.seats[pass.Taker], cardID); err != nil {
			return err
		}
	}

	for _, seat := range slices.Sorted(maps.Keys(round.Calls)) {
		if err := w.tx.InsertDeclaration(ctx, roundID, w.seats[seat], round.Calls[seat]); err != nil {
			return err
		}
	}

	if wish := round.Wish; wish != nil {
		var rank *int
		if wish.Rank != "" {
			value, err := cards.ParseRank(wish.Rank)
			if err != nil {
				return err
			}
			rank = &value
		}
		if err := w.tx.InsertWish(ctx, roundID, w.seats[wish.Seat], rank); err != nil {
			return err
		}
	}

	for order, seat := range round.Finishes {
		if err := w.tx.InsertFinish(ctx, roundID, w.seats[seat], order); err != nil {
			return err
		}
	}

	for team, score := range round.Scores {
		if err := w.tx.InsertScore(ctx, roundID, w.teams[team], score); err != nil {
			return err
		}
	}
	return nil
}

func (w *gameWriter) writeDeals(ctx context.Context, roundID int64, deals map[int][]string, phase tichu.Phase) error {
	for _, seat := range slices.Sorted(maps.Keys(deals)) {
		for _, token := range deals[seat] {
			cardID, err := w.card(token)
			if err != nil {
				return err
			}
			if err := w.tx.InsertDeal(ctx, roundID, w.seats[seat], cardID, phase); err != nil {
				return err
			}
		}
	}
	return nil
}
