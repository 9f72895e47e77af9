package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tichme/internal/cards"
	"tichme/internal/tichu"
)

// Tx is a write transaction handed to WithTx callbacks.
type Tx struct {
	tx *sql.Tx
}

// WithTx runs fn inside a transaction and commits when fn returns nil. Any
// error from fn or from the commit rolls back every write fn made. When
// SQLite reports the database busy the whole unit is retried, so fn must
// not have side effects outside the transaction.
func (s *Store) WithTx(ctx context.Context, fn func(*Tx) error) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		sqlTx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		if err := fn(&Tx{tx: sqlTx}); err != nil {
			_ = sqlTx.Rollback()
			return err
		}
		if err := sqlTx.Commit(); err != nil {
			_ = sqlTx.Rollback()
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
}

func (t *Tx) insert(ctx context.Context, what, query string, args ...any) (int64, error) {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", what, err)
	}
	return lastInsertID(res, what)
}

func (t *Tx) exec(ctx context.Context, what, query string, args ...any) error {
	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

// GameExists reports whether a game with url is already recorded.
func (t *Tx) GameExists(ctx context.Context, url string) (bool, error) {
	if url == "" {
		return false, nil
	}
	var exists int
	err := t.tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM games WHERE url = ?)`, url).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check game url: %w", err)
	}
	return exists == 1, nil
}

// InsertGame adds a game row. An empty url and a nil playedAt are stored
// as NULL.
func (t *Tx) InsertGame(ctx context.Context, url string, playedAt *time.Time, recordedAt time.Time) (int64, error) {
	return t.insert(ctx, "insert game",
		`INSERT INTO games (url, played_at, recorded_at) VALUES (?, ?, ?)`,
		nullableString(url), nullableTime(playedAt), formatTime(recordedAt))
}

// GetOrCreatePlayer returns the id of the player called name, creating it
// when absent.
func (t *Tx) GetOrCreatePlayer(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, errors.New("get or create player: empty name")
	}
	if err := t.exec(ctx, "insert player",
		`INSERT INTO players (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name); err != nil {
		return 0, err
	}
	var id int64
	if err := t.tx.QueryRowContext(ctx, `SELECT id FROM players WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("select player %q: %w", name, err)
	}
	return id, nil
}

// GetOrCreateCard returns the id of the catalog row for c, creating it when
// absent.
func (t *Tx) GetOrCreateCard(ctx context.Context, c cards.Card) (int64, error) {
	if !c.Valid() {
		return 0, fmt.Errorf("get or create card: invalid card %+v", c)
	}
	var rank any
	if !c.IsSpecial() {
		rank = c.Rank
	}
	if err := t.exec(ctx, "insert card",
		`INSERT INTO cards (code, rank, suit, special) VALUES (?, ?, ?, ?) ON CONFLICT(code) DO NOTHING`,
		c.Token(), rank, nullableString(c.SuitName()), nullableString(c.SpecialName())); err != nil {
		return 0, err
	}
	var id int64
	if err := t.tx.QueryRowContext(ctx, `SELECT id FROM cards WHERE code = ?`, c.Token()).Scan(&id); err != nil {
		return 0, fmt.Errorf("select card %s: %w", c.Token(), err)
	}
	return id, nil
}

// InsertTeam adds team idx (0 or 1) to a game.
func (t *Tx) InsertTeam(ctx context.Context, gameID int64, idx int) (int64, error) {
	return t.insert(ctx, "insert team",
		`INSERT INTO teams (game_id, idx) VALUES (?, ?)`, gameID, idx)
}

// AddTeamMember links a player to a team.
func (t *Tx) AddTeamMember(ctx context.Context, teamID, playerID int64) error {
	return t.exec(ctx, "add team member",
		`INSERT INTO team_members (team_id, player_id) VALUES (?, ?)`, teamID, playerID)
}

// InsertSeat places a player at a position in a game.
func (t *Tx) InsertSeat(ctx context.Context, gameID, playerID int64, position tichu.Position) (int64, error) {
	return t.insert(ctx, "insert seat",
		`INSERT INTO seats (game_id, player_id, position) VALUES (?, ?, ?)`,
		gameID, playerID, string(position))
}

// InsertRound adds round number order (0-based) to a game.
func (t *Tx) InsertRound(ctx context.Context, gameID int64, order int) (int64, error) {
	return t.insert(ctx, "insert round",
		`INSERT INTO rounds (game_id, ord) VALUES (?, ?)`, gameID, order)
}

// InsertDeal records that a seat was dealt a card in the given phase.
func (t *Tx) InsertDeal(ctx context.Context, roundID, seatID, cardID int64, phase tichu.Phase) error {
	return t.exec(ctx, "insert deal",
		`INSERT INTO deals (round_id, seat_id, card_id, phase) VALUES (?, ?, ?, ?)`,
		roundID, seatID, cardID, string(phase))
}

// InsertExchange records a card passed from giver to taker.
func (t *Tx) InsertExchange(ctx context.Context, roundID, giverID, takerID, cardID int64) error {
	return t.exec(ctx, "insert exchange",
		`INSERT INTO exchanges (round_id, giver_id, taker_id, card_id) VALUES (?, ?, ?, ?)`,
		roundID, giverID, takerID, cardID)
}

// InsertDeclaration records a seat's call for a round.
func (t *Tx) InsertDeclaration(ctx context.Context, roundID, seatID int64, kind tichu.CallKind) error {
	return t.exec(ctx, "insert declaration",
		`INSERT INTO declarations (round_id, seat_id, kind) VALUES (?, ?, ?)`,
		roundID, seatID, string(kind))
}

// InsertWish records the round's wish. A nil rank is stored as NULL.
func (t *Tx) InsertWish(ctx context.Context, roundID, seatID int64, rank *int) error {
	return t.exec(ctx, "insert wish",
		`INSERT INTO wishes (round_id, seat_id, rank) VALUES (?, ?, ?)`,
		roundID, seatID, nullableInt(rank))
}

// InsertFinish records that a seat went out at the 0-based order.
func (t *Tx) InsertFinish(ctx context.Context, roundID, seatID int64, order int) error {
	return t.exec(ctx, "insert finish",
		`INSERT INTO finishes (round_id, seat_id, ord) VALUES (?, ?, ?)`,
		roundID, seatID, order)
}

// InsertScore records a team's points for a round.
func (t *Tx) InsertScore(ctx context.Context, roundID, teamID int64, score int) error {
	return t.exec(ctx, "insert score",
		`INSERT INTO scores (round_id, team_id, score) VALUES (?, ?, ?)`,
		roundID, teamID, score)
}
