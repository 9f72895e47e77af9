package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"tichme/internal/cards"
	"tichme/internal/schedule"
	"tichme/internal/tichu"
)

const gameColumns = `g.id, g.url, g.played_at, g.recorded_at,
	(SELECT COUNT(1) FROM rounds r WHERE r.game_id = g.id)`

// positionOrder sorts seat positions into seat-index order.
const positionOrder = `CASE %s WHEN 'south' THEN 0 WHEN 'east' THEN 1 WHEN 'north' THEN 2 ELSE 3 END`

func scanGame(row scanner) (*Game, error) {
	var (
		game       Game
		url        sql.NullString
		playedAt   sql.NullString
		recordedAt string
	)
	if err := row.Scan(&game.ID, &url, &playedAt, &recordedAt, &game.Rounds); err != nil {
		return nil, err
	}
	game.URL = url.String
	game.PlayedAt = parseNullTime(playedAt)
	if recorded, err := parseTimeString(recordedAt); err == nil {
		game.RecordedAt = recorded
	}
	return &game, nil
}

func parseCardCode(code string) (cards.Card, error) {
	card, err := cards.Parse(code)
	if err != nil {
		return cards.Card{}, fmt.Errorf("stored card %q: %w", code, err)
	}
	return card, nil
}

// GameExists reports whether a game with url is already recorded.
func (s *Store) GameExists(ctx context.Context, url string) (bool, error) {
	if url == "" {
		return false, nil
	}
	var exists int
	err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT EXISTS(SELECT 1 FROM games WHERE url = ?)`, url).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check game url: %w", err)
	}
	return exists == 1, nil
}

// Games lists recorded games, most recently recorded first. A limit of zero
// or less returns every game.
func (s *Store) Games(ctx context.Context, limit int) ([]Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games g ORDER BY g.id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, *game)
	}
	return games, rows.Err()
}

// GameByURL fetches the game recorded for url. It returns nil when there is
// no such game.
func (s *Store) GameByURL(ctx context.Context, url string) (*Game, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+gameColumns+` FROM games g WHERE g.url = ?`, url)
	game, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("game by url: %w", err)
	}
	return game, nil
}

// GameMonths returns the distinct months holding at least one dated game.
// Undated games are ignored.
func (s *Store) GameMonths(ctx context.Context) ([]schedule.Month, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT DISTINCT substr(played_at, 1, 7) FROM games WHERE played_at IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("game months: %w", err)
	}
	defer rows.Close()

	var months []schedule.Month
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan game month: %w", err)
		}
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			return nil, fmt.Errorf("parse game month %q: %w", raw, err)
		}
		months = append(months, schedule.MonthOf(parsed))
	}
	return months, rows.Err()
}

// Seats lists a game's seats in seat-index order.
func (s *Store) Seats(ctx context.Context, gameID int64) ([]Seat, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `
		SELECT s.id, s.game_id, s.player_id, p.name, s.position, t.idx
		FROM seats s
		JOIN players p ON p.id = s.player_id
		JOIN team_members tm ON tm.player_id = s.player_id
		JOIN teams t ON t.id = tm.team_id AND t.game_id = s.game_id
		WHERE s.game_id = ?
		ORDER BY `+fmt.Sprintf(positionOrder, "s.position"), gameID)
	if err != nil {
		return nil, fmt.Errorf("list seats: %w", err)
	}
	defer rows.Close()

	var seats []Seat
	for rows.Next() {
		var (
			seat     Seat
			position string
		)
		if err := rows.Scan(&seat.ID, &seat.GameID, &seat.PlayerID, &seat.Player, &position, &seat.Team); err != nil {
			return nil, fmt.Errorf("scan seat: %w", err)
		}
		seat.Position = tichu.Position(position)
		seats = append(seats, seat)
	}
	return seats, rows.Err()
}

// Rounds lists a game's rounds in play order.
func (s *Store) Rounds(ctx context.Context, gameID int64) ([]Round, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT id, game_id, ord FROM rounds WHERE game_id = ? ORDER BY ord`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()

	var rounds []Round
	for rows.Next() {
		var round Round
		if err := rows.Scan(&round.ID, &round.GameID, &round.Order); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		rounds = append(rounds, round)
	}
	return rounds, rows.Err()
}

// Deals lists the cards dealt in a round, by seat and then catalog order.
func (s *Store) Deals(ctx context.Context, roundID int64) ([]Deal, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `
		SELECT d.round_id, d.seat_id, s.position, c.code, d.phase
		FROM deals d
		JOIN seats s ON s.id = d.seat_id
		JOIN cards c ON c.id = d.card_id
		WHERE d.round_id = ?
		ORDER BY `+fmt.Sprintf(positionOrder, "s.position")+`, d.id`, roundID)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	var deals []Deal
	for rows.Next() {
		var (
			deal     Deal
			position string
			code     string
			phase    string
		)
		if err := rows.Scan(&deal.RoundID, &deal.SeatID, &position, &code, &phase); err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		if deal.Card, err = parseCardCode(code); err != nil {
			return nil, err
		}
		deal.Position = tichu.Position(position)
		deal.Phase = tichu.Phase(phase)
		deals = append(deals, deal)
	}
	return deals, rows.Err()
}

// Exchanges lists a round's exchanges in recorded order.
func (s *Store) Exchanges(ctx context.Context, roundID int64) ([]Exchange, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `
		SELECT e.id, e.round_id, e.giver_id, e.taker_id, g.position, t.position, c.code
		FROM exchanges e
		JOIN seats g ON g.id = e.giver_id
		JOIN seats t ON t.id = e.taker_id
		JOIN cards c ON c.id = e.card_id
		WHERE e.round_id = ?
		ORDER BY e.id`, roundID)
	if err != nil {
		return nil, fmt.Errorf("list exchanges: %w", err)
	}
	defer rows.Close()

	var exchanges []Exchange
	for rows.Next() {
		var (
			ex           Exchange
			giver, taker string
			code         string
		)
		if err := rows.Scan(&ex.ID, &ex.RoundID, &ex.GiverSeatID, &ex.TakerSeatID, &giver, &taker, &code); err != nil {
			return nil, fmt.Errorf("scan exchange: %w", err)
		}
		if ex.Card, err = parseCardCode(code); err != nil {
			return nil, err
		}
		ex.Giver = tichu.Position(giver)
		ex.Taker = tichu.Position(taker)
		exchanges = append(exchanges, ex)
	}
	return exchanges, rows.Err()
}

// Declarations lists a round's calls in seat-index order.
func (s *Store) Declarations(ctx context.Context, roundID int64) ([]Declaration, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `
		SELECT d.round_id, d.seat_id, s.position, d.kind
		FROM declarations d
		JOIN seats s ON s.id = d.seat_id
		WHERE d.round_id = ?
		ORDER BY `+fmt.Sprintf(positionOrder, "s.position"), roundID)
	if err != nil {
		return nil, fmt.Errorf("list declarations: %w", err)
	}
	defer rows.Close()

	var decls []Declaration
	for rows.Next() {
		var (
			decl           Declaration
			position, kind string
		)
		if err := rows.Scan(&decl.RoundID, &decl.SeatID, &position, &kind); err != nil {
			return nil, fmt.Errorf("scan declaration: %w", err)
		}
		decl.Position = tichu.Position(position)
		decl.Kind = tichu.CallKind(kind)
		decls = append(decls, decl)
	}
	return decls, rows.Err()
}

// Wish returns the round's wish, or nil when no wish was made.
func (s *Store) Wish(ctx context.Context, roundID int64) (*Wish, error) {
	var (
		wish     Wish
		position string
		rank     sql.NullInt64
	)
	err := s.db.QueryRowContext(ensureContext(ctx), `
		SELECT w.round_id, w.seat_id, s.position, w.rank
		FROM wishes w
		JOIN seats s ON s.id = w.seat_id
		WHERE w.round_id = ?`, roundID).Scan(&wish.RoundID, &wish.SeatID, &position, &rank)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("wish: %w", err)
	}
	wish.Position = tichu.Position(position)
	if rank.Valid {
		value := int(rank.Int64)
		wish.Rank = &value
	}
	return &wish, nil
}

// Finishes lists a round's finish order, first out first.
func (s *Store) Finishes(ctx context.Context, roundID int64) ([]Finish, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `
		SELECT f.round_id, f.seat_id, s.position, f.ord
		FROM finishes f
		JOIN seats s ON s.id = f.seat_id
		WHERE f.round_id = ?
		ORDER BY f.ord`, roundID)
	if err != nil {
		return nil, fmt.Errorf("list finishes: %w", err)
	}
	defer rows.Close()

	var finishes []Finish
	for rows.Next() {
		var (
			finish   Finish
			position string
		)
		if err := rows.Scan(&finish.RoundID, &finish.SeatID, &position, &finish.Order); err != nil {
			return nil, fmt.Errorf("scan finish: %w", err)
		}
		finish.Position = tichu.Position(position)
		finishes = append(finishes, finish)
	}
	return finishes, rows.Err()
}

// Scores lists a round's scores by team index.
func (s *Store) Scores(ctx context.Context, roundID int64) ([]Score, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `
		SELECT sc.round_id, sc.team_id, t.idx, sc.score
		FROM scores sc
		JOIN teams t ON t.id = sc.team_id
		WHERE sc.round_id = ?
		ORDER BY t.idx`, roundID)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	var scores []Score
	for rows.Next() {
		var score Score
		if err := rows.Scan(&score.RoundID, &score.TeamID, &score.Team, &score.Score); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

// Cards lists the stored catalog in catalog order.
func (s *Store) Cards(ctx context.Context) ([]CardRow, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT id, code FROM cards`)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var out []CardRow
	for rows.Next() {
		var (
			row  CardRow
			code string
		)
		if err := rows.Scan(&row.ID, &code); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		if row.Card, err = parseCardCode(code); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b CardRow) int {
		return cards.Index(a.Card) - cards.Index(b.Card)
	})
	return out, nil
}
