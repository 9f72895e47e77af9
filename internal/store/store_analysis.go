package store

import (
	"context"
	"database/sql"
	"fmt"

	"tichme/internal/tichu"
)

// countedTables lists every table Counts reports, in schema order.
var countedTables = []string{
	"players",
	"cards",
	"games",
	"teams",
	"team_members",
	"seats",
	"rounds",
	"deals",
	"exchanges",
	"declarations",
	"wishes",
	"finishes",
	"scores",
}

// Counts returns the number of rows in each table.
func (s *Store) Counts(ctx context.Context) ([]TableCount, error) {
	ctx = ensureContext(ctx)
	counts := make([]TableCount, 0, len(countedTables))
	for _, table := range countedTables {
		var rows int64
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM `+table).Scan(&rows); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts = append(counts, TableCount{Table: table, Rows: rows})
	}
	return counts, nil
}

// CountMap returns Counts keyed by table name.
func (s *Store) CountMap(ctx context.Context) (map[string]int64, error) {
	counts, err := s.Counts(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(counts))
	for _, c := range counts {
		out[c.Table] = c.Rows
	}
	return out, nil
}

// ExchangesByCall joins every exchange with the declaration its taker made
// in the same round and buckets the result by CallGroup. Every group is
// present in the result, possibly empty.
func (s *Store) ExchangesByCall(ctx context.Context) (map[CallGroup][]CallExchange, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `
		SELECT e.round_id, g.position, t.position, c.code, d.kind
		FROM exchanges e
		JOIN seats g ON g.id = e.giver_id
		JOIN seats t ON t.id = e.taker_id
		JOIN cards c ON c.id = e.card_id
		LEFT JOIN declarations d ON d.round_id = e.round_id AND d.seat_id = e.taker_id
		ORDER BY e.round_id, e.id`)
	if err != nil {
		return nil, fmt.Errorf("exchanges by call: %w", err)
	}
	defer rows.Close()

	out := make(map[CallGroup][]CallExchange, len(CallGroups()))
	for _, group := range CallGroups() {
		out[group] = nil
	}
	for rows.Next() {
		var (
			ex           CallExchange
			giver, taker string
			code         string
			kind         sql.NullString
		)
		if err := rows.Scan(&ex.RoundID, &giver, &taker, &code, &kind); err != nil {
			return nil, fmt.Errorf("scan exchange by call: %w", err)
		}
		if ex.Card, err = parseCardCode(code); err != nil {
			return nil, err
		}
		ex.Giver = tichu.Position(giver)
		ex.Taker = tichu.Position(taker)
		ex.TakerCall = tichu.CallKind(kind.String)
		ex.Group = GroupForCall(ex.TakerCall)
		out[ex.Group] = append(out[ex.Group], ex)
	}
	return out, rows.Err()
}
