package store

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrGameNotFound is returned when deleting a game that is not recorded.
var ErrGameNotFound = errors.New("game not found")

// DeleteGame removes a game and everything it owns. Players and cards stay.
func (s *Store) DeleteGame(ctx context.Context, gameID int64) error {
	res, err := s.execWithRetry(ctx, `DELETE FROM games WHERE id = ?`, gameID)
	if err != nil {
		return fmt.Errorf("delete game %d: %w", gameID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete game %d: %w", gameID, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete game %d: %w", gameID, ErrGameNotFound)
	}
	return nil
}

// Wipe deletes every recorded game and returns how many were removed.
// Players and cards are kept.
func (s *Store) Wipe(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM games`)
	if err != nil {
		return 0, fmt.Errorf("wipe games: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("wipe games: %w", err)
	}
	return affected, nil
}

// Size returns the on-disk size of the database including its WAL files.
func (s *Store) Size() (int64, error) {
	if s.path == "" {
		return 0, errors.New("database path is unknown")
	}
	var total int64
	for _, path := range []string{s.path, s.path + "-wal", s.path + "-shm"} {
		info, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.IsDir() {
			return 0, fmt.Errorf("database path %q is a directory", path)
		}
		total += info.Size()
	}
	return total, nil
}
