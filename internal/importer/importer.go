package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"tichme/internal/config"
	"tichme/internal/logging"
	"tichme/internal/recorder"
	"tichme/internal/store"
	"tichme/internal/tichu"
	"tichme/internal/transcript"
)

const lockRetryDelay = 100 * time.Millisecond

// Failure is a source that could not be recorded.
type Failure struct {
	Source string
	Err    error
}

// Summary reports the result of one Import call.
type Summary struct {
	SessionID  string
	Recorded   int
	Duplicates int
	Failed     int
	Rounds     int
	Failures   []Failure
}

// Importer records transcript sources into a store.
type Importer struct {
	store    *store.Store
	recorder *recorder.Recorder
	logger   *slog.Logger
	lockPath string
	lock     *flock.Flock
}

// New constructs an Importer that locks cfg.LockPath() while importing.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) (*Importer, error) {
	if cfg == nil || st == nil {
		return nil, errors.New("importer requires config and store")
	}
	lockPath := cfg.LockPath()
	return &Importer{
		store:    st,
		recorder: recorder.New(st, logger),
		logger:   logging.NewComponentLogger(logger, "importer"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Import records every source in order. Sources are parsed concurrently but
// written one at a time. It waits for the import lock until ctx is done.
// Per-source failures are collected in the Summary; the returned error is
// reserved for lock failures and cancellation.
func (im *Importer) Import(ctx context.Context, sources []Source) (Summary, error) {
	locked, err := im.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return Summary{}, fmt.Errorf("acquire import lock %s: %w", im.lockPath, err)
	}
	if !locked {
		return Summary{}, fmt.Errorf("acquire import lock %s: already held", im.lockPath)
	}
	defer func() {
		if err := im.lock.Unlock(); err != nil {
			im.logger.Warn("failed to release import lock", logging.String("lock", im.lockPath), logging.Error(err))
		}
	}()

	summary := Summary{SessionID: uuid.NewString()}
	ctx = tichu.WithSessionID(ctx, summary.SessionID)
	logger := logging.WithContext(ctx, im.logger)
	logger.Info("import started", logging.Int("sources", len(sources)))

	parsed, err := parseAll(ctx, sources)
	if err != nil {
		return summary, err
	}

	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		outcome, err := im.importOne(tichu.WithSource(ctx, src.Label()), src, parsed[i])
		switch {
		case err != nil:
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{Source: src.Label(), Err: err})
		case outcome.Duplicate:
			summary.Duplicates++
		default:
			summary.Recorded++
			summary.Rounds += outcome.Rounds
		}
	}

	logger.Info("import finished",
		logging.Int("recorded", summary.Recorded),
		logging.Int("duplicates", summary.Duplicates),
		logging.Int("failed", summary.Failed),
	)
	return summary, nil
}

// parseResult is one source parsed ahead of recording.
type parseResult struct {
	game *transcript.Game
	err  error
}

// parseAll parses every source on a bounded worker pool. Parse errors stay
// with their source; only cancellation fails the whole batch.
func parseAll(ctx context.Context, sources []Source) ([]parseResult, error) {
	results := make([]parseResult, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			game, err := transcript.Parse(sources[i].Text)
			results[i] = parseResult{game: game, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (im *Importer) importOne(ctx context.Context, src Source, result parseResult) (recorder.Outcome, error) {
	logger := logging.WithContext(ctx, im.logger)

	if src.URL != "" {
		exists, err := im.store.GameExists(ctx, src.URL)
		if err != nil {
			logger.Error("duplicate check failed", logging.ErrorArgs(err)...)
			return recorder.Outcome{}, err
		}
		if exists {
			logger.Debug("source already recorded")
			return recorder.Outcome{Duplicate: true}, nil
		}
	}

	if result.err != nil {
		logger.Warn("transcript rejected", logging.ErrorArgs(result.err)...)
		return recorder.Outcome{}, result.err
	}
	game := result.game
	game.URL = src.URL
	game.Date = src.Date

	outcome, err := im.recorder.Record(ctx, game)
	if err != nil {
		logger.Warn("game not recorded", logging.ErrorArgs(err)...)
		return recorder.Outcome{}, err
	}
	return outcome, nil
}
