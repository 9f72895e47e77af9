// Package schedule decides which archive month to fetch next by finding the
// most recent month with no recorded game.
package schedule

import (
	"context"
	"fmt"
	"time"

	"tichme/internal/tichu"
)

// Month is a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month t falls in.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Prev returns the month before m.
func (m Month) Prev() Month {
	if m.Month == time.January {
		return Month{Year: m.Year - 1, Month: time.December}
	}
	return Month{Year: m.Year, Month: m.Month - 1}
}

// Before reports whether m is earlier than other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MonthSource lists the months that hold at least one dated game.
type MonthSource interface {
	GameMonths(ctx context.Context) ([]Month, error)
}

// EarliestUngappedMonth walks backward from now's month and returns the
// first month with no dated game.
func EarliestUngappedMonth(ctx context.Context, src MonthSource, now time.Time) (Month, error) {
	return Finder{}.EarliestUngappedMonth(ctx, src, now)
}

// Finder runs the gap walk with an optional floor. When Epoch is set the
// walk never goes below it: if every month from now back to Epoch is
// recorded, the result is Epoch together with tichu.ErrNoDataForPeriod.
type Finder struct {
	Epoch Month
}

func (f Finder) bounded() bool {
	return f.Epoch.Year != 0
}

// EarliestUngappedMonth is the Finder form of the package-level function.
func (f Finder) EarliestUngappedMonth(ctx context.Context, src MonthSource, now time.Time) (Month, error) {
	months, err := src.GameMonths(ctx)
	if err != nil {
		return Month{}, fmt.Errorf("load game months: %w", err)
	}
	recorded := make(map[Month]struct{}, len(months))
	for _, m := range months {
		recorded[m] = struct{}{}
	}

	current := MonthOf(now)
	for {
		if f.bounded() && current.Before(f.Epoch) {
			return f.Epoch, &tichu.Error{
				Kind:  tichu.ErrNoDataForPeriod,
				Op:    "gap query",
				Value: current.String(),
				Round: -1,
				Err:   fmt.Errorf("archive starts at %s", f.Epoch),
			}
		}
		if _, ok := recorded[current]; !ok {
			return current, nil
		}
		current = current.Prev()
	}
}
