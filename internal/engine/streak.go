package engine

import (
	"context"
	"fmt"
	"time"
)

// MaxStreakDays caps how far back the streak walk looks. An unbroken history
// longer than this still reports MaxStreakDays.
const MaxStreakDays = 365

// ActivityDayStore is the slice of the activity store the streak calculator
// needs: a per-day existence probe.
type ActivityDayStore interface {
	HasActivityOnDay(ctx context.Context, userID int, day time.Time) (bool, error)
}

// StreakCalculator computes consecutive-day activity streaks.
type StreakCalculator struct {
	store ActivityDayStore
}

// NewStreakCalculator creates a StreakCalculator over the given store.
func NewStreakCalculator(store ActivityDayStore) *StreakCalculator {
	return &StreakCalculator{store: store}
}

// CurrentStreak walks backward day by day from asOf (inclusive), counting
// consecutive calendar days with at least one activity, and stops at the
// first gap. No activity on asOf itself yields 0.
func (c *StreakCalculator) CurrentStreak(ctx context.Context, userID int, asOf time.Time) (int, error) {
	day := DateOnly(asOf)

	streak := 0
	for i := 0; i < MaxStreakDays; i++ {
		check := day.AddDate(0, 0, -i)
		active, err := c.store.HasActivityOnDay(ctx, userID, check)
		if err != nil {
			return 0, fmt.Errorf("checking activity on %s: %w", check.Format("2006-01-02"), err)
		}
		if !active {
			break
		}
		streak++
	}
	return streak, nil
}
