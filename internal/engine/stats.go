package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/meltforce/burnlog/internal/models"
)

// ActivityTotalsStore provides lifetime aggregates over a user's activities.
type ActivityTotalsStore interface {
	UserLifetimeTotals(ctx context.Context, userID int) (models.ActivityTotals, error)
	LastActivityDate(ctx context.Context, userID int) (*time.Time, error)
}

// StatsStore reads and writes persisted user stats rows. GetUserStats returns
// a zeroed stats row (level 1) when the user has none yet.
type StatsStore interface {
	GetUserStats(ctx context.Context, userID int) (models.UserStats, error)
	UpsertUserStats(ctx context.Context, stats *models.UserStats) error
}

// StatsAggregator recomputes a user's lifetime totals, streak, points, and
// level. Recompute is idempotent: with no new activities, repeated calls
// produce identical output.
type StatsAggregator struct {
	activities ActivityTotalsStore
	stats      StatsStore
	streak     *StreakCalculator
	now        func() time.Time
}

// NewStatsAggregator creates a StatsAggregator. The clock is injectable for
// tests and defaults to time.Now.
func NewStatsAggregator(activities ActivityTotalsStore, stats StatsStore, streak *StreakCalculator, now func() time.Time) *StatsAggregator {
	if now == nil {
		now = time.Now
	}
	return &StatsAggregator{activities: activities, stats: stats, streak: streak, now: now}
}

// Recompute rebuilds the user's stats from their full activity history and
// persists the result. LongestStreakDays only ever grows: it keeps the
// maximum of its previous value and the freshly computed current streak.
//
// Callers must serialize concurrent recomputes for the same user; the
// coordinating Engine does this with a per-user lock.
func (a *StatsAggregator) Recompute(ctx context.Context, userID int) (models.UserStats, error) {
	prev, err := a.stats.GetUserStats(ctx, userID)
	if err != nil {
		return models.UserStats{}, fmt.Errorf("loading stats for user %d: %w", userID, err)
	}

	totals, err := a.activities.UserLifetimeTotals(ctx, userID)
	if err != nil {
		return models.UserStats{}, fmt.Errorf("aggregating activities for user %d: %w", userID, err)
	}

	asOf := a.now()
	current, err := a.streak.CurrentStreak(ctx, userID, asOf)
	if err != nil {
		return models.UserStats{}, fmt.Errorf("computing streak for user %d: %w", userID, err)
	}

	last, err := a.activities.LastActivityDate(ctx, userID)
	if err != nil {
		return models.UserStats{}, fmt.Errorf("finding last activity for user %d: %w", userID, err)
	}

	stats := models.UserStats{
		UserID:            userID,
		TotalCalories:     totals.Calories,
		TotalWorkoutMin:   totals.DurationMin,
		TotalWorkouts:     totals.Count,
		CurrentStreakDays: current,
		LongestStreakDays: max(prev.LongestStreakDays, current),
		Points:            models.PointsFor(totals.Calories, totals.Count),
		LastActivityDate:  last,
		UpdatedAt:         asOf,
	}
	stats.Level = models.LevelFor(stats.Points)

	if err := a.stats.UpsertUserStats(ctx, &stats); err != nil {
		return models.UserStats{}, fmt.Errorf("persisting stats for user %d: %w", userID, err)
	}
	return stats, nil
}
