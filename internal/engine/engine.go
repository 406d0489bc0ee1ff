// Package engine implements the analytics and gamification core: streak
// calculation, goal progress evaluation, user stats aggregation, and
// leaderboard snapshots. It is pure computation over store interfaces; the
// storage package provides the PostgreSQL implementation.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/meltforce/burnlog/internal/models"
)

// GoalLister fetches a user's goals that are still active.
type GoalLister interface {
	ActiveGoals(ctx context.Context, userID int) ([]models.Goal, error)
}

// Store is the full data-layer surface the engine consumes.
type Store interface {
	ActivityDayStore
	ActivityRangeStore
	ActivityTotalsStore
	PeriodTotalsStore
	StatsStore
	GoalWriter
	GoalLister
	UserLister
	LeaderboardStore
}

// Engine wires the four calculators together and owns the per-user locks
// that serialize recomputation.
type Engine struct {
	Streak      *StreakCalculator
	Goals       *GoalEvaluator
	Stats       *StatsAggregator
	Leaderboard *LeaderboardBuilder

	goals GoalLister
	users keyedMutex
	log   *slog.Logger
}

// New creates an Engine over the given store.
func New(store Store, log *slog.Logger) *Engine {
	streak := NewStreakCalculator(store)
	return &Engine{
		Streak:      streak,
		Goals:       NewGoalEvaluator(store, store, streak),
		Stats:       NewStatsAggregator(store, store, streak, nil),
		Leaderboard: NewLeaderboardBuilder(store, store, store, store, streak),
		goals:       store,
		log:         log,
	}
}

// OnActivityRecorded runs the recompute fan-out after an activity is
// persisted (or removed) for a user: stats first, then every active goal.
// The whole sequence holds the user's lock so concurrent activity recordings
// for the same user cannot interleave their read-aggregate-write steps.
func (e *Engine) OnActivityRecorded(ctx context.Context, userID int, asOf time.Time) error {
	unlock := e.users.lock(strconv.Itoa(userID))
	defer unlock()

	if _, err := e.Stats.Recompute(ctx, userID); err != nil {
		return fmt.Errorf("recomputing stats: %w", err)
	}

	goals, err := e.goals.ActiveGoals(ctx, userID)
	if err != nil {
		return fmt.Errorf("listing active goals: %w", err)
	}
	for _, g := range goals {
		updated, err := e.Goals.Recompute(ctx, g, asOf)
		if err != nil {
			return fmt.Errorf("recomputing goal %s: %w", g.ID, err)
		}
		if updated.Status != g.Status {
			e.log.Info("goal status changed",
				"goal", g.ID, "user", userID,
				"from", g.Status, "to", updated.Status)
		}
	}
	return nil
}

// RefreshStats recomputes a user's stats on demand, under the same per-user
// lock as the activity fan-out.
func (e *Engine) RefreshStats(ctx context.Context, userID int) (models.UserStats, error) {
	unlock := e.users.lock(strconv.Itoa(userID))
	defer unlock()
	return e.Stats.Recompute(ctx, userID)
}
