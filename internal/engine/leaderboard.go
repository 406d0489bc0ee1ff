package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/meltforce/burnlog/internal/models"
)

// PeriodTotalsStore aggregates a user's activities from a lower-bound date
// onward.
type PeriodTotalsStore interface {
	UserTotalsSince(ctx context.Context, userID int, since time.Time) (models.ActivityTotals, error)
}

// UserLister enumerates all known users.
type UserLister interface {
	ListUsers(ctx context.Context) ([]models.UserRef, error)
}

// LeaderboardStore reads and writes leaderboard snapshots. GetSnapshot
// returns nil when no snapshot exists for the key. ReplaceEntries must swap
// the full entry set atomically.
type LeaderboardStore interface {
	GetSnapshot(ctx context.Context, period models.LeaderboardPeriod, date time.Time) (*models.LeaderboardSnapshot, error)
	CreateSnapshot(ctx context.Context, period models.LeaderboardPeriod, date time.Time) (int64, error)
	ReplaceEntries(ctx context.Context, snapshotID int64, entries []models.LeaderboardEntry) error
}

// LeaderboardBuilder computes ranked snapshots of all users for a period.
type LeaderboardBuilder struct {
	activities PeriodTotalsStore
	users      UserLister
	stats      StatsStore
	boards     LeaderboardStore
	streak     *StreakCalculator

	builds keyedMutex
}

// NewLeaderboardBuilder creates a LeaderboardBuilder.
func NewLeaderboardBuilder(activities PeriodTotalsStore, users UserLister, stats StatsStore, boards LeaderboardStore, streak *StreakCalculator) *LeaderboardBuilder {
	return &LeaderboardBuilder{
		activities: activities,
		users:      users,
		stats:      stats,
		boards:     boards,
		streak:     streak,
	}
}

// Build returns the snapshot for (period, asOf's date), computing and
// persisting it only when none exists yet or the existing one has no
// entries. The build for a given key runs under a per-key lock, so
// concurrent callers observe a single populated snapshot rather than racing
// destructive replaces. Rebuilds against unchanged data are deterministic:
// points descending, ties broken by user ID ascending, dense 1-based ranks.
func (b *LeaderboardBuilder) Build(ctx context.Context, period models.LeaderboardPeriod, asOf time.Time) (*models.LeaderboardSnapshot, error) {
	date := DateOnly(asOf)

	unlock := b.builds.lock(string(period) + "/" + date.Format("2006-01-02"))
	defer unlock()

	// Check inside the lock: a concurrent caller may have just built it.
	existing, err := b.boards.GetSnapshot(ctx, period, date)
	if err != nil {
		return nil, fmt.Errorf("loading %s leaderboard: %w", period, err)
	}
	if existing != nil && len(existing.Entries) > 0 {
		return existing, nil
	}

	entries, err := b.computeEntries(ctx, period, asOf)
	if err != nil {
		return nil, err
	}

	id, err := b.boards.CreateSnapshot(ctx, period, date)
	if err != nil {
		return nil, fmt.Errorf("creating %s leaderboard: %w", period, err)
	}
	if err := b.boards.ReplaceEntries(ctx, id, entries); err != nil {
		return nil, fmt.Errorf("writing %s leaderboard entries: %w", period, err)
	}

	return &models.LeaderboardSnapshot{
		ID:           id,
		Period:       period,
		SnapshotDate: date,
		Entries:      entries,
	}, nil
}

func (b *LeaderboardBuilder) computeEntries(ctx context.Context, period models.LeaderboardPeriod, asOf time.Time) ([]models.LeaderboardEntry, error) {
	users, err := b.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	since, windowed := LeaderboardWindowStart(period, asOf)
	entries := make([]models.LeaderboardEntry, 0, len(users))

	for _, u := range users {
		var entry models.LeaderboardEntry
		if windowed {
			totals, err := b.activities.UserTotalsSince(ctx, u.ID, since)
			if err != nil {
				return nil, fmt.Errorf("aggregating user %d: %w", u.ID, err)
			}
			streak, err := b.streak.CurrentStreak(ctx, u.ID, asOf)
			if err != nil {
				return nil, fmt.Errorf("streak for user %d: %w", u.ID, err)
			}
			entry = models.LeaderboardEntry{
				UserID:         u.ID,
				Login:          u.Login,
				Points:         models.PointsFor(totals.Calories, totals.Count),
				CaloriesBurned: totals.Calories,
				WorkoutCount:   totals.Count,
				StreakDays:     streak,
			}
		} else {
			// all_time ranks from persisted lifetime stats, including the
			// last-known streak, without recomputation.
			stats, err := b.stats.GetUserStats(ctx, u.ID)
			if err != nil {
				return nil, fmt.Errorf("stats for user %d: %w", u.ID, err)
			}
			entry = models.LeaderboardEntry{
				UserID:         u.ID,
				Login:          u.Login,
				Points:         stats.Points,
				CaloriesBurned: stats.TotalCalories,
				WorkoutCount:   stats.TotalWorkouts,
				StreakDays:     stats.CurrentStreakDays,
			}
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
