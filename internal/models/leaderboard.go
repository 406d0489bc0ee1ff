package models

import "time"

// LeaderboardPeriod selects the ranking window of a leaderboard snapshot.
type LeaderboardPeriod string

const (
	LeaderboardDaily   LeaderboardPeriod = "daily"
	LeaderboardWeekly  LeaderboardPeriod = "weekly"
	LeaderboardMonthly LeaderboardPeriod = "monthly"
	LeaderboardAllTime LeaderboardPeriod = "all_time"
)

// Valid reports whether p is a known leaderboard period.
func (p LeaderboardPeriod) Valid() bool {
	switch p {
	case LeaderboardDaily, LeaderboardWeekly, LeaderboardMonthly, LeaderboardAllTime:
		return true
	}
	return false
}

// LeaderboardSnapshot is an immutable dated ranking of all users for one
// period. A snapshot is only (re)built when absent or empty for its
// (period, snapshot_date) key.
type LeaderboardSnapshot struct {
	ID           int64              `json:"id"`
	Period       LeaderboardPeriod  `json:"period"`
	SnapshotDate time.Time          `json:"snapshot_date"`
	CreatedAt    time.Time          `json:"created_at"`
	Entries      []LeaderboardEntry `json:"entries"`
}

// LeaderboardEntry is one user's row in a snapshot. Rank is a dense 1-based
// position in points-descending order; ties are broken by user ID ascending.
type LeaderboardEntry struct {
	Rank           int    `json:"rank"`
	UserID         int    `json:"user_id"`
	Login          string `json:"login,omitempty"`
	Points         int    `json:"points"`
	CaloriesBurned int    `json:"calories_burned"`
	WorkoutCount   int    `json:"workout_count"`
	StreakDays     int    `json:"streak"`
}

// UserRef is a minimal user handle used when iterating all users.
type UserRef struct {
	ID    int    `json:"id"`
	Login string `json:"login"`
}
