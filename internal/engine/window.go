package engine

import (
	"time"

	"github.com/meltforce/burnlog/internal/models"
)

// DateOnly normalizes a timestamp to UTC midnight of its calendar day.
// All streak and window arithmetic works on these normalized days.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GoalWindow returns the inclusive [start, end] day range for the rolling
// period containing asOf:
//
//	daily   — [today, today]
//	weekly  — the ISO week (Monday through Sunday)
//	monthly — first through last day of the month
//	yearly  — Jan 1 through Dec 31
func GoalWindow(period models.GoalPeriod, asOf time.Time) (start, end time.Time) {
	day := DateOnly(asOf)

	switch period {
	case models.PeriodDaily:
		return day, day
	case models.PeriodWeekly:
		// time.Weekday counts Sunday as 0; shift so Monday is the week start.
		offset := (int(day.Weekday()) + 6) % 7
		start = day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 6)
	case models.PeriodMonthly:
		start = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, -1)
	default: // yearly
		start = time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, time.Date(day.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	}
}

// LeaderboardWindowStart returns the lower bound of a leaderboard period.
// The second return is false for all_time, which has no lower bound.
func LeaderboardWindowStart(period models.LeaderboardPeriod, asOf time.Time) (time.Time, bool) {
	day := DateOnly(asOf)

	switch period {
	case models.LeaderboardDaily:
		return day, true
	case models.LeaderboardWeekly:
		return day.AddDate(0, 0, -7), true
	case models.LeaderboardMonthly:
		return day.AddDate(0, 0, -30), true
	default:
		return time.Time{}, false
	}
}
