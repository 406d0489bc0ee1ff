package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/meltforce/burnlog/internal/engine"
	"github.com/meltforce/burnlog/internal/models"
	"github.com/meltforce/burnlog/internal/storage"
)

// Local implements DataSource against the database and engine directly,
// for running the MCP server in the same process as the data.
type Local struct {
	db     *storage.DB
	engine *engine.Engine
}

// Compile-time check: *Local satisfies DataSource.
var _ DataSource = (*Local)(nil)

// NewLocal creates a Local data source.
func NewLocal(db *storage.DB, eng *engine.Engine) *Local {
	return &Local{db: db, engine: eng}
}

func (l *Local) Profile(ctx context.Context, userID int) (models.UserStats, error) {
	exists, err := l.db.HasUserStats(ctx, userID)
	if err != nil {
		return models.UserStats{}, err
	}
	if !exists {
		return l.engine.RefreshStats(ctx, userID)
	}
	return l.db.GetUserStats(ctx, userID)
}

func (l *Local) RecentActivities(ctx context.Context, userID, limit int) ([]models.Activity, error) {
	return l.db.RecentActivities(ctx, userID, limit)
}

func (l *Local) ActivityHistory(ctx context.Context, userID int, start, end time.Time, filter models.ActivityType) ([]models.Activity, error) {
	return l.db.ActivitiesInRange(ctx, userID, start, end, filter)
}

func (l *Local) Metrics(ctx context.Context, userID int, period string) (models.ActivityMetrics, error) {
	var since *time.Time
	now := time.Now().UTC()
	switch period {
	case "", "all":
	case "week":
		t := now.AddDate(0, 0, -7)
		since = &t
	case "month":
		t := now.AddDate(0, 0, -30)
		since = &t
	case "year":
		t := now.AddDate(0, 0, -365)
		since = &t
	default:
		return models.ActivityMetrics{}, fmt.Errorf("unknown metrics period %q", period)
	}
	return l.db.ActivityMetrics(ctx, userID, since)
}

func (l *Local) Trends(ctx context.Context, userID int, trendType string) ([]models.TrendBucket, error) {
	return l.db.ActivityTrends(ctx, userID, trendType, time.Now().UTC())
}

func (l *Local) Goals(ctx context.Context, userID int) ([]models.Goal, error) {
	return l.db.ListGoals(ctx, userID)
}

func (l *Local) Leaderboard(ctx context.Context, period models.LeaderboardPeriod) (*models.LeaderboardSnapshot, error) {
	return l.engine.Leaderboard.Build(ctx, period, time.Now().UTC())
}
