package mcp

import (
	"context"
	"time"

	"github.com/meltforce/burnlog/internal/models"
)

// DataSource abstracts the data layer for MCP tools. Local (direct database
// plus engine) and HTTPClient (remote via REST API) both satisfy this
// interface.
type DataSource interface {
	Profile(ctx context.Context, userID int) (models.UserStats, error)
	RecentActivities(ctx context.Context, userID, limit int) ([]models.Activity, error)
	ActivityHistory(ctx context.Context, userID int, start, end time.Time, filter models.ActivityType) ([]models.Activity, error)
	Metrics(ctx context.Context, userID int, period string) (models.ActivityMetrics, error)
	Trends(ctx context.Context, userID int, trendType string) ([]models.TrendBucket, error)
	Goals(ctx context.Context, userID int) ([]models.Goal, error)
	Leaderboard(ctx context.Context, period models.LeaderboardPeriod) (*models.LeaderboardSnapshot, error)
}
