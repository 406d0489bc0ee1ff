package mcp

import (
	"context"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/burnlog/internal/models"
)

// defaultTimeRange returns start/end defaulting to the last 30 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -30)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetProfile = mcp.NewTool("get_profile",
	mcp.WithDescription("Get the user's fitness profile: total workouts, minutes, calories, current and longest daily streaks, points, and level."),
)

var toolGetRecentActivities = mcp.NewTool("get_recent_activities",
	mcp.WithDescription("Get the most recently recorded workouts, newest first."),
	mcp.WithString("limit", mcp.Description("Number of activities to return. Defaults to 10, max 100.")),
)

var toolGetActivityHistory = mcp.NewTool("get_activity_history",
	mcp.WithDescription("Query recorded workouts over a date range, optionally filtered by activity type."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithString("type", mcp.Description("Filter by activity type (e.g. running, cycling, weightlifting, yoga)")),
)

var toolGetActivityMetrics = mcp.NewTool("get_activity_metrics",
	mcp.WithDescription("Aggregate activity metrics: totals and per-workout averages for duration, distance, and calories."),
	mcp.WithString("period", mcp.Description("Rolling window. Defaults to lifetime."), mcp.Enum("week", "month", "year", "all")),
)

var toolGetActivityTrends = mcp.NewTool("get_activity_trends",
	mcp.WithDescription("Activity volume over time: workout count, duration, and calories per bucket, oldest first."),
	mcp.WithString("trend_type", mcp.Description("Bucket granularity. Defaults to weekly (8 weeks); monthly covers 6 months."), mcp.Enum("weekly", "monthly")),
)

var toolGetGoals = mcp.NewTool("get_goals",
	mcp.WithDescription("List the user's fitness goals with target, current progress, and status (active/completed/failed)."),
)

var toolGetLeaderboard = mcp.NewTool("get_leaderboard",
	mcp.WithDescription("Ranked leaderboard of all users by points for a period. Entries include calories, workout count, and streak."),
	mcp.WithString("period", mcp.Description("Ranking window. Defaults to weekly."), mcp.Enum("daily", "weekly", "monthly", "all_time")),
)

// --- Tool handlers ---

func (h *handlers) getProfile(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	stats, err := h.ds.Profile(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_profile", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecentActivities(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := 10
	if v := req.GetString("limit", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return mcp.NewToolResultError("limit must be a positive integer"), nil
		}
		if n > 100 {
			n = 100
		}
		limit = n
	}

	uid := UserIDFromContext(ctx)
	activities, err := h.ds.RecentActivities(ctx, uid, limit)
	if err != nil {
		h.log.Error("mcp get_recent_activities", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(activities)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getActivityHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	filter := models.ActivityType(req.GetString("type", ""))
	if filter != "" && !filter.Valid() {
		return mcp.NewToolResultError("unknown activity type: " + string(filter)), nil
	}

	uid := UserIDFromContext(ctx)
	activities, err := h.ds.ActivityHistory(ctx, uid, start, end, filter)
	if err != nil {
		h.log.Error("mcp get_activity_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(activities)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getActivityMetrics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	period := req.GetString("period", "")
	uid := UserIDFromContext(ctx)

	metrics, err := h.ds.Metrics(ctx, uid, period)
	if err != nil {
		h.log.Error("mcp get_activity_metrics", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(metrics)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getActivityTrends(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	trendType := req.GetString("trend_type", "weekly")
	uid := UserIDFromContext(ctx)

	buckets, err := h.ds.Trends(ctx, uid, trendType)
	if err != nil {
		h.log.Error("mcp get_activity_trends", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"trend_type": trendType,
		"trends":     buckets,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getGoals(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	goals, err := h.ds.Goals(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_goals", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(goals)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLeaderboard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	period := models.LeaderboardPeriod(req.GetString("period", string(models.LeaderboardWeekly)))
	if !period.Valid() {
		return mcp.NewToolResultError("unknown leaderboard period: " + string(period)), nil
	}

	snapshot, err := h.ds.Leaderboard(ctx, period)
	if err != nil {
		h.log.Error("mcp get_leaderboard", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(snapshot)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
