package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("BurnLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("BurnLog fitness tracking server. Query workout history, activity metrics and trends, goal progress, gamified stats (points, level, streaks), and leaderboards. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetProfile, Handler: h.getProfile},
		server.ServerTool{Tool: toolGetRecentActivities, Handler: h.getRecentActivities},
		server.ServerTool{Tool: toolGetActivityHistory, Handler: h.getActivityHistory},
		server.ServerTool{Tool: toolGetActivityMetrics, Handler: h.getActivityMetrics},
		server.ServerTool{Tool: toolGetActivityTrends, Handler: h.getActivityTrends},
		server.ServerTool{Tool: toolGetGoals, Handler: h.getGoals},
		server.ServerTool{Tool: toolGetLeaderboard, Handler: h.getLeaderboard},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resProfile, Handler: h.profileResource},
		server.ServerResource{Resource: resRecentActivities, Handler: h.recentActivitiesResource},
		server.ServerResource{Resource: resActiveGoals, Handler: h.activeGoalsResource},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resProfile = mcp.NewResource(
	"burnlog://profile",
	"Fitness Profile",
	mcp.WithResourceDescription("Lifetime stats: total workouts, calories, streaks, points, and level"),
	mcp.WithMIMEType("application/json"),
)

var resRecentActivities = mcp.NewResource(
	"burnlog://recent_activities",
	"Recent Activities",
	mcp.WithResourceDescription("The ten most recently recorded workouts"),
	mcp.WithMIMEType("application/json"),
)

var resActiveGoals = mcp.NewResource(
	"burnlog://goals",
	"Goals",
	mcp.WithResourceDescription("All fitness goals with current progress and status"),
	mcp.WithMIMEType("application/json"),
)
