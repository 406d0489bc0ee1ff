package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) profileResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	stats, err := h.ds.Profile(ctx, uid)
	if err != nil {
		return nil, err
	}

	return jsonResource(req.Params.URI, stats)
}

func (h *handlers) recentActivitiesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	activities, err := h.ds.RecentActivities(ctx, uid, 10)
	if err != nil {
		return nil, err
	}

	return jsonResource(req.Params.URI, activities)
}

func (h *handlers) activeGoalsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	goals, err := h.ds.Goals(ctx, uid)
	if err != nil {
		return nil, err
	}

	return jsonResource(req.Params.URI, goals)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
