package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/meltforce/burnlog/internal/models"
)

// HTTPClient implements DataSource by calling the BurnLog REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) Profile(ctx context.Context, _ int) (models.UserStats, error) {
	body, err := c.get(ctx, "/api/v1/profile", nil)
	if err != nil {
		return models.UserStats{}, err
	}

	var stats models.UserStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return models.UserStats{}, fmt.Errorf("httpclient: decode profile: %w", err)
	}
	return stats, nil
}

func (c *HTTPClient) RecentActivities(ctx context.Context, _ int, limit int) ([]models.Activity, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.get(ctx, "/api/v1/activities/recent", params)
	if err != nil {
		return nil, err
	}

	var activities []models.Activity
	if err := json.Unmarshal(body, &activities); err != nil {
		return nil, fmt.Errorf("httpclient: decode recent activities: %w", err)
	}
	return activities, nil
}

func (c *HTTPClient) ActivityHistory(ctx context.Context, _ int, start, end time.Time, filter models.ActivityType) ([]models.Activity, error) {
	params := url.Values{}
	params.Set("start", start.Format(time.RFC3339))
	params.Set("end", end.Format(time.RFC3339))
	if filter != "" {
		params.Set("type", string(filter))
	}

	body, err := c.get(ctx, "/api/v1/activities", params)
	if err != nil {
		return nil, err
	}

	var activities []models.Activity
	if err := json.Unmarshal(body, &activities); err != nil {
		return nil, fmt.Errorf("httpclient: decode activities: %w", err)
	}
	return activities, nil
}

func (c *HTTPClient) Metrics(ctx context.Context, _ int, period string) (models.ActivityMetrics, error) {
	params := url.Values{}
	if period != "" {
		params.Set("period", period)
	}

	body, err := c.get(ctx, "/api/v1/metrics", params)
	if err != nil {
		return models.ActivityMetrics{}, err
	}

	var metrics models.ActivityMetrics
	if err := json.Unmarshal(body, &metrics); err != nil {
		return models.ActivityMetrics{}, fmt.Errorf("httpclient: decode metrics: %w", err)
	}
	return metrics, nil
}

func (c *HTTPClient) Trends(ctx context.Context, _ int, trendType string) ([]models.TrendBucket, error) {
	params := url.Values{}
	if trendType != "" {
		params.Set("trend_type", trendType)
	}

	body, err := c.get(ctx, "/api/v1/trends", params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Trends []models.TrendBucket `json:"trends"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode trends: %w", err)
	}
	return resp.Trends, nil
}

func (c *HTTPClient) Goals(ctx context.Context, _ int) ([]models.Goal, error) {
	body, err := c.get(ctx, "/api/v1/goals", nil)
	if err != nil {
		return nil, err
	}

	var goals []models.Goal
	if err := json.Unmarshal(body, &goals); err != nil {
		return nil, fmt.Errorf("httpclient: decode goals: %w", err)
	}
	return goals, nil
}

func (c *HTTPClient) Leaderboard(ctx context.Context, period models.LeaderboardPeriod) (*models.LeaderboardSnapshot, error) {
	params := url.Values{}
	params.Set("period", string(period))

	body, err := c.get(ctx, "/api/v1/leaderboard", params)
	if err != nil {
		return nil, err
	}

	var snapshot models.LeaderboardSnapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return nil, fmt.Errorf("httpclient: decode leaderboard: %w", err)
	}
	return &snapshot, nil
}
