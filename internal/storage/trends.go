package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/meltforce/burnlog/internal/models"
)

const (
	weeklyTrendBuckets  = 8
	monthlyTrendBuckets = 6
)

// ActivityTrends returns a bucketed trend series for the user: the last 8
// weeks (7-day buckets) or the last 6 months (30-day buckets anchored on the
// first of the current month), oldest bucket first.
func (db *DB) ActivityTrends(ctx context.Context, userID int, trendType string, today time.Time) ([]models.TrendBucket, error) {
	type bucket struct {
		start, end time.Time
		label      string
	}

	var buckets []bucket
	switch trendType {
	case "monthly":
		monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < monthlyTrendBuckets; i++ {
			start := monthStart.AddDate(0, 0, -30*i)
			buckets = append(buckets, bucket{
				start: start,
				end:   start.AddDate(0, 0, 30),
				label: start.Format("2006-01"),
			})
		}
	case "weekly", "":
		for i := 0; i < weeklyTrendBuckets; i++ {
			start := today.AddDate(0, 0, -7*(i+1))
			buckets = append(buckets, bucket{
				start: start,
				end:   today.AddDate(0, 0, -7*i),
				label: start.Format("2006-01-02"),
			})
		}
		trendType = "weekly"
	default:
		return nil, fmt.Errorf("unknown trend type %q", trendType)
	}

	trends := make([]models.TrendBucket, 0, len(buckets))
	for _, b := range buckets {
		totals, err := db.ActivityTotalsInRange(ctx, userID, b.start, b.end)
		if err != nil {
			return nil, fmt.Errorf("aggregating trend bucket %s: %w", b.label, err)
		}
		trends = append(trends, models.TrendBucket{
			Period:      trendType,
			Date:        b.label,
			DurationMin: totals.DurationMin,
			Calories:    totals.Calories,
			Count:       totals.Count,
		})
	}

	// Oldest first.
	for i, j := 0, len(trends)-1; i < j; i, j = i+1, j-1 {
		trends[i], trends[j] = trends[j], trends[i]
	}
	return trends, nil
}
