package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meltforce/burnlog/internal/models"
)

const activityColumns = `id, user_id, activity_type, duration_min, distance,
	 calories_burned, intensity, notes, occurred_at, created_at, updated_at`

// InsertActivity inserts an activity row, assigning an ID when missing.
func (db *DB) InsertActivity(ctx context.Context, a *models.Activity) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO activities (id, user_id, activity_type, duration_min, distance,
		 calories_burned, intensity, notes, occurred_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 RETURNING created_at, updated_at`,
		a.ID, a.UserID, a.Type, a.DurationMin, a.Distance,
		a.CaloriesBurned, a.Intensity, a.Notes, a.OccurredAt,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting activity: %w", err)
	}
	return nil
}

// GetActivity retrieves a single activity scoped to a user. Returns nil when
// the row does not exist.
func (db *DB) GetActivity(ctx context.Context, id uuid.UUID, userID int) (*models.Activity, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE id = $1 AND user_id = $2`,
		id, userID)

	a, err := scanActivity(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying activity: %w", err)
	}
	return a, nil
}

// DeleteActivity removes an activity. Returns false when no row matched.
func (db *DB) DeleteActivity(ctx context.Context, id uuid.UUID, userID int) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM activities WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("deleting activity: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ActivitiesInRange retrieves a user's activities whose calendar day falls
// inside the inclusive [start, end] range, newest first. An empty filter
// matches all activity types.
func (db *DB) ActivitiesInRange(ctx context.Context, userID int, start, end time.Time, filter models.ActivityType) ([]models.Activity, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+activityColumns+`
		 FROM activities
		 WHERE user_id = $1
		   AND occurred_at >= $2 AND occurred_at < $3
		   AND ($4 = '' OR activity_type = $4)
		 ORDER BY occurred_at DESC`,
		userID, start, end.AddDate(0, 0, 1), string(filter))
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}
	defer rows.Close()

	return scanActivityRows(rows)
}

// RecentActivities retrieves the user's most recent activities.
func (db *DB) RecentActivities(ctx context.Context, userID, limit int) ([]models.Activity, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+activityColumns+`
		 FROM activities
		 WHERE user_id = $1
		 ORDER BY occurred_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent activities: %w", err)
	}
	defer rows.Close()

	return scanActivityRows(rows)
}

// CountActivities returns the user's total activity count.
func (db *DB) CountActivities(ctx context.Context, userID int) (int64, error) {
	var count int64
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM activities WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting activities: %w", err)
	}
	return count, nil
}

// HasActivityOnDay reports whether the user recorded at least one activity on
// the given calendar day.
func (db *DB) HasActivityOnDay(ctx context.Context, userID int, day time.Time) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM activities
			WHERE user_id = $1 AND occurred_at >= $2 AND occurred_at < $3
		 )`,
		userID, day, day.AddDate(0, 0, 1)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking activity day: %w", err)
	}
	return exists, nil
}

// UserLifetimeTotals aggregates all of a user's activities.
func (db *DB) UserLifetimeTotals(ctx context.Context, userID int) (models.ActivityTotals, error) {
	return db.totalsWhere(ctx,
		`SELECT COALESCE(SUM(duration_min), 0), COALESCE(SUM(distance), 0),
		        COALESCE(SUM(calories_burned), 0), COUNT(*)
		 FROM activities WHERE user_id = $1`, userID)
}

// UserTotalsSince aggregates a user's activities from the given date onward.
func (db *DB) UserTotalsSince(ctx context.Context, userID int, since time.Time) (models.ActivityTotals, error) {
	return db.totalsWhere(ctx,
		`SELECT COALESCE(SUM(duration_min), 0), COALESCE(SUM(distance), 0),
		        COALESCE(SUM(calories_burned), 0), COUNT(*)
		 FROM activities WHERE user_id = $1 AND occurred_at >= $2`, userID, since)
}

// ActivityTotalsInRange aggregates a user's activities within [start, end).
func (db *DB) ActivityTotalsInRange(ctx context.Context, userID int, start, end time.Time) (models.ActivityTotals, error) {
	return db.totalsWhere(ctx,
		`SELECT COALESCE(SUM(duration_min), 0), COALESCE(SUM(distance), 0),
		        COALESCE(SUM(calories_burned), 0), COUNT(*)
		 FROM activities WHERE user_id = $1 AND occurred_at >= $2 AND occurred_at < $3`,
		userID, start, end)
}

func (db *DB) totalsWhere(ctx context.Context, query string, args ...any) (models.ActivityTotals, error) {
	var t models.ActivityTotals
	err := db.Pool.QueryRow(ctx, query, args...).Scan(&t.DurationMin, &t.Distance, &t.Calories, &t.Count)
	if err != nil {
		return models.ActivityTotals{}, fmt.Errorf("aggregating activities: %w", err)
	}
	return t, nil
}

// LastActivityDate returns when the user last recorded an activity, or nil
// for an empty history.
func (db *DB) LastActivityDate(ctx context.Context, userID int) (*time.Time, error) {
	var last *time.Time
	err := db.Pool.QueryRow(ctx,
		`SELECT MAX(occurred_at) FROM activities WHERE user_id = $1`, userID).Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("querying last activity: %w", err)
	}
	return last, nil
}

// ActivityMetrics aggregates totals plus per-activity averages, optionally
// bounded below by since.
func (db *DB) ActivityMetrics(ctx context.Context, userID int, since *time.Time) (models.ActivityMetrics, error) {
	var m models.ActivityMetrics
	err := db.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(duration_min), 0), COALESCE(SUM(distance), 0),
		        COALESCE(SUM(calories_burned), 0), COUNT(*),
		        COALESCE(AVG(duration_min), 0), COALESCE(AVG(calories_burned), 0)
		 FROM activities
		 WHERE user_id = $1 AND ($2::timestamptz IS NULL OR occurred_at >= $2)`,
		userID, since).
		Scan(&m.DurationMin, &m.Distance, &m.Calories, &m.Count, &m.AvgDurationMin, &m.AvgCalories)
	if err != nil {
		return models.ActivityMetrics{}, fmt.Errorf("aggregating metrics: %w", err)
	}
	return m, nil
}

func scanActivity(row pgx.Row) (*models.Activity, error) {
	var a models.Activity
	err := row.Scan(&a.ID, &a.UserID, &a.Type, &a.DurationMin, &a.Distance,
		&a.CaloriesBurned, &a.Intensity, &a.Notes, &a.OccurredAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanActivityRows(rows pgx.Rows) ([]models.Activity, error) {
	var result []models.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}
