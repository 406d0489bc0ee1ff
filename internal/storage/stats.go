package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/meltforce/burnlog/internal/models"
)

// GetUserStats retrieves the persisted stats row for a user. A user without
// one yet gets the zero-activity baseline (level 1, everything else zero).
func (db *DB) GetUserStats(ctx context.Context, userID int) (models.UserStats, error) {
	var s models.UserStats
	err := db.Pool.QueryRow(ctx,
		`SELECT user_id, total_calories, total_workout_min, total_workouts,
		        current_streak, longest_streak, points, level, last_activity_date, updated_at
		 FROM user_stats WHERE user_id = $1`, userID).
		Scan(&s.UserID, &s.TotalCalories, &s.TotalWorkoutMin, &s.TotalWorkouts,
			&s.CurrentStreakDays, &s.LongestStreakDays, &s.Points, &s.Level,
			&s.LastActivityDate, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.UserStats{UserID: userID, Level: 1}, nil
	}
	if err != nil {
		return models.UserStats{}, fmt.Errorf("querying user stats: %w", err)
	}
	return s, nil
}

// HasUserStats reports whether a stats row has ever been persisted for the
// user.
func (db *DB) HasUserStats(ctx context.Context, userID int) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_stats WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking user stats: %w", err)
	}
	return exists, nil
}

// UpsertUserStats writes the aggregator's recomputed stats row.
func (db *DB) UpsertUserStats(ctx context.Context, s *models.UserStats) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO user_stats (user_id, total_calories, total_workout_min, total_workouts,
		 current_streak, longest_streak, points, level, last_activity_date, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 ON CONFLICT (user_id) DO UPDATE SET
			total_calories = EXCLUDED.total_calories,
			total_workout_min = EXCLUDED.total_workout_min,
			total_workouts = EXCLUDED.total_workouts,
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			points = EXCLUDED.points,
			level = EXCLUDED.level,
			last_activity_date = EXCLUDED.last_activity_date,
			updated_at = EXCLUDED.updated_at`,
		s.UserID, s.TotalCalories, s.TotalWorkoutMin, s.TotalWorkouts,
		s.CurrentStreakDays, s.LongestStreakDays, s.Points, s.Level,
		s.LastActivityDate, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting user stats: %w", err)
	}
	return nil
}
