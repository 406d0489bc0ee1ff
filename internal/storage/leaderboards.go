package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/meltforce/burnlog/internal/models"
)

// GetSnapshot retrieves the snapshot for (period, date) with its entries in
// rank order. Returns nil when no snapshot exists for the key.
func (db *DB) GetSnapshot(ctx context.Context, period models.LeaderboardPeriod, date time.Time) (*models.LeaderboardSnapshot, error) {
	var snap models.LeaderboardSnapshot
	err := db.Pool.QueryRow(ctx,
		`SELECT id, period, snapshot_date, created_at
		 FROM leaderboards WHERE period = $1 AND snapshot_date = $2`,
		period, date).
		Scan(&snap.ID, &snap.Period, &snap.SnapshotDate, &snap.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT e.rank, e.user_id, u.login, e.points, e.calories_burned, e.workout_count, e.streak_days
		 FROM leaderboard_entries e
		 JOIN users u ON u.id = e.user_id
		 WHERE e.leaderboard_id = $1
		 ORDER BY e.rank ASC`,
		snap.ID)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.Rank, &e.UserID, &e.Login, &e.Points,
			&e.CaloriesBurned, &e.WorkoutCount, &e.StreakDays); err != nil {
			return nil, fmt.Errorf("scanning leaderboard entry: %w", err)
		}
		snap.Entries = append(snap.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// CreateSnapshot gets or creates the snapshot row for (period, date) and
// returns its ID.
func (db *DB) CreateSnapshot(ctx context.Context, period models.LeaderboardPeriod, date time.Time) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO leaderboards (period, snapshot_date)
		 VALUES ($1, $2)
		 ON CONFLICT (period, snapshot_date) DO UPDATE SET period = EXCLUDED.period
		 RETURNING id`,
		period, date).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("creating leaderboard: %w", err)
	}
	return id, nil
}

// ReplaceEntries swaps the snapshot's full entry set inside one transaction,
// so readers never observe a partially written leaderboard.
func (db *DB) ReplaceEntries(ctx context.Context, snapshotID int64, entries []models.LeaderboardEntry) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning entry replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM leaderboard_entries WHERE leaderboard_id = $1`, snapshotID); err != nil {
		return fmt.Errorf("clearing leaderboard entries: %w", err)
	}

	if len(entries) > 0 {
		query := `INSERT INTO leaderboard_entries (leaderboard_id, rank, user_id, points, calories_burned, workout_count, streak_days) VALUES `
		args := make([]any, 0, len(entries)*7)
		valueStrings := make([]string, 0, len(entries))

		for i, e := range entries {
			base := i * 7
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7,
			))
			args = append(args, snapshotID, e.Rank, e.UserID, e.Points,
				e.CaloriesBurned, e.WorkoutCount, e.StreakDays)
		}

		if _, err := tx.Exec(ctx, query+strings.Join(valueStrings, ","), args...); err != nil {
			return fmt.Errorf("inserting leaderboard entries: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing entry replace: %w", err)
	}
	return nil
}

// UserEntry retrieves one user's entry in the snapshot for (period, date).
// Returns nil when either the snapshot or the entry is absent.
func (db *DB) UserEntry(ctx context.Context, period models.LeaderboardPeriod, date time.Time, userID int) (*models.LeaderboardEntry, error) {
	var e models.LeaderboardEntry
	err := db.Pool.QueryRow(ctx,
		`SELECT e.rank, e.user_id, u.login, e.points, e.calories_burned, e.workout_count, e.streak_days
		 FROM leaderboard_entries e
		 JOIN leaderboards l ON l.id = e.leaderboard_id
		 JOIN users u ON u.id = e.user_id
		 WHERE l.period = $1 AND l.snapshot_date = $2 AND e.user_id = $3`,
		period, date, userID).
		Scan(&e.Rank, &e.UserID, &e.Login, &e.Points,
			&e.CaloriesBurned, &e.WorkoutCount, &e.StreakDays)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard entry: %w", err)
	}
	return &e, nil
}
