package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meltforce/burnlog/internal/models"
)

const goalColumns = `id, user_id, title, description, goal_type, period,
	 target_value, current_value, unit, COALESCE(activity_filter, ''),
	 start_date, end_date, status, created_at, updated_at`

// InsertGoal inserts a goal row, assigning an ID when missing.
func (db *DB) InsertGoal(ctx context.Context, g *models.Goal) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO goals (id, user_id, title, description, goal_type, period,
		 target_value, current_value, unit, activity_filter, start_date, end_date, status)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NULLIF($10,''),$11,$12,$13)
		 RETURNING created_at, updated_at`,
		g.ID, g.UserID, g.Title, g.Description, g.Type, g.Period,
		g.TargetValue, g.CurrentValue, g.Unit, string(g.ActivityFilter),
		g.StartDate, g.EndDate, g.Status,
	).Scan(&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting goal: %w", err)
	}
	return nil
}

// GetGoal retrieves a single goal scoped to a user. Returns nil when the row
// does not exist.
func (db *DB) GetGoal(ctx context.Context, id uuid.UUID, userID int) (*models.Goal, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = $1 AND user_id = $2`, id, userID)

	g, err := scanGoal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying goal: %w", err)
	}
	return g, nil
}

// ListGoals retrieves all of a user's goals, newest first.
func (db *DB) ListGoals(ctx context.Context, userID int) ([]models.Goal, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying goals: %w", err)
	}
	defer rows.Close()

	return scanGoalRows(rows)
}

// ActiveGoals retrieves the user's goals still in active status, oldest
// first so the recompute fan-out processes them in creation order.
func (db *DB) ActiveGoals(ctx context.Context, userID int) ([]models.Goal, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+goalColumns+` FROM goals
		 WHERE user_id = $1 AND status = $2
		 ORDER BY created_at ASC`,
		userID, models.GoalActive)
	if err != nil {
		return nil, fmt.Errorf("querying active goals: %w", err)
	}
	defer rows.Close()

	return scanGoalRows(rows)
}

// UpdateGoalProgress persists the evaluator's write-back: current value and
// status.
func (db *DB) UpdateGoalProgress(ctx context.Context, g *models.Goal) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE goals SET current_value = $1, status = $2, updated_at = NOW()
		 WHERE id = $3`,
		g.CurrentValue, g.Status, g.ID)
	if err != nil {
		return fmt.Errorf("updating goal progress: %w", err)
	}
	return nil
}

// DeleteGoal removes a goal. Returns false when no row matched.
func (db *DB) DeleteGoal(ctx context.Context, id uuid.UUID, userID int) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("deleting goal: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanGoal(row pgx.Row) (*models.Goal, error) {
	var g models.Goal
	var filter string
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &g.Type, &g.Period,
		&g.TargetValue, &g.CurrentValue, &g.Unit, &filter,
		&g.StartDate, &g.EndDate, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	g.ActivityFilter = models.ActivityType(filter)
	return &g, nil
}

func scanGoalRows(rows pgx.Rows) ([]models.Goal, error) {
	var result []models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}
		result = append(result, *g)
	}
	return result, rows.Err()
}
