package storage

import (
	"context"
	"fmt"

	"github.com/meltforce/burnlog/internal/models"
)

// GetOrCreateUser finds or creates a user by login name. Returns the user
// ID. Updates last_seen and display_name on each call.
func (db *DB) GetOrCreateUser(ctx context.Context, login, displayName string) (int, error) {
	var id int
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (login, display_name)
		VALUES ($1, $2)
		ON CONFLICT (login) DO UPDATE
			SET last_seen = NOW(), display_name = COALESCE(NULLIF($2, ''), users.display_name)
		RETURNING id
	`, login, displayName).Scan(&id)
	return id, err
}

// ListUsers returns all users ordered by ID.
func (db *DB) ListUsers(ctx context.Context) ([]models.UserRef, error) {
	rows, err := db.Pool.Query(ctx, `SELECT id, login FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var result []models.UserRef
	for rows.Next() {
		var u models.UserRef
		if err := rows.Scan(&u.ID, &u.Login); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		result = append(result, u)
	}
	return result, rows.Err()
}
