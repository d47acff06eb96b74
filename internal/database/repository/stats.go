package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/artur/tunegrab/internal/database/models"
)

// StatsRepository handles bot activity persistence
type StatsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Record stores one action performed by a user
func (r *StatsRepository) Record(ctx context.Context, userID int64, action string) error {
	query := `INSERT INTO activity (user_id, action, created_at) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, userID, action, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// CountByUser returns how many actions a user performed
func (r *StatsRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activity WHERE user_id = ?`, userID).Scan(&count)
	return count, err
}

// Total returns the number of recorded actions
func (r *StatsRepository) Total(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activity").Scan(&count)
	return count, err
}

// Top returns the most frequent actions, at most limit of them
func (r *StatsRepository) Top(ctx context.Context, limit int) ([]models.ActionCount, error) {
	query := `
		SELECT action, COUNT(*) AS count
		FROM activity
		GROUP BY action
		ORDER BY count DESC, action ASC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top actions: %w", err)
	}
	defer rows.Close()

	var results []models.ActionCount
	for rows.Next() {
		var item models.ActionCount
		if err := rows.Scan(&item.Action, &item.Count); err != nil {
			return nil, fmt.Errorf("failed to scan action count: %w", err)
		}
		results = append(results, item)
	}

	return results, rows.Err()
}
