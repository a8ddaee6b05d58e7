package repository

import (
	"context"
	"database/sql"
	"fmt"

	"slice-url/internal/entities"
)

type visitRepository struct {
	db *sql.DB
}

// NewVisitRepository creates a new PostgreSQL visit repository
func NewVisitRepository(db *sql.DB) VisitRepository {
	return &visitRepository{db: db}
}

// Record inserts the visit and returns the visitor count
func (r *visitRepository) Record(ctx context.Context, visit entities.Visit) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, `
		WITH inserted AS (
			INSERT INTO visitors (visited_at, user_agent, source)
			VALUES ($1, $2, $3)
			RETURNING 1
		)
		SELECT (SELECT COUNT(*) FROM visitors) + (SELECT COUNT(*) FROM inserted)
	`, visit.Time.UTC(), visit.UserAgent, visit.Source).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to record visit: %w", err)
	}
	return total, nil
}
