// Package actions provides repositories for analytics actions and the
// points derived from them.
package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/planwise/planwise/internal/dbx"
	"github.com/planwise/planwise/internal/server/models"
)

// PostgresRepository implements action/point storage over a dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Record(ctx context.Context, action *models.Action) (*models.Action, error) {
	query := `
		INSERT INTO actions (user_id, action, extra_data)
		VALUES ($1, $2, $3)
		RETURNING action_id, time
	`
	err := r.db.QueryRowContext(ctx, query, action.UserID, action.Type, action.ExtraData).
		Scan(&action.ID, &action.Time)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return action, nil
}

func (r *PostgresRepository) CountByTypeSince(ctx context.Context, userID string, t models.ActionType, cutoff time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM actions
		WHERE user_id = $1 AND action = $2 AND time >= $3
	`
	var n int
	if err := r.db.QueryRowContext(ctx, query, userID, t, cutoff).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) ListUnscored(ctx context.Context, from, to time.Time) ([]*models.Action, error) {
	query := `
		SELECT a.action_id, a.user_id, a.action, a.extra_data, a.time
		FROM actions a
		LEFT JOIN points p ON p.action_id = a.action_id
		WHERE p.point_id IS NULL AND a.time >= $1 AND a.time < $2
		ORDER BY a.time
	`
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Action
	for rows.Next() {
		action := &models.Action{}
		if err := rows.Scan(&action.ID, &action.UserID, &action.Type, &action.ExtraData, &action.Time); err != nil {
			return nil, err
		}
		result = append(result, action)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) CreatePoint(ctx context.Context, point *models.Point) error {
	query := `
		INSERT INTO points (action_id, user_id, value)
		VALUES ($1, $2, $3)
		RETURNING point_id, time
	`
	err := r.db.QueryRowContext(ctx, query, point.ActionID, point.UserID, point.Value).
		Scan(&point.ID, &point.Time)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
