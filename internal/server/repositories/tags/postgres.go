// Package tags provides repositories for user tag persistence.
package tags

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/planwise/planwise/internal/common"
	"github.com/planwise/planwise/internal/dbx"
	"github.com/planwise/planwise/internal/server/models"
)

// PostgresRepository implements tag storage over a dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// NextOrder reads the user's highest sort position and returns the next one.
// The top row is locked so that concurrent allocations in the same scope
// serialize instead of silently colliding; an empty scope starts at 0.
func (r *PostgresRepository) NextOrder(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT ord FROM tags
		WHERE user_id = $1
		ORDER BY ord DESC
		LIMIT 1
		FOR UPDATE
	`
	var last int
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&last)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return last + 1, nil
}

func (r *PostgresRepository) Create(ctx context.Context, tag *models.Tag) (*models.Tag, error) {
	query := `
		INSERT INTO tags (user_id, class_id, tag_name, color, ord, deleted)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING tag_id, time_created, time_modified
	`
	err := r.db.QueryRowContext(ctx, query,
		tag.UserID, tag.ClassID, tag.Name, tag.Color, tag.Order, tag.Deleted).
		Scan(&tag.ID, &tag.TimeCreated, &tag.TimeModified)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tag, nil
}

func (r *PostgresRepository) FindOwned(ctx context.Context, id int64, userID string) (*models.Tag, error) {
	query := `
		SELECT tag_id, user_id, class_id, tag_name, color, ord, deleted, time_created, time_modified
		FROM tags
		WHERE tag_id = $1 AND user_id = $2
	`
	tag := &models.Tag{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&tag.ID, &tag.UserID, &tag.ClassID, &tag.Name, &tag.Color,
		&tag.Order, &tag.Deleted, &tag.TimeCreated, &tag.TimeModified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tag, nil
}

func (r *PostgresRepository) ListActive(ctx context.Context, userID string) ([]*models.Tag, error) {
	query := `
		SELECT tag_id, user_id, class_id, tag_name, color, ord, deleted, time_created, time_modified
		FROM tags
		WHERE user_id = $1 AND deleted = FALSE
		ORDER BY ord
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Tag
	for rows.Next() {
		tag := &models.Tag{}
		if err := rows.Scan(
			&tag.ID, &tag.UserID, &tag.ClassID, &tag.Name, &tag.Color,
			&tag.Order, &tag.Deleted, &tag.TimeCreated, &tag.TimeModified,
		); err != nil {
			return nil, err
		}
		result = append(result, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, tag *models.Tag) error {
	query := `
		UPDATE tags
		SET class_id = $3, tag_name = $4, color = $5, ord = $6, time_modified = now()
		WHERE tag_id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		tag.ID, tag.UserID, tag.ClassID, tag.Name, tag.Color, tag.Order)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) MarkDeleted(ctx context.Context, id int64, userID string) error {
	query := `
		UPDATE tags
		SET deleted = TRUE, time_modified = now()
		WHERE tag_id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
