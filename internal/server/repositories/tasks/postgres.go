// Package tasks provides repositories for task and subtask persistence.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/planwise/planwise/internal/common"
	"github.com/planwise/planwise/internal/dbx"
	"github.com/planwise/planwise/internal/server/models"
)

// PostgresRepository implements task storage over a dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const taskColumns = `task_id, user_id, content, start_date, end_date, tag_id,
	parent_task_id, ord, completed, in_focus, deleted, time_created, time_modified`

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	task := &models.Task{}
	err := row.Scan(
		&task.ID, &task.UserID, &task.Content, &task.StartDate, &task.EndDate,
		&task.TagID, &task.ParentTaskID, &task.Order, &task.Completed,
		&task.InFocus, &task.Deleted, &task.TimeCreated, &task.TimeModified)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// NextOrder reads the user's highest sort position and returns the next one.
// The top row is locked so that concurrent allocations in the same scope
// serialize instead of silently colliding; an empty scope starts at 0.
func (r *PostgresRepository) NextOrder(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT ord FROM tasks
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

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query := `
		INSERT INTO tasks (user_id, content, start_date, end_date, tag_id,
			parent_task_id, ord, completed, in_focus, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING task_id, time_created, time_modified
	`
	err := r.db.QueryRowContext(ctx, query,
		task.UserID, task.Content, task.StartDate, task.EndDate, task.TagID,
		task.ParentTaskID, task.Order, task.Completed, task.InFocus, task.Deleted).
		Scan(&task.ID, &task.TimeCreated, &task.TimeModified)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

func (r *PostgresRepository) FindOwned(ctx context.Context, id int64, userID string) (*models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE task_id = $1 AND user_id = $2
	`
	task, err := scanTask(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

func (r *PostgresRepository) ListActive(ctx context.Context, userID string) ([]*models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND deleted = FALSE
		ORDER BY ord
	`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) ListCreatedSince(ctx context.Context, userID string, cutoff time.Time) ([]*models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND time_created >= $2
		ORDER BY ord
	`
	return r.list(ctx, query, userID, cutoff)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks
		SET content = $3, start_date = $4, end_date = $5, tag_id = $6,
			parent_task_id = $7, ord = $8, completed = $9, in_focus = $10,
			time_modified = now()
		WHERE task_id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		task.ID, task.UserID, task.Content, task.StartDate, task.EndDate,
		task.TagID, task.ParentTaskID, task.Order, task.Completed, task.InFocus)
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

// MarkDeletedCascade flips the deleted flag on the task and its direct
// subtasks. The OR keeps the cascade one level deep: children of children
// do not match and stay untouched.
func (r *PostgresRepository) MarkDeletedCascade(ctx context.Context, id int64, userID string) (int64, error) {
	query := `
		UPDATE tasks
		SET deleted = TRUE, time_modified = now()
		WHERE user_id = $1 AND (task_id = $2 OR parent_task_id = $2)
	`
	res, err := r.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) RepointTag(ctx context.Context, tagID int64, userID string) error {
	query := `
		UPDATE tasks
		SET tag_id = $3, time_modified = now()
		WHERE user_id = $1 AND tag_id = $2
	`
	if _, err := r.db.ExecContext(ctx, query, userID, tagID, models.NoTagID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM tasks
		WHERE deleted = TRUE AND end_date < $1
	`
	res, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
