package tasks

import (
	"context"
	"time"

	"github.com/planwise/planwise/internal/server/models"
)

type Repository interface {
	// NextOrder returns the next free sort position for the user's tasks:
	// highest existing order + 1, or 0 when the user has none.
	NextOrder(ctx context.Context, userID string) (int, error)

	// Create inserts the task and fills in its generated ID and timestamps.
	Create(ctx context.Context, task *models.Task) (*models.Task, error)

	// FindOwned returns the task only when both id and owner match,
	// common.ErrNotFound otherwise.
	FindOwned(ctx context.Context, id int64, userID string) (*models.Task, error)

	// ListActive returns the user's non-deleted tasks ordered by sort position.
	ListActive(ctx context.Context, userID string) ([]*models.Task, error)

	// ListCreatedSince returns every task of the user created at or after
	// the cutoff, deleted rows included. Used by the backup exporter.
	ListCreatedSince(ctx context.Context, userID string, cutoff time.Time) ([]*models.Task, error)

	// Update overwrites the mutable columns of an owned task.
	Update(ctx context.Context, task *models.Task) error

	// MarkDeletedCascade soft-deletes the owned task and its direct
	// subtasks in one statement. Grandchildren are left alone. Returns the
	// number of rows flipped; 0 means the task id was not owned/known.
	MarkDeletedCascade(ctx context.Context, id int64, userID string) (int64, error)

	// RepointTag moves every owned task referencing tagID to the NoTagID
	// sentinel. Tasks are never deleted by this.
	RepointTag(ctx context.Context, tagID int64, userID string) error

	// PurgeBefore physically removes soft-deleted tasks whose end date
	// precedes the cutoff. The only hard delete in the system.
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
