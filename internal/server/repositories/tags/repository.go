package tags

import (
	"context"

	"github.com/planwise/planwise/internal/server/models"
)

type Repository interface {
	// NextOrder returns the next free sort position for the user's tags:
	// highest existing order + 1, or 0 when the user has none.
	NextOrder(ctx context.Context, userID string) (int, error)

	// Create inserts the tag and fills in its generated ID and timestamps.
	Create(ctx context.Context, tag *models.Tag) (*models.Tag, error)

	// FindOwned returns the tag only when both id and owner match,
	// common.ErrNotFound otherwise.
	FindOwned(ctx context.Context, id int64, userID string) (*models.Tag, error)

	// ListActive returns the user's non-deleted tags ordered by sort position.
	ListActive(ctx context.Context, userID string) ([]*models.Tag, error)

	// Update overwrites the mutable columns of an owned tag.
	Update(ctx context.Context, tag *models.Tag) error

	// MarkDeleted flips the soft-delete flag on an owned tag.
	MarkDeleted(ctx context.Context, id int64, userID string) error
}
