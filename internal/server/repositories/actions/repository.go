package actions

import (
	"context"
	"time"

	"github.com/planwise/planwise/internal/server/models"
)

type Repository interface {
	// Record inserts an analytics action and fills in its generated ID.
	Record(ctx context.Context, action *models.Action) (*models.Action, error)

	// CountByTypeSince counts a user's actions of one type at or after the cutoff.
	CountByTypeSince(ctx context.Context, userID string, t models.ActionType, cutoff time.Time) (int, error)

	// ListUnscored returns actions recorded in [from, to) that have no
	// derived point yet, oldest first.
	ListUnscored(ctx context.Context, from, to time.Time) ([]*models.Action, error)

	// CreatePoint inserts a derived point for an action. Inserting a second
	// point for the same action fails on the unique constraint.
	CreatePoint(ctx context.Context, point *models.Point) error
}
