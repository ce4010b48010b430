package courses

import (
	"context"

	"github.com/planwise/planwise/internal/server/models"
)

type Repository interface {
	// Upsert inserts the course or, when a row with the same
	// (courseID, examType) exists, overwrites it.
	Upsert(ctx context.Context, course *models.Course) error

	// ListAll returns the whole catalog ordered by subject and number.
	ListAll(ctx context.Context) ([]*models.Course, error)
}
