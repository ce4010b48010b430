package users

import (
	"context"

	"github.com/planwise/planwise/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	ListIDs(ctx context.Context) ([]string, error)
}
