package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/planwise/planwise/internal/common"
	"github.com/planwise/planwise/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used in service tests.
type InMemoryRepository struct {
	mu   sync.Mutex
	rows map[string]*models.User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{rows: make(map[string]*models.User)}
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.rows {
		if u.Email == user.Email {
			return nil, common.ErrEmailExists
		}
	}
	user.CreatedAt = time.Now()
	stored := *user
	r.rows[user.ID] = &stored
	return user, nil
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.rows {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	found := *u
	return &found, nil
}

func (r *InMemoryRepository) ListIDs(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
