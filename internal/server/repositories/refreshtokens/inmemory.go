package refreshtokens

import (
	"context"
	"sync"
	"time"

	"github.com/planwise/planwise/internal/common"
	"github.com/planwise/planwise/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used in service tests.
type InMemoryRepository struct {
	mu   sync.Mutex
	rows map[string]*models.RefreshToken
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{rows: make(map[string]*models.RefreshToken)}
}

func (r *InMemoryRepository) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows[token] = &models.RefreshToken{
		UserID:    userID,
		Token:     token,
		Expires:   time.Now().Add(validity),
		CreatedAt: time.Now(),
	}
	return nil
}

func (r *InMemoryRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.rows[token]
	if !ok {
		return nil, common.ErrNotFound
	}
	found := *t
	return &found, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rows, token)
	return nil
}
