package tags

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/planwise/planwise/internal/common"
	"github.com/planwise/planwise/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used in service tests.
// It mirrors the PostgreSQL semantics, ownership included.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*models.Tag
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, rows: make(map[int64]*models.Tag)}
}

func (r *InMemoryRepository) NextOrder(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := 0
	for _, tag := range r.rows {
		if tag.UserID == userID && tag.Order >= next {
			next = tag.Order + 1
		}
	}
	return next, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, tag *models.Tag) (*models.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tag.ID = r.nextID
	r.nextID++
	now := time.Now()
	tag.TimeCreated = now
	tag.TimeModified = now

	stored := *tag
	r.rows[tag.ID] = &stored
	return tag, nil
}

func (r *InMemoryRepository) FindOwned(ctx context.Context, id int64, userID string) (*models.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tag, ok := r.rows[id]
	if !ok || tag.UserID != userID {
		return nil, common.ErrNotFound
	}
	found := *tag
	return &found, nil
}

func (r *InMemoryRepository) ListActive(ctx context.Context, userID string) ([]*models.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*models.Tag
	for _, tag := range r.rows {
		if tag.UserID == userID && !tag.Deleted {
			item := *tag
			result = append(result, &item)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Order < result[j].Order })
	return result, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, tag *models.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rows[tag.ID]
	if !ok || stored.UserID != tag.UserID {
		return common.ErrNotFound
	}
	stored.ClassID = tag.ClassID
	stored.Name = tag.Name
	stored.Color = tag.Color
	stored.Order = tag.Order
	stored.TimeModified = time.Now()
	return nil
}

func (r *InMemoryRepository) MarkDeleted(ctx context.Context, id int64, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rows[id]
	if !ok || stored.UserID != userID {
		return common.ErrNotFound
	}
	stored.Deleted = true
	stored.TimeModified = time.Now()
	return nil
}
