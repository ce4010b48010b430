package tasks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/planwise/planwise/internal/common"
	"github.com/planwise/planwise/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used in service tests.
// It mirrors the PostgreSQL semantics, cascade depth included.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*models.Task
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, rows: make(map[int64]*models.Task)}
}

func (r *InMemoryRepository) NextOrder(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := 0
	for _, task := range r.rows {
		if task.UserID == userID && task.Order >= next {
			next = task.Order + 1
		}
	}
	return next, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task.ID = r.nextID
	r.nextID++
	now := time.Now()
	task.TimeCreated = now
	task.TimeModified = now

	stored := *task
	r.rows[task.ID] = &stored
	return task, nil
}

func (r *InMemoryRepository) FindOwned(ctx context.Context, id int64, userID string) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.rows[id]
	if !ok || task.UserID != userID {
		return nil, common.ErrNotFound
	}
	found := *task
	return &found, nil
}

func (r *InMemoryRepository) ListActive(ctx context.Context, userID string) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*models.Task
	for _, task := range r.rows {
		if task.UserID == userID && !task.Deleted {
			item := *task
			result = append(result, &item)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Order < result[j].Order })
	return result, nil
}

func (r *InMemoryRepository) ListCreatedSince(ctx context.Context, userID string, cutoff time.Time) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*models.Task
	for _, task := range r.rows {
		if task.UserID == userID && !task.TimeCreated.Before(cutoff) {
			item := *task
			result = append(result, &item)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Order < result[j].Order })
	return result, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rows[task.ID]
	if !ok || stored.UserID != task.UserID {
		return common.ErrNotFound
	}
	stored.Content = task.Content
	stored.StartDate = task.StartDate
	stored.EndDate = task.EndDate
	stored.TagID = task.TagID
	stored.ParentTaskID = task.ParentTaskID
	stored.Order = task.Order
	stored.Completed = task.Completed
	stored.InFocus = task.InFocus
	stored.TimeModified = time.Now()
	return nil
}

func (r *InMemoryRepository) MarkDeletedCascade(ctx context.Context, id int64, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, task := range r.rows {
		if task.UserID != userID {
			continue
		}
		if task.ID == id || (task.ParentTaskID != nil && *task.ParentTaskID == id) {
			task.Deleted = true
			task.TimeModified = time.Now()
			n++
		}
	}
	return n, nil
}

func (r *InMemoryRepository) RepointTag(ctx context.Context, tagID int64, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, task := range r.rows {
		if task.UserID == userID && task.TagID == tagID {
			task.TagID = models.NoTagID
			task.TimeModified = time.Now()
		}
	}
	return nil
}

func (r *InMemoryRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, task := range r.rows {
		if task.Deleted && task.EndDate.Before(cutoff) {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}
