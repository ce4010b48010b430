package actions

import (
	"context"
	"sync"
	"time"

	"github.com/planwise/planwise/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used in service tests.
type InMemoryRepository struct {
	mu         sync.Mutex
	nextAction int64
	nextPoint  int64
	actions    map[int64]*models.Action
	points     map[int64]*models.Point
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		nextAction: 1,
		nextPoint:  1,
		actions:    make(map[int64]*models.Action),
		points:     make(map[int64]*models.Point),
	}
}

func (r *InMemoryRepository) Record(ctx context.Context, action *models.Action) (*models.Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	action.ID = r.nextAction
	r.nextAction++
	action.Time = time.Now()

	stored := *action
	r.actions[action.ID] = &stored
	return action, nil
}

func (r *InMemoryRepository) CountByTypeSince(ctx context.Context, userID string, t models.ActionType, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, a := range r.actions {
		if a.UserID == userID && a.Type == t && !a.Time.Before(cutoff) {
			n++
		}
	}
	return n, nil
}

func (r *InMemoryRepository) ListUnscored(ctx context.Context, from, to time.Time) ([]*models.Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	scored := make(map[int64]struct{}, len(r.points))
	for _, p := range r.points {
		scored[p.ActionID] = struct{}{}
	}

	var result []*models.Action
	for _, a := range r.actions {
		if _, ok := scored[a.ID]; ok {
			continue
		}
		if a.Time.Before(from) || !a.Time.Before(to) {
			continue
		}
		item := *a
		result = append(result, &item)
	}
	return result, nil
}

func (r *InMemoryRepository) CreatePoint(ctx context.Context, point *models.Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	point.ID = r.nextPoint
	r.nextPoint++
	point.Time = time.Now()

	stored := *point
	r.points[point.ID] = &stored
	return nil
}
