package courses

import (
	"context"
	"sort"
	"sync"

	"github.com/planwise/planwise/internal/server/models"
)

type courseKey struct {
	courseID int
	examType string
}

// InMemoryRepository is a map-backed Repository used in service tests.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   map[courseKey]*models.Course
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, rows: make(map[courseKey]*models.Course)}
}

func (r *InMemoryRepository) Upsert(ctx context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := courseKey{courseID: course.CourseID, examType: course.ExamType}
	if existing, ok := r.rows[key]; ok {
		course.ID = existing.ID
	} else {
		course.ID = r.nextID
		r.nextID++
	}
	stored := *course
	r.rows[key] = &stored
	return nil
}

func (r *InMemoryRepository) ListAll(ctx context.Context) ([]*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*models.Course, 0, len(r.rows))
	for _, c := range r.rows {
		item := *c
		result = append(result, &item)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Subject != result[j].Subject {
			return result[i].Subject < result[j].Subject
		}
		return result[i].Number < result[j].Number
	})
	return result, nil
}
