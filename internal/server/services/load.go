package services

import (
	"context"
	"database/sql"

	"github.com/planwise/planwise/internal/common"
	"github.com/planwise/planwise/internal/server/models"
	"github.com/planwise/planwise/internal/server/repositories/repomanager"
)

// LoadedData is everything a client needs to render after login: the user's
// live tags and tasks, and the shared course catalog.
type LoadedData struct {
	Tags    []*models.Tag    `json:"tags"`
	Tasks   []*models.Task   `json:"tasks"`
	Courses []*models.Course `json:"courses"`
}

// LoadService assembles the initial data payload for a user.
type LoadService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewLoadService(db *sql.DB, m repomanager.RepositoryManager) *LoadService {
	return &LoadService{db: db, repomanager: m}
}

// Load returns the user's non-deleted tags and tasks in sort order plus the
// course catalog. Empty collections come back as empty slices, not nil, so
// the JSON encodes as [] rather than null.
func (s *LoadService) Load(ctx context.Context, userID string) (*LoadedData, error) {
	tags, err := s.repomanager.Tags(s.db).ListActive(ctx, userID)
	if err != nil {
		return nil, common.ErrInternal
	}

	tasks, err := s.repomanager.Tasks(s.db).ListActive(ctx, userID)
	if err != nil {
		return nil, common.ErrInternal
	}

	courses, err := s.repomanager.Courses(s.db).ListAll(ctx)
	if err != nil {
		return nil, common.ErrInternal
	}

	if tags == nil {
		tags = []*models.Tag{}
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	if courses == nil {
		courses = []*models.Course{}
	}

	return &LoadedData{Tags: tags, Tasks: tasks, Courses: courses}, nil
}
