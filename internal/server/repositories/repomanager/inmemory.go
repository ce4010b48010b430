package repomanager

import (
	"context"
	"database/sql"

	"github.com/planwise/planwise/internal/dbx"
	"github.com/planwise/planwise/internal/server/repositories/actions"
	"github.com/planwise/planwise/internal/server/repositories/courses"
	"github.com/planwise/planwise/internal/server/repositories/refreshtokens"
	"github.com/planwise/planwise/internal/server/repositories/tags"
	"github.com/planwise/planwise/internal/server/repositories/tasks"
	"github.com/planwise/planwise/internal/server/repositories/users"
)

// InMemoryRepositoryManager vends shared in-memory repositories and ignores
// the DBTX argument. Used by service and handler tests; there is nothing
// transactional about it.
type InMemoryRepositoryManager struct {
	users         *users.InMemoryRepository
	refreshTokens *refreshtokens.InMemoryRepository
	tags          *tags.InMemoryRepository
	tasks         *tasks.InMemoryRepository
	actions       *actions.InMemoryRepository
	courses       *courses.InMemoryRepository
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return m.refreshTokens
}

func (m *InMemoryRepositoryManager) Tags(db dbx.DBTX) tags.Repository {
	return m.tags
}

func (m *InMemoryRepositoryManager) Tasks(db dbx.DBTX) tasks.Repository {
	return m.tasks
}

func (m *InMemoryRepositoryManager) Actions(db dbx.DBTX) actions.Repository {
	return m.actions
}

func (m *InMemoryRepositoryManager) Courses(db dbx.DBTX) courses.Repository {
	return m.courses
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:         users.NewInMemoryRepository(),
		refreshTokens: refreshtokens.NewInMemoryRepository(),
		tags:          tags.NewInMemoryRepository(),
		tasks:         tasks.NewInMemoryRepository(),
		actions:       actions.NewInMemoryRepository(),
		courses:       courses.NewInMemoryRepository(),
	}
}
