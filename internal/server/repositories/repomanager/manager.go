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

// RepositoryManager vends per-entity repositories bound to a DBTX, so that a
// service can run several repositories against one transaction. It also owns
// schema migrations.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Tags(db dbx.DBTX) tags.Repository
	Tasks(db dbx.DBTX) tasks.Repository
	Actions(db dbx.DBTX) actions.Repository
	Courses(db dbx.DBTX) courses.Repository
}
