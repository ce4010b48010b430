package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/planwise/planwise/internal/server/models"
	"github.com/planwise/planwise/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// newTxDB returns a throwaway sqlite handle used only as a transaction host;
// the in-memory repositories never touch it.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newFixture(t *testing.T) (*sql.DB, *repomanager.InMemoryRepositoryManager) {
	t.Helper()
	return newTxDB(t), repomanager.NewInMemoryRepositoryManager()
}

func mustCreateTag(t *testing.T, svc *TagService, userID, name string) *models.Tag {
	t.Helper()
	tag, err := svc.Create(context.Background(), userID, NewTag{Name: name, Color: "#aabbcc"})
	require.NoError(t, err)
	return tag
}

func mustCreateTask(t *testing.T, svc *TaskService, userID, content string, in NewTask) *CreatedTask {
	t.Helper()
	if in.Content == "" {
		in.Content = content
	}
	if in.StartDate.IsZero() {
		in.StartDate = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	}
	if in.EndDate.IsZero() {
		in.EndDate = time.Date(2026, 2, 1, 17, 0, 0, 0, time.UTC)
	}
	created, err := svc.Create(context.Background(), userID, in)
	require.NoError(t, err)
	return created
}
