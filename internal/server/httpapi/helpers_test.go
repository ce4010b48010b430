package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/planwise/planwise/internal/logging"
	"github.com/planwise/planwise/internal/server/config"
	"github.com/planwise/planwise/internal/server/repositories/repomanager"
	"github.com/planwise/planwise/internal/server/services"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

type fixture struct {
	handler http.Handler
	users   *services.UserService
	tags    *services.TagService
	tasks   *services.TaskService
	rm      *repomanager.InMemoryRepositoryManager
	db      *sql.DB
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rm := repomanager.NewInMemoryRepositoryManager()

	cfg := &config.Config{
		SecretKey:                    "test-secret",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}

	users := services.NewUserService(db, rm, cfg)
	tags := services.NewTagService(db, rm)
	tasks := services.NewTaskService(db, rm)
	loader := services.NewLoadService(db, rm)

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := NewServer(cfg, logger, users, tags, tasks, loader)

	return &fixture{
		handler: srv.Handler(),
		users:   users,
		tags:    tags,
		tasks:   tasks,
		rm:      rm,
		db:      db,
	}
}

// registerAndLogin creates an account and returns a valid access token.
func (f *fixture) registerAndLogin(t *testing.T, email string) string {
	t.Helper()
	ctx := context.Background()

	_, err := f.users.Register(ctx, email, "correct horse")
	require.NoError(t, err)

	pair, err := f.users.Login(ctx, email, "correct horse")
	require.NoError(t, err)
	return pair.AccessToken
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
