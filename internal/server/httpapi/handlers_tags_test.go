package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/planwise/planwise/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTag(t *testing.T) {
	f := newFixture(t)
	token := f.registerAndLogin(t, "alice@example.edu")

	w := f.do(t, http.MethodPost, "/api/tags", token, map[string]any{
		"tag_name": "math",
		"color":    "#aabbcc",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Created models.Tag `json:"created"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "math", resp.Created.Name)
	assert.Equal(t, 0, resp.Created.Order)
	assert.NotZero(t, resp.Created.ID)
}

func TestCreateTag_EmptyName(t *testing.T) {
	f := newFixture(t)
	token := f.registerAndLogin(t, "alice@example.edu")

	w := f.do(t, http.MethodPost, "/api/tags", token, map[string]any{"color": "#fff"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEditTag_PartialAndZeroValues(t *testing.T) {
	f := newFixture(t)
	token := f.registerAndLogin(t, "alice@example.edu")

	w := f.do(t, http.MethodPost, "/api/tags", token, map[string]any{
		"tag_name": "math", "color": "#aabbcc",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Created models.Tag `json:"created"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created.Created.ID

	w = f.do(t, http.MethodPost, "/api/tags/1/edit", token, map[string]any{"color": ""})
	require.Equal(t, http.StatusOK, w.Code)

	var edited struct {
		Tag models.Tag `json:"tag"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &edited))
	assert.Equal(t, id, edited.Tag.ID)
	assert.Equal(t, "", edited.Tag.Color, "empty string present in the body is applied")
	assert.Equal(t, "math", edited.Tag.Name, "absent keys stay unchanged")
}

func TestEditTag_ForeignTag(t *testing.T) {
	f := newFixture(t)
	alice := f.registerAndLogin(t, "alice@example.edu")
	bob := f.registerAndLogin(t, "bob@example.edu")

	w := f.do(t, http.MethodPost, "/api/tags", alice, map[string]any{
		"tag_name": "private", "color": "#aabbcc",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/api/tags/1/edit", bob, map[string]any{"tag_name": "stolen"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTag_RepointsTasks(t *testing.T) {
	f := newFixture(t)
	token := f.registerAndLogin(t, "alice@example.edu")
	ctx := context.Background()

	w := f.do(t, http.MethodPost, "/api/tags", token, map[string]any{
		"tag_name": "math", "color": "#aabbcc",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Created models.Tag `json:"created"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	tagID := created.Created.ID

	w = f.do(t, http.MethodPost, "/api/tasks", token, map[string]any{
		"content":    "homework",
		"start_date": "2026-02-01T09:00:00Z",
		"end_date":   "2026-02-01T17:00:00Z",
		"tag_id":     tagID,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPut, "/api/tags/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	userID, err := f.users.VerifyToken(token)
	require.NoError(t, err)

	tasks, err := f.rm.Tasks(f.db).ListActive(ctx, userID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, models.NoTagID, tasks[0].TagID)
}

func TestDeleteTag_Unknown(t *testing.T) {
	f := newFixture(t)
	token := f.registerAndLogin(t, "alice@example.edu")

	w := f.do(t, http.MethodPut, "/api/tags/42", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodPut, "/api/tags/not-a-number", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
