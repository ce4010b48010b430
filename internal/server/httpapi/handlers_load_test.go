package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/planwise/planwise/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmptyCollectionsEncodeAsArrays(t *testing.T) {
	f := newFixture(t)
	token := f.registerAndLogin(t, "alice@example.edu")

	w := f.do(t, http.MethodGet, "/api/load", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `"tags":[]`)
	assert.Contains(t, body, `"tasks":[]`)
	assert.NotContains(t, body, "null")
}

func TestLoad_ScopedToCaller(t *testing.T) {
	f := newFixture(t)
	alice := f.registerAndLogin(t, "alice@example.edu")
	bob := f.registerAndLogin(t, "bob@example.edu")

	w := f.do(t, http.MethodPost, "/api/tags", alice, map[string]any{
		"tag_name": "math", "color": "#aabbcc",
	})
	require.Equal(t, http.StatusOK, w.Code)

	createTask(t, f, alice, map[string]any{"content": "homework"})

	w = f.do(t, http.MethodGet, "/api/load", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Tags  []models.Tag  `json:"tags"`
		Tasks []models.Task `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.Empty(t, data.Tags)
	assert.Empty(t, data.Tasks)

	w = f.do(t, http.MethodGet, "/api/load", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.Len(t, data.Tags, 1)
	assert.Len(t, data.Tasks, 1)
}
