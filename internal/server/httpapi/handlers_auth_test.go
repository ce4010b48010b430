package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginRefresh_Flow(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "alice@example.edu",
		"password": "correct horse",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Contains(t, string(body["email"]), "alice@example.edu")

	w = f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.edu",
		"password": "correct horse",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var pair struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	w = f.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refresh_token": pair.RefreshToken,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refresh_token": pair.RefreshToken,
	})
	assert.Equal(t, http.StatusForbidden, w.Code, "refresh token is single-use")
}

func TestLogin_BadCredentials(t *testing.T) {
	f := newFixture(t)
	f.registerAndLogin(t, "alice@example.edu")

	w := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.edu",
		"password": "wrong horse",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["error"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.registerAndLogin(t, "alice@example.edu")

	w := f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "alice@example.edu",
		"password": "another pass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
