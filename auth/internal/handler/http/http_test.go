package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vaibhavisno-one/movierating/auth/internal/repository/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	h := New(memory.New(), func() []byte { return []byte("test-secret") }, zap.NewNop())
	mux := http.NewServeMux()
	h.Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestSignUpThenSignIn(t *testing.T) {
	srv := newTestServer(t)
	creds := map[string]string{"email": "a@x.com", "password": "secret1"}

	resp := postJSON(t, srv.URL+"/signup", creds)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Token    string `json:"token"`
		Identity struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"identity"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(t, created.Token)
	assert.NotEmpty(t, created.Identity.ID)
	assert.Equal(t, "a@x.com", created.Identity.Email)

	resp = postJSON(t, srv.URL+"/token", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/token", map[string]string{"email": "a@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSignUpValidation(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/signup", map[string]string{"email": "nodomain", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/signup", map[string]string{"email": "a@x.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDuplicateEmailConflicts(t *testing.T) {
	srv := newTestServer(t)
	creds := map[string]string{"email": "a@x.com", "password": "secret1"}

	require.Equal(t, http.StatusCreated, postJSON(t, srv.URL+"/signup", creds).StatusCode)
	assert.Equal(t, http.StatusConflict, postJSON(t, srv.URL+"/signup", creds).StatusCode)
}

func TestSessionAndProfile(t *testing.T) {
	srv := newTestServer(t)
	resp := postJSON(t, srv.URL+"/signup", map[string]string{"email": "a@x.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	get := func(token string) *http.Response {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/session", nil)
		require.NoError(t, err)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		r, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { r.Body.Close() })
		return r
	}

	assert.Equal(t, http.StatusUnauthorized, get("").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, get("garbage").StatusCode)
	require.Equal(t, http.StatusOK, get(created.Token).StatusCode)

	raw, err := json.Marshal(map[string]string{"username": "alice"})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/profile", bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+created.Token)
	profileResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer profileResp.Body.Close()
	require.Equal(t, http.StatusOK, profileResp.StatusCode)

	var updated struct {
		Identity struct {
			Username *string `json:"username"`
		} `json:"identity"`
	}
	require.NoError(t, json.NewDecoder(profileResp.Body).Decode(&updated))
	require.NotNil(t, updated.Identity.Username)
	assert.Equal(t, "alice", *updated.Identity.Username)
}
