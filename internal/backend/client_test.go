package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verrloren/hackathon-evrz/internal/apperr"
)

func TestNewClient_RequiresConfig(t *testing.T) {
	c, err := NewClient("", "key")
	assert.Nil(t, c)
	assert.ErrorIs(t, err, apperr.ErrConfiguration)

	c, err = NewClient("http://localhost", " ")
	assert.Nil(t, c)
	assert.ErrorIs(t, err, apperr.ErrConfiguration)
}

func TestDo_SetsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/users/logout", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "test-key", r.Header.Get(HeaderAPIKey))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, err := uuid.Parse(r.Header.Get(HeaderRequestID))
		assert.NoError(t, err)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success":true,"response":"Logged out"}`))
	}))
	defer server.Close()

	c, err := NewClient(server.URL+"/", "test-key")
	require.NoError(t, err)
	resp, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/api/users/logout", Token: "tok"})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.NotEmpty(t, resp.RequestID)
}

func TestPostEnvelope_DecodesRegardlessOfStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ann", body["name"])
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"success":false,"response":"User already exists"}`))
	}))
	defer server.Close()

	c, err := NewClient(server.URL, "k")
	require.NoError(t, err)
	env, err := c.PostEnvelope(context.Background(), "/api/users/create", map[string]string{"name": "Ann"}, "")
	require.NoError(t, err)
	assert.False(t, env.Success)
	assert.Equal(t, "User already exists", env.Response)
}

func TestPostEnvelope_BadBodyIsNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	}))
	defer server.Close()

	c, err := NewClient(server.URL, "k")
	require.NoError(t, err)
	env, err := c.PostEnvelope(context.Background(), "/api/users/create", nil, "")
	assert.Nil(t, env)
	assert.ErrorIs(t, err, apperr.ErrNetwork)
}

func TestGetJSON_Non2xxUsesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"db down"}`))
	}))
	defer server.Close()

	c, err := NewClient(server.URL, "k")
	require.NoError(t, err)
	var out []map[string]any
	err = c.GetJSON(context.Background(), "/api/team/t1/members", "Failed to fetch members", &out)
	assert.ErrorIs(t, err, apperr.ErrBackendRejection)
	assert.Equal(t, "db down", apperr.MessageOf(err))
}

func TestGetJSON_Non2xxFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`bad gateway`))
	}))
	defer server.Close()

	c, err := NewClient(server.URL, "k")
	require.NoError(t, err)
	err = c.GetJSON(context.Background(), "/x", "Failed to fetch members", nil)
	assert.Equal(t, "Failed to fetch members", apperr.MessageOf(err))
}

func TestPostJSON_NilOutIgnoresBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	c, err := NewClient(server.URL, "k")
	require.NoError(t, err)
	assert.NoError(t, c.PostJSON(context.Background(), "/api/team", map[string]string{"name": "X"}, "fail", nil))
}

type failingDoer struct{ err error }

func (f failingDoer) Do(*http.Request) (*http.Response, error) { return nil, f.err }

func TestDo_TransportErrorIsNetworkFailure(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	c, err := NewClient("http://backend.invalid", "k", WithHTTPClient(failingDoer{err: cause}))
	require.NoError(t, err)
	_, err = c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/team"})
	assert.ErrorIs(t, err, apperr.ErrNetwork)
	assert.ErrorIs(t, err, cause)
}

func TestWithTimeout(t *testing.T) {
	c, err := NewClient("http://x", "k", WithTimeout(2*time.Second))
	require.NoError(t, err)
	hc, ok := c.httpClient.(*http.Client)
	require.True(t, ok)
	assert.Equal(t, 2*time.Second, hc.Timeout)

	c, err = NewClient("http://x", "k", WithTimeout(0))
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), c.httpClient.(*http.Client).Timeout)
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(201))
	assert.Equal(t, "5xx", statusClass(500))
}

func TestWithLogger_NilKeepsDefault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c, err := NewClient(server.URL, "key", WithLogger(nil))
	require.NoError(t, err)
	require.NotPanics(t, func() {
		resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/ping"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}
