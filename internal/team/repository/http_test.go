package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verrloren/hackathon-evrz/internal/apperr"
	"github.com/verrloren/hackathon-evrz/internal/backend"
	"github.com/verrloren/hackathon-evrz/internal/team/domain"
)

func newRepo(t *testing.T, handler http.HandlerFunc) *HTTPRepository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := backend.NewClient(server.URL, "k")
	require.NoError(t, err)
	return NewHTTPRepository(client)
}

func TestCreate(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/team", r.URL.Path)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"name": "Alpha", "userId": "u1"}, body)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"t1"}`))
	})
	require.NoError(t, repo.Create(context.Background(), "Alpha", "u1"))
}

func TestCreate_Rejected(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"team exists"}`))
	})
	err := repo.Create(context.Background(), "Alpha", "u1")
	assert.ErrorIs(t, err, apperr.ErrBackendRejection)
	assert.Equal(t, "team exists", apperr.MessageOf(err))
}

func TestListForUser(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/team", r.URL.Path)
		assert.Equal(t, "u 1", r.URL.Query().Get("userId"))
		w.Write([]byte(`[{"id":"t1","name":"Alpha","members":[{"id":"m1","name":"Ann","teamId":"t1","cards":[]}]}]`))
	})
	teams, err := repo.ListForUser(context.Background(), "u 1")
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "Alpha", teams[0].Name)
	assert.Equal(t, "Ann", teams[0].Members[0].Name)
}

func TestMembers(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/team/t1/members", r.URL.Path)
		w.Write([]byte(`[{"id":"m1","name":"Ann","teamId":"t1","cards":[{"id":"c1","name":"Visa"}]}]`))
	})
	members, err := repo.Members(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Member{{ID: "m1", Name: "Ann", TeamID: "t1", Cards: []domain.Card{{ID: "c1", Name: "Visa"}}}}, members)
}

func TestMembers_FallbackMessage(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`oops`))
	})
	_, err := repo.Members(context.Background(), "t1")
	assert.ErrorIs(t, err, apperr.ErrBackendRejection)
	assert.Equal(t, MsgFetchMembersFailed, apperr.MessageOf(err))
}

func TestAddMember(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/team/t1/members", r.URL.Path)
		var body struct {
			Name    string   `json:"name"`
			CardIDs []string `json:"cardIds"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Bob", body.Name)
		assert.Equal(t, []string{}, body.CardIDs)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"m2","name":"Bob","teamId":"t1","cards":[]}`))
	})
	m, err := repo.AddMember(context.Background(), "t1", domain.NewMember{Name: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, "m2", m.ID)
}
