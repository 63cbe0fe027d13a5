package devbackend

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/verrloren/hackathon-evrz/internal/devbackend/repository"
	teamdomain "github.com/verrloren/hackathon-evrz/internal/team/domain"
)

// Error messages for the team endpoints.
const (
	ErrMsgTeamNotFound = "team not found"
	ErrMsgUserNotFound = "user not found"
)

type createTeamRequest struct {
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		s.respondError(w, r, http.StatusBadRequest, "name is required")
		return
	}
	if req.UserID == "" {
		s.respondError(w, r, http.StatusBadRequest, "userId is required")
		return
	}
	team := &teamdomain.Team{ID: uuid.NewString(), Name: req.Name}
	err := s.repo.CreateTeam(r.Context(), team, req.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		s.respondError(w, r, http.StatusNotFound, ErrMsgUserNotFound)
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	team.Members = []teamdomain.Member{}
	s.respondJSON(w, r, http.StatusCreated, team)
}

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		s.respondError(w, r, http.StatusBadRequest, "userId is required")
		return
	}
	teams, err := s.repo.ListTeamsByOwner(r.Context(), userID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, teams)
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.repo.ListMembers(r.Context(), chi.URLParam(r, "teamId"))
	if errors.Is(err, repository.ErrNotFound) {
		s.respondError(w, r, http.StatusNotFound, ErrMsgTeamNotFound)
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, members)
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req teamdomain.NewMember
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		s.respondError(w, r, http.StatusBadRequest, "name is required")
		return
	}
	member := &teamdomain.Member{
		ID:     uuid.NewString(),
		Name:   name,
		TeamID: chi.URLParam(r, "teamId"),
		Cards:  make([]teamdomain.Card, 0, len(req.CardIDs)),
	}
	for _, id := range req.CardIDs {
		if id = strings.TrimSpace(id); id != "" {
			member.Cards = append(member.Cards, teamdomain.Card{ID: id, Name: id})
		}
	}
	err := s.repo.AddMember(r.Context(), member)
	if errors.Is(err, repository.ErrNotFound) {
		s.respondError(w, r, http.StatusNotFound, ErrMsgTeamNotFound)
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusCreated, member)
}
