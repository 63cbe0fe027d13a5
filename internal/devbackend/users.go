package devbackend

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verrloren/hackathon-evrz/internal/devbackend/repository"
	"github.com/verrloren/hackathon-evrz/internal/result"
	"github.com/verrloren/hackathon-evrz/internal/validation"
)

// Envelope messages.
const (
	MsgUserCreated        = "User created"
	MsgUserExists         = "User already exists"
	MsgInvalidFields      = "Invalid fields"
	MsgInvalidCredentials = "Invalid email or password"
	MsgLoggedIn           = "Logged in"
	MsgLoggedOut          = "Logged out"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) respondEnvelope(w http.ResponseWriter, r *http.Request, status int, env result.Envelope) {
	s.respondJSON(w, r, status, env)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondEnvelope(w, r, http.StatusBadRequest, result.Envelope{Response: "invalid json body"})
		return
	}
	data, fields := validation.Register(validation.RegisterData{Name: req.Name, Email: req.Email, Password: req.Password})
	if fields != nil {
		s.respondEnvelope(w, r, http.StatusBadRequest, result.Envelope{Response: MsgInvalidFields})
		return
	}
	hash, err := s.hasher.Hash([]byte(data.Password))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	err = s.repo.CreateUser(r.Context(), &repository.User{
		ID:           uuid.NewString(),
		Name:         data.Name,
		Email:        data.Email,
		PasswordHash: hash,
	})
	switch {
	case errors.Is(err, repository.ErrEmailTaken):
		s.respondEnvelope(w, r, http.StatusConflict, result.Envelope{Response: MsgUserExists})
	case err != nil:
		s.internalError(w, r, err)
	default:
		s.respondEnvelope(w, r, http.StatusCreated, result.Envelope{Success: true, Response: MsgUserCreated})
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondEnvelope(w, r, http.StatusBadRequest, result.Envelope{Response: "invalid json body"})
		return
	}
	data, fields := validation.Login(validation.LoginData{Email: req.Email, Password: req.Password})
	if fields != nil {
		s.respondEnvelope(w, r, http.StatusBadRequest, result.Envelope{Response: MsgInvalidFields})
		return
	}
	user, err := s.repo.GetUserByEmail(r.Context(), data.Email)
	if errors.Is(err, repository.ErrNotFound) {
		s.respondEnvelope(w, r, http.StatusUnauthorized, result.Envelope{Response: MsgInvalidCredentials})
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(data.Password)); err != nil {
		s.respondEnvelope(w, r, http.StatusUnauthorized, result.Envelope{Response: MsgInvalidCredentials})
		return
	}

	sessionID := uuid.NewString()
	token, expiresAt, err := s.issuer.Issue(sessionID, user.ID, user.Name)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if err := s.repo.CreateSession(r.Context(), &repository.Session{ID: sessionID, UserID: user.ID, ExpiresAt: expiresAt}); err != nil {
		s.internalError(w, r, err)
		return
	}
	s.log.WithField("user_id", user.ID).Info("devbackend: session started")
	s.respondEnvelope(w, r, http.StatusOK, result.Envelope{Success: true, Response: MsgLoggedIn, Token: token})
}

// handleLogout revokes the session behind a valid Bearer token. It answers success either way.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	if token != "" {
		s.revoke(r, token)
	}
	s.respondEnvelope(w, r, http.StatusOK, result.Envelope{Success: true, Response: MsgLoggedOut})
}

func (s *Server) revoke(r *http.Request, token string) {
	claims, err := s.verifier.Verify(token)
	if err != nil {
		s.log.WithError(err).Debug("devbackend: logout with invalid token")
		return
	}
	sess, err := s.repo.GetSession(r.Context(), claims.SessionID)
	if err != nil {
		s.log.WithError(err).WithField("session_id", claims.SessionID).Warn("devbackend: logout for unknown session")
		return
	}
	if sess.RevokedAt != nil {
		return
	}
	if err := s.repo.RevokeSession(r.Context(), sess.ID, time.Now().UTC()); err != nil {
		s.log.WithError(err).WithField("session_id", sess.ID).Error("devbackend: revoke session failed")
		return
	}
	s.log.WithField("user_id", sess.UserID).Info("devbackend: session revoked")
}
