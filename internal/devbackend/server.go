// Package devbackend is a local stand-in for the remote backend: the same REST surface the client
// talks to, backed by memory or Postgres.
package devbackend

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/verrloren/hackathon-evrz/internal/backend"
	"github.com/verrloren/hackathon-evrz/internal/devbackend/repository"
	"github.com/verrloren/hackathon-evrz/internal/logging"
	"github.com/verrloren/hackathon-evrz/internal/security"
)

const instrumentationName = "github.com/verrloren/hackathon-evrz/internal/devbackend"

// Server serves the backend REST API.
type Server struct {
	repo     repository.Repository
	hasher   *security.Hasher
	issuer   *security.TokenIssuer
	verifier *security.SessionVerifier
	apiKey   string
	ttl      time.Duration
	log      logrus.FieldLogger
}

// Options configures token issuance.
type Options struct {
	Issuer   string
	Audience string
	TTL      time.Duration
}

// NewServer returns a Server. Tokens are signed by issuer and verified (on logout) with its public key.
func NewServer(repo repository.Repository, hasher *security.Hasher, issuer *security.TokenIssuer, opts Options, apiKey string, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	return &Server{
		repo:     repo,
		hasher:   hasher,
		issuer:   issuer,
		verifier: security.NewSessionVerifier(issuer.PublicKey(), opts.Issuer, opts.Audience),
		apiKey:   apiKey,
		ttl:      opts.TTL,
		log:      log,
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(traceRequests)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireAPIKey)
		r.Use(middleware.SetHeader("Content-Type", "application/json"))

		r.Route("/users", func(r chi.Router) {
			r.Post("/create", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)
		})
		r.Route("/team", func(r chi.Router) {
			r.Post("/", s.handleCreateTeam)
			r.Get("/", s.handleListTeams)
			r.Get("/{teamId}/members", s.handleListMembers)
			r.Post("/{teamId}/members", s.handleAddMember)
		})
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(backend.HeaderAPIKey) != s.apiKey {
			s.respondError(w, r, http.StatusUnauthorized, "invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.log.WithFields(logrus.Fields{
			"method":        r.Method,
			"path":          r.URL.Path,
			"status":        ww.Status(),
			"duration_ms":   time.Since(start).Milliseconds(),
			"bytes_written": ww.BytesWritten(),
			"request_id":    middleware.GetReqID(r.Context()),
		}).Info("request served")
	})
}

func traceRequests(next http.Handler) http.Handler {
	tracer := otel.Tracer(instrumentationName)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
				attribute.String("request.id", middleware.GetReqID(r.Context())),
			),
		)
		defer span.End()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))
		span.SetAttributes(attribute.Int("http.response.status_code", ww.Status()))
	})
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.WithError(err).WithField("request_id", middleware.GetReqID(r.Context())).Error("failed to write json response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.respondJSON(w, r, status, errorBody{Error: msg})
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.WithError(err).WithField("request_id", middleware.GetReqID(r.Context())).Error("http server error")
	s.respondError(w, r, http.StatusInternalServerError, "internal error")
}
