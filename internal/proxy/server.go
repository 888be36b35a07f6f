package proxy

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/docwatch/docwatch/internal/docreq"
	"github.com/docwatch/docwatch/internal/store"
)

// Config wires the server's collaborators.
type Config struct {
	// Logger receives a structured line per request. Nil discards logs.
	Logger *slog.Logger
	// Upstream is the typed client for the document-processing API.
	Upstream *docreq.Client
	// Tokens is the token source the upstream client draws from. When it
	// supports invalidation, a 401 from upstream triggers one
	// refresh-and-retry.
	Tokens docreq.TokenSource
	// Store backs the reference-data endpoints.
	Store *store.Store
	// Sessions guards the API. Nil leaves the API open (tests).
	Sessions *Sessions
}

// invalidator is the optional token-source capability used for the
// 401 retry path. CachingTokenSource implements it.
type invalidator interface {
	Invalidate(failed string)
}

// Server is the dashboard's HTTP API.
type Server struct {
	log      *slog.Logger
	upstream *docreq.Client
	tokens   docreq.TokenSource
	store    *store.Store
	sessions *Sessions
	handler  http.Handler
}

// NewServer builds the server and its routes.
func NewServer(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		log:      log,
		upstream: cfg.Upstream,
		tokens:   cfg.Tokens,
		store:    cfg.Store,
		sessions: cfg.Sessions,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/session", s.handleLogin)
	mux.HandleFunc("DELETE /api/session", s.handleLogout)

	mux.Handle("GET /api/requests", s.requireSession(s.handleRequests))
	mux.Handle("GET /api/requests/{id}", s.requireSession(s.handleRequest))
	mux.Handle("GET /api/batches", s.requireSession(s.handleBatches))
	mux.Handle("GET /api/errors", s.requireSession(s.handleErrors))

	mux.Handle("GET /api/reference/{kind}", s.requireSession(s.handleReferenceList))
	mux.Handle("POST /api/reference/{kind}", s.requireSession(s.handleReferenceCreate))
	mux.Handle("GET /api/reference/{kind}/{id}", s.requireSession(s.handleReferenceGet))
	mux.Handle("PUT /api/reference/{kind}/{id}", s.requireSession(s.handleReferenceUpdate))
	mux.Handle("DELETE /api/reference/{kind}/{id}", s.requireSession(s.handleReferenceDelete))

	s.handler = s.logRequests(mux)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// requireSession rejects requests without a live session cookie.
// A nil session registry disables the check.
func (s *Server) requireSession(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.sessions != nil {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || !s.sessions.Valid(cookie.Value) {
				writeError(w, http.StatusUnauthorized, "session required")
				return
			}
		}
		next(w, r)
	})
}

// logRequests emits one structured log line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// writeError emits the JSON error envelope used across the API.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
