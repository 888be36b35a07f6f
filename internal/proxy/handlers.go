package proxy

import (
	"context"
	"errors"
	"net/http"

	"github.com/docwatch/docwatch/internal/docreq"
	"github.com/docwatch/docwatch/internal/listsql"
	"github.com/docwatch/docwatch/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLogin issues a fresh session cookie.
func (s *Server) handleLogin(w http.ResponseWriter, _ *http.Request) {
	if s.sessions == nil {
		writeError(w, http.StatusNotImplemented, "sessions disabled")
		return
	}

	id := s.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusCreated, map[string]string{"session": id})
}

// handleLogout revokes the caller's session, if any.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if s.sessions != nil {
		if cookie, err := r.Cookie(SessionCookie); err == nil {
			s.sessions.Revoke(cookie.Value)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRequests(w http.ResponseWriter, r *http.Request) {
	q := docreq.ParseQuery(r.URL.Query())
	page, err := fetchRetrying(r.Context(), s, func(ctx context.Context) (docreq.Page[docreq.Request], error) {
		return s.upstream.SearchRequests(ctx, q)
	})
	s.respondUpstream(w, page, err)
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	req, err := fetchRetrying(r.Context(), s, func(ctx context.Context) (docreq.Request, error) {
		return s.upstream.GetRequest(ctx, id)
	})
	s.respondUpstream(w, req, err)
}

func (s *Server) handleBatches(w http.ResponseWriter, r *http.Request) {
	q := docreq.ParseQuery(r.URL.Query())
	page, err := fetchRetrying(r.Context(), s, func(ctx context.Context) (docreq.Page[docreq.Batch], error) {
		return s.upstream.ListBatches(ctx, q)
	})
	s.respondUpstream(w, page, err)
}

func (s *Server) handleErrors(w http.ResponseWriter, r *http.Request) {
	q := docreq.ParseQuery(r.URL.Query())
	page, err := fetchRetrying(r.Context(), s, func(ctx context.Context) (docreq.Page[docreq.ProcessingError], error) {
		return s.upstream.ListErrors(ctx, q)
	})
	s.respondUpstream(w, page, err)
}

// fetchRetrying runs one upstream call, retrying exactly once after a 401
// when the token source supports invalidation.
func fetchRetrying[T any](ctx context.Context, s *Server, fn func(context.Context) (T, error)) (T, error) {
	out, err := fn(ctx)
	if err == nil {
		return out, nil
	}

	var statusErr *docreq.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		return out, err
	}
	inv, ok := s.tokens.(invalidator)
	if !ok {
		return out, err
	}

	// The cached token is the one that just failed.
	if failed, tokenErr := s.tokens.Token(ctx); tokenErr == nil {
		inv.Invalidate(failed)
	}
	return fn(ctx)
}

// respondUpstream writes the upstream result, mapping failures: upstream
// 404 passes through, everything else becomes a 502.
func (s *Server) respondUpstream(w http.ResponseWriter, v any, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, v)
		return
	}

	var statusErr *docreq.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	s.log.Error("upstream call failed", "error", err)
	writeError(w, http.StatusBadGateway, "upstream unavailable")
}

// parseKind maps the path segment to a store kind, rejecting anything
// outside the whitelist.
func parseKind(r *http.Request) (store.Kind, bool) {
	kind := store.Kind(r.PathValue("kind"))
	for _, known := range store.Kinds() {
		if kind == known {
			return kind, true
		}
	}
	return "", false
}

func (s *Server) handleReferenceList(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown reference kind")
		return
	}

	q := docreq.ParseQuery(r.URL.Query())
	page, err := s.store.List(r.Context(), kind, listsql.Query{
		Search:   q.Search,
		Sorts:    q.Sorts,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		s.log.Error("reference list failed", "kind", kind, "error", err)
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleReferenceGet(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown reference kind")
		return
	}

	entry, err := s.store.Get(r.Context(), kind, r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		s.log.Error("reference get failed", "kind", kind, "error", err)
		writeError(w, http.StatusInternalServerError, "get failed")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleReferenceCreate(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown reference kind")
		return
	}

	entry, ok := decodeEntry(w, r)
	if !ok {
		return
	}

	created, err := s.store.Create(r.Context(), kind, entry)
	if err != nil {
		s.log.Error("reference create failed", "kind", kind, "error", err)
		writeError(w, http.StatusInternalServerError, "create failed")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleReferenceUpdate(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown reference kind")
		return
	}

	entry, ok := decodeEntry(w, r)
	if !ok {
		return
	}
	entry.ID = r.PathValue("id")

	err := s.store.Update(r.Context(), kind, entry)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		s.log.Error("reference update failed", "kind", kind, "error", err)
		writeError(w, http.StatusInternalServerError, "update failed")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleReferenceDelete(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown reference kind")
		return
	}

	err := s.store.Delete(r.Context(), kind, r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		s.log.Error("reference delete failed", "kind", kind, "error", err)
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeEntry reads a reference entry body, reporting a 400 on bad JSON.
func decodeEntry(w http.ResponseWriter, r *http.Request) (docreq.ReferenceEntry, bool) {
	var entry docreq.ReferenceEntry
	if err := decodeJSON(r, &entry); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return entry, false
	}
	return entry, true
}
