package http

import (
	"log/slog"
	"net/http"
)

// healthResponse reports service liveness and which backend is active.
// Target is safe to expose: connection URLs are credential-redacted by
// the storage layer.
type healthResponse struct {
	Status  string `json:"status"`
	App     string `json:"app"`
	Backend string `json:"backend"`
	Target  string `json:"target"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Health check failed", "backend", s.backend, "error", err)
		writeError(w, http.StatusServiceUnavailable, "storage unreachable")
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		App:     appName,
		Backend: s.backend,
		Target:  s.store.Target(),
	})
}
