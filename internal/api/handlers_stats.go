package api

import (
	"net/http"
)

func (s *Server) handleFetchStats(w http.ResponseWriter, r *http.Request) {
	if s.fetchStats == nil {
		jsonError(w, "fetch stats unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"source": s.cfg.SourceURL,
		"stats":  s.fetchStats.Snapshot(),
		"queue":  s.orchestrator.QueueDepth(),
	})
}

func (s *Server) handleListImages(w http.ResponseWriter, r *http.Request) {
	images, err := s.catalog.Images(r.Context())
	if err != nil {
		s.log.Error("list images failed", "error", err)
		jsonError(w, "failed to list images", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"images": images})
}
