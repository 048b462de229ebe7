package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/bobsbackgrounds/internal/pipeline"
)

// handleRefresh queues a catalog refresh. ?force=true saves even when the
// page is unchanged since the last refresh.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	job := pipeline.NewJob(pipeline.KindRefresh)
	job.Force = r.URL.Query().Get("force") == "true"
	s.submit(w, job)
}

type renderRequest struct {
	BurgerID int64 `json:"burger_id"`
}

// handleRenderBackground queues a background render. The optional JSON body
// names a burger; without one a random burger is drawn.
func (s *Server) handleRenderBackground(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.BurgerID < 0 {
		jsonError(w, "burger_id must be positive", http.StatusBadRequest)
		return
	}

	job := pipeline.NewJob(pipeline.KindRender)
	job.BurgerID = req.BurgerID
	s.submit(w, job)
}

func (s *Server) submit(w http.ResponseWriter, job *pipeline.Job) {
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	snap := job.Snapshot()
	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   snap.ID,
		"kind":     snap.Kind,
		"status":   snap.Status,
		"poll_url": fmt.Sprintf("/api/jobs/%s", snap.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}
