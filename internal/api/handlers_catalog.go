package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/bobsbackgrounds/internal/report"
	"github.com/dgallion1/bobsbackgrounds/internal/store"
)

func (s *Server) handleListSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := s.catalog.Seasons(r.Context())
	if err != nil {
		s.log.Error("list seasons failed", "error", err)
		jsonError(w, "failed to list seasons", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"seasons": seasons})
}

func (s *Server) handleGetSeason(w http.ResponseWriter, r *http.Request) {
	number, ok := intParam(w, r, "season")
	if !ok {
		return
	}
	season, err := s.catalog.Season(r.Context(), number)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, fmt.Sprintf("season %d not found", number), http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("get season failed", "season", number, "error", err)
		jsonError(w, "failed to load season", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, season)
}

func (s *Server) handleGetEpisode(w http.ResponseWriter, r *http.Request) {
	season, ok := intParam(w, r, "season")
	if !ok {
		return
	}
	number, ok := intParam(w, r, "episode")
	if !ok {
		return
	}
	ep, err := s.catalog.Episode(r.Context(), season, number)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, fmt.Sprintf("season %d episode %d not found", season, number), http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("get episode failed", "season", season, "episode", number, "error", err)
		jsonError(w, "failed to load episode", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ep)
}

// handleReport renders the catalog as HTML, or as the plain text listing
// with ?format=text.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	seasons, err := s.catalog.Seasons(r.Context())
	if err != nil {
		s.log.Error("report failed", "error", err)
		jsonError(w, "failed to load catalog", http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := report.Pretty(w, seasons); err != nil {
			s.log.Warn("write text report failed", "error", err)
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Burger of the Day</title></head><body>\n"))
	if err := report.HTML(w, seasons); err != nil {
		s.log.Warn("write html report failed", "error", err)
		return
	}
	w.Write([]byte("</body></html>\n"))
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleExport serves a spreadsheet as <table>.csv or <table>.xlsx.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	table, ext, _ := strings.Cut(file, ".")
	if !report.IsTable(table) || (ext != "csv" && ext != "xlsx") {
		jsonError(w, fmt.Sprintf("unknown export %q", file), http.StatusNotFound)
		return
	}
	seasons, err := s.catalog.Seasons(r.Context())
	if err != nil {
		s.log.Error("export failed", "table", table, "error", err)
		jsonError(w, "failed to load catalog", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file))
	if ext == "xlsx" {
		w.Header().Set("Content-Type", xlsxContentType)
		err = report.WriteWorkbook(w, table, seasons)
	} else {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		err = report.WriteTable(w, table, seasons)
	}
	if err != nil {
		s.log.Warn("write export failed", "file", file, "error", err)
	}
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		jsonError(w, fmt.Sprintf("invalid %s %q", name, raw), http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
