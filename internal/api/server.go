package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/bobsbackgrounds/internal/catalog"
	"github.com/dgallion1/bobsbackgrounds/internal/config"
	"github.com/dgallion1/bobsbackgrounds/internal/fetch"
	"github.com/dgallion1/bobsbackgrounds/internal/pipeline"
	"github.com/dgallion1/bobsbackgrounds/internal/store"
)

// Catalog is the read side of the store served by the API.
type Catalog interface {
	Seasons(ctx context.Context) ([]catalog.Season, error)
	Season(ctx context.Context, number int) (catalog.Season, error)
	Episode(ctx context.Context, season, number int) (catalog.Episode, error)
	Images(ctx context.Context) ([]store.Image, error)
}

// Server is the HTTP API server for the burger catalog.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	catalog      Catalog
	fetchStats   *fetch.Stats
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. fetchStats may be nil.
func NewServer(orch *pipeline.Orchestrator, cat Catalog, fetchStats *fetch.Stats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		catalog:      cat,
		fetchStats:   fetchStats,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Get("/api/seasons", s.handleListSeasons)
		r.Get("/api/seasons/{season}", s.handleGetSeason)
		r.Get("/api/seasons/{season}/episodes/{episode}", s.handleGetEpisode)
		r.Get("/api/report", s.handleReport)
		r.Get("/api/export/{file}", s.handleExport)

		r.Post("/api/refresh", s.handleRefresh)
		r.Post("/api/backgrounds", s.handleRenderBackground)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)

		r.Get("/api/images", s.handleListImages)
		r.Get("/api/stats/fetch", s.handleFetchStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
