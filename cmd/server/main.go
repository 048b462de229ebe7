package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/bobsbackgrounds/internal/api"
	"github.com/dgallion1/bobsbackgrounds/internal/config"
	"github.com/dgallion1/bobsbackgrounds/internal/fetch"
	"github.com/dgallion1/bobsbackgrounds/internal/pipeline"
	"github.com/dgallion1/bobsbackgrounds/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Error("open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	source := fetch.NewClient(cfg.SourceURL, cfg.UserAgent, cfg.FetchTimeout, log)

	artist, err := pipeline.NewArtist(cfg.TemplatePath, cfg.FontPath, cfg.FontSize, cfg.OutputPath)
	if err != nil {
		log.Warn("background rendering disabled", "template", cfg.TemplatePath, "error", err)
		artist = nil
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, source, st, artist, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, st, source.Stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		source.Close()
		if err := st.Close(); err != nil {
			log.Warn("close database", "error", err)
		}
	}()

	log.Info("starting bobsbackgrounds", "port", cfg.Port, "source", source.URL(), "refresh_interval", cfg.RefreshInterval)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
}
