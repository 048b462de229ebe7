package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/bobsbackgrounds/internal/catalog"
	"github.com/dgallion1/bobsbackgrounds/internal/config"
	"github.com/dgallion1/bobsbackgrounds/internal/fetch"
	"github.com/dgallion1/bobsbackgrounds/internal/pipeline"
)

// app carries what every subcommand shares.
type app struct {
	cfg     config.Config
	source  string
	dbPath  string
	verbose bool
	log     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "burgers",
		Short:         "Burger of the Day catalog tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			if a.source == "" {
				a.source = cfg.SourceURL
			}
			if a.dbPath == "" {
				a.dbPath = cfg.DBPath
			}
			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}
			a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.source, "source", "", "page URL or local HTML file (default: SOURCE_URL)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database path (default: DB_PATH)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log skipped entries and other detail")

	root.AddCommand(
		newPrintCmd(a),
		newExportCmd(a),
		newPopulateCmd(a),
		newRenderCmd(a),
	)
	return root
}

// fileSource serves a saved copy of the page.
type fileSource string

func (f fileSource) Fetch(context.Context) ([]byte, error) {
	data, err := os.ReadFile(string(f))
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	return data, nil
}

func (a *app) pageSource() pipeline.Source {
	if strings.HasPrefix(a.source, "http://") || strings.HasPrefix(a.source, "https://") {
		return fetch.NewClient(a.source, a.cfg.UserAgent, a.cfg.FetchTimeout, a.log)
	}
	return fileSource(a.source)
}

// extract fetches the page and returns its catalog.
func (a *app) extract(ctx context.Context) ([]catalog.Season, error) {
	body, err := a.pageSource().Fetch(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := fetch.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return catalog.NewExtractor(a.log).Extract(doc)
}
