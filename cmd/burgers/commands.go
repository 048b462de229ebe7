package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/bobsbackgrounds/internal/pipeline"
	"github.com/dgallion1/bobsbackgrounds/internal/report"
	"github.com/dgallion1/bobsbackgrounds/internal/store"
)

func newPrintCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print every season, episode and burger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seasons, err := a.extract(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(seasons)
			}
			return report.Pretty(cmd.OutOrStdout(), seasons)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write episodes.xlsx and burgers.xlsx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = a.cfg.SpreadsheetDir
			}
			seasons, err := a.extract(cmd.Context())
			if err != nil {
				return err
			}
			paths, err := report.WriteSpreadsheets(dir, seasons)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (default: SPREADSHEET_DIR)")
	return cmd
}

func (a *app) orchestrator(withArtist bool) (*pipeline.Orchestrator, func(), error) {
	st, err := store.Open(a.dbPath)
	if err != nil {
		return nil, nil, err
	}
	var artist *pipeline.Artist
	if withArtist {
		if artist, err = pipeline.NewArtist(a.cfg.TemplatePath, a.cfg.FontPath, a.cfg.FontSize, a.cfg.OutputPath); err != nil {
			st.Close()
			return nil, nil, err
		}
	}
	o := pipeline.NewOrchestrator(a.cfg, a.pageSource(), st, artist, a.log)
	return o, func() { st.Close() }, nil
}

func jobError(snap pipeline.JobSnapshot) error {
	if snap.Status == pipeline.StatusFailed {
		return fmt.Errorf("%s job failed in %s: %v", snap.Kind, snap.Phase, snap.Progress.Errors)
	}
	return nil
}

func newPopulateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "populate",
		Short: "Extract the catalog and save it to the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, closeFn, err := a.orchestrator(false)
			if err != nil {
				return err
			}
			defer closeFn()

			job := pipeline.NewJob(pipeline.KindRefresh)
			job.Force = true
			snap := o.Run(cmd.Context(), job)
			if err := jobError(snap); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %d seasons, %d episodes, %d burgers to %s\n",
				snap.Progress.Seasons, snap.Progress.Episodes, snap.Progress.Burgers, a.dbPath)
			return nil
		},
	}
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		burgerID int64
		template string
		font     string
		size     float64
		output   string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw a burger from the database onto the background template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if template != "" {
				a.cfg.TemplatePath = template
			}
			if font != "" {
				a.cfg.FontPath = font
			}
			if size > 0 {
				a.cfg.FontSize = size
			}
			if output != "" {
				a.cfg.OutputPath = output
			}

			o, closeFn, err := a.orchestrator(true)
			if err != nil {
				return err
			}
			defer closeFn()

			job := pipeline.NewJob(pipeline.KindRender)
			job.BurgerID = burgerID
			snap := o.Run(cmd.Context(), job)
			if err := jobError(snap); err != nil {
				return err
			}
			img := snap.Image
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (season %d, episode %d)\n", img.Path, img.BurgerName, img.Season, img.Episode)
			if img.ArchivedPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "previous background archived to %s\n", img.ArchivedPath)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&burgerID, "burger", 0, "burger id to draw (default: random)")
	cmd.Flags().StringVar(&template, "template", "", "template image (default: TEMPLATE_PATH)")
	cmd.Flags().StringVar(&font, "font", "", "TrueType font file (default: bundled Go Regular)")
	cmd.Flags().Float64Var(&size, "size", 0, "font size in points (default: FONT_SIZE)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG path (default: OUTPUT_PATH)")
	return cmd
}
