package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/image/font"

	"github.com/dgallion1/bobsbackgrounds/internal/catalog"
	"github.com/dgallion1/bobsbackgrounds/internal/fetch"
	"github.com/dgallion1/bobsbackgrounds/internal/render"
	"github.com/dgallion1/bobsbackgrounds/internal/store"
)

// Source returns the raw bytes of the Burger of the Day page.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Catalog is the persistence a worker needs.
type Catalog interface {
	SaveCatalog(ctx context.Context, seasons []catalog.Season) (store.SaveResult, error)
	Burger(ctx context.Context, id int64) (store.BurgerRecord, error)
	RandomBurger(ctx context.Context) (store.BurgerRecord, error)
	RecordImage(ctx context.Context, path string, burgerID int64, createdAt time.Time) (int64, error)
	ArchiveImages(ctx context.Context, path, archivedPath string, at time.Time) (int64, error)
}

// Artist holds what render jobs draw with. Renders are serialized because
// they share one output path.
type Artist struct {
	mu sync.Mutex

	Template   image.Image
	Face       font.Face
	Color      color.Color
	OutputPath string
}

// NewArtist loads the template image and font face.
func NewArtist(templatePath, fontPath string, fontSize float64, outputPath string) (*Artist, error) {
	tmpl, err := render.LoadTemplate(templatePath)
	if err != nil {
		return nil, err
	}
	face, err := render.LoadFace(fontPath, fontSize)
	if err != nil {
		return nil, err
	}
	return &Artist{Template: tmpl, Face: face, Color: color.Black, OutputPath: outputPath}, nil
}

// pageMemo remembers the hash of the last page that was saved.
type pageMemo struct {
	mu   sync.Mutex
	hash string
}

func (m *pageMemo) seen(hash string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hash == hash
}

func (m *pageMemo) set(hash string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hash = hash
}

// Worker processes refresh and render jobs.
type Worker struct {
	source    Source
	catalog   Catalog
	artist    *Artist
	extractor *catalog.Extractor
	memo      *pageMemo
	log       *slog.Logger
	now       func() time.Time
}

func newWorker(source Source, cat Catalog, artist *Artist, memo *pageMemo, log *slog.Logger) *Worker {
	return &Worker{
		source:    source,
		catalog:   cat,
		artist:    artist,
		extractor: catalog.NewExtractor(log),
		memo:      memo,
		log:       log,
		now:       time.Now,
	}
}

// Process runs a job to completion, recording its outcome on the job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "kind", job.Kind)
	switch job.Kind {
	case KindRefresh:
		w.refresh(ctx, job, log)
	case KindRender:
		w.render(ctx, job, log)
	default:
		log.Error("unknown job kind")
		job.AddError(fmt.Sprintf("unknown job kind %q", job.Kind))
		job.SetStatus(StatusFailed, "dispatch")
	}
}

func (w *Worker) fail(job *Job, log *slog.Logger, phase, msg string, err error) {
	log.Error(msg, "phase", phase, "error", err)
	job.AddError(fmt.Sprintf("%s: %s", phase, err))
	job.SetStatus(StatusFailed, phase)
}

func (w *Worker) refresh(ctx context.Context, job *Job, log *slog.Logger) {
	// Phase 1: Fetch
	job.SetStatus(StatusFetching, "fetching")
	body, err := w.source.Fetch(ctx)
	if err != nil {
		w.fail(job, log, "fetching", "fetch failed", err)
		return
	}

	hash := ContentHashHex(body)
	job.SetContentHash(hash)
	if !job.Force && w.memo.seen(hash) {
		log.Info("page unchanged since last refresh, skipping", "content_hash", hash)
		job.SetStatus(StatusUnchanged, "dedup")
		return
	}

	// Phase 2: Extract
	job.SetStatus(StatusExtracting, "extracting")
	doc, err := fetch.Parse(bytes.NewReader(body))
	if err != nil {
		w.fail(job, log, "extracting", "parse failed", err)
		return
	}
	seasons, err := w.extractor.Extract(doc)
	if err != nil {
		var structErr *catalog.DocumentStructureError
		if errors.As(err, &structErr) {
			log.Error("page layout changed", "container", structErr.Container)
		}
		w.fail(job, log, "extracting", "extract failed", err)
		return
	}

	var episodes, burgers int
	for _, s := range seasons {
		episodes += len(s.Episodes)
		for _, ep := range s.Episodes {
			burgers += len(ep.Burgers)
		}
	}
	job.SetCounts(len(seasons), episodes, burgers)
	log.Info("extracted catalog", "seasons", len(seasons), "episodes", episodes, "burgers", burgers)

	// Phase 3: Save
	job.SetStatus(StatusSaving, "saving")
	res, err := w.catalog.SaveCatalog(ctx, seasons)
	if err != nil {
		w.fail(job, log, "saving", "save failed", err)
		return
	}
	job.SetSaved(res.Episodes + res.Burgers)
	w.memo.set(hash)

	log.Info("catalog saved", "episodes", res.Episodes, "burgers", res.Burgers, "removed", res.Removed)
	job.SetStatus(StatusCompleted, "done")
}

func (w *Worker) render(ctx context.Context, job *Job, log *slog.Logger) {
	if w.artist == nil {
		w.fail(job, log, "rendering", "render unavailable", errors.New("no background template configured"))
		return
	}

	job.SetStatus(StatusRendering, "selecting")
	var (
		rec store.BurgerRecord
		err error
	)
	if job.BurgerID != 0 {
		rec, err = w.catalog.Burger(ctx, job.BurgerID)
	} else {
		rec, err = w.catalog.RandomBurger(ctx)
	}
	if err != nil {
		w.fail(job, log, "selecting", "pick burger failed", err)
		return
	}
	log = log.With("burger_id", rec.ID, "burger", rec.Name)

	a := w.artist
	a.mu.Lock()
	defer a.mu.Unlock()

	job.SetStatus(StatusRendering, "drawing")
	img := render.AddText(a.Template, render.Caption(rec.Burger), a.Face, a.Color)

	now := w.now()
	archived, err := render.Save(img, a.OutputPath, now)
	if err != nil {
		w.fail(job, log, "drawing", "save image failed", err)
		return
	}
	if archived != "" {
		n, err := w.catalog.ArchiveImages(ctx, a.OutputPath, archived, now)
		if err != nil {
			log.Warn("mark archived images failed", "error", err)
		} else {
			log.Info("archived previous background", "archived_path", archived, "rows", n)
		}
	}

	imageID, err := w.catalog.RecordImage(ctx, a.OutputPath, rec.ID, now)
	if err != nil {
		w.fail(job, log, "recording", "record image failed", err)
		return
	}

	job.SetImage(ImageResult{
		ImageID:      imageID,
		Path:         a.OutputPath,
		ArchivedPath: archived,
		BurgerID:     rec.ID,
		BurgerName:   rec.Name,
		Season:       rec.Season,
		Episode:      rec.Episode,
	})
	log.Info("background rendered", "path", a.OutputPath)
	job.SetStatus(StatusCompleted, "done")
}
