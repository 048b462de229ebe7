package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/bobsbackgrounds/internal/config"
)

// Orchestrator manages the refresh and render job queue.
type Orchestrator struct {
	jobs    *JobStore
	queue   chan *Job
	source  Source
	catalog Catalog
	artist  *Artist
	memo    *pageMemo
	log     *slog.Logger
	cfg     config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. artist may be nil, in which case
// render jobs fail.
func NewOrchestrator(cfg config.Config, source Source, cat Catalog, artist *Artist, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:    NewJobStore(cfg.JobTTL),
		queue:   make(chan *Job, cfg.MaxQueueSize),
		source:  source,
		catalog: cat,
		artist:  artist,
		memo:    &pageMemo{},
		log:     log,
		cfg:     cfg,
	}
}

// Start launches worker goroutines, job cleanup and, when configured, the
// periodic refresh.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := newWorker(o.source, o.catalog, o.artist, o.memo, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()

	if o.cfg.RefreshInterval > 0 {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			ticker := time.NewTicker(o.cfg.RefreshInterval)
			defer ticker.Stop()
			for {
				select {
				case <-workerCtx.Done():
					return
				case <-ticker.C:
					job := NewJob(KindRefresh)
					if err := o.Submit(job); err != nil {
						o.log.Warn("scheduled refresh not queued", "error", err)
						continue
					}
					o.log.Info("scheduled refresh queued", "job_id", job.ID)
				}
			}
		}()
	}
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
	close(o.queue)
}

// Submit queues a job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Run processes job synchronously on the calling goroutine, bypassing the
// queue. It is for one-shot callers such as the CLI.
func (o *Orchestrator) Run(ctx context.Context, job *Job) JobSnapshot {
	o.jobs.Put(job)
	newWorker(o.source, o.catalog, o.artist, o.memo, o.log).Process(ctx, job)
	return job.Snapshot()
}
