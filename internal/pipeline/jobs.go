package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobKind selects what a worker does with a job.
type JobKind string

const (
	// KindRefresh fetches the source page, extracts the catalog and saves it.
	KindRefresh JobKind = "refresh"
	// KindRender draws a burger onto the background template.
	KindRender JobKind = "render"
)

// JobStatus represents the state of a job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusFetching   JobStatus = "fetching"
	StatusExtracting JobStatus = "extracting"
	StatusSaving     JobStatus = "saving"
	StatusRendering  JobStatus = "rendering"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusUnchanged  JobStatus = "unchanged"
)

// Job tracks the state of a single refresh or render.
type Job struct {
	mu sync.Mutex

	ID   string  `json:"job_id"`
	Kind JobKind `json:"kind"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress     `json:"progress"`
	Image    *ImageResult `json:"image,omitempty"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Refresh: save even when the page is unchanged since the last refresh.
	Force bool `json:"-"`
	// Render: the burger to draw; zero picks one at random.
	BurgerID int64 `json:"-"`

	errors []string
}

// Progress counts what a refresh extracted and saved.
type Progress struct {
	Seasons  int      `json:"seasons"`
	Episodes int      `json:"episodes"`
	Burgers  int      `json:"burgers"`
	Saved    int      `json:"saved"`
	Errors   []string `json:"errors"`
}

// ImageResult describes the background a render job produced.
type ImageResult struct {
	ImageID      int64  `json:"image_id"`
	Path         string `json:"path"`
	ArchivedPath string `json:"archived_path,omitempty"`
	BurgerID     int64  `json:"burger_id"`
	BurgerName   string `json:"burger_name"`
	Season       int    `json:"season"`
	Episode      int    `json:"episode"`
}

// NewJob returns a queued job with a fresh id.
func NewJob(kind JobKind) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Kind:      kind,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetCounts records what extraction found.
func (j *Job) SetCounts(seasons, episodes, burgers int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Seasons = seasons
	j.Progress.Episodes = episodes
	j.Progress.Burgers = burgers
	j.UpdatedAt = time.Now()
}

// SetSaved records how many rows were written.
func (j *Job) SetSaved(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Saved = n
	j.UpdatedAt = time.Now()
}

// SetContentHash records the hash of the fetched page.
func (j *Job) SetContentHash(hash string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ContentHash = hash
}

// SetImage records the output of a render job.
func (j *Job) SetImage(img ImageResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Image = &img
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string       `json:"job_id"`
	Kind        JobKind      `json:"kind"`
	Status      JobStatus    `json:"status"`
	Phase       string       `json:"phase"`
	Progress    Progress     `json:"progress"`
	Image       *ImageResult `json:"image,omitempty"`
	ContentHash string       `json:"content_hash,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.Progress.Errors))
	copy(errs, j.Progress.Errors)
	var img *ImageResult
	if j.Image != nil {
		c := *j.Image
		img = &c
	}
	p := j.Progress
	p.Errors = errs
	return JobSnapshot{
		ID:          j.ID,
		Kind:        j.Kind,
		Status:      j.Status,
		Phase:       j.Phase,
		Progress:    p,
		Image:       img,
		ContentHash: j.ContentHash,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// Done reports whether the job reached a terminal status.
func (s JobSnapshot) Done() bool {
	switch s.Status {
	case StatusCompleted, StatusFailed, StatusUnchanged:
		return true
	}
	return false
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
