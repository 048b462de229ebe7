package pipeline

import (
	"testing"
	"time"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	h1 := ContentHashHex([]byte("aaa"))
	h2 := ContentHashHex([]byte("bbb"))
	if h1 == h2 {
		t.Error("expected different hashes for different inputs")
	}
}

func TestNewJob(t *testing.T) {
	a := NewJob(KindRefresh)
	b := NewJob(KindRefresh)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}
	if a.Status != StatusQueued || a.Kind != KindRefresh {
		t.Errorf("unexpected new job %+v", a.Snapshot())
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob(KindRefresh)

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusFetching, "fetching"},
		{StatusExtracting, "extracting"},
		{StatusSaving, "saving"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
	if !job.Snapshot().Done() {
		t.Error("expected completed job to be done")
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("fetching: status 503")
	job.AddError("saving: locked")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "fetching: status 503" {
		t.Errorf("expected first error %q, got %q", "fetching: status 503", snap.Progress.Errors[0])
	}

	snap.Progress.Errors[0] = "mutated"
	if job.Snapshot().Progress.Errors[0] == "mutated" {
		t.Error("expected snapshot errors to be a copy")
	}
}

func TestJob_Counts(t *testing.T) {
	job := &Job{ID: "counts-test", UpdatedAt: time.Now()}
	job.SetCounts(2, 5, 9)
	job.SetSaved(14)

	p := job.Snapshot().Progress
	if p.Seasons != 2 || p.Episodes != 5 || p.Burgers != 9 || p.Saved != 14 {
		t.Errorf("unexpected progress %+v", p)
	}
}

func TestJob_SetImage(t *testing.T) {
	job := NewJob(KindRender)
	if job.Snapshot().Image != nil {
		t.Fatal("expected no image before render")
	}
	job.SetImage(ImageResult{Path: "/out/bg.png", BurgerName: "Burger"})

	snap := job.Snapshot()
	if snap.Image == nil || snap.Image.Path != "/out/bg.png" {
		t.Fatalf("unexpected image %+v", snap.Image)
	}
	snap.Image.Path = "mutated"
	if job.Snapshot().Image.Path != "/out/bg.png" {
		t.Error("expected snapshot image to be a copy")
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if snap.Done() {
		t.Error("expected job without status not to be done")
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}
