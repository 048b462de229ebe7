package archive

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestArchive_MovesFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bobs_background.png")
	writeFile(t, src, "first")
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	dest, err := Archive(src, now)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	want := filepath.Join(dir, "archive", "20240506-070809.png")
	if dest != want {
		t.Errorf("expected %s, got %s", want, dest)
	}
	if dest != Path(src, now) {
		t.Errorf("expected Path to agree with Archive, got %s", Path(src, now))
	}
	if _, err := os.Stat(src); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected source to be gone, got %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil || string(data) != "first" {
		t.Errorf("expected archived content, got %q (%v)", data, err)
	}
}

func TestArchive_SuffixesCollisions(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "out.png")
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	var got []string
	for _, content := range []string{"a", "b", "c"} {
		writeFile(t, src, content)
		dest, err := Archive(src, now)
		if err != nil {
			t.Fatalf("archive %s: %v", content, err)
		}
		got = append(got, filepath.Base(dest))
	}

	want := []string{"20240506-070809.png", "20240506-070809-1.png", "20240506-070809-2.png"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("archive %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestArchive_MissingFile(t *testing.T) {
	_, err := Archive(filepath.Join(t.TempDir(), "nope.png"), time.Now())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
