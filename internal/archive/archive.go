// Package archive moves superseded output files aside instead of overwriting
// them.
package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// DirName is the directory, next to the archived file, that receives it.
const DirName = "archive"

const stampLayout = "20060102-150405"

// Path returns the destination Archive would use for path at time now,
// ignoring collisions.
func Path(path string, now time.Time) string {
	return filepath.Join(filepath.Dir(path), DirName, now.Format(stampLayout)+filepath.Ext(path))
}

// Archive moves the file at path into <dir>/archive/<YYYYmmdd-HHMMSS><ext>
// and returns the new location. When that name is taken a -N suffix is
// added before the extension.
func Archive(path string, now time.Time) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("archive: resolve %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("archive: %w", err)
	}

	dir := filepath.Join(filepath.Dir(abs), DirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("archive: mkdir: %w", err)
	}

	ext := filepath.Ext(abs)
	stamp := now.Format(stampLayout)
	dest := filepath.Join(dir, stamp+ext)
	for n := 1; ; n++ {
		_, err := os.Stat(dest)
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("archive: stat %s: %w", dest, err)
		}
		dest = filepath.Join(dir, stamp+"-"+strconv.Itoa(n)+ext)
	}

	if err := os.Rename(abs, dest); err != nil {
		return "", fmt.Errorf("archive: move %s: %w", abs, err)
	}
	return dest, nil
}
