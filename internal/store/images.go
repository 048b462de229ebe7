package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Image is a generated background recorded in the database.
type Image struct {
	ID         int64      `json:"id"`
	Path       string     `json:"path"`
	CreatedAt  time.Time  `json:"created_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	BurgerID   *int64     `json:"burger_id,omitempty"`
}

const timeLayout = time.RFC3339Nano

// RecordImage stores a newly written image at path for the given burger.
func (s *Store) RecordImage(ctx context.Context, path string, burgerID int64, createdAt time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO images (path, created_at, burger_id) VALUES (?, ?, ?)`,
		path, createdAt.UTC().Format(timeLayout), burgerID)
	if err != nil {
		return 0, fmt.Errorf("store: record image: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: record image id: %w", err)
	}
	return id, nil
}

// ArchiveImages marks every unarchived image at path as archived at the given
// time, moves its recorded path to archivedPath where the file now lives, and
// returns how many rows changed.
func (s *Store) ArchiveImages(ctx context.Context, path, archivedPath string, at time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE images SET archived_at = ?, path = ? WHERE path = ? AND archived_at IS NULL`,
		at.UTC().Format(timeLayout), archivedPath, path)
	if err != nil {
		return 0, fmt.Errorf("store: archive images: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: archive images: %w", err)
	}
	return n, nil
}

// Images lists every recorded image, newest first.
func (s *Store) Images(ctx context.Context) ([]Image, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, created_at, archived_at, burger_id FROM images ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: query images: %w", err)
	}
	defer rows.Close()

	images := []Image{}
	for rows.Next() {
		var (
			img        Image
			createdAt  string
			archivedAt sql.NullString
			burgerID   sql.NullInt64
		)
		if err := rows.Scan(&img.ID, &img.Path, &createdAt, &archivedAt, &burgerID); err != nil {
			return nil, fmt.Errorf("store: scan image: %w", err)
		}
		if img.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("store: image %d created_at: %w", img.ID, err)
		}
		if archivedAt.Valid {
			t, err := time.Parse(timeLayout, archivedAt.String)
			if err != nil {
				return nil, fmt.Errorf("store: image %d archived_at: %w", img.ID, err)
			}
			img.ArchivedAt = &t
		}
		if burgerID.Valid {
			id := burgerID.Int64
			img.BurgerID = &id
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate images: %w", err)
	}
	return images, nil
}
