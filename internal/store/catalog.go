package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/dgallion1/bobsbackgrounds/internal/catalog"
)

// SaveResult counts the rows written and removed by SaveCatalog.
type SaveResult struct {
	Episodes int `json:"episodes"`
	Burgers  int `json:"burgers"`
	Removed  int `json:"removed"`
}

// BurgerRecord is a stored burger together with the episode it appeared in.
type BurgerRecord struct {
	ID          int64  `json:"id"`
	Season      int    `json:"season"`
	Episode     int    `json:"episode"`
	EpisodeName string `json:"episode_name"`
	catalog.Burger
}

// SaveCatalog writes every episode and burger of seasons in a single
// transaction. Episodes are keyed by (season, number) and burgers by
// (episode, name); existing rows are updated in place so image rows keep
// pointing at the same burger ids across refreshes. For every saved season,
// episodes past its new count and burgers no longer listed under a saved
// episode are deleted. Seasons absent from seasons are left alone.
//
// Burgers sharing a name within one episode collapse into one row, the last
// one winning; Burgers counts rows, not input records.
func (s *Store) SaveCatalog(ctx context.Context, seasons []catalog.Season) (SaveResult, error) {
	var res SaveResult
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		epStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO episodes (season, number, name) VALUES (?, ?, ?)
			ON CONFLICT (season, number) DO UPDATE SET name = excluded.name
			RETURNING id`)
		if err != nil {
			return fmt.Errorf("store: prepare episode upsert: %w", err)
		}
		defer epStmt.Close()

		bStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO burgers (episode_id, name, explanation, additional_information)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (episode_id, name) DO UPDATE SET
				explanation = excluded.explanation,
				additional_information = excluded.additional_information`)
		if err != nil {
			return fmt.Errorf("store: prepare burger upsert: %w", err)
		}
		defer bStmt.Close()

		pruneBurgers, err := tx.PrepareContext(ctx, `
			DELETE FROM burgers
			WHERE episode_id = ? AND name NOT IN (SELECT value FROM json_each(?))`)
		if err != nil {
			return fmt.Errorf("store: prepare burger prune: %w", err)
		}
		defer pruneBurgers.Close()

		pruneEpisodes, err := tx.PrepareContext(ctx, `
			DELETE FROM episodes WHERE season = ? AND number > ?`)
		if err != nil {
			return fmt.Errorf("store: prepare episode prune: %w", err)
		}
		defer pruneEpisodes.Close()

		for _, season := range seasons {
			for _, ep := range season.Episodes {
				var episodeID int64
				if err := epStmt.QueryRowContext(ctx, season.Number, ep.Number, ep.Name).Scan(&episodeID); err != nil {
					return fmt.Errorf("store: upsert episode s%de%d: %w", season.Number, ep.Number, err)
				}
				res.Episodes++

				names := make([]string, 0, len(ep.Burgers))
				for _, b := range ep.Burgers {
					if _, err := bStmt.ExecContext(ctx, episodeID, b.Name,
						nullString(b.Explanation), nullString(b.AdditionalInformation)); err != nil {
						return fmt.Errorf("store: upsert burger %q: %w", b.Name, err)
					}
					if !slices.Contains(names, b.Name) {
						names = append(names, b.Name)
					}
				}
				res.Burgers += len(names)

				kept, err := json.Marshal(names)
				if err != nil {
					return fmt.Errorf("store: encode burger names: %w", err)
				}
				n, err := affected(pruneBurgers.ExecContext(ctx, episodeID, string(kept)))
				if err != nil {
					return fmt.Errorf("store: prune burgers s%de%d: %w", season.Number, ep.Number, err)
				}
				res.Removed += n
			}

			n, err := affected(pruneEpisodes.ExecContext(ctx, season.Number, len(season.Episodes)))
			if err != nil {
				return fmt.Errorf("store: prune episodes of season %d: %w", season.Number, err)
			}
			res.Removed += n
		}
		return nil
	})
	if err != nil {
		return SaveResult{}, err
	}
	return res, nil
}

func affected(r sql.Result, err error) (int, error) {
	if err != nil {
		return 0, err
	}
	n, err := r.RowsAffected()
	return int(n), err
}

const catalogQuery = `
	SELECT e.season, e.number, e.name, b.name, b.explanation, b.additional_information
	FROM episodes e
	LEFT JOIN burgers b ON b.episode_id = e.id`

const catalogOrder = ` ORDER BY e.season, e.number, b.id`

// Seasons returns the whole stored catalog ordered by season and episode.
func (s *Store) Seasons(ctx context.Context) ([]catalog.Season, error) {
	return s.loadSeasons(ctx, catalogQuery+catalogOrder)
}

// Season returns one stored season, or ErrNotFound.
func (s *Store) Season(ctx context.Context, number int) (catalog.Season, error) {
	seasons, err := s.loadSeasons(ctx, catalogQuery+` WHERE e.season = ?`+catalogOrder, number)
	if err != nil {
		return catalog.Season{}, err
	}
	if len(seasons) == 0 {
		return catalog.Season{}, ErrNotFound
	}
	return seasons[0], nil
}

// Episode returns one stored episode, or ErrNotFound.
func (s *Store) Episode(ctx context.Context, season, number int) (catalog.Episode, error) {
	seasons, err := s.loadSeasons(ctx, catalogQuery+` WHERE e.season = ? AND e.number = ?`+catalogOrder, season, number)
	if err != nil {
		return catalog.Episode{}, err
	}
	if len(seasons) == 0 {
		return catalog.Episode{}, ErrNotFound
	}
	return seasons[0].Episodes[0], nil
}

func (s *Store) loadSeasons(ctx context.Context, query string, args ...any) ([]catalog.Season, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query catalog: %w", err)
	}
	defer rows.Close()

	seasons := []catalog.Season{}
	for rows.Next() {
		var (
			season, number int
			episodeName    string
			burgerName     sql.NullString
			explanation    sql.NullString
			info           sql.NullString
		)
		if err := rows.Scan(&season, &number, &episodeName, &burgerName, &explanation, &info); err != nil {
			return nil, fmt.Errorf("store: scan catalog: %w", err)
		}

		if n := len(seasons); n == 0 || seasons[n-1].Number != season {
			seasons = append(seasons, catalog.Season{Number: season, Episodes: []catalog.Episode{}})
		}
		cur := &seasons[len(seasons)-1]
		if n := len(cur.Episodes); n == 0 || cur.Episodes[n-1].Number != number {
			cur.Episodes = append(cur.Episodes, catalog.Episode{Number: number, Name: episodeName, Burgers: []catalog.Burger{}})
		}
		if !burgerName.Valid {
			continue
		}
		ep := &cur.Episodes[len(cur.Episodes)-1]
		ep.Burgers = append(ep.Burgers, catalog.Burger{
			Name:                  burgerName.String,
			Explanation:           stringPtr(explanation),
			AdditionalInformation: stringPtr(info),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate catalog: %w", err)
	}
	return seasons, nil
}

const burgerQuery = `
	SELECT b.id, e.season, e.number, e.name, b.name, b.explanation, b.additional_information
	FROM burgers b
	JOIN episodes e ON e.id = b.episode_id`

// Burger returns the burger with the given id, or ErrNotFound.
func (s *Store) Burger(ctx context.Context, id int64) (BurgerRecord, error) {
	return s.scanBurger(s.db.QueryRowContext(ctx, burgerQuery+` WHERE b.id = ?`, id))
}

// RandomBurger picks a stored burger uniformly at random, or returns
// ErrNotFound when the catalog is empty.
func (s *Store) RandomBurger(ctx context.Context) (BurgerRecord, error) {
	return s.scanBurger(s.db.QueryRowContext(ctx, burgerQuery+` ORDER BY RANDOM() LIMIT 1`))
}

func (s *Store) scanBurger(row *sql.Row) (BurgerRecord, error) {
	var (
		rec         BurgerRecord
		explanation sql.NullString
		info        sql.NullString
	)
	err := row.Scan(&rec.ID, &rec.Season, &rec.Episode, &rec.EpisodeName, &rec.Name, &explanation, &info)
	if errors.Is(err, sql.ErrNoRows) {
		return BurgerRecord{}, ErrNotFound
	}
	if err != nil {
		return BurgerRecord{}, fmt.Errorf("store: scan burger: %w", err)
	}
	rec.Explanation = stringPtr(explanation)
	rec.AdditionalInformation = stringPtr(info)
	return rec, nil
}
