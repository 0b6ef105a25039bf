package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vrsandeep/comic-go/internal/models"
)

var ErrComicNotFound = errors.New("comic not found")

// ListComicsOptions narrows and pages a comic listing.
type ListComicsOptions struct {
	Series  string
	Page    int
	PerPage int
}

const comicColumns = `id, path, series, issue, year, publisher, volume, summary, confidence,
	page_count, thumbnail, rating, read, created_at, updated_at`

// CreateComic stores an accepted processing result for the archive at path.
// Re-importing the same path updates the existing row.
func (s *Store) CreateComic(path string, result models.ProcessingResult, pageCount int, thumbnail string) (*models.Comic, error) {
	if !result.Success || result.Data == nil {
		return nil, fmt.Errorf("cannot store unsuccessful result for %s", path)
	}
	d := result.Data
	now := time.Now()
	query := `
		INSERT INTO comics (path, series, issue, year, publisher, volume, summary, confidence,
			page_count, thumbnail, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			series = excluded.series,
			issue = excluded.issue,
			year = excluded.year,
			publisher = excluded.publisher,
			volume = excluded.volume,
			summary = excluded.summary,
			confidence = excluded.confidence,
			page_count = excluded.page_count,
			thumbnail = excluded.thumbnail,
			updated_at = excluded.updated_at
		RETURNING id`
	var id int64
	err := s.db.QueryRow(query, path, d.Series, d.Issue, d.Year, d.Publisher, d.Volume, d.Summary,
		string(result.Confidence), pageCount, thumbnail, now, now).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to save comic %s: %w", path, err)
	}
	return s.GetComic(id)
}

// GetComic fetches a single comic by its ID.
func (s *Store) GetComic(id int64) (*models.Comic, error) {
	row := s.db.QueryRow("SELECT "+comicColumns+" FROM comics WHERE id = ?", id)
	comic, err := scanComic(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrComicNotFound
	}
	return comic, err
}

// ListComics returns a page of comics ordered by series and issue, along
// with the total number of comics matching the filter.
func (s *Store) ListComics(opts ListComicsOptions) ([]*models.Comic, int, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PerPage < 1 {
		opts.PerPage = 50
	}

	where := ""
	args := []interface{}{}
	if opts.Series != "" {
		where = " WHERE series = ? COLLATE NOCASE"
		args = append(args, opts.Series)
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM comics"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + comicColumns + " FROM comics" + where +
		" ORDER BY series COLLATE NOCASE, volume, CAST(issue AS REAL), issue LIMIT ? OFFSET ?"
	args = append(args, opts.PerPage, (opts.Page-1)*opts.PerPage)
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	comics := make([]*models.Comic, 0)
	for rows.Next() {
		comic, err := scanComic(rows)
		if err != nil {
			return nil, 0, err
		}
		comics = append(comics, comic)
	}
	return comics, total, rows.Err()
}

// UpdateComicRating sets a 0-5 star rating.
func (s *Store) UpdateComicRating(id int64, rating int) error {
	if rating < 0 || rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5, got %d", rating)
	}
	return s.updateComic(id, "UPDATE comics SET rating = ?, updated_at = ? WHERE id = ?", rating, time.Now(), id)
}

// MarkComicRead updates the read flag of a comic.
func (s *Store) MarkComicRead(id int64, read bool) error {
	return s.updateComic(id, "UPDATE comics SET read = ?, updated_at = ? WHERE id = ?", read, time.Now(), id)
}

// DeleteComic removes a comic from the library.
func (s *Store) DeleteComic(id int64) error {
	return s.updateComic(id, "DELETE FROM comics WHERE id = ?", id)
}

func (s *Store) updateComic(id int64, query string, args ...interface{}) error {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update comic %d: %w", id, err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrComicNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanComic(row rowScanner) (*models.Comic, error) {
	var c models.Comic
	var confidence string
	err := row.Scan(&c.ID, &c.Path, &c.Series, &c.Issue, &c.Year, &c.Publisher, &c.Volume, &c.Summary,
		&confidence, &c.PageCount, &c.Thumbnail, &c.Rating, &c.Read, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Confidence = models.Confidence(confidence)
	return &c, nil
}
