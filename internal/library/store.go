package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Song is one library entry. Duration is in whole seconds.
type Song struct {
	ID       int64
	Title    string
	Artist   string
	Category string
	Filename string
	Duration int
	AddedAt  time.Time
}

// Store provides song persistence over the shared settings database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS songs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    artist TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    filename TEXT NOT NULL,
    duration INTEGER NOT NULL DEFAULT 0,
    added_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_songs_category ON songs(category);
`

const songColumns = `id, title, artist, category, filename, duration, added_at`

// NewStore prepares the songs table on an already open database handle.
func NewStore(ctx context.Context, db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("nil database handle")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("ensure songs schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Add inserts a song and returns it with its assigned identifier.
func (s *Store) Add(ctx context.Context, song Song) (*Song, error) {
	song.Title = strings.TrimSpace(song.Title)
	song.Filename = strings.TrimSpace(song.Filename)
	if song.Title == "" {
		return nil, errors.New("song title is required")
	}
	if song.Filename == "" {
		return nil, errors.New("song filename is required")
	}
	if song.AddedAt.IsZero() {
		song.AddedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO songs (title, artist, category, filename, duration, added_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		song.Title,
		strings.TrimSpace(song.Artist),
		strings.TrimSpace(song.Category),
		song.Filename,
		song.Duration,
		song.AddedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert song: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches one song. Missing songs return nil without error.
func (s *Store) GetByID(ctx context.Context, id int64) (*Song, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+songColumns+` FROM songs WHERE id = ?`, id)
	song, err := scanSong(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get song: %w", err)
	}
	return song, nil
}

// List returns every song ordered by title then id.
func (s *Store) List(ctx context.Context) ([]*Song, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+songColumns+` FROM songs ORDER BY title COLLATE NOCASE, id`)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()
	return collectSongs(rows)
}

// Remove deletes a song. Removing an absent song is not an error.
func (s *Store) Remove(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("remove song: %w", err)
	}
	return nil
}

// Search returns songs whose title, artist, or category contains the query,
// using Unicode case folding so "BJÖRK" matches "björk". An empty query
// returns everything.
func (s *Store) Search(ctx context.Context, query string) ([]*Song, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx)
	}

	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	folder := cases.Fold()
	needle := folder.String(query)

	matched := make([]*Song, 0, len(all))
	for _, song := range all {
		haystack := folder.String(song.Title + " " + song.Artist + " " + song.Category)
		if strings.Contains(haystack, needle) {
			matched = append(matched, song)
		}
	}
	return matched, nil
}

// Count returns the number of songs in the library.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM songs`)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count songs: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSong(row rowScanner) (*Song, error) {
	var song Song
	var addedAt string
	if err := row.Scan(&song.ID, &song.Title, &song.Artist, &song.Category, &song.Filename, &song.Duration, &addedAt); err != nil {
		return nil, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, addedAt)
	if err != nil {
		return nil, fmt.Errorf("parse added_at: %w", err)
	}
	song.AddedAt = parsed
	return &song, nil
}

func collectSongs(rows *sql.Rows) ([]*Song, error) {
	var songs []*Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return songs, nil
}
