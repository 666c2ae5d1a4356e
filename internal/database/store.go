// file: internal/database/store.go
// version: 1.1.0
// guid: 8b9c0d1e-2f3a-4b5c-6d7e-8f9a0b1c2d3e

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/jdfalk/flexster/internal/models"
)

// ErrNotFound is returned when a query has no stored record.
var ErrNotFound = errors.New("record not found")

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const trackSelectColumns = `
	query, title, artist, composer, album, genre,
	recording_year, composition_year, catalog_url, streaming_url, run_id
`

func scanTrack(scanner rowScanner, track *models.TrackRecord, runID *sql.NullString) error {
	return scanner.Scan(
		&track.Query, &track.Title, &track.Artist, &track.Composer,
		&track.Album, &track.Genre, &track.RecordingYear,
		&track.CompositionYear, &track.CatalogURL, &track.StreamingURL,
		runID,
	)
}

// Store persists resolved track records between runs so that re-running the
// tool doesn't redo paced remote lookups for queries it already answered.
type Store struct {
	db *sql.DB
}

// Open creates or opens the resolution store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return store, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		query_count INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS tracks (
		query TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		artist TEXT NOT NULL,
		composer TEXT NOT NULL,
		album TEXT NOT NULL,
		genre TEXT NOT NULL,
		recording_year TEXT NOT NULL DEFAULT '',
		composition_year TEXT NOT NULL DEFAULT '',
		catalog_url TEXT NOT NULL DEFAULT '',
		streaming_url TEXT NOT NULL DEFAULT '',
		run_id TEXT,
		resolved_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_tracks_run ON tracks(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun records a new fetch run and returns its ULID.
func (s *Store) BeginRun(queryCount int) (string, error) {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()

	_, err := s.db.Exec(`INSERT INTO runs (id, query_count) VALUES (?, ?)`, id, queryCount)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return id, nil
}

// SaveTrack upserts a resolved record under the given run.
func (s *Store) SaveTrack(runID string, track *models.TrackRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO tracks (
			query, title, artist, composer, album, genre,
			recording_year, composition_year, catalog_url, streaming_url, run_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(query) DO UPDATE SET
			title=excluded.title, artist=excluded.artist,
			composer=excluded.composer, album=excluded.album,
			genre=excluded.genre, recording_year=excluded.recording_year,
			composition_year=excluded.composition_year,
			catalog_url=excluded.catalog_url,
			streaming_url=excluded.streaming_url,
			run_id=excluded.run_id, resolved_at=CURRENT_TIMESTAMP`,
		track.Query, track.Title, track.Artist, track.Composer,
		track.Album, track.Genre, track.RecordingYear,
		track.CompositionYear, track.CatalogURL, track.StreamingURL, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to save track for %q: %w", track.Query, err)
	}
	return nil
}

// GetTrack returns the stored record for a query, or ErrNotFound.
func (s *Store) GetTrack(query string) (*models.TrackRecord, error) {
	row := s.db.QueryRow(`SELECT `+trackSelectColumns+` FROM tracks WHERE query = ?`, query)

	var track models.TrackRecord
	var runID sql.NullString
	err := scanTrack(row, &track, &runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load track for %q: %w", query, err)
	}
	return &track, nil
}

// ListTracks returns all stored records ordered by query.
func (s *Store) ListTracks() ([]models.TrackRecord, error) {
	rows, err := s.db.Query(`SELECT ` + trackSelectColumns + ` FROM tracks ORDER BY query`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	defer rows.Close()

	var tracks []models.TrackRecord
	for rows.Next() {
		var track models.TrackRecord
		var runID sql.NullString
		if err := scanTrack(rows, &track, &runID); err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}

// DeleteTrack removes one stored record. Used by diagnostics cleanup.
func (s *Store) DeleteTrack(query string) error {
	res, err := s.db.Exec(`DELETE FROM tracks WHERE query = ?`, query)
	if err != nil {
		return fmt.Errorf("failed to delete track for %q: %w", query, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountTracks returns the number of stored records.
func (s *Store) CountTracks() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tracks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tracks: %w", err)
	}
	return n, nil
}
