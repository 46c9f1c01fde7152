package songcache

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"navisync/internal/models"
)

//go:embed schema.sql
var schema string

// schemaVersion is stored in PRAGMA user_version. Older snapshots are dropped
// and rebuilt by the next crawl.
const schemaVersion = 2

// SQLiteStore keeps the snapshot in a song_cache table.
type SQLiteStore struct {
	path string
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) open() (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return nil, err
	}
	if err := initDatabase(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache database: %w", err)
	}
	return db, nil
}

// initDatabase runs the embedded schema and sets the journal PRAGMAs.
func initDatabase(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL; PRAGMA cache_size=-2000;"); err != nil {
		return err
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return err
	}
	if version < schemaVersion {
		if _, err := db.Exec("DROP TABLE IF EXISTS song_cache"); err != nil {
			return err
		}
	}
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
	return err
}

func (s *SQLiteStore) Load() (map[string]models.CatalogEntry, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query("SELECT cache_key, server_path, song_id, artist, album, title FROM song_cache")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make(map[string]models.CatalogEntry)
	for rows.Next() {
		var (
			key string
			e   models.CatalogEntry
		)
		if err := rows.Scan(&key, &e.Path, &e.ID, &e.Artist, &e.Album, &e.Title); err != nil {
			return nil, err
		}
		entries[key] = e
	}
	return entries, rows.Err()
}

// Save replaces the table contents in one transaction.
func (s *SQLiteStore) Save(entries map[string]models.CatalogEntry) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM song_cache"); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
	INSERT INTO song_cache (cache_key, server_path, song_id, artist, album, title, last_updated)
	VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(cache_key) DO UPDATE SET
		server_path = excluded.server_path,
		song_id = excluded.song_id,
		artist = excluded.artist,
		album = excluded.album,
		title = excluded.title,
		last_updated = CURRENT_TIMESTAMP;`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, e := range entries {
		if _, err := stmt.Exec(key, e.Path, e.ID, e.Artist, e.Album, e.Title); err != nil {
			return fmt.Errorf("store %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// Remove deletes the database together with its WAL side files.
func (s *SQLiteStore) Remove() error {
	for _, p := range []string{s.path, s.path + "-wal", s.path + "-shm"} {
		if err := removeIfExists(p); err != nil {
			return err
		}
	}
	return nil
}
