package songcache

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"navisync/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Store persists cache snapshots between runs.
type Store interface {
	Load() (map[string]models.CatalogEntry, error)
	Save(entries map[string]models.CatalogEntry) error
	Remove() error
	Path() string
}

// NewStore picks a backend by name. Unknown names fall back to JSON.
func NewStore(backend, path string) Store {
	if backend == BackendSQLite {
		return &SQLiteStore{path: path}
	}
	return &JSONStore{path: path}
}

// JSONStore keeps the snapshot as one JSON object of path -> entry.
type JSONStore struct {
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Path() string { return s.path }

func (s *JSONStore) Load() (map[string]models.CatalogEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read cache snapshot: %w", err)
	}

	var entries map[string]models.CatalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode cache snapshot: %w", err)
	}
	if entries == nil {
		return nil, fmt.Errorf("decode cache snapshot: not an object")
	}
	return entries, nil
}

func (s *JSONStore) Save(entries map[string]models.CatalogEntry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cache snapshot: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *JSONStore) Remove() error {
	return removeIfExists(s.path)
}

// LoadCache reads a snapshot. Missing or corrupt snapshots yield nil so the
// caller can fall back to a crawl.
func LoadCache(store Store) *Cache {
	entries, err := store.Load()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Ignoring unreadable cache snapshot", "path", store.Path(), "error", err)
		}
		return nil
	}
	return New(entries)
}

// SaveCache writes a snapshot. Failures are logged and otherwise ignored.
func SaveCache(store Store, cache *Cache) {
	if cache == nil {
		return
	}
	if err := store.Save(cache.Entries()); err != nil {
		slog.Warn("Could not write cache snapshot", "path", store.Path(), "error", err)
	}
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
