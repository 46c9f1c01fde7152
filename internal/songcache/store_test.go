package songcache

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navisync/internal/models"
)

var snapshot = map[string]models.CatalogEntry{
	"Radiohead/OK Computer/01 - Airbag.mp3": {
		ID: "s-1", Path: "Radiohead/OK Computer/01 - Airbag.mp3", Artist: "Radiohead", Album: "OK Computer", Title: "Airbag",
	},
	"Björk/Homogenic/01 - Hunter.flac": {
		ID: "s-2", Path: `Björk\Homogenic\01 - Hunter.flac`, Artist: "Björk", Album: "Homogenic", Title: "Hunter",
	},
}

func TestNewStore(t *testing.T) {
	assert.IsType(t, &SQLiteStore{}, NewStore(BackendSQLite, "x.db"))
	assert.IsType(t, &JSONStore{}, NewStore(BackendJSON, "x.json"))
	assert.IsType(t, &JSONStore{}, NewStore("", "x.json"))
}

func TestStoresRoundTrip(t *testing.T) {
	dir := t.TempDir()
	stores := map[string]Store{
		"json":   NewJSONStore(filepath.Join(dir, "nested", "song_cache.json")),
		"sqlite": NewSQLiteStore(filepath.Join(dir, "nested", "song_cache.db")),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Save(snapshot))

			loaded, err := store.Load()
			require.NoError(t, err)
			assert.Equal(t, snapshot, loaded)

			require.NoError(t, store.Save(map[string]models.CatalogEntry{}))
			loaded, err = store.Load()
			require.NoError(t, err)
			assert.Empty(t, loaded)

			require.NoError(t, store.Remove())
			_, err = os.Stat(store.Path())
			assert.True(t, os.IsNotExist(err))
			assert.NoError(t, store.Remove())
		})
	}
}

func TestStoresKeepServerPath(t *testing.T) {
	dir := t.TempDir()
	stores := map[string]Store{
		"json":   NewJSONStore(filepath.Join(dir, "song_cache.json")),
		"sqlite": NewSQLiteStore(filepath.Join(dir, "song_cache.db")),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			SaveCache(store, New(snapshot))

			cache := LoadCache(store)
			require.NotNil(t, cache)
			e, ok := cache.Lookup("Björk/Homogenic/01 - Hunter.flac")
			require.True(t, ok)
			assert.Equal(t, `Björk\Homogenic\01 - Hunter.flac`, e.Path)
		})
	}
}

func TestSQLiteStoreDropsOldSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song_cache.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE song_cache (path TEXT PRIMARY KEY, song_id TEXT NOT NULL);
		INSERT INTO song_cache VALUES ('Radiohead/OK Computer/01 - Airbag.mp3', 's-1');`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	store := NewSQLiteStore(path)
	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)

	require.NoError(t, store.Save(snapshot))
	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, snapshot, loaded)
}

func TestLoadCacheMissingOrCorrupt(t *testing.T) {
	dir := t.TempDir()

	assert.Nil(t, LoadCache(NewJSONStore(filepath.Join(dir, "missing.json"))))
	assert.Nil(t, LoadCache(NewSQLiteStore(filepath.Join(dir, "missing.db"))))

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0o644))
	assert.Nil(t, LoadCache(NewJSONStore(corrupt)))

	notObject := filepath.Join(dir, "null.json")
	require.NoError(t, os.WriteFile(notObject, []byte("null"), 0o644))
	assert.Nil(t, LoadCache(NewJSONStore(notObject)))
}

func TestSaveAndLoadCache(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "song_cache.json"))
	SaveCache(store, New(snapshot))
	SaveCache(store, nil)

	cache := LoadCache(store)
	require.NotNil(t, cache)
	assert.Equal(t, 2, cache.Len())
	e, ok := cache.Lookup("Björk/Homogenic/01 - Hunter.flac")
	require.True(t, ok)
	assert.Equal(t, "s-2", e.ID)
}

func TestSaveCacheIgnoresWriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	store := NewJSONStore(filepath.Join(blocker, "song_cache.json"))
	assert.NotPanics(t, func() { SaveCache(store, New(snapshot)) })
}
