package songcache

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navisync/internal/models"
	"navisync/internal/subsonic"
)

type fakeCatalog struct {
	AlbumListFunc  func(ctx context.Context, size, offset int) ([]subsonic.Album, error)
	AlbumSongsFunc func(ctx context.Context, id string) ([]models.CatalogEntry, error)
	offsets        []int
}

func (f *fakeCatalog) AlbumList(ctx context.Context, size, offset int) ([]subsonic.Album, error) {
	f.offsets = append(f.offsets, offset)
	return f.AlbumListFunc(ctx, size, offset)
}

func (f *fakeCatalog) AlbumSongs(ctx context.Context, id string) ([]models.CatalogEntry, error) {
	return f.AlbumSongsFunc(ctx, id)
}

func albums(from, n int) []subsonic.Album {
	out := make([]subsonic.Album, n)
	for i := range out {
		out[i] = subsonic.Album{ID: fmt.Sprintf("al-%d", from+i)}
	}
	return out
}

func oneSongPerAlbum(_ context.Context, id string) ([]models.CatalogEntry, error) {
	return []models.CatalogEntry{{ID: "s-" + id, Path: "Artist/" + id + "/01 - Song.mp3"}}, nil
}

func TestCacheLookupNormalizesSeparators(t *testing.T) {
	c := New(map[string]models.CatalogEntry{
		`Radiohead\OK Computer\01 - Airbag.mp3`: {ID: "s-1"},
	})

	e, ok := c.Lookup("Radiohead/OK Computer/01 - Airbag.mp3")
	require.True(t, ok)
	assert.Equal(t, "s-1", e.ID)

	_, ok = c.Lookup(`Radiohead\OK Computer\01 - Airbag.mp3`)
	assert.True(t, ok)

	_, ok = c.Lookup("Radiohead/OK Computer/02 - Paranoid Android.mp3")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestCacheReplaceAndEntriesCopy(t *testing.T) {
	c := New(map[string]models.CatalogEntry{"a/b/c.mp3": {ID: "1"}})
	entries := c.Entries()
	entries["x/y/z.mp3"] = models.CatalogEntry{ID: "2"}
	assert.Equal(t, 1, c.Len())

	c.Replace(map[string]models.CatalogEntry{"d/e/f.mp3": {ID: "3"}})
	_, ok := c.Lookup("a/b/c.mp3")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestBuildSinglePage(t *testing.T) {
	catalog := &fakeCatalog{
		AlbumListFunc: func(_ context.Context, size, offset int) ([]subsonic.Album, error) {
			assert.Equal(t, subsonic.PageSize, size)
			return albums(0, 2), nil
		},
		AlbumSongsFunc: func(_ context.Context, id string) ([]models.CatalogEntry, error) {
			if id == "al-1" {
				return []models.CatalogEntry{
					{ID: "s-1", Path: `Portishead\Dummy\01 - Mysterons.mp3`, Title: "Mysterons"},
					{ID: "", Path: "Portishead/Dummy/02 - Sour Times.mp3"},
					{ID: "s-3", Path: ""},
				}, nil
			}
			return []models.CatalogEntry{{ID: "s-9", Path: "Radiohead/OK Computer/01 - Airbag.mp3"}}, nil
		},
	}

	var progress []int
	cache, err := Build(context.Background(), catalog, func(n int) { progress = append(progress, n) })
	require.NoError(t, err)

	assert.Equal(t, 2, cache.Len())
	e, ok := cache.Lookup("Portishead/Dummy/01 - Mysterons.mp3")
	require.True(t, ok)
	assert.Equal(t, "Mysterons", e.Title)
	assert.Equal(t, []int{0}, catalog.offsets)
	assert.Equal(t, []int{1, 2}, progress)
}

func TestBuildFollowsPagesUntilShortPage(t *testing.T) {
	catalog := &fakeCatalog{
		AlbumListFunc: func(_ context.Context, size, offset int) ([]subsonic.Album, error) {
			if offset == 0 {
				return albums(0, size), nil
			}
			return albums(offset, 3), nil
		},
		AlbumSongsFunc: oneSongPerAlbum,
	}

	cache, err := Build(context.Background(), catalog, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, subsonic.PageSize}, catalog.offsets)
	assert.Equal(t, subsonic.PageSize+3, cache.Len())
}

func TestBuildFirstPageFailureIsTotal(t *testing.T) {
	catalog := &fakeCatalog{
		AlbumListFunc: func(context.Context, int, int) ([]subsonic.Album, error) {
			return nil, subsonic.ErrTransport
		},
		AlbumSongsFunc: oneSongPerAlbum,
	}

	cache, err := Build(context.Background(), catalog, nil)
	assert.Nil(t, cache)
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.ErrorIs(t, err, subsonic.ErrTransport)
}

func TestBuildEmptyCatalog(t *testing.T) {
	catalog := &fakeCatalog{
		AlbumListFunc:  func(context.Context, int, int) ([]subsonic.Album, error) { return nil, nil },
		AlbumSongsFunc: oneSongPerAlbum,
	}

	cache, err := Build(context.Background(), catalog, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestBuildLaterPageFailureKeepsGathered(t *testing.T) {
	catalog := &fakeCatalog{
		AlbumListFunc: func(_ context.Context, size, offset int) ([]subsonic.Album, error) {
			if offset == 0 {
				return albums(0, size), nil
			}
			return nil, subsonic.ErrHTTPStatus
		},
		AlbumSongsFunc: oneSongPerAlbum,
	}

	cache, err := Build(context.Background(), catalog, nil)
	require.NoError(t, err)
	assert.Equal(t, subsonic.PageSize, cache.Len())
}

func TestBuildSkipsFailingAlbum(t *testing.T) {
	catalog := &fakeCatalog{
		AlbumListFunc: func(context.Context, int, int) ([]subsonic.Album, error) { return albums(0, 3), nil },
		AlbumSongsFunc: func(ctx context.Context, id string) ([]models.CatalogEntry, error) {
			if id == "al-1" {
				return nil, errors.New("boom")
			}
			return oneSongPerAlbum(ctx, id)
		},
	}

	cache, err := Build(context.Background(), catalog, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	catalog := &fakeCatalog{
		AlbumListFunc: func(context.Context, int, int) ([]subsonic.Album, error) { return albums(0, 5), nil },
		AlbumSongsFunc: func(ctx context.Context, id string) ([]models.CatalogEntry, error) {
			cancel()
			return oneSongPerAlbum(ctx, id)
		},
	}

	cache, err := Build(ctx, catalog, nil)
	assert.Nil(t, cache)
	assert.ErrorIs(t, err, context.Canceled)
}
