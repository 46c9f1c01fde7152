package songcache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"navisync/internal/metrics"
	"navisync/internal/models"
	"navisync/internal/pathnorm"
	"navisync/internal/subsonic"
)

// ErrUnreachable is returned when the first album page cannot be fetched.
// An empty catalog is a successful build with zero entries.
var ErrUnreachable = errors.New("catalog unreachable")

// Catalog is the subset of the Subsonic client the crawl needs.
type Catalog interface {
	AlbumList(ctx context.Context, size, offset int) ([]subsonic.Album, error)
	AlbumSongs(ctx context.Context, id string) ([]models.CatalogEntry, error)
}

// ProgressFunc is called after every album with the number of albums seen so
// far. The total is not known until the last page arrives.
type ProgressFunc func(albums int)

// Build crawls the whole catalog page by page and indexes every song that has
// both a path and an id. A failing album detail is skipped. A failing page
// after the first ends the crawl with what was gathered so far.
func Build(ctx context.Context, catalog Catalog, progress ProgressFunc) (*Cache, error) {
	entries, err := crawl(ctx, catalog, progress)
	if err != nil {
		metrics.CacheBuildsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}
	metrics.CacheBuildsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	return New(entries), nil
}

func crawl(ctx context.Context, catalog Catalog, progress ProgressFunc) (map[string]models.CatalogEntry, error) {
	entries := make(map[string]models.CatalogEntry)
	seen := 0

	for offset := 0; ; offset += subsonic.PageSize {
		albums, err := catalog.AlbumList(ctx, subsonic.PageSize, offset)
		if err != nil {
			if offset == 0 {
				return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
			}
			slog.Warn("Album listing stopped early", "offset", offset, "error", err)
			break
		}

		for _, album := range albums {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			songs, err := catalog.AlbumSongs(ctx, album.ID)
			if err != nil {
				slog.Debug("Skipping album", "id", album.ID, "name", album.Name, "error", err)
			}
			for _, song := range songs {
				if song.Path == "" || song.ID == "" {
					continue
				}
				entries[pathnorm.Path(song.Path)] = song
			}

			seen++
			if progress != nil {
				progress(seen)
			}
		}

		if len(albums) < subsonic.PageSize {
			break
		}
	}

	slog.Info("Song cache built", "albums", seen, "songs", len(entries))
	return entries, nil
}
