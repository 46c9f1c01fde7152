package session

import (
	"context"
	"fmt"
	"log/slog"

	"navisync/internal/songcache"
)

// Cache returns the song cache, or nil if none has been loaded or built.
func (s *Session) Cache() *songcache.Cache { return s.cache }

// SnapshotPath is where the song cache is persisted.
func (s *Session) SnapshotPath() string { return s.store.Path() }

// EnsureCache returns the song cache, loading the snapshot or, failing that,
// crawling the server. A failed crawl is remembered; only RefreshCache or a
// config change retries it.
func (s *Session) EnsureCache(ctx context.Context, progress songcache.ProgressFunc) (*songcache.Cache, error) {
	if s.cache != nil {
		return s.cache, nil
	}
	if s.cacheErr != nil {
		return nil, s.cacheErr
	}
	if cache := songcache.LoadCache(s.store); cache != nil {
		slog.Debug("Loaded song cache snapshot", "path", s.store.Path(), "songs", cache.Len())
		s.cache = cache
		return cache, nil
	}
	return s.RefreshCache(ctx, progress)
}

// RefreshCache crawls the server and replaces the song cache. On failure the
// previous cache, if any, is kept.
func (s *Session) RefreshCache(ctx context.Context, progress songcache.ProgressFunc) (*songcache.Cache, error) {
	if !s.cfg.Complete() {
		return nil, ErrIncompleteConfig
	}

	cache, err := songcache.Build(ctx, s.remote, progress)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrNoCache, err)
		if ctx.Err() == nil {
			s.cacheErr = err
		}
		return nil, err
	}
	s.cache = cache
	s.cacheErr = nil
	s.cacheDirty = true
	return cache, nil
}

// InvalidateCache drops the in-memory cache and deletes the snapshot.
func (s *Session) InvalidateCache() {
	s.cache = nil
	s.cacheErr = nil
	s.cacheDirty = false
	if err := s.store.Remove(); err != nil {
		slog.Warn("Could not remove cache snapshot", "path", s.store.Path(), "error", err)
	}
}
