package session

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"navisync/internal/matcher"
	"navisync/internal/models"
	"navisync/internal/parser"
)

// CheckProgress reports per-track progress of a check. playlist is the file
// being checked, done and total count its tracks and res is the result of
// the track just checked.
type CheckProgress func(playlist string, done, total int, res *models.CheckResult)

func (s *Session) engine(ctx context.Context) *matcher.Engine {
	if s.cacheErr != nil {
		slog.Debug("Checking without song cache", "error", s.cacheErr)
	} else if _, err := s.EnsureCache(ctx, nil); err != nil {
		slog.Warn("Checking without song cache", "error", err)
	}
	// a nil *Cache is a valid empty index
	return matcher.NewEngine(s.remote, s.cache, s.cfg.SearchCount)
}

// Check reconciles one local playlist and stores the results. An unreadable
// playlist is checked as an empty one.
func (s *Session) Check(ctx context.Context, name string, progress CheckProgress) ([]models.CheckResult, error) {
	if !s.cfg.Complete() {
		return nil, ErrIncompleteConfig
	}
	return s.check(ctx, s.engine(ctx), playlistFile(name), progress)
}

func (s *Session) check(ctx context.Context, engine *matcher.Engine, file string, progress CheckProgress) ([]models.CheckResult, error) {
	tracks, err := parser.ParseFile(filepath.Join(s.cfg.LocalPlaylistsPath, file))
	if err != nil {
		slog.Warn("Could not read playlist", "playlist", file, "error", err)
	}

	var fn matcher.ProgressFunc
	if progress != nil {
		fn = func(done, total int, res *models.CheckResult) { progress(file, done, total, res) }
	}
	results := engine.CheckPlaylist(ctx, tracks, fn)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	s.results[file] = results
	return results, s.saveResults()
}

// CheckAll checks every playlist in the local directory.
func (s *Session) CheckAll(ctx context.Context, progress CheckProgress) (map[string][]models.CheckResult, error) {
	if !s.cfg.Complete() {
		return nil, ErrIncompleteConfig
	}
	files, err := s.LocalPlaylists()
	if err != nil {
		return nil, err
	}

	engine := s.engine(ctx)
	out := make(map[string][]models.CheckResult, len(files))
	for _, file := range files {
		results, err := s.check(ctx, engine, file, progress)
		if err != nil {
			return out, fmt.Errorf("check %s: %w", file, err)
		}
		out[file] = results
	}
	return out, nil
}
