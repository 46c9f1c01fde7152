// Package matcher decides, for every local playlist track, whether and how it
// exists in the server catalog.
package matcher

import (
	"context"
	"log/slog"
	"strings"

	"navisync/internal/metrics"
	"navisync/internal/models"
	"navisync/internal/subsonic"
)

const (
	// MatchThreshold is the weighted score at which a search hit is trusted.
	MatchThreshold = 75
	// SuggestionThreshold is the lowest score still shown to the operator.
	SuggestionThreshold = 10
	// PerfectScore is given to cache hits and operator decisions.
	PerfectScore = 100
)

// Searcher runs a keyword song search on the server.
type Searcher interface {
	Search(ctx context.Context, query string, count int) ([]models.CatalogEntry, error)
}

// Index answers exact path lookups against the song cache.
type Index interface {
	Lookup(path string) (models.CatalogEntry, bool)
}

// ProgressFunc reports done out of total tracks together with the result of
// the track just checked.
type ProgressFunc func(done, total int, res *models.CheckResult)

type Engine struct {
	searcher    Searcher
	index       Index
	searchCount int
}

// NewEngine builds an engine. index may be nil, in which case every track
// goes through search.
func NewEngine(searcher Searcher, index Index, searchCount int) *Engine {
	if searchCount <= 0 {
		searchCount = subsonic.DefaultSearchCount
	}
	return &Engine{searcher: searcher, index: index, searchCount: searchCount}
}

// candidate is the best hit of one search stage.
type candidate struct {
	entry *models.CatalogEntry
	score float64
}

// CheckPlaylist classifies tracks in order. Tracks are checked one after the
// other; ctx cancellation stops the run and returns the results so far.
func (e *Engine) CheckPlaylist(ctx context.Context, tracks []models.Track, progress ProgressFunc) []models.CheckResult {
	results := make([]models.CheckResult, 0, len(tracks))
	for i, t := range tracks {
		if ctx.Err() != nil {
			slog.Warn("Check interrupted", "checked", i, "total", len(tracks))
			break
		}
		results = append(results, e.CheckTrack(ctx, t))
		if progress != nil {
			progress(i+1, len(tracks), &results[i])
		}
	}
	return results
}

// CheckTrack runs the cache lookup, then the standard search, then, when the
// standard search is not conclusive, the title-only search.
func (e *Engine) CheckTrack(ctx context.Context, t models.Track) models.CheckResult {
	res := e.checkTrack(ctx, t)
	metrics.CheckResultsTotal.WithLabelValues(res.Status.String()).Inc()
	return res
}

func (e *Engine) checkTrack(ctx context.Context, t models.Track) models.CheckResult {
	if e.index != nil {
		if hit, ok := e.index.Lookup(t.Path); ok {
			return models.CheckResult{Track: t, Match: &hit, Status: models.StatusOK, Score: PerfectScore}
		}
	}

	std := e.best(ctx, "standard", t.Artist+" "+t.Title, t, Score)

	var title candidate
	if std.score < MatchThreshold {
		title = e.best(ctx, "title", t.Title, t, TitleScore)
	}

	res := classify(std, title)
	res.Track = t
	slog.Debug("Classified track", "path", t.Path, "status", res.Status, "score", res.Score)
	return res
}

// best searches query and keeps the highest scoring hit. A later hit has to
// score strictly higher to replace an earlier one.
func (e *Engine) best(ctx context.Context, stage, query string, t models.Track, score func(models.Track, models.CatalogEntry) float64) candidate {
	query = strings.TrimSpace(query)
	if query == "" {
		return candidate{}
	}

	metrics.SearchesTotal.WithLabelValues(stage).Inc()
	hits, err := e.searcher.Search(ctx, query, e.searchCount)
	if err != nil {
		slog.Warn("Search failed", "stage", stage, "query", query, "error", err)
		return candidate{}
	}

	var best candidate
	for i := range hits {
		if s := score(t, hits[i]); s > best.score {
			best = candidate{entry: &hits[i], score: s}
		}
	}
	return best
}

// classify applies the thresholds. The title-only candidate can only ever
// become a suggestion.
func classify(std, title candidate) models.CheckResult {
	switch {
	case std.entry != nil && std.score >= MatchThreshold:
		return models.CheckResult{Match: std.entry, Status: models.StatusFound, Score: std.score}
	case title.entry != nil && title.score > std.score && title.score >= SuggestionThreshold:
		return models.CheckResult{Match: title.entry, Status: models.StatusSuggestion, Score: title.score}
	case std.entry != nil && std.score >= SuggestionThreshold:
		return models.CheckResult{Match: std.entry, Status: models.StatusSuggestion, Score: std.score}
	default:
		return models.CheckResult{Status: models.StatusMissing}
	}
}
