// Package metrics holds the prometheus collectors for remote calls, catalog
// crawls and reconciliation outcomes. The serve command exposes them on
// /metrics; one-shot commands can write the registry out as a node_exporter
// textfile on exit.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Remote API metrics
var (
	RemoteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "navisync_remote_requests_total",
			Help: "Total number of Subsonic API requests",
		},
		[]string{"endpoint", "outcome"},
	)

	RemoteRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "navisync_remote_request_duration_seconds",
			Help:    "Subsonic API request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)
)

// Song cache metrics
var (
	CacheBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "navisync_cache_builds_total",
			Help: "Total number of song cache builds",
		},
		[]string{"outcome"},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "navisync_cache_entries",
			Help: "Number of songs in the song cache",
		},
	)
)

// Reconciliation metrics
var (
	CheckResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "navisync_check_results_total",
			Help: "Total number of classified tracks by status",
		},
		[]string{"status"},
	)

	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "navisync_searches_total",
			Help: "Total number of fuzzy search stages run",
		},
		[]string{"stage"},
	)
)

// Outcome labels for RemoteRequestsTotal and CacheBuildsTotal.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// InitializeMetrics pre-populates the known label combinations so every
// series is present in the first write.
func InitializeMetrics() {
	for _, endpoint := range []string{"ping", "getAlbumList2", "getAlbum", "getPlaylists", "getPlaylist", "search3", "createPlaylist"} {
		RemoteRequestsTotal.WithLabelValues(endpoint, OutcomeOK)
		RemoteRequestsTotal.WithLabelValues(endpoint, OutcomeError)
		RemoteRequestDuration.WithLabelValues(endpoint)
	}
	CacheBuildsTotal.WithLabelValues(OutcomeOK)
	CacheBuildsTotal.WithLabelValues(OutcomeError)
	for _, status := range []string{"ok", "found", "suggestion", "missing"} {
		CheckResultsTotal.WithLabelValues(status)
	}
	SearchesTotal.WithLabelValues("standard")
	SearchesTotal.WithLabelValues("title")
}

// WriteTextfile dumps the default registry to path.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
