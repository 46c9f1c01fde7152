package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"navisync/internal/config"
	"navisync/internal/matcher"
	"navisync/internal/models"
	"navisync/internal/parser"
	"navisync/internal/songcache"
	"navisync/internal/subsonic"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrIncompleteConfig = errors.New("server url, username and password must be filled in")
	ErrNotChecked       = errors.New("playlist has not been checked")
	ErrIndexRange       = errors.New("track index out of range")
	ErrNoCache          = errors.New("song cache is not available")
)

// Remote is the part of the Subsonic client a session uses.
type Remote interface {
	matcher.Searcher
	songcache.Catalog
	Ping(ctx context.Context) error
	Playlists(ctx context.Context) ([]models.PlaylistInfo, error)
	PlaylistEntries(ctx context.Context, id string) ([]models.CatalogEntry, error)
	FindPlaylist(ctx context.Context, name string) (string, error)
	CreatePlaylist(ctx context.Context, name string, songIDs []string, playlistID string) error
}

type Session struct {
	cfg        *config.Config
	configPath string
	remote     Remote
	dial       func(*config.Config) Remote

	store      songcache.Store
	cache      *songcache.Cache
	cacheDirty bool
	cacheErr   error

	results map[string][]models.CheckResult
}

// NewClient builds the Subsonic client described by cfg.
func NewClient(cfg *config.Config) Remote {
	return subsonic.NewClient(
		subsonic.Credentials{BaseURL: cfg.ServerURL, Username: cfg.Username, Password: cfg.Password},
		subsonic.WithTimeout(cfg.Timeout),
		subsonic.WithRateLimit(cfg.RequestsPerSecond),
	)
}

// Open creates a session talking to the server in cfg and restores the check
// results of earlier runs. The song cache is loaded lazily.
func Open(cfg *config.Config, configPath string) *Session {
	s := New(cfg, configPath, NewClient(cfg))
	s.dial = NewClient
	return s
}

// New creates a session over an existing remote.
func New(cfg *config.Config, configPath string, remote Remote) *Session {
	s := &Session{
		cfg:        cfg,
		configPath: configPath,
		remote:     remote,
		store:      songcache.NewStore(cfg.CacheBackend, cfg.SnapshotPath()),
		results:    make(map[string][]models.CheckResult),
	}
	s.loadResults()
	return s
}

func (s *Session) Config() *config.Config { return s.cfg }

// Close writes the song cache snapshot if it was rebuilt during the session.
// Failures are logged only.
func (s *Session) Close() {
	if s.cacheDirty {
		songcache.SaveCache(s.store, s.cache)
		s.cacheDirty = false
	}
}

// VerifyConnection checks that credentials are set and the server answers.
func (s *Session) VerifyConnection(ctx context.Context) error {
	if !s.cfg.Complete() {
		return ErrIncompleteConfig
	}
	if err := s.remote.Ping(ctx); err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	return nil
}

// SetConfig updates and saves one config key. Changing the server or the
// credentials drops the song cache and its snapshot.
func (s *Session) SetConfig(key, value string) (bool, error) {
	changed, err := s.cfg.Set(key, value)
	if err != nil {
		return false, err
	}
	if err := s.cfg.Save(s.configPath); err != nil {
		return changed, fmt.Errorf("save config: %w", err)
	}

	switch key {
	case "cacheBackend", "cachePath":
		s.store = songcache.NewStore(s.cfg.CacheBackend, s.cfg.SnapshotPath())
		s.cache = nil
		s.cacheErr = nil
	}
	if changed {
		if s.dial != nil {
			s.remote = s.dial(s.cfg)
		}
		s.InvalidateCache()
	}
	return changed, s.cfg.EnsureDirs()
}

// Search runs a manual keyword search, as used to pick a replacement.
func (s *Session) Search(ctx context.Context, query string) ([]models.CatalogEntry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return s.remote.Search(ctx, query, s.cfg.SearchCount)
}

// playlistFile appends the playlist extension when name has none.
func playlistFile(name string) string {
	if strings.EqualFold(filepath.Ext(name), parser.Ext) {
		return name
	}
	return name + parser.Ext
}

// HasLocalPlaylist reports whether name is a playlist file in the local
// directory.
func (s *Session) HasLocalPlaylist(name string) bool {
	info, err := os.Stat(filepath.Join(s.cfg.LocalPlaylistsPath, playlistFile(name)))
	return err == nil && !info.IsDir()
}

// LocalPlaylists lists the playlist files in the local directory.
func (s *Session) LocalPlaylists() ([]string, error) {
	return parser.List(s.cfg.LocalPlaylistsPath)
}

// RemotePlaylists lists the downloaded server playlists.
func (s *Session) RemotePlaylists() ([]string, error) {
	return parser.List(s.cfg.RemotePlaylistsPath)
}

// Checked lists the playlists with stored results, sorted.
func (s *Session) Checked() []string {
	names := make([]string, 0, len(s.results))
	for name := range s.results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllResults returns every stored result set keyed by playlist file name.
func (s *Session) AllResults() map[string][]models.CheckResult {
	return s.results
}

// Results returns the stored results of one playlist.
func (s *Session) Results(name string) ([]models.CheckResult, error) {
	res, ok := s.results[playlistFile(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotChecked, name)
	}
	return res, nil
}

// ClearResults forgets every stored result.
func (s *Session) ClearResults() error {
	s.results = make(map[string][]models.CheckResult)
	return s.saveResults()
}

func (s *Session) loadResults() {
	data, err := os.ReadFile(s.cfg.ResultsPath())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Could not read check results", "path", s.cfg.ResultsPath(), "error", err)
		}
		return
	}

	var results map[string][]models.CheckResult
	if err := json.Unmarshal(data, &results); err != nil {
		slog.Warn("Ignoring corrupt check results", "path", s.cfg.ResultsPath(), "error", err)
		return
	}
	if results != nil {
		s.results = results
	}
}

func (s *Session) saveResults() error {
	data, err := json.MarshalIndent(s.results, "", "  ")
	if err != nil {
		return fmt.Errorf("encode check results: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.cfg.ResultsPath()), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(s.cfg.ResultsPath(), data, 0o644); err != nil {
		return fmt.Errorf("write check results: %w", err)
	}
	return nil
}
