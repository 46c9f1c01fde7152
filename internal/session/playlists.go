package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"navisync/internal/models"
	"navisync/internal/parser"
)

var (
	ErrNothingToSave  = errors.New("no validated tracks to save")
	ErrEmptyPlaylist  = errors.New("playlist is empty or could not be read")
	ErrNothingMatched = errors.New("no track of the playlist is in the song cache")
)

// MergeMode selects which playlist takes priority and where the result goes.
type MergeMode int

const (
	// MergeIntoRemote keeps the downloaded playlist first and overwrites it.
	MergeIntoRemote MergeMode = iota
	// MergeIntoLocal keeps the local playlist first and overwrites it.
	MergeIntoLocal
	// MergeToFile keeps the downloaded playlist first and writes a new file.
	MergeToFile
)

// UploadSummary describes one playlist upload.
type UploadSummary struct {
	Name     string
	Updated  bool
	Uploaded int
	NotFound int
}

func (u UploadSummary) Action() string {
	if u.Updated {
		return "updated"
	}
	return "created"
}

// writableEntries lists the server paths to save. Matches without a path
// cannot be written and are left out.
func writableEntries(results []models.CheckResult) []string {
	var entries []string
	for _, r := range results {
		if r.Writable() && r.Match.Path != "" {
			entries = append(entries, r.Match.Path)
		}
	}
	return entries
}

// Save overwrites a local playlist with the server path of every ok or found
// result. It returns the number of tracks written.
func (s *Session) Save(name string) (int, error) {
	results, err := s.Results(name)
	if err != nil {
		return 0, err
	}

	entries := writableEntries(results)
	if len(entries) == 0 {
		return 0, ErrNothingToSave
	}
	if err := parser.Write(filepath.Join(s.cfg.LocalPlaylistsPath, playlistFile(name)), entries); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// SaveAll saves every checked playlist that has writable tracks and at least
// one found or suggested result. It returns the saved playlist names.
func (s *Session) SaveAll() ([]string, error) {
	var saved []string
	for _, name := range s.Checked() {
		results := s.results[name]
		if !needsSave(results) {
			continue
		}
		if _, err := s.Save(name); err != nil {
			slog.Warn("Could not save playlist", "playlist", name, "error", err)
			continue
		}
		saved = append(saved, name)
	}
	return saved, nil
}

func needsSave(results []models.CheckResult) bool {
	if len(writableEntries(results)) == 0 {
		return false
	}
	for _, r := range results {
		if r.Status == models.StatusFound || r.Status == models.StatusSuggestion {
			return true
		}
	}
	return false
}

// Upload sends a downloaded playlist to the server. Tracks are resolved by
// exact path through the song cache only. A server playlist with the same
// name is replaced in place.
func (s *Session) Upload(ctx context.Context, name string) (UploadSummary, error) {
	file := playlistFile(name)
	summary := UploadSummary{Name: parser.Name(file)}

	path := filepath.Join(s.cfg.RemotePlaylistsPath, file)
	if _, err := os.Stat(path); err != nil {
		return summary, fmt.Errorf("playlist file not found: %w", err)
	}
	cache, err := s.EnsureCache(ctx, nil)
	if err != nil {
		return summary, err
	}

	tracks, err := parser.ParseFile(path)
	if err != nil {
		slog.Warn("Could not read playlist", "playlist", file, "error", err)
	}
	if len(tracks) == 0 {
		return summary, ErrEmptyPlaylist
	}

	var ids []string
	for _, t := range tracks {
		if entry, ok := cache.Lookup(t.Path); ok {
			ids = append(ids, entry.ID)
			summary.Uploaded++
		} else {
			summary.NotFound++
		}
	}
	if len(ids) == 0 {
		return summary, ErrNothingMatched
	}

	return summary, s.push(ctx, &summary, ids)
}

// UploadResults sends the ok and found matches of a checked playlist.
func (s *Session) UploadResults(ctx context.Context, name string) (UploadSummary, error) {
	summary := UploadSummary{Name: parser.Name(playlistFile(name))}
	results, err := s.Results(name)
	if err != nil {
		return summary, err
	}

	var ids []string
	for _, r := range results {
		if r.Writable() && r.Match.ID != "" {
			ids = append(ids, r.Match.ID)
			summary.Uploaded++
		} else {
			summary.NotFound++
		}
	}
	if len(ids) == 0 {
		return summary, ErrNothingToSave
	}

	return summary, s.push(ctx, &summary, ids)
}

func (s *Session) push(ctx context.Context, summary *UploadSummary, ids []string) error {
	existing, err := s.remote.FindPlaylist(ctx, summary.Name)
	if err != nil {
		slog.Warn("Could not list server playlists, creating a new one", "playlist", summary.Name, "error", err)
	}
	summary.Updated = existing != ""

	if err := s.remote.CreatePlaylist(ctx, summary.Name, ids, existing); err != nil {
		return fmt.Errorf("upload %q: %w", summary.Name, err)
	}
	slog.Info("Uploaded playlist", "playlist", summary.Name, "action", summary.Action(), "tracks", summary.Uploaded)
	return nil
}

// DownloadAll writes every server playlist as an M3U file into the remote
// playlists directory. A playlist that cannot be fetched or written is
// skipped. It returns how many succeeded out of how many exist.
func (s *Session) DownloadAll(ctx context.Context) (succeeded, total int, err error) {
	if !s.cfg.Complete() {
		return 0, 0, ErrIncompleteConfig
	}
	playlists, err := s.remote.Playlists(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("could not fetch playlist list: %w", err)
	}

	for _, p := range playlists {
		entries, err := s.remote.PlaylistEntries(ctx, p.ID)
		if err != nil {
			slog.Warn("Skipping playlist", "playlist", p.Name, "error", err)
			continue
		}

		paths := make([]string, 0, len(entries))
		for _, e := range entries {
			paths = append(paths, e.Path)
		}
		file := filepath.Join(s.cfg.RemotePlaylistsPath, parser.SanitizeFilename(p.Name)+parser.Ext)
		if err := parser.Write(file, paths); err != nil {
			slog.Warn("Skipping playlist", "playlist", p.Name, "error", err)
			continue
		}
		succeeded++
	}
	return succeeded, len(playlists), nil
}

// Merge combines a downloaded and a local playlist and returns the written
// path and track count. dest is only used by MergeToFile.
func (s *Session) Merge(mode MergeMode, remoteName, localName, dest string) (string, int, error) {
	remotePath := filepath.Join(s.cfg.RemotePlaylistsPath, playlistFile(remoteName))
	localPath := filepath.Join(s.cfg.LocalPlaylistsPath, playlistFile(localName))

	remote := parseOrEmpty(remotePath)
	local := parseOrEmpty(localPath)

	var merged []models.Track
	switch mode {
	case MergeIntoRemote:
		merged, dest = parser.Merge(remote, local), remotePath
	case MergeIntoLocal:
		merged, dest = parser.Merge(local, remote), localPath
	case MergeToFile:
		if dest == "" {
			return "", 0, errors.New("merge destination is required")
		}
		merged, dest = parser.Merge(remote, local), playlistFile(dest)
	default:
		return "", 0, fmt.Errorf("unknown merge mode %d", mode)
	}

	if err := parser.WriteTracks(dest, merged); err != nil {
		return "", 0, err
	}
	return dest, len(merged), nil
}

func parseOrEmpty(path string) []models.Track {
	tracks, err := parser.ParseFile(path)
	if err != nil {
		slog.Warn("Could not read playlist", "path", path, "error", err)
	}
	return tracks
}

// AddToRemote copies a local playlist into the remote playlists directory so
// it can be uploaded.
func (s *Session) AddToRemote(name string) (string, error) {
	file := playlistFile(name)
	data, err := os.ReadFile(filepath.Join(s.cfg.LocalPlaylistsPath, file))
	if err != nil {
		return "", err
	}
	dest := filepath.Join(s.cfg.RemotePlaylistsPath, file)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", err
	}
	return dest, nil
}

// DeleteRemote removes one downloaded playlist file.
func (s *Session) DeleteRemote(name string) error {
	return os.Remove(filepath.Join(s.cfg.RemotePlaylistsPath, playlistFile(name)))
}

// ClearRemote removes every downloaded playlist file and returns how many.
func (s *Session) ClearRemote() (int, error) {
	files, err := s.RemotePlaylists()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, f := range files {
		if err := os.Remove(filepath.Join(s.cfg.RemotePlaylistsPath, f)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
