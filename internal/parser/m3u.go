package parser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"navisync/internal/models"
	"navisync/internal/pathnorm"
)

const (
	// Header is the first line of every playlist this tool writes.
	Header = "#EXTM3U"
	// Ext is the extension of playlist files.
	Ext = ".m3u"

	minSegments = 3
)

var (
	ErrInvalidEncoding = errors.New("playlist is not valid UTF-8")

	trackNumberPrefix = regexp.MustCompile(`^\s*\d+\s*[-._]?\s*`)
	utf8BOM           = []byte{0xEF, 0xBB, 0xBF}
)

// ParseFile reads an M3U playlist. On any read failure it returns no tracks and
// the cause; callers treat that as an empty playlist.
func ParseFile(path string) ([]models.Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read playlist %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("read playlist %s: %w", path, ErrInvalidEncoding)
	}
	return Parse(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
}

// Parse turns playlist lines of the form artist/[album/...]/file into tracks.
// Lines with fewer than three segments are dropped.
func Parse(r io.Reader) ([]models.Track, error) {
	var tracks []models.Track

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, Header) {
			continue
		}
		if t, ok := ParseLine(line); ok {
			tracks = append(tracks, t)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan playlist: %w", err)
	}
	return tracks, nil
}

// ParseLine derives a Track from a single playlist entry. Path keeps the line verbatim.
func ParseLine(line string) (models.Track, bool) {
	parts := strings.Split(pathnorm.Path(line), "/")
	if len(parts) < minSegments {
		return models.Track{}, false
	}

	filename := parts[len(parts)-1]
	rawTitle := strings.TrimSuffix(filename, fileExt(filename))

	return models.Track{
		Artist: strings.TrimSpace(parts[0]),
		Album:  strings.TrimSpace(strings.Join(parts[1:len(parts)-1], "/")),
		Title:  strings.TrimSpace(trackNumberPrefix.ReplaceAllString(rawTitle, "")),
		Path:   line,
	}, true
}

// fileExt is filepath.Ext except that a leading dot does not start an extension.
func fileExt(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		return ""
	}
	return ext
}

// Write replaces the playlist at path with the header and one line per entry.
// Empty entries are skipped.
func Write(path string, entries []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create playlist %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, Header)
	for _, e := range entries {
		if e == "" {
			continue
		}
		fmt.Fprintln(w, e)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write playlist %s: %w", path, err)
	}
	return f.Close()
}

// WriteTracks writes the paths of tracks.
func WriteTracks(path string, tracks []models.Track) error {
	entries := make([]string, 0, len(tracks))
	for _, t := range tracks {
		entries = append(entries, t.Path)
	}
	return Write(path, entries)
}

// List returns the playlist file names in dir, sorted.
func List(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var names []string
	for _, file := range files {
		if file.IsDir() || !strings.EqualFold(filepath.Ext(file.Name()), Ext) {
			continue
		}
		names = append(names, file.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Name is the playlist name for a file: its base name without extension.
func Name(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var unsafeFilenameChars = strings.NewReplacer(
	`\`, "", "/", "", "*", "", "?", "", ":", "", `"`, "", "<", "", ">", "", "|", "",
)

// SanitizeFilename strips characters that are not allowed in file names.
func SanitizeFilename(name string) string {
	return unsafeFilenameChars.Replace(name)
}
