package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navisync/internal/models"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want models.Track
		ok   bool
	}{
		{
			name: "track number with dash",
			line: "Artist/Album/01 - Song.mp3",
			want: models.Track{Artist: "Artist", Album: "Album", Title: "Song", Path: "Artist/Album/01 - Song.mp3"},
			ok:   true,
		},
		{
			name: "nested album segments",
			line: "Artist/Box Set/CD1/03. Intro.flac",
			want: models.Track{Artist: "Artist", Album: "Box Set/CD1", Title: "Intro", Path: "Artist/Box Set/CD1/03. Intro.flac"},
			ok:   true,
		},
		{
			name: "windows separators keep the raw line",
			line: `Radiohead\OK Computer\01_Airbag.mp3`,
			want: models.Track{Artist: "Radiohead", Album: "OK Computer", Title: "Airbag", Path: `Radiohead\OK Computer\01_Airbag.mp3`},
			ok:   true,
		},
		{
			name: "no track number",
			line: "Artist/Album/Song Title.ogg",
			want: models.Track{Artist: "Artist", Album: "Album", Title: "Song Title", Path: "Artist/Album/Song Title.ogg"},
			ok:   true,
		},
		{
			name: "two segments are dropped",
			line: "Album/Song.mp3",
			ok:   false,
		},
		{
			name: "single segment is dropped",
			line: "Song.mp3",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	content := strings.Join([]string{
		"#EXTM3U",
		"",
		"Radiohead/OK Computer/01 - Airbag.mp3",
		"broken.mp3",
		"  Portishead/Dummy/02 - Sour Times.mp3  ",
		"Radiohead/OK Computer/01 - Airbag.mp3",
	}, "\n")
	path := writeFile(t, dir, "mix.m3u", content)

	tracks, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, tracks, 3)

	assert.Equal(t, "Airbag", tracks[0].Title)
	assert.Equal(t, "Portishead/Dummy/02 - Sour Times.mp3", tracks[1].Path)
	assert.Equal(t, "Sour Times", tracks[1].Title)
	assert.Equal(t, tracks[0], tracks[2])

	again, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, tracks, again)
}

func TestParseFileWithoutHeaderAndWithBOM(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bom.m3u", "\ufeffArtist/Album/Song.mp3\r\n")

	tracks, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "Artist", tracks[0].Artist)
	assert.Equal(t, "Artist/Album/Song.mp3", tracks[0].Path)
}

func TestParseFileFailures(t *testing.T) {
	dir := t.TempDir()

	tracks, err := ParseFile(filepath.Join(dir, "missing.m3u"))
	assert.Error(t, err)
	assert.Empty(t, tracks)

	bad := writeFile(t, dir, "latin1.m3u", "Artist/Album/Caf\xe9.mp3\n")
	tracks, err = ParseFile(bad)
	assert.ErrorIs(t, err, ErrInvalidEncoding)
	assert.Empty(t, tracks)
}

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.m3u")

	err := Write(path, []string{"A/B/01 - C.mp3", "", `D\E\F.mp3`})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#EXTM3U\nA/B/01 - C.mp3\nD\\E\\F.mp3\n", string(data))

	tracks, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, `D\E\F.mp3`, tracks[1].Path)
}

func TestListAndName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.m3u", "")
	writeFile(t, dir, "a.M3U", "")
	writeFile(t, dir, "notes.txt", "")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.m3u"), 0o755))

	names, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.M3U", "b.m3u"}, names)

	assert.Equal(t, "Road Trip", Name("/tmp/Road Trip.m3u"))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "ACDC Best Of", SanitizeFilename(`AC/DC: Best <Of>`))
	assert.Equal(t, "Whats New", SanitizeFilename(`Whats New?*|"`))
}
