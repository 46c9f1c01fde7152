package pathnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath(t *testing.T) {
	assert.Equal(t, "Artist/Album/01 - Song.mp3", Path(`Artist\Album\01 - Song.mp3`))
	assert.Equal(t, "Artist/Album/Song.mp3", Path("Artist/Album/Song.mp3"))
	assert.Equal(t, "", Path(""))
}

func TestText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Café – Déjà Vu!", "cafe  deja vu"},
		{"OK Computer", "ok computer"},
		{"AC/DC", "acdc"},
		{"Sigur Rós", "sigur ros"},
		{"Motörhead", "motorhead"},
		{"(What's the Story) Morning Glory?", "whats the story morning glory"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestTextIsIdempotent(t *testing.T) {
	inputs := []string{"Café – Déjà Vu!", "Björk", "  Mixed CASE 123 ", "東京"}
	for _, in := range inputs {
		once := Text(in)
		assert.Equal(t, once, Text(once), in)
	}
}

func TestTextCollapsesToASCIIEquivalent(t *testing.T) {
	assert.Equal(t, Text("deja vu"), Text("Déjà Vu"))
	assert.Equal(t, Text("beyonce"), Text("BEYONCÉ"))
}
