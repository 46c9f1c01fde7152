package subsonic

import (
	"bytes"

	"navisync/internal/models"
)

// OneOrMany decodes a JSON value that the server sends either as a single
// object or as an array of objects. The result is always a slice.
type OneOrMany[T any] []T

func (o *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*o = nil
		return nil
	case data[0] == '[':
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*o = items
		return nil
	default:
		var item T
		if err := json.Unmarshal(data, &item); err != nil {
			return err
		}
		*o = OneOrMany[T]{item}
		return nil
	}
}

type envelope struct {
	Response *Response `json:"subsonic-response"`
}

// Response is the body of a successful subsonic-response. Only the payload
// field for the requested endpoint is set.
type Response struct {
	Status        string         `json:"status"`
	Version       string         `json:"version"`
	Error         *APIError      `json:"error,omitempty"`
	AlbumList2    *AlbumList     `json:"albumList2,omitempty"`
	Album         *AlbumDetail   `json:"album,omitempty"`
	Playlists     *PlaylistList  `json:"playlists,omitempty"`
	Playlist      *PlaylistEntry `json:"playlist,omitempty"`
	SearchResult3 *SearchResult  `json:"searchResult3,omitempty"`
}

type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Album is a grouping as listed by getAlbumList2.
type Album struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Artist    string `json:"artist"`
	SongCount int    `json:"songCount"`
}

type AlbumList struct {
	Album OneOrMany[Album] `json:"album"`
}

type AlbumDetail struct {
	Album
	Song OneOrMany[models.CatalogEntry] `json:"song"`
}

type PlaylistList struct {
	Playlist OneOrMany[models.PlaylistInfo] `json:"playlist"`
}

type PlaylistEntry struct {
	models.PlaylistInfo
	Entry OneOrMany[models.CatalogEntry] `json:"entry"`
}

type SearchResult struct {
	Song OneOrMany[models.CatalogEntry] `json:"song"`
}
