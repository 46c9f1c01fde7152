package subsonic

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"navisync/internal/models"
)

const (
	// PageSize is the number of albums requested per getAlbumList2 call.
	PageSize = 500
	// DefaultSearchCount bounds search3 song results.
	DefaultSearchCount = 50
)

// Ping checks connectivity and credentials.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.DoRequest(ctx, "ping", nil)
	return err
}

// AlbumList returns one page of albums sorted by name.
func (c *Client) AlbumList(ctx context.Context, size, offset int) ([]Album, error) {
	params := url.Values{}
	params.Set("type", "alphabeticalByName")
	params.Set("size", strconv.Itoa(size))
	params.Set("offset", strconv.Itoa(offset))

	res, err := c.DoRequest(ctx, "getAlbumList2", params)
	if err != nil {
		return nil, err
	}
	if res.AlbumList2 == nil {
		return nil, fmt.Errorf("%w: getAlbumList2: no albumList2", ErrDecode)
	}
	return res.AlbumList2.Album, nil
}

// AlbumSongs returns the songs of one album.
func (c *Client) AlbumSongs(ctx context.Context, id string) ([]models.CatalogEntry, error) {
	params := url.Values{}
	params.Set("id", id)

	res, err := c.DoRequest(ctx, "getAlbum", params)
	if err != nil {
		return nil, err
	}
	if res.Album == nil {
		return nil, fmt.Errorf("%w: getAlbum: no album", ErrDecode)
	}
	return res.Album.Song, nil
}

// Search runs a song-only keyword search returning at most count songs.
func (c *Client) Search(ctx context.Context, query string, count int) ([]models.CatalogEntry, error) {
	if count <= 0 {
		count = DefaultSearchCount
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("songCount", strconv.Itoa(count))
	params.Set("artistCount", "0")
	params.Set("albumCount", "0")

	res, err := c.DoRequest(ctx, "search3", params)
	if err != nil {
		return nil, err
	}
	if res.SearchResult3 == nil {
		return nil, nil
	}
	return res.SearchResult3.Song, nil
}
