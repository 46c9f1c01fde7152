package subsonic

import (
	"context"
	"fmt"
	"net/url"

	"navisync/internal/models"
)

// Playlists lists the playlists saved on the server.
func (c *Client) Playlists(ctx context.Context) ([]models.PlaylistInfo, error) {
	res, err := c.DoRequest(ctx, "getPlaylists", nil)
	if err != nil {
		return nil, err
	}
	if res.Playlists == nil {
		return nil, fmt.Errorf("%w: getPlaylists: no playlists", ErrDecode)
	}
	return res.Playlists.Playlist, nil
}

// PlaylistEntries fetches the songs of one server playlist.
func (c *Client) PlaylistEntries(ctx context.Context, id string) ([]models.CatalogEntry, error) {
	params := url.Values{}
	params.Set("id", id)

	res, err := c.DoRequest(ctx, "getPlaylist", params)
	if err != nil {
		return nil, err
	}
	if res.Playlist == nil {
		return nil, fmt.Errorf("%w: getPlaylist: no playlist", ErrDecode)
	}
	return res.Playlist.Entry, nil
}

// FindPlaylist returns the id of the server playlist called name, or "" if
// there is none.
func (c *Client) FindPlaylist(ctx context.Context, name string) (string, error) {
	playlists, err := c.Playlists(ctx)
	if err != nil {
		return "", err
	}
	for _, p := range playlists {
		if p.Name == name {
			return p.ID, nil
		}
	}
	return "", nil
}

// CreatePlaylist stores songIDs, in order, under name. With a playlistID the
// existing playlist is replaced instead of creating a new one.
func (c *Client) CreatePlaylist(ctx context.Context, name string, songIDs []string, playlistID string) error {
	params := url.Values{}
	params.Set("name", name)
	if playlistID != "" {
		params.Set("playlistId", playlistID)
	}
	for _, id := range songIDs {
		params.Add("songId", id)
	}

	_, err := c.DoRequest(ctx, "createPlaylist", params)
	return err
}
