package models

import (
	"encoding/json"
	"fmt"
)

// Track is a local playlist entry. Artist, Album and Title are derived from Path.
type Track struct {
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Title  string `json:"title"`
	Path   string `json:"path"`
}

// CatalogEntry is a song as the server knows it. ID is the only field safe to
// send back in an uploaded playlist.
type CatalogEntry struct {
	ID     string `json:"id"`
	Path   string `json:"path"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Title  string `json:"title"`
}

// Status classifies a CheckResult.
type Status int

const (
	StatusMissing Status = iota
	StatusSuggestion
	StatusFound
	StatusOK
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusOK, StatusFound, StatusSuggestion, StatusMissing}

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFound:
		return "found"
	case StatusSuggestion:
		return "suggestion"
	case StatusMissing:
		return "missing"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "ok":
		return StatusOK, nil
	case "found":
		return StatusFound, nil
	case "suggestion":
		return StatusSuggestion, nil
	case "missing":
		return StatusMissing, nil
	default:
		return StatusMissing, fmt.Errorf("unknown status %q", s)
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// CheckResult is the outcome of reconciling one Track.
// Match is nil exactly when Status is StatusMissing.
type CheckResult struct {
	Track  Track         `json:"original_track"`
	Match  *CatalogEntry `json:"matched_entry"`
	Status Status        `json:"status"`
	Score  float64       `json:"score"`
}

// Writable reports whether the result ends up in a saved playlist.
func (r CheckResult) Writable() bool {
	return r.Match != nil && (r.Status == StatusOK || r.Status == StatusFound)
}

// PlaylistInfo is a server-side playlist header.
type PlaylistInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SongCount int    `json:"songCount"`
}
