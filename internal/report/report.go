// Package report aggregates check results into the plain-text report an
// operator exports after a check run.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"navisync/internal/models"
)

const (
	ruleWidth  = 40
	timeLayout = "2006-01-02 15:04:05"
)

// Summary counts results by status across every checked playlist.
type Summary struct {
	Total     int
	ByStatus  map[models.Status]int
	Missing   map[string][]models.Track
	Playlists []string
	Generated time.Time
}

// Summarize builds a Summary. Playlists without results are ignored.
func Summarize(results map[string][]models.CheckResult, now time.Time) Summary {
	s := Summary{
		ByStatus:  make(map[models.Status]int, len(models.Statuses)),
		Missing:   make(map[string][]models.Track),
		Generated: now,
	}

	for name, list := range results {
		if len(list) == 0 {
			continue
		}
		s.Playlists = append(s.Playlists, name)
		for _, r := range list {
			s.Total++
			s.ByStatus[r.Status]++
			if r.Status == models.StatusMissing {
				s.Missing[name] = append(s.Missing[name], r.Track)
			}
		}
	}
	sort.Strings(s.Playlists)
	return s
}

// Count returns the number of results with status st.
func (s Summary) Count(st models.Status) int {
	return s.ByStatus[st]
}

// Percent is the share of results with status st, 0 when nothing was checked.
func (s Summary) Percent(st models.Status) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.ByStatus[st]) * 100 / float64(s.Total)
}

var labels = map[models.Status]string{
	models.StatusOK:         "OK",
	models.StatusFound:      "Found",
	models.StatusSuggestion: "Suggestions",
	models.StatusMissing:    "Missing",
}

// Render writes the report as text.
func (s Summary) Render(w io.Writer) error {
	var b strings.Builder
	rule := strings.Repeat("=", ruleWidth)

	fmt.Fprintf(&b, "Playlist Report - %s\n\n", s.Generated.Format(timeLayout))
	b.WriteString(rule + "\n")
	b.WriteString("\n--- Overall Statistics ---\n\n")
	fmt.Fprintf(&b, "Total Tracks Checked: %d\n", s.Total)
	for _, st := range models.Statuses {
		fmt.Fprintf(&b, "%s: %d (%.1f%%)\n", labels[st], s.Count(st), s.Percent(st))
	}
	b.WriteString("\n" + rule + "\n")
	b.WriteString("\n--- Detailed List of Missing Tracks ---\n")

	anyMissing := false
	for _, name := range s.Playlists {
		tracks := s.Missing[name]
		if len(tracks) == 0 {
			continue
		}
		anyMissing = true
		header := "Playlist: " + name
		fmt.Fprintf(&b, "\n%s\n%s\n", header, strings.Repeat("-", len(header)))
		for _, t := range tracks {
			fmt.Fprintf(&b, "  - %s - %s\n", t.Artist, t.Title)
		}
	}
	if !anyMissing {
		b.WriteString("\nNo missing tracks found in any checked playlists!\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
