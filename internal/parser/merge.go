package parser

import (
	"navisync/internal/models"
	"navisync/internal/pathnorm"
)

// Merge concatenates a and b, keeping only the first track seen for each path.
// Paths are compared after separator folding.
func Merge(a, b []models.Track) []models.Track {
	merged := make([]models.Track, 0, len(a)+len(b))
	seen := make(map[string]struct{}, len(a)+len(b))

	for _, list := range [][]models.Track{a, b} {
		for _, t := range list {
			key := pathnorm.Path(t.Path)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, t)
		}
	}
	return merged
}

// Dedup removes repeated paths from tracks, keeping first occurrences.
func Dedup(tracks []models.Track) []models.Track {
	return Merge(tracks, nil)
}
