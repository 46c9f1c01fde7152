package matcher

import (
	"math"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"navisync/internal/models"
	"navisync/internal/pathnorm"
)

// Ratio is the edit-distance similarity of a and b on a 0-100 integer scale.
// Callers normalize first. Either side being empty scores 0.
func Ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	sim := strutil.Similarity(a, b, metrics.NewLevenshtein())
	r := int(math.Round(sim * 100))
	switch {
	case r < 0:
		return 0
	case r > 100:
		return 100
	}
	return r
}

// Score weighs title 6, album 3 and artist 1 out of 10.
func Score(t models.Track, c models.CatalogEntry) float64 {
	title := Ratio(pathnorm.Text(t.Title), pathnorm.Text(c.Title))
	album := Ratio(pathnorm.Text(t.Album), pathnorm.Text(c.Album))
	artist := Ratio(pathnorm.Text(t.Artist), pathnorm.Text(c.Artist))
	return float64(6*title+3*album+artist) / 10
}

// TitleScore compares titles only.
func TitleScore(t models.Track, c models.CatalogEntry) float64 {
	return float64(Ratio(pathnorm.Text(t.Title), pathnorm.Text(c.Title)))
}
