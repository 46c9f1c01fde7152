package matcher

import (
	"errors"

	"navisync/internal/models"
)

var (
	ErrNoCandidate       = errors.New("result has no matched entry")
	ErrInvalidTransition = errors.New("status cannot be toggled")
)

// Accept confirms an automatic match. Accepting an ok result changes nothing.
func Accept(r *models.CheckResult) error {
	switch r.Status {
	case models.StatusFound, models.StatusSuggestion:
		if r.Match == nil {
			return ErrNoCandidate
		}
		r.Status = models.StatusOK
		r.Score = PerfectScore
		return nil
	case models.StatusOK:
		return nil
	default:
		return ErrNoCandidate
	}
}

// AcceptAll accepts every found or suggested result and returns how many
// changed.
func AcceptAll(results []models.CheckResult) int {
	n := 0
	for i := range results {
		if results[i].Status != models.StatusFound && results[i].Status != models.StatusSuggestion {
			continue
		}
		if Accept(&results[i]) == nil {
			n++
		}
	}
	return n
}

// Replace pins r to an operator-chosen entry, whatever its status was.
func Replace(r *models.CheckResult, entry models.CatalogEntry) {
	r.Match = &entry
	r.Status = models.StatusOK
	r.Score = PerfectScore
}

// Toggle flips found and suggestion. Match and score are kept.
func Toggle(r *models.CheckResult) error {
	switch r.Status {
	case models.StatusFound:
		r.Status = models.StatusSuggestion
	case models.StatusSuggestion:
		r.Status = models.StatusFound
	default:
		return ErrInvalidTransition
	}
	return nil
}
