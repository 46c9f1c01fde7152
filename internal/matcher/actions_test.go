package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navisync/internal/models"
)

func result(status models.Status, score float64) models.CheckResult {
	r := models.CheckResult{Track: airbag, Status: status, Score: score}
	if status != models.StatusMissing {
		r.Match = &models.CatalogEntry{ID: "s-1"}
	}
	return r
}

func TestAccept(t *testing.T) {
	for _, status := range []models.Status{models.StatusFound, models.StatusSuggestion} {
		t.Run(status.String(), func(t *testing.T) {
			r := result(status, 42)
			require.NoError(t, Accept(&r))
			assert.Equal(t, models.StatusOK, r.Status)
			assert.Equal(t, float64(PerfectScore), r.Score)

			again := r
			require.NoError(t, Accept(&again))
			assert.Equal(t, r, again)
		})
	}

	missing := result(models.StatusMissing, 0)
	assert.ErrorIs(t, Accept(&missing), ErrNoCandidate)
	assert.Equal(t, models.StatusMissing, missing.Status)
}

func TestAcceptAll(t *testing.T) {
	results := []models.CheckResult{
		result(models.StatusOK, 100),
		result(models.StatusFound, 80),
		result(models.StatusSuggestion, 30),
		result(models.StatusMissing, 0),
	}

	assert.Equal(t, 2, AcceptAll(results))
	assert.Equal(t, models.StatusOK, results[1].Status)
	assert.Equal(t, models.StatusOK, results[2].Status)
	assert.Equal(t, models.StatusMissing, results[3].Status)
	assert.Equal(t, 0, AcceptAll(results))
}

func TestReplace(t *testing.T) {
	for _, status := range models.Statuses {
		t.Run(status.String(), func(t *testing.T) {
			r := result(status, 12)
			entry := models.CatalogEntry{ID: "picked", Title: "Airbag"}

			Replace(&r, entry)
			assert.Equal(t, models.StatusOK, r.Status)
			assert.Equal(t, float64(PerfectScore), r.Score)
			assert.Equal(t, "picked", r.Match.ID)

			once := r
			Replace(&r, entry)
			assert.Equal(t, once, r)
		})
	}
}

func TestToggle(t *testing.T) {
	r := result(models.StatusFound, 80)
	require.NoError(t, Toggle(&r))
	assert.Equal(t, models.StatusSuggestion, r.Status)
	assert.Equal(t, float64(80), r.Score)
	assert.Equal(t, "s-1", r.Match.ID)

	require.NoError(t, Toggle(&r))
	assert.Equal(t, models.StatusFound, r.Status)

	for _, status := range []models.Status{models.StatusOK, models.StatusMissing} {
		r := result(status, 0)
		assert.ErrorIs(t, Toggle(&r), ErrInvalidTransition)
		assert.Equal(t, status, r.Status)
	}
}
