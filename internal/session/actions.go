package session

import (
	"fmt"

	"navisync/internal/matcher"
	"navisync/internal/models"
)

func (s *Session) result(name string, idx int) (*models.CheckResult, error) {
	results, err := s.Results(name)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(results) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexRange, idx+1, len(results))
	}
	return &results[idx], nil
}

// Accept confirms the match of one track. idx is zero-based.
func (s *Session) Accept(name string, idx int) (models.CheckResult, error) {
	r, err := s.result(name, idx)
	if err != nil {
		return models.CheckResult{}, err
	}
	if err := matcher.Accept(r); err != nil {
		return *r, err
	}
	return *r, s.saveResults()
}

// AcceptAll confirms every found or suggested match of a playlist.
func (s *Session) AcceptAll(name string) (int, error) {
	results, err := s.Results(name)
	if err != nil {
		return 0, err
	}
	n := matcher.AcceptAll(results)
	return n, s.saveResults()
}

// Toggle flips one track between found and suggestion.
func (s *Session) Toggle(name string, idx int) (models.CheckResult, error) {
	r, err := s.result(name, idx)
	if err != nil {
		return models.CheckResult{}, err
	}
	if err := matcher.Toggle(r); err != nil {
		return *r, err
	}
	return *r, s.saveResults()
}

// Replace links one track to entry.
func (s *Session) Replace(name string, idx int, entry models.CatalogEntry) (models.CheckResult, error) {
	r, err := s.result(name, idx)
	if err != nil {
		return models.CheckResult{}, err
	}
	matcher.Replace(r, entry)
	return *r, s.saveResults()
}
