package testsupport

import (
	"context"
	"sync"

	"marquee/internal/library"
)

// ScriptedSearcher is a library.Searcher fake returning canned results.
type ScriptedSearcher struct {
	mu      sync.Mutex
	results map[string][]library.Candidate
	err     error
	calls   []string
}

// NewScriptedSearcher builds an empty searcher; add results with Script.
func NewScriptedSearcher() *ScriptedSearcher {
	return &ScriptedSearcher{results: make(map[string][]library.Candidate)}
}

// Script registers the candidates returned for a normalized search key.
func (s *ScriptedSearcher) Script(key string, candidates ...library.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[key] = candidates
}

// Fail makes every subsequent Search return err.
func (s *ScriptedSearcher) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *ScriptedSearcher) Search(_ context.Context, key string) ([]library.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, key)
	if s.err != nil {
		return nil, s.err
	}
	return append([]library.Candidate(nil), s.results[key]...), nil
}

// Calls returns the search keys observed so far.
func (s *ScriptedSearcher) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}
