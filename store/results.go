package store

import (
	"sync"

	"go-disasterai/types"
)

// ResultStore holds the analysis result currently driving the map. A publish
// replaces the whole result; overlays are never merged across submissions.
// Subscribers observe every publish.
type ResultStore struct {
	mu      sync.RWMutex
	current *types.AnalysisResult
	history []types.AnalysisResult
	subs    []func(types.AnalysisResult)

	maxHistory int
}

// NewResultStore builds an empty store keeping up to maxHistory past
// results (0 selects the default of 100).
func NewResultStore(maxHistory int) *ResultStore {
	if maxHistory <= 0 {
		maxHistory = 100
	}
	return &ResultStore{maxHistory: maxHistory}
}

// Publish replaces the current result and notifies subscribers.
func (s *ResultStore) Publish(res types.AnalysisResult) {
	s.mu.Lock()
	s.current = &res
	s.history = append(s.history, res)
	if len(s.history) > s.maxHistory {
		s.history = s.history[len(s.history)-s.maxHistory:]
	}
	subs := make([]func(types.AnalysisResult), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(res)
	}
}

// Current returns the live result, if any submission has completed.
func (s *ResultStore) Current() (types.AnalysisResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return types.AnalysisResult{}, false
	}
	return *s.current, true
}

// History returns past results, oldest first.
func (s *ResultStore) History() []types.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.AnalysisResult, len(s.history))
	copy(out, s.history)
	return out
}

// Subscribe registers a callback for every future publish.
func (s *ResultStore) Subscribe(fn func(types.AnalysisResult)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}
