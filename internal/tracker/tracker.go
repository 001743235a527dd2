// Package tracker records which directory paths a watch session has already
// handled so duplicate or overlapping notifications are ignored.
package tracker

import "sync"

// ProcessedSet is a grow-only set of directory paths. Paths are compared
// exactly as given; callers pass the string the watcher reported.
type ProcessedSet struct {
	paths map[string]struct{}
	mutex sync.RWMutex
}

// New returns an empty set. Each watch session owns its own set.
func New() *ProcessedSet {
	return &ProcessedSet{paths: make(map[string]struct{})}
}

// Has reports whether path has been marked.
func (s *ProcessedSet) Has(path string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	_, ok := s.paths[path]
	return ok
}

// MarkProcessed adds path to the set.
func (s *ProcessedSet) MarkProcessed(path string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.paths[path] = struct{}{}
}

// CheckAndMark marks path and reports true if it was not already present.
// It is the atomic form of Has followed by MarkProcessed for callers that
// dispatch notifications from more than one goroutine.
func (s *ProcessedSet) CheckAndMark(path string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.paths[path]; ok {
		return false
	}
	s.paths[path] = struct{}{}
	return true
}

// Len returns the number of marked paths.
func (s *ProcessedSet) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.paths)
}
