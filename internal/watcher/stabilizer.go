package watcher

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Stabilizer holds newly created directories until nothing inside them has
// changed for the configured threshold.
type Stabilizer struct {
	threshold time.Duration
	pending   map[string]time.Time
	mutex     sync.Mutex
}

// NewStabilizer creates a Stabilizer with the given quiet period.
func NewStabilizer(threshold time.Duration) *Stabilizer {
	return &Stabilizer{
		threshold: threshold,
		pending:   make(map[string]time.Time),
	}
}

// Add queues dir with its last activity at t. Re-adding a pending directory
// refreshes it.
func (s *Stabilizer) Add(dir string, t time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.pending[dir] = t
}

// Touch records activity at path, refreshing every pending directory that is
// path itself or one of its ancestors.
func (s *Stabilizer) Touch(path string, t time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for dir := range s.pending {
		if dir == path || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			s.pending[dir] = t
		}
	}
}

// Forget drops dir and anything pending beneath it.
func (s *Stabilizer) Forget(dir string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for p := range s.pending {
		if p == dir || strings.HasPrefix(p, dir+string(filepath.Separator)) {
			delete(s.pending, p)
		}
	}
}

// Ready removes and returns, sorted by path, every directory quiet since at
// least threshold before now.
func (s *Stabilizer) Ready(now time.Time) []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var ready []string
	for dir, last := range s.pending {
		if now.Sub(last) >= s.threshold {
			ready = append(ready, dir)
		}
	}
	for _, dir := range ready {
		delete(s.pending, dir)
	}
	sort.Strings(ready)
	return ready
}

// Len returns the number of pending directories.
func (s *Stabilizer) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.pending)
}
