// Package session binds the directory processor to a live stream of watcher
// events. Events are consumed by a single loop, so notifications are handled
// one at a time in delivery order.
package session

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	rerrors "github.com/conneroisu/routegen/internal/errors"
	"github.com/conneroisu/routegen/internal/logging"
	"github.com/conneroisu/routegen/internal/processor"
	"github.com/conneroisu/routegen/internal/watcher"
)

// Watcher is the filesystem-watch collaborator.
type Watcher interface {
	Start(ctx context.Context) error
	Events() <-chan watcher.Event
	Close() error
}

// Processor handles one directory notification.
type Processor interface {
	Process(ctx context.Context, dirPath string) processor.Result
}

// Stats counts what a session has seen.
type Stats struct {
	Notifications int
	Processed     int
	Rejected      int
	Failed        int
	WatchErrors   int
}

// Session owns one watch of one root.
type Session struct {
	id        string
	root      string
	watcher   Watcher
	processor Processor
	logger    logging.Logger

	stats    Stats
	mutex    sync.RWMutex
	stopOnce sync.Once
	stopErr  error
}

// New creates a session for root. The processor must have been built with a
// processed-set owned by this session.
func New(root string, w Watcher, p Processor, logger logging.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		id:        id,
		root:      filepath.Clean(root),
		watcher:   w,
		processor: p,
		logger:    logger.WithComponent("session").With("session_id", id),
	}
}

// ID returns the session identifier used in log entries.
func (s *Session) ID() string {
	return s.id
}

// Root returns the watch root.
func (s *Session) Root() string {
	return s.root
}

// Start verifies the watch root and starts the watcher. A missing root is
// reported as errors.ErrWatchRootMissing.
func (s *Session) Start(ctx context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil || !info.IsDir() {
		return rerrors.WatchRootMissing(s.root)
	}

	if err := s.watcher.Start(ctx); err != nil {
		return err
	}

	s.logger.Info(ctx, "Directory monitoring started", "root", s.root)
	return nil
}

// Run consumes events until ctx is cancelled or the watcher closes its
// channel, then stops the session. A notification already being processed
// is allowed to finish.
func (s *Session) Run(ctx context.Context) error {
	events := s.watcher.Events()

	for {
		select {
		case <-ctx.Done():
			return s.Stop()
		case event, ok := <-events:
			if !ok {
				return s.Stop()
			}
			s.handle(ctx, event)
		}
	}
}

// Stop closes the watch subscription. It is safe to call more than once.
func (s *Session) Stop() error {
	s.stopOnce.Do(func() {
		s.stopErr = s.watcher.Close()
		s.logger.Info(context.Background(), "Directory monitoring stopped", "root", s.root)
	})
	return s.stopErr
}

// Stats returns a snapshot of the session counters.
func (s *Session) Stats() Stats {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.stats
}

func (s *Session) handle(ctx context.Context, event watcher.Event) {
	switch event.Kind {
	case watcher.EventError:
		s.count(func(st *Stats) { st.WatchErrors++ })
		s.logger.Error(ctx, event.Err, "Error occurred during monitoring", "path", event.Path)
	case watcher.EventDirectoryCreated:
		if filepath.Clean(event.Path) == s.root {
			return
		}
		s.count(func(st *Stats) { st.Notifications++ })

		result := s.processor.Process(ctx, event.Path)
		switch {
		case result.Error != "":
			s.count(func(st *Stats) { st.Rejected++ })
		case !result.Success:
			s.count(func(st *Stats) { st.Failed++ })
			s.logger.Warn(ctx, result.Err, "Directory processed with errors", "path", result.ProcessedPath)
		default:
			s.count(func(st *Stats) { st.Processed++ })
		}
	}
}

func (s *Session) count(update func(*Stats)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	update(&s.stats)
}
