package services

import (
	"context"

	"github.com/conneroisu/routegen/internal/config"
	"github.com/conneroisu/routegen/internal/lock"
	"github.com/conneroisu/routegen/internal/logging"
	"github.com/conneroisu/routegen/internal/session"
	"github.com/conneroisu/routegen/internal/watcher"
)

// WatchService runs a watch session until its context is cancelled.
type WatchService struct {
	config *config.Config
	logger logging.Logger
}

// NewWatchService creates a new watch service
func NewWatchService(cfg *config.Config, logger logging.Logger) *WatchService {
	return &WatchService{
		config: cfg,
		logger: logger,
	}
}

// WatchOptions tune a single run.
type WatchOptions struct {
	// IgnoreInitial skips directories that already exist at startup.
	IgnoreInitial bool
	// LockDir holds the single-instance lock file; empty means os.TempDir.
	LockDir string
	// NoLock disables the single-instance lock.
	NoLock bool
	// Ready, when set, is called once the watcher is running.
	Ready func(s *session.Session)
}

// WatchResult summarises a finished run.
type WatchResult struct {
	SessionID string
	Root      string
	Stats     session.Stats
}

// Watch starts a session for the configured watch directory and blocks until
// ctx is done. A missing watch directory yields errors.ErrWatchRootMissing
// before anything is watched.
func (s *WatchService) Watch(ctx context.Context, opts WatchOptions) (*WatchResult, error) {
	pipeline, err := NewPipeline(s.config, s.logger)
	if err != nil {
		return nil, err
	}

	if !opts.NoLock {
		fl := lock.NewFileLock(lock.PathFor(opts.LockDir, pipeline.Root))
		if err := fl.Acquire(); err != nil {
			return nil, err
		}
		defer func() {
			if err := fl.Unlock(); err != nil {
				s.logger.Warn(ctx, err, "Failed to release watch lock")
			}
		}()
	}

	w, err := watcher.New(pipeline.Root, watcher.Options{
		Ignore:             s.config.IgnorePatterns,
		StabilityThreshold: s.config.StabilityThreshold(),
		PollInterval:       s.config.PollInterval(),
		IgnoreInitial:      opts.IgnoreInitial,
	})
	if err != nil {
		return nil, err
	}

	sess := session.New(pipeline.Root, w, pipeline.Processor, s.logger)
	if err := sess.Start(ctx); err != nil {
		_ = w.Close()
		return nil, err
	}

	s.logger.Info(ctx, "Watching for new directories",
		"root", pipeline.Root,
		"session_id", sess.ID(),
		"ignore", s.config.IgnorePatterns,
	)
	if opts.Ready != nil {
		opts.Ready(sess)
	}

	err = sess.Run(ctx)
	return &WatchResult{
		SessionID: sess.ID(),
		Root:      pipeline.Root,
		Stats:     sess.Stats(),
	}, err
}
