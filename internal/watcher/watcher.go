// Package watcher reports directories created under a root once their
// contents have stopped changing. It wraps fsnotify, which is not recursive,
// by adding every non-ignored directory to the watch as it appears.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	rerrors "github.com/conneroisu/routegen/internal/errors"
)

// Default stabilisation timings.
const (
	DefaultStabilityThreshold = 2000 * time.Millisecond
	DefaultPollInterval       = 100 * time.Millisecond
)

// EventKind represents the type of watcher event
type EventKind int

const (
	EventDirectoryCreated EventKind = iota
	EventError
)

// String returns the string representation of the EventKind
func (k EventKind) String() string {
	switch k {
	case EventDirectoryCreated:
		return "directory_created"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is delivered on the channel returned by Events.
type Event struct {
	Kind EventKind
	Path string
	Err  error
}

// PathFilter returns false for paths that must not be watched or reported.
type PathFilter func(path string) bool

// Options configure a DirectoryWatcher.
type Options struct {
	// Ignore holds doublestar globs; see IgnoreFilter.
	Ignore             []string
	StabilityThreshold time.Duration
	PollInterval       time.Duration
	// IgnoreInitial suppresses events for directories present at Start.
	IgnoreInitial bool
}

// DirectoryWatcher emits EventDirectoryCreated for new, settled directories.
type DirectoryWatcher struct {
	root       string
	opts       Options
	watcher    *fsnotify.Watcher
	stabilizer *Stabilizer
	filters    []PathFilter
	events     chan Event
	done       chan struct{}
	wg         sync.WaitGroup
	mutex      sync.RWMutex
	closeOnce  sync.Once
}

// New creates a watcher for root. Nothing is watched until Start.
func New(root string, opts Options) (*DirectoryWatcher, error) {
	for _, p := range opts.Ignore {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid ignore pattern %q", p)
		}
	}
	if opts.StabilityThreshold <= 0 {
		opts.StabilityThreshold = DefaultStabilityThreshold
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, rerrors.NewWatchError(rerrors.CodeWatcherFailed, "creating fsnotify watcher", err)
	}

	w := &DirectoryWatcher{
		root:       filepath.Clean(root),
		opts:       opts,
		watcher:    fw,
		stabilizer: NewStabilizer(opts.StabilityThreshold),
		events:     make(chan Event, 100),
		done:       make(chan struct{}),
	}
	w.AddFilter(IgnoreFilter(w.root, opts.Ignore))

	return w, nil
}

// AddFilter adds a path filter
func (w *DirectoryWatcher) AddFilter(filter PathFilter) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.filters = append(w.filters, filter)
}

// Events returns the single event channel. It is closed by Close.
func (w *DirectoryWatcher) Events() <-chan Event {
	return w.events
}

// Start watches the tree under root and, unless IgnoreInitial is set,
// queues every existing directory including root itself.
func (w *DirectoryWatcher) Start(ctx context.Context) error {
	initial, err := w.AddRecursive(w.root)
	if err != nil {
		return rerrors.NewWatchError(rerrors.CodeWatcherFailed, "watching root", err).WithPath(w.root)
	}

	if !w.opts.IgnoreInitial {
		for _, dir := range initial {
			// Zero time makes pre-existing directories ready on the first poll.
			w.stabilizer.Add(dir, time.Time{})
		}
	}

	w.wg.Add(1)
	go w.watchLoop(ctx)

	return nil
}

// Close stops watching and closes the event channel once the loop exits.
func (w *DirectoryWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
		close(w.events)
	})
	return err
}

// AddRecursive adds dir and every non-ignored subdirectory to the watch and
// returns the directories added in walk order.
func (w *DirectoryWatcher) AddRecursive(dir string) ([]string, error) {
	var added []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			// Entries can vanish mid-walk, for example when renamed.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && !w.allowed(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		added = append(added, path)
		return nil
	})

	return added, err
}

func (w *DirectoryWatcher) allowed(path string) bool {
	w.mutex.RLock()
	filters := w.filters
	w.mutex.RUnlock()

	for _, filter := range filters {
		if !filter(path) {
			return false
		}
	}
	return true
}

func (w *DirectoryWatcher) watchLoop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFsnotifyEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.emit(ctx, Event{Kind: EventError, Err: err})
		case now := <-ticker.C:
			for _, dir := range w.stabilizer.Ready(now) {
				if !w.emit(ctx, Event{Kind: EventDirectoryCreated, Path: dir}) {
					return
				}
			}
		}
	}
}

func (w *DirectoryWatcher) handleFsnotifyEvent(ctx context.Context, event fsnotify.Event) {
	if !w.allowed(event.Name) {
		return
	}

	now := time.Now()

	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Lstat(event.Name)
		if err == nil && info.IsDir() {
			added, err := w.AddRecursive(event.Name)
			if err != nil {
				w.emit(ctx, Event{Kind: EventError, Path: event.Name, Err: err})
			}
			for _, dir := range added {
				w.stabilizer.Add(dir, now)
			}
		}
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.stabilizer.Forget(event.Name)
	}

	w.stabilizer.Touch(event.Name, now)
}

// emit delivers e unless the watcher is shutting down.
func (w *DirectoryWatcher) emit(ctx context.Context, e Event) bool {
	select {
	case w.events <- e:
		return true
	case <-ctx.Done():
		return false
	case <-w.done:
		return false
	}
}

// IgnoreFilter rejects paths matching any of the globs. Relative globs are
// tested against the slash path relative to root, absolute globs against the
// absolute slash path.
func IgnoreFilter(root string, patterns []string) PathFilter {
	return func(path string) bool {
		abs := filepath.ToSlash(path)
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		for _, p := range patterns {
			candidate := rel
			if strings.HasPrefix(p, "/") {
				candidate = abs
			}
			if matchGlob(p, candidate) {
				return false
			}
		}
		return true
	}
}

// matchGlob also tries candidate with a trailing slash so "dir/**" globs
// exclude the directory itself, not only its contents.
func matchGlob(pattern, candidate string) bool {
	if matched, _ := doublestar.Match(pattern, candidate); matched {
		return true
	}
	matched, _ := doublestar.Match(pattern, candidate+"/")
	return matched
}
