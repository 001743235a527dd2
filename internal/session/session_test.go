package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "github.com/conneroisu/routegen/internal/errors"
	"github.com/conneroisu/routegen/internal/fsys"
	"github.com/conneroisu/routegen/internal/logging"
	"github.com/conneroisu/routegen/internal/processor"
	"github.com/conneroisu/routegen/internal/resolver"
	"github.com/conneroisu/routegen/internal/templates"
	"github.com/conneroisu/routegen/internal/tracker"
	"github.com/conneroisu/routegen/internal/watcher"
)

type fakeWatcher struct {
	events  chan watcher.Event
	started bool
	closed  int
	mutex   sync.Mutex
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{events: make(chan watcher.Event, 10)}
}

func (f *fakeWatcher) Start(context.Context) error {
	f.started = true
	return nil
}

func (f *fakeWatcher) Events() <-chan watcher.Event { return f.events }

func (f *fakeWatcher) Close() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.closed++
	return nil
}

type recordingProcessor struct {
	paths  []string
	result processor.Result
}

func (r *recordingProcessor) Process(_ context.Context, path string) processor.Result {
	r.paths = append(r.paths, path)
	return r.result
}

func TestStartMissingRoot(t *testing.T) {
	w := newFakeWatcher()
	s := New(filepath.Join(t.TempDir(), "missing"), w, &recordingProcessor{}, logging.NewNop())

	err := s.Start(context.Background())

	assert.ErrorIs(t, err, rerrors.ErrWatchRootMissing)
	assert.False(t, w.started)
}

func TestStartRootIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	s := New(file, newFakeWatcher(), &recordingProcessor{}, logging.NewNop())

	assert.ErrorIs(t, s.Start(context.Background()), rerrors.ErrWatchRootMissing)
}

func TestRunDelegatesAndFiltersRoot(t *testing.T) {
	root := t.TempDir()
	w := newFakeWatcher()
	p := &recordingProcessor{result: processor.Result{Success: true}}
	s := New(root, w, p, logging.NewNop())
	require.NoError(t, s.Start(context.Background()))

	w.events <- watcher.Event{Kind: watcher.EventDirectoryCreated, Path: root}
	w.events <- watcher.Event{Kind: watcher.EventDirectoryCreated, Path: filepath.Join(root, "a.page")}
	w.events <- watcher.Event{Kind: watcher.EventError, Err: errors.New("transient")}
	w.events <- watcher.Event{Kind: watcher.EventDirectoryCreated, Path: filepath.Join(root, "b")}
	close(w.events)

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, []string{filepath.Join(root, "a.page"), filepath.Join(root, "b")}, p.paths)
	assert.Equal(t, Stats{Notifications: 2, Processed: 2, WatchErrors: 1}, s.Stats())
	assert.Equal(t, 1, w.closed)
}

func TestRunCountsRejectedAndFailed(t *testing.T) {
	root := t.TempDir()
	w := newFakeWatcher()
	p := &recordingProcessor{result: processor.Result{Error: processor.ErrAlreadyProcessedOrInvalid}}
	s := New(root, w, p, logging.NewNop())

	w.events <- watcher.Event{Kind: watcher.EventDirectoryCreated, Path: filepath.Join(root, "x")}
	close(w.events)
	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 1, s.Stats().Rejected)

	w2 := newFakeWatcher()
	p2 := &recordingProcessor{result: processor.Result{Success: false, Err: errors.New("disk full")}}
	s2 := New(root, w2, p2, logging.NewNop())
	w2.events <- watcher.Event{Kind: watcher.EventDirectoryCreated, Path: filepath.Join(root, "y.page")}
	close(w2.events)
	require.NoError(t, s2.Run(context.Background()))
	assert.Equal(t, 1, s2.Stats().Failed)
}

func TestRunStopsOnCancel(t *testing.T) {
	w := newFakeWatcher()
	s := New(t.TempDir(), w, &recordingProcessor{}, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("session did not stop")
	}

	assert.NoError(t, s.Stop())
	assert.Equal(t, 1, w.closed, "stop closes the watcher once")
}

func TestSessionsHaveDistinctIDs(t *testing.T) {
	a := New(t.TempDir(), newFakeWatcher(), &recordingProcessor{}, logging.NewNop())
	b := New(t.TempDir(), newFakeWatcher(), &recordingProcessor{}, logging.NewNop())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestEndToEnd(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "existing.layout"), 0o755))

	fs := fsys.NewOS(root)
	logger := logging.NewNop()
	res := resolver.New(templates.NewCatalog(), fs, logger)
	proc := processor.New(root, tracker.New(), res, fs, logger)
	w, err := watcher.New(root, watcher.Options{
		Ignore:             []string{"**/node_modules/**"},
		StabilityThreshold: 100 * time.Millisecond,
		PollInterval:       10 * time.Millisecond,
	})
	require.NoError(t, err)

	s := New(root, w, proc, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.Mkdir(filepath.Join(root, "profile.default"), 0o755))

	assert.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(root, "profile", "error.tsx"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	assert.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(root, "existing", "layout.tsx"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop")
	}

	entries, err := os.ReadDir(filepath.Join(root, "profile"))
	require.NoError(t, err)
	assert.Len(t, entries, 4)
	assert.NoDirExists(t, filepath.Join(root, "profile.default"))
}
