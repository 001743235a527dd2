package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/routegen/internal/fsys"
	"github.com/conneroisu/routegen/internal/logging"
	"github.com/conneroisu/routegen/internal/resolver"
	"github.com/conneroisu/routegen/internal/templates"
	"github.com/conneroisu/routegen/internal/tracker"
)

// countingFS records calls made through the processor and resolver.
type countingFS struct {
	*fsys.FS
	stats   int
	writes  int
	renames int
	failOn  string
}

func (c *countingFS) IsDirectory(path string) bool {
	c.stats++
	return c.FS.IsDirectory(path)
}

func (c *countingFS) CreateFile(path, content string) (fsys.Outcome, error) {
	c.writes++
	if c.failOn != "" && strings.HasSuffix(path, c.failOn) {
		return fsys.Failed, errors.New("disk full")
	}
	return c.FS.CreateFile(path, content)
}

func (c *countingFS) Rename(oldPath, newPath string) (fsys.Outcome, error) {
	c.renames++
	return c.FS.Rename(oldPath, newPath)
}

func newTestProcessor(t *testing.T, root string, base *fsys.FS) (*Processor, *countingFS, *tracker.ProcessedSet) {
	t.Helper()
	fs := &countingFS{FS: base}
	set := tracker.New()
	res := resolver.New(templates.NewCatalog(), fs, logging.NewNop())
	return New(root, set, res, fs, logging.NewNop()), fs, set
}

func TestProcessPageDirectory(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "profile.page")
	require.NoError(t, os.Mkdir(dir, 0o755))
	p, _, set := newTestProcessor(t, root, fsys.NewOS(root))

	result := p.Process(context.Background(), dir)

	target := filepath.Join(root, "profile")
	require.True(t, result.Success)
	assert.Equal(t, target, result.ProcessedPath)
	assert.Equal(t, []string{filepath.Join(target, "page.tsx")}, result.Created)
	assert.NoDirExists(t, dir)

	data, err := os.ReadFile(filepath.Join(target, "page.tsx"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "export default function ProfilePage()")
	assert.Contains(t, string(data), "// /profile")
	assert.NotContains(t, string(data), "{{")

	assert.True(t, set.Has(dir))
	assert.True(t, set.Has(target), "renamed path is marked so its own create event is ignored")
}

func TestProcessDefaultDirectory(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "blog", "post.default")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	p, _, _ := newTestProcessor(t, root, fsys.NewOS(root))

	result := p.Process(context.Background(), dir)

	target := filepath.Join(root, "blog", "post")
	require.True(t, result.Success)
	assert.Len(t, result.Created, 4)
	for _, name := range []string{"page.tsx", "layout.tsx", "loading.tsx", "error.tsx"} {
		assert.FileExists(t, filepath.Join(target, name))
	}

	data, err := os.ReadFile(filepath.Join(target, "layout.tsx"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "// /blog/post")
	assert.Contains(t, string(data), "PostLayoutProps")
}

func TestProcessIsIdempotent(t *testing.T) {
	p, fs, _ := newTestProcessor(t, "/app", fsys.New(memfs.New(), "/app"))
	require.NoError(t, fs.MkdirAll("/app/profile.page"))

	first := p.Process(context.Background(), "/app/profile.page")
	require.True(t, first.Success)
	writes, renames := fs.writes, fs.renames

	second := p.Process(context.Background(), "/app/profile.page")
	assert.False(t, second.Success)
	assert.Equal(t, ErrAlreadyProcessedOrInvalid, second.Error)
	assert.Equal(t, writes, fs.writes)
	assert.Equal(t, renames, fs.renames)

	third := p.Process(context.Background(), "/app/profile")
	assert.False(t, third.Success, "the renamed directory is not generated twice")
	assert.Equal(t, writes, fs.writes)
}

func TestProcessRejectsMissingOrFilePaths(t *testing.T) {
	p, fs, set := newTestProcessor(t, "/app", fsys.New(memfs.New(), "/app"))
	_, err := fs.FS.CreateFile("/app/notes.page", "x")
	require.NoError(t, err)

	for _, path := range []string{"/app/missing.page", "/app/notes.page"} {
		result := p.Process(context.Background(), path)
		assert.False(t, result.Success, path)
		assert.Equal(t, ErrAlreadyProcessedOrInvalid, result.Error)
		assert.False(t, set.Has(path))
	}
	assert.Zero(t, fs.renames)
}

func TestProcessRegularDirectory(t *testing.T) {
	p, fs, set := newTestProcessor(t, "/app", fsys.New(memfs.New(), "/app"))
	require.NoError(t, fs.MkdirAll("/app/components"))

	result := p.Process(context.Background(), "/app/components")

	assert.True(t, result.Success)
	assert.Equal(t, "/app/components", result.ProcessedPath)
	assert.Empty(t, result.Created)
	assert.Zero(t, fs.writes)
	assert.Zero(t, fs.renames)
	assert.True(t, set.Has("/app/components"))
}

func TestProcessReservedName(t *testing.T) {
	p, fs, _ := newTestProcessor(t, "/app", fsys.New(memfs.New(), "/app"))
	require.NoError(t, fs.MkdirAll("/app/page.page"))

	result := p.Process(context.Background(), "/app/page.page")

	assert.True(t, result.Success)
	assert.Equal(t, "/app/page.page", result.ProcessedPath)
	assert.Zero(t, fs.writes)
	assert.Zero(t, fs.renames)
	assert.True(t, fs.IsDirectory("/app/page.page"))
}

func TestProcessUnknownTypeRenamesOnly(t *testing.T) {
	p, fs, _ := newTestProcessor(t, "/app", fsys.New(memfs.New(), "/app"))
	require.NoError(t, fs.MkdirAll("/app/profile.bogus"))

	result := p.Process(context.Background(), "/app/profile.bogus")

	assert.True(t, result.Success)
	assert.Equal(t, "/app/profile", result.ProcessedPath)
	assert.Zero(t, fs.writes)
	assert.True(t, fs.IsDirectory("/app/profile"))
}

func TestProcessRenameTargetExists(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "profile.page")
	existing := filepath.Join(root, "profile")
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, os.Mkdir(existing, 0o755))
	p, _, _ := newTestProcessor(t, root, fsys.NewOS(root))

	result := p.Process(context.Background(), dir)

	require.True(t, result.Success)
	assert.Equal(t, dir, result.ProcessedPath)
	assert.FileExists(t, filepath.Join(dir, "page.tsx"))
	assert.NoFileExists(t, filepath.Join(existing, "page.tsx"))

	data, err := os.ReadFile(filepath.Join(dir, "page.tsx"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Profile.pagePage", "variables follow the directory that kept its name")
}

func TestProcessExistingFileIsSkipped(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "shop.default")
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "shop"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.tsx"), []byte("mine"), 0o644))
	p, _, _ := newTestProcessor(t, root, fsys.NewOS(root))

	result := p.Process(context.Background(), dir)

	assert.True(t, result.Success)
	assert.Equal(t, []string{filepath.Join(dir, "page.tsx")}, result.Skipped)
	assert.Len(t, result.Created, 3)

	data, err := os.ReadFile(filepath.Join(dir, "page.tsx"))
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
}

func TestProcessWriteFailureContinues(t *testing.T) {
	p, fs, _ := newTestProcessor(t, "/app", fsys.New(memfs.New(), "/app"))
	fs.failOn = "layout.tsx"
	require.NoError(t, fs.MkdirAll("/app/shop.default"))

	result := p.Process(context.Background(), "/app/shop.default")

	assert.False(t, result.Success)
	assert.Empty(t, result.Error)
	assert.Equal(t, "/app/shop", result.ProcessedPath)
	assert.Len(t, result.Created, 3, "remaining files are still written")
	assert.EqualError(t, result.Err, "disk full")
	assert.Equal(t, 4, fs.writes)
}

func TestSeparateSessionsDoNotShareState(t *testing.T) {
	base := fsys.New(memfs.New(), "/app")
	require.NoError(t, base.MkdirAll("/app/plain"))

	first, _, _ := newTestProcessor(t, "/app", base)
	second, _, _ := newTestProcessor(t, "/app", base)

	assert.True(t, first.Process(context.Background(), "/app/plain").Success)
	assert.True(t, second.Process(context.Background(), "/app/plain").Success)
}
