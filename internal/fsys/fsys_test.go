package fsys

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "github.com/conneroisu/routegen/internal/errors"
)

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "created", Created.String())
	assert.Equal(t, "skipped", Skipped.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}

func TestCreateFileOS(t *testing.T) {
	root := t.TempDir()
	f := NewOS(root)

	path := filepath.Join(root, "blog", "nested", "page.tsx")
	outcome, err := f.CreateFile(path, "hello")
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	outcome, err = f.CreateFile(path, "overwritten?")
	require.NoError(t, err)
	assert.Equal(t, Skipped, outcome)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data), "existing files are never overwritten")
}

func TestExistsAndIsDirectory(t *testing.T) {
	root := t.TempDir()
	f := NewOS(root)
	require.NoError(t, os.Mkdir(filepath.Join(root, "dir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "file"), nil, 0o644))

	assert.True(t, f.Exists(filepath.Join(root, "dir")))
	assert.True(t, f.IsDirectory(filepath.Join(root, "dir")))
	assert.True(t, f.Exists(filepath.Join(root, "file")))
	assert.False(t, f.IsDirectory(filepath.Join(root, "file")))
	assert.False(t, f.Exists(filepath.Join(root, "missing")))
	assert.False(t, f.IsDirectory(filepath.Join(root, "missing")))
}

func TestRenameOS(t *testing.T) {
	root := t.TempDir()
	f := NewOS(root)
	src := filepath.Join(root, "profile.page")
	dst := filepath.Join(root, "profile")
	require.NoError(t, os.Mkdir(src, 0o755))

	outcome, err := f.Rename(src, dst)
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)
	assert.DirExists(t, dst)
	assert.NoDirExists(t, src)
}

func TestRenameSkipsExistingDestination(t *testing.T) {
	root := t.TempDir()
	f := NewOS(root)
	src := filepath.Join(root, "profile.page")
	dst := filepath.Join(root, "profile")
	require.NoError(t, os.Mkdir(src, 0o755))
	require.NoError(t, os.Mkdir(dst, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "keep.txt"), []byte("x"), 0o644))

	outcome, err := f.Rename(src, dst)
	require.NoError(t, err)
	assert.Equal(t, Skipped, outcome)
	assert.DirExists(t, src)
	assert.FileExists(t, filepath.Join(dst, "keep.txt"))
}

func TestRenameSamePath(t *testing.T) {
	root := t.TempDir()
	f := NewOS(root)
	dir := filepath.Join(root, "a")
	require.NoError(t, os.Mkdir(dir, 0o755))

	outcome, err := f.Rename(dir, dir+string(filepath.Separator))
	require.NoError(t, err)
	assert.Equal(t, Skipped, outcome)
}

func TestRenameMissingSource(t *testing.T) {
	root := t.TempDir()
	f := NewOS(root)

	outcome, err := f.Rename(filepath.Join(root, "gone.page"), filepath.Join(root, "gone"))
	assert.Equal(t, Failed, outcome)
	assert.True(t, rerrors.IsIOError(err))
}

func TestPathsOutsideRoot(t *testing.T) {
	root := t.TempDir()
	f := NewOS(root)

	outcome, err := f.CreateFile(filepath.Join(filepath.Dir(root), "escape.tsx"), "x")
	assert.Equal(t, Failed, outcome)
	require.Error(t, err)
	assert.False(t, f.Exists(filepath.Join(filepath.Dir(root), "escape.tsx")))
}

func TestMemoryFilesystem(t *testing.T) {
	f := New(memfs.New(), "/app")

	require.NoError(t, f.MkdirAll("/app/profile.page"))
	assert.True(t, f.IsDirectory("/app/profile.page"))

	outcome, err := f.Rename("/app/profile.page", "/app/profile")
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)
	assert.True(t, f.IsDirectory("/app/profile"))
	assert.False(t, f.Exists("/app/profile.page"))

	outcome, err = f.CreateFile("/app/profile/page.tsx", "content")
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)

	outcome, err = f.CreateFile("/app/profile/page.tsx", "content")
	require.NoError(t, err)
	assert.Equal(t, Skipped, outcome)
}
