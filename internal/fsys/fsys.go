// Package fsys is the filesystem collaborator used by the resolver and the
// directory processor. Every mutating call reports an explicit Outcome next
// to its error so callers branch on "skipped" rather than on error text.
//
// Paths are absolute OS paths under the root given to New; they are mapped
// onto a billy.Filesystem rooted at that directory.
package fsys

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	rerrors "github.com/conneroisu/routegen/internal/errors"
)

// Outcome describes what a mutating call did.
type Outcome int

const (
	// Created means the entry was written or moved.
	Created Outcome = iota
	// Skipped means nothing was done because the destination already exists
	// or the operation was a no-op.
	Skipped
	// Failed means the operation was attempted and returned an error.
	Failed
)

// String returns the string representation of the Outcome
func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// FS maps absolute paths under root onto a billy filesystem.
type FS struct {
	fs   billy.Filesystem
	root string
}

// New wraps fs, whose root corresponds to the absolute directory root.
func New(fs billy.Filesystem, root string) *FS {
	return &FS{fs: fs, root: filepath.Clean(root)}
}

// NewOS returns an FS backed by the real filesystem at root.
func NewOS(root string) *FS {
	return New(osfs.New(root), root)
}

// Root returns the absolute root directory.
func (f *FS) Root() string {
	return f.root
}

// Exists reports whether any entry exists at path.
func (f *FS) Exists(path string) bool {
	rel, err := f.rel(path)
	if err != nil {
		return false
	}
	_, err = f.fs.Lstat(rel)
	return err == nil
}

// IsDirectory reports whether path is an existing directory.
func (f *FS) IsDirectory(path string) bool {
	rel, err := f.rel(path)
	if err != nil {
		return false
	}
	info, err := f.fs.Stat(rel)
	return err == nil && info.IsDir()
}

// MkdirAll creates path and any missing parents.
func (f *FS) MkdirAll(path string) error {
	rel, err := f.rel(path)
	if err != nil {
		return err
	}
	if err := f.fs.MkdirAll(rel, dirPerm); err != nil {
		return rerrors.NewIOError(rerrors.CodeMkdirFailed, "creating directory", err).WithPath(path)
	}
	return nil
}

// CreateFile writes content to a new file at path, creating parents as
// needed. An existing file is never overwritten; it yields Skipped.
func (f *FS) CreateFile(path, content string) (Outcome, error) {
	rel, err := f.rel(path)
	if err != nil {
		return Failed, err
	}

	if err := f.MkdirAll(filepath.Dir(path)); err != nil {
		return Failed, err
	}

	file, err := f.fs.OpenFile(rel, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if os.IsExist(err) {
			return Skipped, nil
		}
		return Failed, rerrors.NewIOError(rerrors.CodeWriteFailed, "creating file", err).WithPath(path)
	}

	if _, err := file.Write([]byte(content)); err != nil {
		_ = file.Close()
		return Failed, rerrors.NewIOError(rerrors.CodeWriteFailed, "writing file", err).WithPath(path)
	}
	if err := file.Close(); err != nil {
		return Failed, rerrors.NewIOError(rerrors.CodeWriteFailed, "closing file", err).WithPath(path)
	}

	return Created, nil
}

// Rename moves oldPath to newPath. It yields Skipped without touching the
// filesystem when the paths are equal or newPath already exists.
func (f *FS) Rename(oldPath, newPath string) (Outcome, error) {
	if filepath.Clean(oldPath) == filepath.Clean(newPath) || f.Exists(newPath) {
		return Skipped, nil
	}

	from, err := f.rel(oldPath)
	if err != nil {
		return Failed, err
	}
	to, err := f.rel(newPath)
	if err != nil {
		return Failed, err
	}

	if err := f.fs.Rename(from, to); err != nil {
		return Failed, rerrors.NewIOError(rerrors.CodeRenameFailed, "renaming directory", err).
			WithOp("rename " + oldPath).WithPath(newPath)
	}
	return Created, nil
}

func (f *FS) rel(path string) (string, error) {
	rel, err := filepath.Rel(f.root, filepath.Clean(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", rerrors.NewIOError(rerrors.CodeOutsideRoot, "path is outside the watch root", err).WithPath(path)
	}
	return rel, nil
}
