// Package resolver turns a pattern directory into the set of template files
// to write and, when possible, strips the pattern suffix from the directory
// name.
package resolver

import (
	"context"
	"path/filepath"

	"github.com/conneroisu/routegen/internal/fsys"
	"github.com/conneroisu/routegen/internal/logging"
	"github.com/conneroisu/routegen/internal/pattern"
	"github.com/conneroisu/routegen/internal/templates"
)

// Filesystem is the subset of fsys.FS the resolver needs.
type Filesystem interface {
	Exists(path string) bool
	Rename(oldPath, newPath string) (fsys.Outcome, error)
}

// Catalog supplies roles and raw template text.
type Catalog interface {
	RolesForType(fileType string) []templates.Role
	TemplateFor(role templates.Role) string
}

// File is one unrendered template destined for a directory.
type File struct {
	Role     templates.Role
	FileName string
	Template string
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	Pattern pattern.Result
	// Files are in canonical role order. Empty for non-patterns, reserved
	// names and unrecognised types.
	Files []File
	// NewDirectoryPath is set only when the directory was renamed.
	NewDirectoryPath string
	// RenameErr is the error from a failed rename attempt, if any.
	RenameErr error
}

// Renamed reports whether the directory was moved.
func (r Resolution) Renamed() bool {
	return r.NewDirectoryPath != ""
}

// Templates returns the files keyed by file name.
func (r Resolution) Templates() map[string]string {
	m := make(map[string]string, len(r.Files))
	for _, f := range r.Files {
		m[f.FileName] = f.Template
	}
	return m
}

// Resolver combines the pattern parser with a template catalog.
type Resolver struct {
	catalog Catalog
	fs      Filesystem
	logger  logging.Logger
}

// New creates a Resolver.
func New(catalog Catalog, fs Filesystem, logger logging.Logger) *Resolver {
	return &Resolver{
		catalog: catalog,
		fs:      fs,
		logger:  logger.WithComponent("resolver"),
	}
}

// Resolve parses dirName (the base name of dirPath), gathers the requested
// templates and renames dirPath to strip the pattern suffix unless the
// target already exists. Templates are returned unrendered.
func (r *Resolver) Resolve(ctx context.Context, dirName, dirPath string) Resolution {
	parsed := pattern.Parse(dirName)
	res := Resolution{Pattern: parsed}

	if !parsed.Valid {
		if parsed.BaseName != "" {
			r.logger.Info(ctx, "Unsupported pattern, expected name.type or name:type with a non-reserved name",
				"dir", dirName, "base", parsed.BaseName)
		}
		return res
	}

	roles := r.catalog.RolesForType(parsed.FileType)
	if len(roles) == 0 {
		r.logger.Info(ctx, "Unrecognised file type, no templates requested",
			"dir", dirName, "type", parsed.FileType)
	}
	for _, role := range roles {
		res.Files = append(res.Files, File{
			Role:     role,
			FileName: role.FileName(),
			Template: r.catalog.TemplateFor(role),
		})
	}

	res.NewDirectoryPath, res.RenameErr = r.renameIfNeeded(ctx, dirPath, parsed.BaseName)

	return res
}

func (r *Resolver) renameIfNeeded(ctx context.Context, dirPath, baseName string) (string, error) {
	candidate := filepath.Join(filepath.Dir(dirPath), baseName)

	if candidate == filepath.Clean(dirPath) {
		return "", nil
	}
	if r.fs.Exists(candidate) {
		r.logger.Info(ctx, "Rename target exists, keeping pattern name", "dir", dirPath, "target", candidate)
		return "", nil
	}

	outcome, err := r.fs.Rename(dirPath, candidate)
	switch {
	case err != nil:
		r.logger.Error(ctx, err, "Failed to rename directory", "dir", dirPath, "target", candidate)
		return "", err
	case outcome == fsys.Created:
		r.logger.Info(ctx, "Directory renamed", "from", dirPath, "to", candidate)
		return candidate, nil
	default:
		return "", nil
	}
}
