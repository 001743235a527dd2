// Package processor populates newly created route directories. It is the
// only place that decides, per notification, whether a directory is handled
// and it records every handled path so repeated notifications are no-ops.
package processor

import (
	"context"
	"path/filepath"
	"strings"

	rerrors "github.com/conneroisu/routegen/internal/errors"
	"github.com/conneroisu/routegen/internal/fsys"
	"github.com/conneroisu/routegen/internal/logging"
	"github.com/conneroisu/routegen/internal/pattern"
	"github.com/conneroisu/routegen/internal/resolver"
	"github.com/conneroisu/routegen/internal/templates"
	"github.com/conneroisu/routegen/internal/tracker"
)

// ErrAlreadyProcessedOrInvalid is reported for paths that were handled before
// or are not existing directories.
const ErrAlreadyProcessedOrInvalid = "already processed or invalid"

// Filesystem is what the processor needs from the filesystem collaborator.
type Filesystem interface {
	IsDirectory(path string) bool
	CreateFile(path, content string) (fsys.Outcome, error)
}

// Resolver resolves a directory into templates and an optional new path.
type Resolver interface {
	Resolve(ctx context.Context, dirName, dirPath string) resolver.Resolution
}

// Result is returned for every Process call.
type Result struct {
	Success bool
	// Error is set only when the directory was rejected outright.
	Error string
	// ProcessedPath is the directory files were written into.
	ProcessedPath string
	// Created and Skipped list file paths by outcome.
	Created []string
	Skipped []string
	// Err joins every file write failure.
	Err error
}

// Processor handles one directory notification at a time.
type Processor struct {
	root      string
	processed *tracker.ProcessedSet
	resolver  Resolver
	fs        Filesystem
	logger    logging.Logger
}

// New creates a Processor for directories under root. processed must be
// owned by the caller's session.
func New(root string, processed *tracker.ProcessedSet, res Resolver, fs Filesystem, logger logging.Logger) *Processor {
	return &Processor{
		root:      filepath.Clean(root),
		processed: processed,
		resolver:  res,
		fs:        fs,
		logger:    logger.WithComponent("processor"),
	}
}

// Process handles a directory-created notification for dirPath.
func (p *Processor) Process(ctx context.Context, dirPath string) Result {
	p.logger.Debug(ctx, "Directory detected", "dir", dirPath)

	if p.processed.Has(dirPath) || !p.fs.IsDirectory(dirPath) {
		p.logger.Debug(ctx, "Skipping already processed or invalid directory", "dir", dirPath)
		return Result{Success: false, Error: ErrAlreadyProcessedOrInvalid}
	}
	// Marked before any I/O so a re-delivered event is rejected while this
	// call is still running.
	if !p.processed.CheckAndMark(dirPath) {
		return Result{Success: false, Error: ErrAlreadyProcessedOrInvalid}
	}

	dirName := filepath.Base(dirPath)
	if !pattern.HasPattern(dirName) {
		p.logger.Debug(ctx, "Regular directory, leaving as is", "dir", dirPath)
		return Result{Success: true, ProcessedPath: dirPath}
	}

	resolution := p.resolver.Resolve(ctx, dirName, dirPath)

	target := dirPath
	if resolution.Renamed() {
		target = resolution.NewDirectoryPath
		p.processed.MarkProcessed(target)
	}

	p.logger.Info(ctx, "Pattern detected",
		"dir", dirName,
		"type", resolution.Pattern.FileType,
		"templates", len(resolution.Files),
		"target", target,
	)

	return p.writeFiles(ctx, target, resolution.Files)
}

func (p *Processor) writeFiles(ctx context.Context, target string, files []resolver.File) Result {
	vars := templates.NewVariables(filepath.Base(target), p.relativePath(target)).Map()
	collector := rerrors.NewErrorCollector()
	result := Result{ProcessedPath: target}

	for _, f := range files {
		path := filepath.Join(target, f.FileName)
		outcome, err := p.fs.CreateFile(path, templates.Render(f.Template, vars))

		switch {
		case err != nil:
			p.logger.Error(ctx, err, "Failed to create file", "file", path)
			collector.Add(err)
		case outcome == fsys.Skipped:
			p.logger.Info(ctx, "File already exists, skipping", "file", path)
			result.Skipped = append(result.Skipped, path)
		default:
			p.logger.Info(ctx, "File created", "file", path)
			result.Created = append(result.Created, path)
		}
	}

	result.Success = !collector.HasErrors()
	result.Err = collector.Err()
	return result
}

// relativePath returns target relative to the watch root with a leading "/".
func (p *Processor) relativePath(target string) string {
	rel, err := filepath.Rel(p.root, target)
	if err != nil || strings.HasPrefix(rel, "..") {
		return templates.NormalizePath(target)
	}
	if rel == "." {
		return "/"
	}
	return "/" + templates.NormalizePath(filepath.ToSlash(rel))
}
