package services

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/conneroisu/routegen/internal/config"
	rerrors "github.com/conneroisu/routegen/internal/errors"
	"github.com/conneroisu/routegen/internal/lock"
	"github.com/conneroisu/routegen/internal/templates"
)

// InitService prepares a project for routegen.
type InitService struct{}

// NewInitService creates a new initialization service
func NewInitService() *InitService {
	return &InitService{}
}

// InitOptions contains options for project initialization
type InitOptions struct {
	ConfigPath string
	// WatchDir overrides the default watch directory in a new config.
	WatchDir string
	// Force overwrites an existing configuration file.
	Force bool
	// CreateWatchDir creates the watch directory if missing.
	CreateWatchDir bool
	// TemplateDir, when set, receives editable copies of the builtin
	// templates and is recorded in the config.
	TemplateDir string
}

// InitResult reports what Init wrote.
type InitResult struct {
	ConfigPath       string
	ConfigCreated    bool
	WatchDirCreated  bool
	TemplatesWritten []string
}

// Init writes the configuration file and any requested directories. An
// existing configuration file is kept unless Force is set.
func (s *InitService) Init(opts InitOptions) (*InitResult, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultConfigFile
	}
	result := &InitResult{ConfigPath: path}

	cfg := config.Default()
	if opts.WatchDir != "" {
		cfg.WatchDir = opts.WatchDir
	}
	cfg.TemplateDir = opts.TemplateDir

	exists, err := fileExists(path)
	if err != nil {
		return nil, err
	}
	if !exists || opts.Force {
		if err := config.Save(path, cfg); err != nil {
			return nil, err
		}
		result.ConfigCreated = true
	}

	if opts.CreateWatchDir {
		created, err := mkdirIfMissing(cfg.WatchDir)
		if err != nil {
			return nil, err
		}
		result.WatchDirCreated = created
	}

	if opts.TemplateDir != "" {
		written, err := s.ExportTemplates(opts.TemplateDir, opts.Force)
		if err != nil {
			return nil, err
		}
		result.TemplatesWritten = written
	}

	return result, nil
}

// ExportTemplates writes the builtin template for each role into dir as
// "<role>.tsx". Existing files are kept unless overwrite is set.
func (s *InitService) ExportTemplates(dir string, overwrite bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, rerrors.NewIOError(rerrors.CodeMkdirFailed, "creating template directory", err).WithPath(dir)
	}

	catalog := templates.NewCatalog()
	var written []string
	for _, role := range templates.AllRoles {
		path := filepath.Join(dir, role.FileName())
		exists, err := fileExists(path)
		if err != nil {
			return written, err
		}
		if exists && !overwrite {
			continue
		}
		if err := lock.AtomicWrite(path, []byte(catalog.TemplateFor(role)), 0o644); err != nil {
			return written, rerrors.NewIOError(rerrors.CodeWriteFailed, "writing template", err).WithPath(path)
		}
		written = append(written, path)
	}
	return written, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, rerrors.NewIOError(rerrors.CodeStatFailed, "checking file", err).WithPath(path)
}

func mkdirIfMissing(dir string) (bool, error) {
	exists, err := fileExists(dir)
	if err != nil || exists {
		return false, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, rerrors.NewIOError(rerrors.CodeMkdirFailed, "creating watch directory", err).WithPath(dir)
	}
	return true, nil
}
