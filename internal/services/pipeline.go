// Package services holds the business logic behind each routegen command.
// Commands parse flags and print; services build the processing pipeline
// from configuration and run it.
package services

import (
	"fmt"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/conneroisu/routegen/internal/config"
	"github.com/conneroisu/routegen/internal/fsys"
	"github.com/conneroisu/routegen/internal/logging"
	"github.com/conneroisu/routegen/internal/processor"
	"github.com/conneroisu/routegen/internal/resolver"
	"github.com/conneroisu/routegen/internal/templates"
	"github.com/conneroisu/routegen/internal/tracker"
)

// Pipeline is the resolver and processor chain for one watch root.
type Pipeline struct {
	Root      string
	FS        *fsys.FS
	Catalog   *templates.Catalog
	Processed *tracker.ProcessedSet
	Processor *processor.Processor
}

// NewPipeline builds a pipeline for the configured watch directory. Template
// overrides are read from cfg.TemplateDir when set.
func NewPipeline(cfg *config.Config, logger logging.Logger) (*Pipeline, error) {
	root, err := cfg.AbsoluteWatchDir()
	if err != nil {
		return nil, err
	}

	catalog, err := LoadCatalog(cfg.TemplateDir)
	if err != nil {
		return nil, err
	}

	fs := fsys.NewOS(root)
	processed := tracker.New()
	res := resolver.New(catalog, fs, logger)

	return &Pipeline{
		Root:      root,
		FS:        fs,
		Catalog:   catalog,
		Processed: processed,
		Processor: processor.New(root, processed, res, fs, logger),
	}, nil
}

// LoadCatalog returns the builtin templates, overridden by "<role>.tsx" files
// in dir when dir is set.
func LoadCatalog(dir string) (*templates.Catalog, error) {
	if dir == "" {
		return templates.NewCatalog(), nil
	}
	abs, err := config.AbsolutePath(dir)
	if err != nil {
		return nil, err
	}
	catalog, err := templates.LoadCatalog(osfs.New(abs), ".")
	if err != nil {
		return nil, fmt.Errorf("loading templates from %s: %w", abs, err)
	}
	return catalog, nil
}
