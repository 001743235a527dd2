package services

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/conneroisu/routegen/internal/config"
	rerrors "github.com/conneroisu/routegen/internal/errors"
	"github.com/conneroisu/routegen/internal/logging"
	"github.com/conneroisu/routegen/internal/processor"
)

// GenerateService processes named directories once, without watching.
type GenerateService struct {
	config *config.Config
	logger logging.Logger
}

// NewGenerateService creates a new generate service
func NewGenerateService(cfg *config.Config, logger logging.Logger) *GenerateService {
	return &GenerateService{
		config: cfg,
		logger: logger,
	}
}

// GenerateResult pairs a requested directory with its processing result.
type GenerateResult struct {
	Dir    string
	Result processor.Result
}

// Generate runs the processor over each directory in order. Relative paths
// are resolved against the working directory and must lie inside the watch
// directory. The returned error joins every failure; per-directory detail is
// in the results.
func (s *GenerateService) Generate(ctx context.Context, dirs []string) ([]GenerateResult, error) {
	pipeline, err := NewPipeline(s.config, s.logger)
	if err != nil {
		return nil, err
	}

	collector := rerrors.NewErrorCollector()
	results := make([]GenerateResult, 0, len(dirs))

	for _, dir := range dirs {
		abs, err := config.AbsolutePath(dir)
		if err != nil {
			collector.Add(err)
			results = append(results, GenerateResult{Dir: dir, Result: processor.Result{Error: err.Error()}})
			continue
		}

		if !within(pipeline.Root, abs) {
			err := rerrors.NewIOError(rerrors.CodeOutsideRoot, "directory is outside the watch directory", nil).WithPath(abs)
			collector.Add(err)
			results = append(results, GenerateResult{Dir: abs, Result: processor.Result{Error: err.Error()}})
			continue
		}

		result := pipeline.Processor.Process(ctx, abs)
		switch {
		case result.Error != "":
			collector.Add(rerrors.NewInternalError(rerrors.CodeNotProcessed, result.Error, nil).WithPath(abs))
		case result.Err != nil:
			collector.Add(result.Err)
		}
		results = append(results, GenerateResult{Dir: abs, Result: result})
	}

	return results, collector.Err()
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
