package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/routegen/internal/services"
)

var generateCmd = &cobra.Command{
	Use:     "generate <dir>...",
	Aliases: []string{"g"},
	Short:   "Process route folders once without watching",
	Long: `Process each named folder exactly as the watcher would: rename
<name>.<type> to <name> and write the requested files. Folders must lie
inside the configured watch directory.

Examples:
  routegen generate app/blog.page
  routegen generate app/admin.default app/admin/users.page`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	results, genErr := services.NewGenerateService(cfg, newLogger(cfg)).Generate(cmd.Context(), args)

	out := newPrinter(cmd.OutOrStdout())
	for _, r := range results {
		switch {
		case r.Result.Error != "":
			out.Warn("%s: %s", r.Dir, r.Result.Error)
		case !r.Result.Success:
			out.Warn("%s: %v", r.Result.ProcessedPath, r.Result.Err)
		default:
			out.Success("%s", r.Result.ProcessedPath)
		}
		for _, f := range r.Result.Created {
			out.Detail("created %s", f)
		}
		for _, f := range r.Result.Skipped {
			out.Detail("kept    %s", f)
		}
	}

	if genErr != nil {
		return errors.New("some folders were not processed")
	}
	return nil
}
