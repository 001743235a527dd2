package cmd

import (
	"github.com/spf13/cobra"

	"github.com/conneroisu/routegen/internal/services"
)

var initCmd = &cobra.Command{
	Use:     "init",
	Aliases: []string{"i"},
	Short:   "Write a default configuration file",
	Long: `Write next-file-gen.config.json with the default settings. An existing
file is kept unless --force is given.

Examples:
  routegen init
  routegen init --watch-dir src/app --mkdir
  routegen init --templates .routegen/templates   # editable template copies`,
	RunE: runInit,
}

var (
	initWatchDir    string
	initForce       bool
	initMkdir       bool
	initTemplateDir string
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initWatchDir, "watch-dir", "", "Directory to watch (default app)")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing files")
	initCmd.Flags().BoolVar(&initMkdir, "mkdir", false, "Create the watch directory if missing")
	initCmd.Flags().StringVar(&initTemplateDir, "templates", "", "Export the builtin templates to this directory and use them")
}

func runInit(cmd *cobra.Command, args []string) error {
	result, err := services.NewInitService().Init(services.InitOptions{
		ConfigPath:     configPath,
		WatchDir:       initWatchDir,
		Force:          initForce,
		CreateWatchDir: initMkdir,
		TemplateDir:    initTemplateDir,
	})
	if err != nil {
		return err
	}

	out := newPrinter(cmd.OutOrStdout())
	if result.ConfigCreated {
		out.Success("Wrote %s", result.ConfigPath)
	} else {
		out.Info("%s already exists, use --force to overwrite", result.ConfigPath)
	}
	if result.WatchDirCreated {
		out.Success("Created watch directory")
	}
	for _, path := range result.TemplatesWritten {
		out.Detail("template %s", path)
	}
	return nil
}
