package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/conneroisu/routegen/internal/services"
	"github.com/conneroisu/routegen/internal/templates"
)

var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"t"},
	Short:   "List folder types and the files they generate",
	Long: `List every recognised folder type, the files it writes and where each
template comes from.

Examples:
  routegen templates
  routegen templates --show page     # print the page template`,
	RunE: runTemplates,
}

var templatesShow string

func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.Flags().StringVar(&templatesShow, "show", "", "Print the template text for a role")
}

func runTemplates(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	catalog, err := services.LoadCatalog(cfg.TemplateDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if templatesShow != "" {
		roles := templates.RolesForType(templatesShow)
		if len(roles) != 1 {
			return fmt.Errorf("unknown role %q", templatesShow)
		}
		fmt.Fprint(out, catalog.TemplateFor(roles[0]))
		return nil
	}

	source := "builtin"
	if cfg.TemplateDir != "" {
		source = cfg.TemplateDir
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tFILES\tEXAMPLE")
	for _, t := range templates.DeclaredTypes() {
		var files []string
		for _, role := range catalog.RolesForType(t) {
			files = append(files, role.FileName())
		}
		fmt.Fprintf(tw, "%s\t%s\tblog.%s, blog:%s\n", t, strings.Join(files, ", "), t, t)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\ntemplates: %s\n", source)
	return nil
}
