package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/routegen/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect routegen configuration",
	Long: `Inspect the resolved configuration.

Examples:
  routegen config show                 # Show resolved configuration
  routegen config show --format json
  routegen config validate             # Check next-file-gen.config.json`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the configuration after reading the config file, applying
environment overrides and filling defaults.`,
	RunE: runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	RunE:  runConfigValidate,
}

var configShowFormat string

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)

	configShowCmd.Flags().StringVarP(&configShowFormat, "format", "f", "yaml", "Output format (yaml, json)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	return writeConfig(cmd.OutOrStdout(), cfg, configShowFormat)
}

func writeConfig(w io.Writer, cfg *config.Config, format string) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	default:
		return fmt.Errorf("unsupported format: %s (supported: yaml, json)", format)
	}
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if _, err := config.ReadFile(configPath); err != nil {
		return err
	}

	// Load stops at the first problem; validate separately to list them all.
	cfg, err := config.Unmarshal()
	if err != nil {
		return err
	}

	result := config.ValidateConfig(cfg)
	out := cmd.OutOrStdout()
	fmt.Fprint(out, result.String())
	if result.HasErrors() {
		return fmt.Errorf("%s is invalid", configPath)
	}
	return nil
}
