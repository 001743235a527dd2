// Package cmd provides the routegen command-line interface.
//
// Configuration is read from next-file-gen.config.json in the working
// directory, or the file named by --config or ROUTEGEN_CONFIG_FILE. Values
// can be overridden per key with ROUTEGEN_<KEY> environment variables
// (ROUTEGEN_WATCH_DIR, ROUTEGEN_LOG_LEVEL, ...); WATCH_DIR is honoured for
// the watch directory as well.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/routegen/internal/config"
	"github.com/conneroisu/routegen/internal/logging"
)

var (
	cfgFile    string
	configPath string
)

// rootCmd runs the watcher when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "routegen",
	Short: "Generate Next.js route files from directory names",
	Long: `routegen watches a Next.js app directory and fills new route folders
with boilerplate. Create a folder named <name>.<type> or <name>:<type> and it
is renamed to <name> and populated:

  blog.page       blog/page.tsx
  shop.layout     shop/layout.tsx
  feed.loading    feed/loading.tsx
  cart.error      cart/error.tsx
  dashboard.default  all four files

Existing files are never overwritten. Each folder is handled once.

Quick Start:
  routegen init                  Write next-file-gen.config.json
  routegen                       Watch the configured directory
  routegen generate app/x.page   Process folders once, without watching`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runWatch,
}

// Execute runs the root command and prints any error it returns.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		newPrinter(rootCmd.ErrOrStderr()).Failure(err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is "+config.DefaultConfigFile+", can also use ROUTEGEN_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))

	addWatchFlags(rootCmd.Flags())
}

// initConfig resolves the config file path and registers defaults and
// environment bindings. The file itself is read by loadConfig so commands
// can create it first.
//
// Priority for the path: --config, then ROUTEGEN_CONFIG_FILE, then the
// default file name in the working directory.
func initConfig() {
	switch {
	case cfgFile != "":
		configPath = cfgFile
	case os.Getenv(config.EnvPrefix+"_CONFIG_FILE") != "":
		configPath = os.Getenv(config.EnvPrefix + "_CONFIG_FILE")
	default:
		configPath = config.DefaultConfigFile
	}

	config.SetDefaults()
	config.BindEnvironment()
}

// loadConfig reads the config file, optionally writing the defaults first
// when it is missing, and returns the validated configuration.
func loadConfig(cmd *cobra.Command, createDefault bool) (*config.Config, error) {
	if createDefault {
		created, err := config.CreateDefaultIfNotExists(configPath)
		if err != nil {
			return nil, err
		}
		if created {
			newPrinter(cmd.OutOrStdout()).Info("Created default configuration at %s", configPath)
		}
	}

	if _, err := config.ReadFile(configPath); err != nil {
		return nil, err
	}
	return config.Load()
}

func newLogger(cfg *config.Config) logging.Logger {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logging.LevelInfo
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: cfg.LogFormat,
		Output: os.Stderr,
	})
}
