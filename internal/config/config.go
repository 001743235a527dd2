// Package config provides configuration management for routegen using Viper
// for loading from a JSON file and environment variables.
//
// The configuration file lives in the working directory as
// next-file-gen.config.json. Environment variables with the ROUTEGEN_ prefix
// override file values; WATCH_DIR is honoured for the watch directory as
// well. A missing file means built-in defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	rerrors "github.com/conneroisu/routegen/internal/errors"
	"github.com/conneroisu/routegen/internal/lock"
)

// DefaultConfigFile is the project-relative configuration file name.
const DefaultConfigFile = "next-file-gen.config.json"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ROUTEGEN"

// Viper keys.
const (
	KeyWatchDir           = "watchDir"
	KeyIgnorePatterns     = "ignorePatterns"
	KeyStabilityThreshold = "stabilityThresholdMs"
	KeyPollInterval       = "pollIntervalMs"
	KeyTemplateDir        = "templateDir"
	KeyLogLevel           = "logLevel"
	KeyLogFormat          = "logFormat"
)

// Config is the on-disk configuration.
type Config struct {
	WatchDir             string   `mapstructure:"watchDir" json:"watchDir" yaml:"watchDir"`
	IgnorePatterns       []string `mapstructure:"ignorePatterns" json:"ignorePatterns" yaml:"ignorePatterns"`
	StabilityThresholdMs int      `mapstructure:"stabilityThresholdMs" json:"stabilityThresholdMs,omitempty" yaml:"stabilityThresholdMs,omitempty"`
	PollIntervalMs       int      `mapstructure:"pollIntervalMs" json:"pollIntervalMs,omitempty" yaml:"pollIntervalMs,omitempty"`
	TemplateDir          string   `mapstructure:"templateDir" json:"templateDir,omitempty" yaml:"templateDir,omitempty"`
	LogLevel             string   `mapstructure:"logLevel" json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	LogFormat            string   `mapstructure:"logFormat" json:"logFormat,omitempty" yaml:"logFormat,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		WatchDir:             "app",
		IgnorePatterns:       []string{"**/node_modules/**", "**/.git/**", "**/dist/**", "**/build/**"},
		StabilityThresholdMs: 2000,
		PollIntervalMs:       100,
		LogLevel:             "info",
		LogFormat:            "text",
	}
}

// SetDefaults registers the built-in values with viper so environment
// variables are honoured for every key.
func SetDefaults() {
	d := Default()
	viper.SetDefault(KeyWatchDir, d.WatchDir)
	viper.SetDefault(KeyIgnorePatterns, d.IgnorePatterns)
	viper.SetDefault(KeyStabilityThreshold, d.StabilityThresholdMs)
	viper.SetDefault(KeyPollInterval, d.PollIntervalMs)
	viper.SetDefault(KeyTemplateDir, d.TemplateDir)
	viper.SetDefault(KeyLogLevel, d.LogLevel)
	viper.SetDefault(KeyLogFormat, d.LogFormat)
}

// BindEnvironment enables ROUTEGEN_* overrides. WATCH_DIR is kept for
// projects configured before the prefix existed.
func BindEnvironment() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.BindEnv(KeyWatchDir, EnvPrefix+"_WATCH_DIR", "WATCH_DIR")
	_ = viper.BindEnv(KeyIgnorePatterns, EnvPrefix+"_IGNORE_PATTERNS")
	_ = viper.BindEnv(KeyStabilityThreshold, EnvPrefix+"_STABILITY_THRESHOLD_MS")
	_ = viper.BindEnv(KeyPollInterval, EnvPrefix+"_POLL_INTERVAL_MS")
	_ = viper.BindEnv(KeyTemplateDir, EnvPrefix+"_TEMPLATE_DIR")
	_ = viper.BindEnv(KeyLogLevel, EnvPrefix+"_LOG_LEVEL")
	_ = viper.BindEnv(KeyLogFormat, EnvPrefix+"_LOG_FORMAT")
}

// ReadFile points viper at path and reads it. A missing file is not an
// error; it returns false so callers fall back to defaults.
func ReadFile(path string) (bool, error) {
	viper.SetConfigFile(path)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return true, nil
}

// Load builds a Config from viper, filling unset fields with defaults, and
// validates it.
func Load() (*Config, error) {
	config, err := Unmarshal()
	if err != nil {
		return nil, err
	}

	if result := ValidateConfig(config); result.HasErrors() {
		return nil, rerrors.NewConfigError(rerrors.CodeInvalidConfig, result.Errors[0].Error())
	}

	return config, nil
}

// Unmarshal is Load without validation.
func Unmarshal() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, rerrors.NewConfigError(rerrors.CodeInvalidConfig, err.Error())
	}
	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(config *Config) {
	d := Default()
	if config.WatchDir == "" {
		config.WatchDir = d.WatchDir
	}
	if !viper.IsSet(KeyIgnorePatterns) && len(config.IgnorePatterns) == 0 {
		config.IgnorePatterns = d.IgnorePatterns
	}
	if config.StabilityThresholdMs == 0 {
		config.StabilityThresholdMs = d.StabilityThresholdMs
	}
	if config.PollIntervalMs == 0 {
		config.PollIntervalMs = d.PollIntervalMs
	}
	if config.LogLevel == "" {
		config.LogLevel = d.LogLevel
	}
	if config.LogFormat == "" {
		config.LogFormat = d.LogFormat
	}
}

// StabilityThreshold returns the quiet period as a duration.
func (c *Config) StabilityThreshold() time.Duration {
	return time.Duration(c.StabilityThresholdMs) * time.Millisecond
}

// PollInterval returns the stabilisation poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// AbsoluteWatchDir resolves WatchDir against the working directory.
func (c *Config) AbsoluteWatchDir() (string, error) {
	return AbsolutePath(c.WatchDir)
}

// AbsolutePath returns path unchanged if absolute, else joined to the
// working directory.
func AbsolutePath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return filepath.Join(cwd, path), nil
}

// Save writes config to path as indented JSON. An absolute WatchDir inside
// the working directory is stored relative to it.
func Save(path string, config *Config) error {
	toSave := *config

	if filepath.IsAbs(toSave.WatchDir) {
		if cwd, err := os.Getwd(); err == nil {
			if rel, err := filepath.Rel(cwd, toSave.WatchDir); err == nil &&
				rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				toSave.WatchDir = rel
			}
		}
	}

	data, err := json.MarshalIndent(&toSave, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	data = append(data, '\n')

	if err := lock.AtomicWrite(path, data, 0o644); err != nil {
		return rerrors.NewIOError(rerrors.CodeWriteFailed, "saving config", err).WithPath(path)
	}
	return nil
}

// CreateDefaultIfNotExists writes the default configuration to path when no
// file exists there. It reports whether a file was created.
func CreateDefaultIfNotExists(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, rerrors.NewIOError(rerrors.CodeStatFailed, "checking config file", err).WithPath(path)
	}

	if err := Save(path, Default()); err != nil {
		return false, err
	}
	return true, nil
}
