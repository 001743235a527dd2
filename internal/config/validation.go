package config

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ValidationError represents a configuration validation error with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the result of configuration validation
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// String returns a formatted string of all validation issues
func (vr *ValidationResult) String() string {
	var builder strings.Builder

	write := func(title string, issues []ValidationError) {
		if len(issues) == 0 {
			return
		}
		builder.WriteString(title + ":\n")
		for _, issue := range issues {
			builder.WriteString(fmt.Sprintf("  - %s: %s\n", issue.Field, issue.Message))
			for _, suggestion := range issue.Suggestions {
				builder.WriteString(fmt.Sprintf("    hint: %s\n", suggestion))
			}
		}
	}

	write("Validation errors", vr.Errors)
	write("Validation warnings", vr.Warnings)

	if builder.Len() == 0 {
		return "Configuration is valid\n"
	}
	return builder.String()
}

var (
	validLogLevels  = []string{"debug", "info", "warn", "warning", "error"}
	validLogFormats = []string{"text", "json"}
)

// ValidateConfig checks every field and collects all problems.
func ValidateConfig(config *Config) *ValidationResult {
	result := &ValidationResult{}

	if strings.TrimSpace(config.WatchDir) == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:       KeyWatchDir,
			Value:       config.WatchDir,
			Message:     "watch directory must not be empty",
			Suggestions: []string{`set "watchDir" to your routes folder, for example "app" or "src/app"`},
		})
	}

	for _, p := range config.IgnorePatterns {
		if !doublestar.ValidatePattern(p) {
			result.Errors = append(result.Errors, ValidationError{
				Field:       KeyIgnorePatterns,
				Value:       p,
				Message:     fmt.Sprintf("invalid glob %q", p),
				Suggestions: []string{`use doublestar syntax such as "**/node_modules/**"`},
			})
		}
	}

	if config.StabilityThresholdMs < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   KeyStabilityThreshold,
			Value:   config.StabilityThresholdMs,
			Message: "must not be negative",
		})
	}
	if config.PollIntervalMs < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   KeyPollInterval,
			Value:   config.PollIntervalMs,
			Message: "must not be negative",
		})
	}
	if config.PollIntervalMs > 0 && config.StabilityThresholdMs > 0 && config.PollIntervalMs > config.StabilityThresholdMs {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:       KeyPollInterval,
			Value:       config.PollIntervalMs,
			Message:     "poll interval is longer than the stability threshold",
			Suggestions: []string{"directories will be reported later than the threshold suggests"},
		})
	}

	if config.LogLevel != "" && !contains(validLogLevels, strings.ToLower(config.LogLevel)) {
		result.Errors = append(result.Errors, ValidationError{
			Field:       KeyLogLevel,
			Value:       config.LogLevel,
			Message:     fmt.Sprintf("unknown log level %q", config.LogLevel),
			Suggestions: []string{"use one of: debug, info, warn, error"},
		})
	}
	if config.LogFormat != "" && !contains(validLogFormats, strings.ToLower(config.LogFormat)) {
		result.Errors = append(result.Errors, ValidationError{
			Field:       KeyLogFormat,
			Value:       config.LogFormat,
			Message:     fmt.Sprintf("unknown log format %q", config.LogFormat),
			Suggestions: []string{"use text or json"},
		})
	}

	result.Valid = !result.HasErrors()
	return result
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
