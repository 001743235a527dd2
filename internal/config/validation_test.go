package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateConfig(t *testing.T) {
	testCases := []struct {
		name       string
		mutate     func(*Config)
		wantErrors []string
		wantWarn   bool
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "empty watch dir", mutate: func(c *Config) { c.WatchDir = "  " }, wantErrors: []string{KeyWatchDir}},
		{name: "bad glob", mutate: func(c *Config) { c.IgnorePatterns = []string{"ok/**", "[bad"} }, wantErrors: []string{KeyIgnorePatterns}},
		{name: "negative threshold", mutate: func(c *Config) { c.StabilityThresholdMs = -1 }, wantErrors: []string{KeyStabilityThreshold}},
		{name: "negative poll", mutate: func(c *Config) { c.PollIntervalMs = -5 }, wantErrors: []string{KeyPollInterval}},
		{name: "unknown level", mutate: func(c *Config) { c.LogLevel = "trace" }, wantErrors: []string{KeyLogLevel}},
		{name: "unknown format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErrors: []string{KeyLogFormat}},
		{name: "slow poll warns", mutate: func(c *Config) { c.PollIntervalMs = 5000 }, wantWarn: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			result := ValidateConfig(cfg)

			var fields []string
			for _, e := range result.Errors {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tc.wantErrors, fields)
			assert.Equal(t, len(tc.wantErrors) == 0, result.Valid)
			assert.Equal(t, tc.wantWarn, result.HasWarnings())
		})
	}
}

func TestValidationResultString(t *testing.T) {
	assert.Equal(t, "Configuration is valid\n", (&ValidationResult{Valid: true}).String())

	cfg := Default()
	cfg.WatchDir = ""
	out := ValidateConfig(cfg).String()
	assert.Contains(t, out, "Validation errors")
	assert.Contains(t, out, "watchDir")
	assert.Contains(t, out, "hint:")
}
