package configloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/decaf/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the offending key, e.g. "backups.mode".
	Field string

	Value any

	Message string

	// FilePath is the config file containing the error, if known.
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.fail("format", cfg.Format, "invalid format %q; must be one of: text, json, diff, summary", cfg.Format)
	}
	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}
	if cfg.Backups.Mode != "" && !IsValidBackupMode(cfg.Backups.Mode) {
		result.fail("backups.mode", cfg.Backups.Mode, "invalid backup mode %q; must be one of: sidecar, none", cfg.Backups.Mode)
	}

	switch {
	case cfg.Extension == "":
		result.fail("extension", cfg.Extension, "extension must not be empty")
	case !strings.HasPrefix(cfg.Extension, "."):
		result.fail("extension", cfg.Extension, "extension %q must start with '.'", cfg.Extension)
	case strings.HasSuffix(cfg.Extension, ".coffee"):
		result.fail("extension", cfg.Extension, "extension %q would overwrite the source", cfg.Extension)
	}

	if cfg.Stdout && cfg.OutputDir != "" {
		result.warn("output_dir", cfg.OutputDir, "output_dir is ignored when writing to stdout")
	}

	validatePatterns("include", cfg.Include, result)
	validatePatterns("ignore", cfg.Ignore, result)
	return result
}

func validatePatterns(field string, patterns []string, result *ValidationResult) {
	for i, pattern := range patterns {
		// filepath.Match only reports malformed patterns.
		if _, err := filepath.Match(pattern, ""); err != nil {
			result.fail(fmt.Sprintf("%s[%d]", field, i), pattern, "invalid glob pattern: %v", err)
		}
	}
}

// IsValidBackupMode returns true if mode is a known backup mode.
func IsValidBackupMode(mode string) bool {
	return mode == "sidecar" || mode == "none"
}
