package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/decaf/pkg/config"
)

// EnvVarPrefix prefixes every environment override.
const EnvVarPrefix = "DECAF_"

type envSetter func(cfg *config.Config, value string) error

type envVar struct {
	description string
	set         envSetter
}

func stringVar(field func(*config.Config) *string) envSetter {
	return func(cfg *config.Config, value string) error {
		*field(cfg) = value
		return nil
	}
}

func boolVar(field func(*config.Config) *bool) envSetter {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", value)
		}
		*field(cfg) = b
		return nil
	}
}

func sliceVar(field func(*config.Config) *[]string) envSetter {
	return func(cfg *config.Config, value string) error {
		*field(cfg) = parseSliceValue(value)
		return nil
	}
}

// envVars maps variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envVars = map[string]envVar{
	"OUTPUT_DIR": {"Directory for converted files", stringVar(func(c *config.Config) *string { return &c.OutputDir })},
	"EXTENSION":  {"Extension of converted files", stringVar(func(c *config.Config) *string { return &c.Extension })},
	"INCLUDE":    {"Comma-separated include patterns", sliceVar(func(c *config.Config) *[]string { return &c.Include })},
	"IGNORE":     {"Comma-separated ignore patterns", sliceVar(func(c *config.Config) *[]string { return &c.Ignore })},
	"LITERATE":   {"Convert Literate CoffeeScript: true or false", boolVar(func(c *config.Config) *bool { return &c.Literate })},
	"BACKUPS_ENABLED": {
		"Back up existing output files: true or false",
		boolVar(func(c *config.Config) *bool { return &c.Backups.Enabled }),
	},
	"BACKUPS_MODE": {"Backup mode: sidecar or none", stringVar(func(c *config.Config) *string { return &c.Backups.Mode })},
	"DRY_RUN":      {"Show diffs without writing: true or false", boolVar(func(c *config.Config) *bool { return &c.DryRun })},
	"NO_BACKUPS":   {"Disable backups: true or false", boolVar(func(c *config.Config) *bool { return &c.NoBackups })},
	"FORMAT": {"Output format: text, json, diff, or summary", func(cfg *config.Config, value string) error {
		cfg.Format = config.OutputFormat(value)
		return nil
	}},
	"JOBS": {"Number of parallel workers (0 = auto)", func(cfg *config.Config, value string) error {
		jobs, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		cfg.Jobs = jobs
		return nil
	}},
}

// LoadFromEnv applies DECAF_* overrides to cfg. Empty variables are
// ignored.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, name := range sortedEnvNames() {
		value := os.Getenv(EnvVarPrefix + name)
		if value == "" {
			continue
		}
		if err := envVars[name].set(cfg, value); err != nil {
			return fmt.Errorf("%s%s: %w", EnvVarPrefix, name, err)
		}
	}
	return nil
}

func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func sortedEnvNames() []string {
	names := make([]string, 0, len(envVars))
	for name := range envVars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListEnvVars returns every supported variable with its description.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envVars))
	for name, v := range envVars {
		out[EnvVarPrefix+name] = v.description
	}
	return out
}
