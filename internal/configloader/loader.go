// Package configloader resolves decaf's configuration: it discovers
// config files, layers them over the defaults, applies DECAF_*
// environment overrides and CLI flags, and validates the result.
package configloader

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/decaf/pkg/config"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is where the project config search starts. Defaults to
	// the current directory.
	WorkingDir string

	// ExplicitPath comes from --config and is layered above the project
	// config.
	ExplicitPath string

	IgnoreSystemConfig  bool
	IgnoreUserConfig    bool
	IgnoreProjectConfig bool
	IgnoreEnv           bool

	// CLIConfig holds flag values. They take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	Config *config.Config
	Paths  *ConfigPaths

	// LoadedFrom lists the files that were read, lowest precedence first.
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (DECAF_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.decaf.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/decaf/config.yaml)
//  6. System config (/etc/decaf/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath
	result := &LoadResult{Paths: paths}

	layers := []struct {
		name   string
		path   string
		ignore bool
	}{
		{"system", paths.System, opts.IgnoreSystemConfig},
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig},
		{"explicit", paths.Explicit, false},
	}

	cfg := config.NewConfig()
	for _, layer := range layers {
		if layer.ignore || layer.path == "" {
			continue
		}
		if err := decodeFile(layer.path, cfg); err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// decodeFile decodes path onto cfg. Keys absent from the file keep their
// current value, so each layer only overrides what it names.
func decodeFile(path string, cfg *config.Config) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	if IsTOMLConfig(path) {
		if _, err := toml.Decode(string(content), cfg); err != nil {
			return &ValidationError{FilePath: path, Message: "parse TOML: " + err.Error()}
		}
		return nil
	}

	if err := yaml.Unmarshal(content, cfg); err != nil {
		return &ValidationError{FilePath: path, Message: "parse YAML: " + err.Error()}
	}
	return nil
}
