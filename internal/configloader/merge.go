package configloader

import "github.com/yaklabco/decaf/pkg/config"

// merge overlays override on base and returns a new config.
//   - Strings and ints: override wins when non-zero.
//   - Booleans: override can only switch a flag on.
//   - Slices: override replaces base when non-nil.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.OutputDir != "" {
		result.OutputDir = override.OutputDir
	}
	if override.Extension != "" {
		result.Extension = override.Extension
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}

	if override.DryRun {
		result.DryRun = true
	}
	if override.Stdout {
		result.Stdout = true
	}
	if override.NoBackups {
		result.NoBackups = true
	}

	if override.Include != nil {
		result.Include = override.Include
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	return result
}

// MergeAll merges configurations in order, later ones taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}
	result := configs[0]
	for _, cfg := range configs[1:] {
		result = merge(result, cfg)
	}
	return result
}
