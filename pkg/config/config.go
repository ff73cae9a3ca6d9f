// Package config defines decaf's configuration types. They are plain data
// with yaml and toml tags; discovery and merging live in configloader.
package config

// OutputFormat selects how conversion results are reported.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// IsValid returns true if f names a known format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatDiff, FormatSummary:
		return true
	default:
		return false
	}
}

// DefaultExtension is appended to converted files when none is configured.
const DefaultExtension = ".js"

// BackupsConfig controls what happens to an existing output file that a
// conversion is about to replace.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Mode    string `yaml:"mode" toml:"mode"` // "sidecar" or "none"
}

// Config is the root configuration structure.
type Config struct {
	// OutputDir receives converted files, mirroring the input layout.
	// Empty means next to the source.
	OutputDir string `yaml:"output_dir,omitempty" toml:"output_dir,omitempty"`

	// Extension replaces the source extension on output files.
	Extension string `yaml:"extension" toml:"extension"`

	// Include holds glob patterns a discovered file must match. Empty
	// includes every CoffeeScript file.
	Include []string `yaml:"include,omitempty" toml:"include,omitempty"`

	// Ignore holds glob patterns of files and directories to skip.
	Ignore []string `yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	// Literate enables conversion of .litcoffee and .coffee.md files.
	Literate bool `yaml:"literate" toml:"literate"`

	Backups BackupsConfig `yaml:"backups" toml:"backups"`

	// CLI-level options (not persisted to config files).

	DryRun    bool         `yaml:"-" toml:"-"`
	Stdout    bool         `yaml:"-" toml:"-"`
	Format    OutputFormat `yaml:"-" toml:"-"`
	Jobs      int          `yaml:"-" toml:"-"`
	NoBackups bool         `yaml:"-" toml:"-"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		Extension: DefaultExtension,
		Literate:  true,
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    "sidecar",
		},
		Format: FormatText,
		Jobs:   0, // 0 means use GOMAXPROCS
	}
}

// BackupsEnabled reports whether backups apply after CLI overrides.
func (c *Config) BackupsEnabled() bool {
	return c.Backups.Enabled && !c.NoBackups && c.Backups.Mode != "none"
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	if c.Include != nil {
		clone.Include = append([]string(nil), c.Include...)
	}
	if c.Ignore != nil {
		clone.Ignore = append([]string(nil), c.Ignore...)
	}
	return &clone
}
