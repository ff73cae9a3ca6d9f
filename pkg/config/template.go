package config

import (
	"fmt"
	"strings"
)

// Template formats.
const (
	TemplateYAML = "yaml"
	TemplateTOML = "toml"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting uncommented with its default.
	Full bool

	// Format is "yaml" or "toml".
	Format string
}

type templateSetting struct {
	comment string
	yaml    string
	toml    string
	// minimal settings stay uncommented in the short template.
	minimal bool
}

//nolint:gochecknoglobals // read-only template table
var templateSettings = []templateSetting{
	{
		comment: "Extension given to converted files",
		yaml:    `extension: ".js"`,
		toml:    `extension = ".js"`,
		minimal: true,
	},
	{
		comment: "Directory for converted files, mirroring the source layout\n(empty writes next to each source file)",
		yaml:    `output_dir: "lib"`,
		toml:    `output_dir = "lib"`,
	},
	{
		comment: "Convert Literate CoffeeScript (.litcoffee, .coffee.md)",
		yaml:    "literate: true",
		toml:    "literate = true",
		minimal: true,
	},
	{
		comment: "Only convert files matching these glob patterns",
		yaml:    "include:\n  - \"src/**\"",
		toml:    `include = ["src/**"]`,
	},
	{
		comment: "Glob patterns to skip",
		yaml:    "ignore:\n  - \"node_modules/**\"\n  - \"vendor/**\"",
		toml:    `ignore = ["node_modules/**", "vendor/**"]`,
	},
}

const (
	backupsYAML = "backups:\n  enabled: true\n  mode: sidecar"
	backupsTOML = "[backups]\nenabled = true\nmode = \"sidecar\""
)

// GenerateTemplate renders a commented configuration file for 'decaf init'.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	format := opts.Format
	if format == "" {
		format = TemplateYAML
	}
	if format != TemplateYAML && format != TemplateTOML {
		return nil, fmt.Errorf("unsupported template format %q", opts.Format)
	}

	var buf strings.Builder
	buf.WriteString("# decaf configuration\n")
	buf.WriteString("# See: https://github.com/yaklabco/decaf\n")

	for _, setting := range templateSettings {
		value := setting.yaml
		if format == TemplateTOML {
			value = setting.toml
		}
		writeSetting(&buf, setting.comment, value, opts.Full || setting.minimal)
	}

	// TOML tables must follow every top-level key.
	backups := backupsYAML
	if format == TemplateTOML {
		backups = backupsTOML
	}
	writeSetting(&buf, "Keep a .decaf.bak copy of output files before overwriting them", backups, opts.Full)

	return []byte(buf.String()), nil
}

func writeSetting(buf *strings.Builder, comment, value string, active bool) {
	buf.WriteByte('\n')
	for line := range strings.SplitSeq(comment, "\n") {
		buf.WriteString("# " + line + "\n")
	}
	for line := range strings.SplitSeq(value, "\n") {
		if !active {
			buf.WriteString("# ")
		}
		buf.WriteString(line + "\n")
	}
}
