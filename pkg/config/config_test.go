package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/decaf/pkg/config"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, ".js", cfg.Extension)
	assert.True(t, cfg.Literate)
	assert.True(t, cfg.BackupsEnabled())
	assert.Equal(t, config.FormatText, cfg.Format)
}

func TestConfig_BackupsEnabled(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.NoBackups = true
	assert.False(t, cfg.BackupsEnabled())

	cfg = config.NewConfig()
	cfg.Backups.Mode = "none"
	assert.False(t, cfg.BackupsEnabled())
}

func TestConfig_Clone(t *testing.T) {
	t.Parallel()

	var nilCfg *config.Config
	assert.Nil(t, nilCfg.Clone())

	original := config.NewConfig()
	original.Ignore = []string{"vendor/**"}
	original.DryRun = true

	clone := original.Clone()
	require.NotNil(t, clone)
	assert.NotSame(t, original, clone)
	assert.True(t, clone.DryRun)

	clone.Ignore[0] = "changed"
	assert.Equal(t, "vendor/**", original.Ignore[0])
}

func TestOutputFormat_IsValid(t *testing.T) {
	t.Parallel()

	for _, f := range []config.OutputFormat{config.FormatText, config.FormatJSON, config.FormatDiff, config.FormatSummary} {
		assert.True(t, f.IsValid(), f)
	}
	assert.False(t, config.OutputFormat("sarif").IsValid())
}

func TestCodecs_SkipCLIFields(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.OutputDir = "lib"
	cfg.Ignore = []string{"vendor/**"}
	cfg.DryRun = true
	cfg.Jobs = 4

	yamlData, err := cfg.ToYAML()
	require.NoError(t, err)
	assert.Contains(t, string(yamlData), "output_dir: lib")
	assert.NotContains(t, string(yamlData), "dry")

	fromYAML, err := config.FromYAML(yamlData)
	require.NoError(t, err)
	assert.Equal(t, "lib", fromYAML.OutputDir)
	assert.Equal(t, []string{"vendor/**"}, fromYAML.Ignore)
	assert.False(t, fromYAML.DryRun)
	assert.Zero(t, fromYAML.Jobs)

	tomlData, err := cfg.ToTOML()
	require.NoError(t, err)
	fromTOML, err := config.FromTOML(tomlData)
	require.NoError(t, err)
	assert.Equal(t, "lib", fromTOML.OutputDir)
	assert.Equal(t, ".js", fromTOML.Extension)
	assert.True(t, fromTOML.Backups.Enabled)
}

func TestFromYAML_Invalid(t *testing.T) {
	t.Parallel()

	_, err := config.FromYAML([]byte("extension: [unclosed"))
	assert.Error(t, err)

	_, err = config.FromTOML([]byte("extension = "))
	assert.Error(t, err)
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts config.TemplateOptions
	}{
		{"minimal yaml", config.TemplateOptions{}},
		{"full yaml", config.TemplateOptions{Full: true, Format: config.TemplateYAML}},
		{"minimal toml", config.TemplateOptions{Format: config.TemplateTOML}},
		{"full toml", config.TemplateOptions{Full: true, Format: config.TemplateTOML}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := config.GenerateTemplate(tt.opts)
			require.NoError(t, err)

			var cfg *config.Config
			if tt.opts.Format == config.TemplateTOML {
				cfg, err = config.FromTOML(data)
			} else {
				cfg, err = config.FromYAML(data)
			}
			require.NoError(t, err, string(data))
			assert.Equal(t, ".js", cfg.Extension)
			assert.True(t, cfg.Literate)
			if tt.opts.Full {
				assert.Equal(t, "lib", cfg.OutputDir)
				assert.Equal(t, "sidecar", cfg.Backups.Mode)
			} else {
				assert.Empty(t, cfg.OutputDir)
			}
		})
	}

	_, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
	assert.Error(t, err)
}
