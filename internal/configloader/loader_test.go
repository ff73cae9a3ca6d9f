package configloader_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/decaf/internal/configloader"
	"github.com/yaklabco/decaf/pkg/config"
)

func isolated(dir string) configloader.LoadOptions {
	return configloader.LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))

	result, err := configloader.Load(context.Background(), isolated(dir))
	require.NoError(t, err)
	assert.Equal(t, config.NewConfig(), result.Config)
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "yaml",
			file:    ".decaf.yml",
			content: "output_dir: lib\nliterate: false\nignore:\n  - \"vendor/**\"\n",
		},
		{
			name:    "toml",
			file:    ".decaf.toml",
			content: "output_dir = \"lib\"\nliterate = false\nignore = [\"vendor/**\"]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
			write(t, filepath.Join(root, tt.file), tt.content)
			sub := filepath.Join(root, "src", "app")
			require.NoError(t, os.MkdirAll(sub, 0o755))

			result, err := configloader.Load(context.Background(), isolated(sub))
			require.NoError(t, err)

			cfg := result.Config
			assert.Equal(t, "lib", cfg.OutputDir)
			assert.False(t, cfg.Literate, "a file can switch a default-on flag off")
			assert.Equal(t, []string{"vendor/**"}, cfg.Ignore)
			assert.Equal(t, ".js", cfg.Extension, "unnamed keys keep their defaults")
			assert.Equal(t, []string{filepath.Join(root, tt.file)}, result.LoadedFrom)
		})
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	write(t, filepath.Join(dir, ".decaf.yml"), "extension: .mjs\noutput_dir: lib\n")
	explicit := filepath.Join(dir, "ci.yml")
	write(t, explicit, "output_dir: dist\n")

	t.Setenv("DECAF_EXTENSION", ".cjs")
	t.Setenv("DECAF_JOBS", "3")

	opts := isolated(dir)
	opts.IgnoreEnv = false
	opts.ExplicitPath = explicit
	opts.CLIConfig = &config.Config{Jobs: 8, DryRun: true}

	result, err := configloader.Load(context.Background(), opts)
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, "dist", cfg.OutputDir, "explicit file beats project file")
	assert.Equal(t, ".cjs", cfg.Extension, "environment beats files")
	assert.Equal(t, 8, cfg.Jobs, "flags beat environment")
	assert.True(t, cfg.DryRun)
	assert.Len(t, result.LoadedFrom, 2)
}

func TestLoad_InvalidEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	t.Setenv("DECAF_LITERATE", "sometimes")

	opts := isolated(dir)
	opts.IgnoreEnv = false
	_, err := configloader.Load(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DECAF_LITERATE")
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
		field   string
	}{
		{name: "malformed yaml", file: ".decaf.yml", content: "ignore: [unclosed\n"},
		{name: "malformed toml", file: ".decaf.toml", content: "ignore = \n"},
		{name: "bad backup mode", file: ".decaf.yml", content: "backups:\n  mode: cloud\n", field: "backups.mode"},
		{name: "extension without dot", file: ".decaf.yml", content: "extension: js\n", field: "extension"},
		{name: "extension overwrites source", file: ".decaf.yml", content: "extension: .coffee\n", field: "extension"},
		{name: "bad glob", file: ".decaf.yml", content: "ignore:\n  - \"[\"\n", field: "ignore[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
			write(t, filepath.Join(dir, tt.file), tt.content)

			_, err := configloader.Load(context.Background(), isolated(dir))
			require.Error(t, err)

			var validationErr *configloader.ValidationError
			require.True(t, errors.As(err, &validationErr), err)
			if tt.field != "" {
				assert.Equal(t, tt.field, validationErr.Field)
			} else {
				assert.NotEmpty(t, validationErr.FilePath)
			}
		})
	}
}

func TestLoad_StdoutWithOutputDirWarns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))

	opts := isolated(dir)
	opts.CLIConfig = &config.Config{Stdout: true, OutputDir: "lib"}
	result, err := configloader.Load(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "output_dir")
}

func TestFindProjectConfig_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	write(t, filepath.Join(outer, ".decaf.yml"), "extension: .mjs\n")
	repo := filepath.Join(outer, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))

	path, err := configloader.FindProjectConfig(context.Background(), repo)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	assert.Nil(t, configloader.MergeAll())

	base := config.NewConfig()
	merged := configloader.MergeAll(base, &config.Config{Ignore: []string{"a"}}, &config.Config{Format: config.FormatJSON})
	assert.Equal(t, []string{"a"}, merged.Ignore)
	assert.Equal(t, config.FormatJSON, merged.Format)
	assert.Equal(t, ".js", merged.Extension)
	assert.Nil(t, base.Ignore, "inputs are not mutated")
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := configloader.ListEnvVars()
	assert.Contains(t, vars, "DECAF_OUTPUT_DIR")
	for name := range vars {
		assert.True(t, strings.HasPrefix(name, configloader.EnvVarPrefix), name)
	}
}

func TestConfirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input      string
		defaultYes bool
		want       bool
	}{
		{"y\n", false, true},
		{"YES\n", false, true},
		{"n\n", true, false},
		{"\n", true, true},
		{"\n", false, false},
		{"", true, true},
		{"yes", false, true},
	}

	for _, tt := range tests {
		var out strings.Builder
		got, err := configloader.Confirm(strings.NewReader(tt.input), &out, "Overwrite?", tt.defaultYes)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.True(t, strings.HasPrefix(out.String(), "Overwrite? ["))
	}
}
