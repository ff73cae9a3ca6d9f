package cli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/decaf/internal/cli"
	"github.com/yaklabco/decaf/internal/configloader"
	"github.com/yaklabco/decaf/pkg/convert"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "test-version", Commit: "test-commit", Date: "test-date"}
}

// execute runs decaf with args and returns stdout, stderr and the error.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// emptyConfig writes a config file that pins the defaults.
func emptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".decaf.yml")
	require.NoError(t, os.WriteFile(path, []byte("extension: .js\n"), 0o644))
	return path
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)
	assert.Equal(t, "decaf", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"convert", "patchers", "config", "init", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestConvertCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	convertCmd, _, err := cmd.Find([]string{"convert"})
	require.NoError(t, err)

	for _, name := range []string{
		"out-dir", "ext", "stdout", "dry-run", "no-backups", "jobs", "format",
		"include", "ignore", "verbose", "compact", "include-output", "follow-symlinks",
	} {
		assert.NotNil(t, convertCmd.Flags().Lookup(name), name)
	}
	for _, name := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestConvert_WritesFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "a.coffee")
	require.NoError(t, os.WriteFile(src, []byte("a = 1\n"), 0o644))

	stdout, _, err := execute(t, "", "convert", "--config", emptyConfig(t), "--color", "never", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "converted")
	assert.Contains(t, stdout, "1 file converted, 1 written")

	out, err := os.ReadFile(filepath.Join(dir, "a.js"))
	require.NoError(t, err)
	assert.Equal(t, "let a = 1;\n", string(out))
}

func TestConvert_FailureExitCode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.coffee"), []byte("a = 1 if b\n"), 0o644))

	stdout, _, err := execute(t, "", "convert", "--config", emptyConfig(t), "--color", "never", dir)
	require.ErrorIs(t, err, cli.ErrConversionFailed)
	assert.Equal(t, cli.ExitConversionErrors, cli.ExitCode(err))
	assert.Contains(t, stdout, "bad.coffee:1:7: parse failure")
}

func TestConvert_Stdout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "a.coffee")
	require.NoError(t, os.WriteFile(src, []byte("a = yes\n"), 0o644))

	stdout, stderr, err := execute(t, "", "convert", "--config", emptyConfig(t), "--stdout", src)
	require.NoError(t, err)
	assert.Equal(t, "let a = true;\n", stdout)
	assert.Empty(t, stderr)
	assert.NoFileExists(t, filepath.Join(dir, "a.js"))
}

func TestConvert_DryRunDiff(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "a.coffee")
	require.NoError(t, os.WriteFile(src, []byte("a = 1\n"), 0o644))

	stdout, _, err := execute(t, "", "convert", "--config", emptyConfig(t), "--color", "never",
		"--dry-run", "--format", "diff", src)
	require.NoError(t, err)
	assert.Contains(t, stdout, "+let a = 1;")
	assert.NoFileExists(t, filepath.Join(dir, "a.js"))
}

func TestConvert_JSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "a.coffee")
	require.NoError(t, os.WriteFile(src, []byte("a = 1\n"), 0o644))

	stdout, _, err := execute(t, "", "convert", "--config", emptyConfig(t),
		"--dry-run", "--format", "json", "--include-output", src)
	require.NoError(t, err)

	var output struct {
		Files []struct {
			Output string `json:"output"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &output))
	require.Len(t, output.Files, 1)
	assert.Equal(t, "let a = 1;\n", output.Files[0].Output)
}

func TestConvert_Stdin(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "a = no\n", "convert", "-")
	require.NoError(t, err)
	assert.Equal(t, "let a = false;\n", stdout)

	_, stderr, err := execute(t, "a = 1 if b\n", "convert", "--color", "never", "-")
	require.ErrorIs(t, err, cli.ErrConversionFailed)
	assert.Contains(t, stderr, "<stdin>:1:7: parse failure: postfix 'if' is not supported")
}

func TestConvert_InvalidUsage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown format", args: []string{"convert", "--format", "sarif"}},
		{name: "stdout with dry run", args: []string{"convert", "--stdout", "--dry-run"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := execute(t, "", tt.args...)
			require.ErrorIs(t, err, cli.ErrInvalidUsage)
			assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
		})
	}
}

func TestConvert_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), ".decaf.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("extension: js\n"), 0o644))

	_, _, err := execute(t, "", "convert", "--config", cfgPath, t.TempDir())
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
}

func TestPatchersCommand(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "", "patchers", "--format", "json")
	require.NoError(t, err)

	var bindings []struct {
		Kind     string `json:"kind"`
		Variant  string `json:"variant"`
		Override bool   `json:"override"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &bindings))
	require.NotEmpty(t, bindings)

	var override bool
	for _, b := range bindings {
		if b.Variant == "ClassBoundMethodFunction" {
			override = b.Override
		}
	}
	assert.True(t, override, "bound methods in class bodies use a child override")

	text, _, err := execute(t, "", "patchers", "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, text, "Defaults:")
	assert.Contains(t, text, "Child overrides:")
	assert.Contains(t, text, "ClassAssignOp")
}

func TestConfigCommand(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), ".decaf.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output_dir: lib\n"), 0o644))

	stdout, _, err := execute(t, "", "config", "--config", cfgPath, "--format", "toml")
	require.NoError(t, err)
	assert.Contains(t, stdout, `output_dir = "lib"`)

	env, _, err := execute(t, "", "config", "--env")
	require.NoError(t, err)
	for name := range configloader.ListEnvVars() {
		assert.Contains(t, env, name)
	}
}

func TestInitCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "decaf.toml")

	_, _, err := execute(t, "", "init", "--format", "toml", "-o", target)
	require.NoError(t, err)
	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[backups]")

	// Not a terminal: an existing file needs --force.
	_, _, err = execute(t, "", "init", "--format", "toml", "-o", target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = execute(t, "", "init", "--format", "toml", "--full", "--force", "-o", target)
	require.NoError(t, err)

	_, _, err = execute(t, "", "init", "--format", "json", "-o", target)
	require.ErrorIs(t, err, cli.ErrInvalidUsage)
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "test-version")
	assert.Contains(t, stdout, "test-commit")
}

func TestHelpIsStyledPlainWithoutTerminal(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "", "convert", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "--out-dir")
	assert.Contains(t, stdout, "Global Flags:")
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: cli.ExitSuccess},
		{name: "conversion", err: cli.ErrConversionFailed, want: cli.ExitConversionErrors},
		{name: "usage", err: fmt.Errorf("%w: bad", cli.ErrInvalidUsage), want: cli.ExitInvalidUsage},
		{name: "config", err: fmt.Errorf("load: %w", &configloader.ValidationError{Message: "x"}), want: cli.ExitConfigError},
		{name: "io", err: &convert.FileError{Path: "a", Category: convert.ErrWriteFailure, Err: errors.New("disk")}, want: cli.ExitIOError},
		{name: "other", err: errors.New("boom"), want: cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}
}
