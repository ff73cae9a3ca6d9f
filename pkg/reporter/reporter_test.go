package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/decaf/pkg/convert"
	"github.com/yaklabco/decaf/pkg/reporter"
	"github.com/yaklabco/decaf/pkg/runner"
)

// runFixture converts a small tree and returns its result.
func runFixture(t *testing.T, dryRun bool) (string, *runner.Result) {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"a.coffee":   "a = 1\n",
		"bad.coffee": "a = 1 if b\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o644))
	}

	opts := convert.DefaultOptions()
	opts.DryRun = dryRun
	r := runner.New(convert.NewPipeline(convert.NewDefaultEngine()))
	result, err := r.Run(context.Background(), runner.Options{WorkingDir: root, Pipeline: opts})
	require.NoError(t, err)
	return root, result
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{input: "", want: reporter.FormatText},
		{input: "text", want: reporter.FormatText},
		{input: "json", want: reporter.FormatJSON},
		{input: "diff", want: reporter.FormatDiff},
		{input: "summary", want: reporter.FormatSummary},
		{input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, format := range []reporter.Format{"", reporter.FormatText, reporter.FormatJSON, reporter.FormatDiff, reporter.FormatSummary} {
		rep, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}, Format: format})
		require.NoError(t, err, format)
		assert.NotNil(t, rep)
	}

	_, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}, Format: "xml"})
	require.Error(t, err)
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	root, result := runFixture(t, false)

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true, WorkingDir: root})
	failed, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 1, failed)

	out := buf.String()
	assert.Contains(t, out, "a.coffee -> a.js  converted")
	assert.Contains(t, out, "bad.coffee:1:7: parse failure: postfix 'if' is not supported\n")
	assert.Contains(t, out, "    a = 1 if b\n")
	assert.Contains(t, out, "1 file converted, 1 written, 1 failed\n")
	assert.NotContains(t, out, root, "paths are relative to the working directory")
}

func TestTextReporter_HidesUnchanged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	result := &runner.Result{
		Files: []runner.FileOutcome{{
			Path:   "a.coffee",
			Result: &convert.PipelineResult{FileResult: &convert.FileResult{}, OutputPath: "a.js", Unchanged: true},
		}},
		Stats: runner.Stats{FilesDiscovered: 1, FilesConverted: 1, FilesUnchanged: 1},
	}

	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})
	_, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, "1 file converted, 1 up to date\n", buf.String())

	buf.Reset()
	rep = reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", Verbose: true})
	_, err = rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, "a.coffee -> a.js  up to date\n", buf.String())
}

func TestTextReporter_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})
	failed, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, failed)
	assert.Equal(t, "No CoffeeScript files found\n", buf.String())
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	root, result := runFixture(t, true)

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, IncludeOutput: true, WorkingDir: root})
	failed, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 1, failed)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Equal(t, "1.0.0", output.Version)
	require.Len(t, output.Files, 2)

	ok := output.Files[0]
	assert.Equal(t, "a.coffee", ok.Path)
	assert.Equal(t, "a.js", ok.OutputPath)
	assert.Equal(t, "coffee", ok.Kind)
	assert.Equal(t, "would convert", ok.Status)
	assert.Equal(t, "let a = 1;\n", ok.Output)
	assert.Contains(t, ok.Diff, "+let a = 1;")
	assert.False(t, ok.Written)
	assert.Nil(t, ok.Error)

	bad := output.Files[1]
	assert.Equal(t, "failed", bad.Status)
	require.NotNil(t, bad.Error)
	assert.Equal(t, "parse failure", bad.Error.Category)
	assert.Equal(t, uint32(1), bad.Error.Line)
	assert.Equal(t, uint32(7), bad.Error.Column)

	assert.Equal(t, 2, output.Summary.FilesDiscovered)
	assert.Equal(t, 1, output.Summary.FilesFailed)
}

func TestJSONReporter_ErrorWithoutLocation(t *testing.T) {
	t.Parallel()

	result := &runner.Result{
		Files: []runner.FileOutcome{{
			Path: "gone.coffee",
			Error: &convert.FileError{
				Path:     "gone.coffee",
				Category: convert.ErrFileNotFound,
				Err:      errors.New("no such file"),
			},
		}},
		Stats: runner.Stats{FilesDiscovered: 1, FilesFailed: 1},
	}

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf})
	_, err := rep.Report(context.Background(), result)
	require.NoError(t, err)

	var raw struct {
		Files []struct {
			Error map[string]any `json:"error"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	require.Len(t, raw.Files, 1)
	assert.Equal(t, "file not found", raw.Files[0].Error["category"])
	assert.NotContains(t, raw.Files[0].Error, "line")
	assert.NotContains(t, raw.Files[0].Error, "column")
}

func TestDiffReporter(t *testing.T) {
	t.Parallel()

	root, result := runFixture(t, true)

	var buf bytes.Buffer
	rep := reporter.NewDiffReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true, WorkingDir: root})
	failed, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 1, failed)

	out := buf.String()
	assert.Contains(t, out, "diff --git a/a.coffee b/a.js\n")
	assert.Contains(t, out, "--- a/a.coffee\n")
	assert.Contains(t, out, "+++ b/a.js\n")
	assert.Contains(t, out, "-a = 1\n")
	assert.Contains(t, out, "+let a = 1;\n")
	assert.Contains(t, out, "1 file changed, 1 insertion(+), 1 deletion(-)\n")
	assert.Contains(t, out, "bad.coffee:1:7")
}

func TestSummaryReporter(t *testing.T) {
	t.Parallel()

	root, result := runFixture(t, false)

	var buf bytes.Buffer
	rep := reporter.NewSummaryReporter(reporter.Options{Writer: &buf, Color: "never", WorkingDir: root})
	failed, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 1, failed)

	out := buf.String()
	assert.Contains(t, out, "bad.coffee:1:7")
	assert.NotContains(t, out, "a.coffee -> a.js")
	assert.Contains(t, out, "Conversion finished with errors")
}
