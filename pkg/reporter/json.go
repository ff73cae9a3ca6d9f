package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yaklabco/decaf/pkg/convert"
	"github.com/yaklabco/decaf/pkg/runner"
)

// jsonSchemaVersion is bumped when the JSON shape changes incompatibly.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path       string     `json:"path"`
	OutputPath string     `json:"outputPath,omitempty"`
	Kind       string     `json:"kind,omitempty"`
	Status     string     `json:"status"`
	Edits      int        `json:"edits"`
	Patchers   int        `json:"patchers,omitempty"`
	Written    bool       `json:"written"`
	Diff       string     `json:"diff,omitempty"`
	Output     string     `json:"output,omitempty"`
	Error      *JSONError `json:"error,omitempty"`
}

// JSONError describes a failed file.
type JSONError struct {
	Category string `json:"category,omitempty"`
	Message  string `json:"message"`
	Line     uint32 `json:"line,omitempty"`
	Column   uint32 `json:"column,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered int `json:"filesDiscovered"`
	FilesConverted  int `json:"filesConverted"`
	FilesWritten    int `json:"filesWritten"`
	FilesUnchanged  int `json:"filesUnchanged"`
	FilesSkipped    int `json:"filesSkipped"`
	FilesFailed     int `json:"filesFailed"`
	BackupsCreated  int `json:"backupsCreated"`
	EditsTotal      int `json:"editsTotal"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesFailed, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Files:   make([]JSONFileResult, 0),
	}
	if result == nil {
		return output
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		FilesDiscovered: stats.FilesDiscovered,
		FilesConverted:  stats.FilesConverted,
		FilesWritten:    stats.FilesWritten,
		FilesUnchanged:  stats.FilesUnchanged,
		FilesSkipped:    stats.FilesSkipped,
		FilesFailed:     stats.FilesFailed,
		BackupsCreated:  stats.BackupsCreated,
		EditsTotal:      stats.EditsTotal,
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		output.Files = append(output.Files, r.fileResult(file))
	}
	return output
}

func (r *JSONReporter) fileResult(file runner.FileOutcome) JSONFileResult {
	fr := JSONFileResult{Path: r.opts.displayPath(file.Path)}

	if file.Error != nil {
		fr.Status = "failed"
		fr.Error = &JSONError{Message: file.Error.Error()}
		var fileErr *convert.FileError
		if errors.As(file.Error, &fileErr) {
			fr.Error.Category = fmt.Sprint(fileErr.Category)
			fr.Error.Message = fileErr.Message()
			if pos := fileErr.Position(); pos.IsValid() {
				fr.Error.Line = pos.Line
				fr.Error.Column = pos.Column
			}
		}
		return fr
	}

	pr := file.Result
	if pr == nil {
		return fr
	}
	fr.OutputPath = r.opts.displayPath(pr.OutputPath)
	fr.Status = pr.Summary()
	fr.Edits = pr.EditCount()
	fr.Written = pr.Written
	if pr.FileResult != nil {
		fr.Kind = pr.Kind.String()
		fr.Patchers = pr.Patchers
		if r.opts.IncludeOutput {
			fr.Output = string(pr.Output)
		}
	}
	if pr.Diff.HasChanges() {
		fr.Diff = pr.Diff.FullString()
	}
	return fr
}
