package reporter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/decaf/internal/ui/pretty"
	"github.com/yaklabco/decaf/pkg/edit"
	"github.com/yaklabco/decaf/pkg/runner"
)

// DiffReporter formats dry-run results as git-style unified diffs from
// each CoffeeScript source to its JavaScript output.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Report implements Reporter.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		return 0, nil
	}

	var filesWithDiffs int
	var totalAdditions, totalDeletions int

	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprint(r.out, r.styles.FormatFileError(r.opts.displayPath(file.Path), file.Error))
			continue
		}

		if file.Result == nil || !file.Result.Diff.HasChanges() {
			continue
		}

		diff := file.Result.Diff
		filesWithDiffs++
		totalAdditions += diff.Additions
		totalDeletions += diff.Deletions
		r.writeDiff(diff)
	}

	if filesWithDiffs > 0 && r.opts.ShowSummary {
		r.writeSummary(filesWithDiffs, totalAdditions, totalDeletions)
	}

	return failedCount(result), nil
}

// writeDiff outputs a single file's diff with formatting.
func (r *DiffReporter) writeDiff(diff *edit.Diff) {
	display := *diff
	display.Path = r.opts.displayPath(diff.Path)
	if diff.NewPath != "" {
		display.NewPath = r.opts.displayPath(diff.NewPath)
	}

	fmt.Fprintln(r.out, r.styles.DiffHeader.Render(display.GitHeader()))
	for _, line := range strings.Split(strings.TrimSuffix(display.String(), "\n"), "\n") {
		r.writeDiffLine(line)
	}
	fmt.Fprintln(r.out)
}

// writeDiffLine formats a single diff line with color.
func (r *DiffReporter) writeDiffLine(line string) {
	var styled string

	switch {
	case strings.HasPrefix(line, "@@"):
		styled = r.styles.DiffHunk.Render(line)
	case strings.HasPrefix(line, "+"):
		styled = r.styles.DiffAdd.Render(line)
	case strings.HasPrefix(line, "-"):
		styled = r.styles.DiffRemove.Render(line)
	default:
		styled = r.styles.DiffContext.Render(line)
	}

	fmt.Fprintln(r.out, styled)
}

// writeSummary writes a summary line at the end.
func (r *DiffReporter) writeSummary(files, additions, deletions int) {
	parts := []string{fmt.Sprintf("%d %s changed", files, plural(files, "file", "files"))}

	if additions > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(
			fmt.Sprintf("%d %s(+)", additions, plural(additions, "insertion", "insertions"))))
	}
	if deletions > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(
			fmt.Sprintf("%d %s(-)", deletions, plural(deletions, "deletion", "deletions"))))
	}

	fmt.Fprintln(r.out, strings.Join(parts, ", "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
