package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/decaf/internal/ui/pretty"
	"github.com/yaklabco/decaf/pkg/runner"
)

// TextReporter prints one line per changed file and every failure with
// its source context.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(runner.Stats{}))
		}
		return 0, nil
	}

	for _, file := range result.Files {
		path := r.opts.displayPath(file.Path)
		if file.Error != nil {
			fmt.Fprint(r.bw, r.styles.FormatFileError(path, file.Error))
			continue
		}

		pr := file.Result
		if pr == nil || r.opts.Quiet || (pr.Unchanged && !r.opts.Verbose) {
			continue
		}
		fmt.Fprint(r.bw, r.styles.FormatFileStatus(path, r.opts.displayPath(pr.OutputPath), pr.Summary(), pr.EditCount()))
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return failedCount(result), nil
}
