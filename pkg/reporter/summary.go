package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/decaf/internal/ui/pretty"
	"github.com/yaklabco/decaf/pkg/runner"
)

// SummaryReporter prints only failures and an aggregate block.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	var stats runner.Stats
	if result != nil {
		stats = result.Stats
		for _, file := range result.Failures() {
			fmt.Fprint(r.bw, r.styles.FormatFileError(r.opts.displayPath(file.Path), file.Error))
		}
	}
	fmt.Fprint(r.bw, r.styles.FormatSummary(stats))

	return failedCount(result), nil
}
