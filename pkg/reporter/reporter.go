// Package reporter writes conversion results in the supported output
// formats.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/decaf/pkg/runner"
)

// Reporter formats and writes conversion results.
type Reporter interface {
	// Report writes formatted output for result and returns the number of
	// failed files.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	case FormatSummary:
		return NewSummaryReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func failedCount(result *runner.Result) int {
	if result == nil {
		return 0
	}
	return result.Stats.FilesFailed
}
