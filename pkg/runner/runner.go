package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/decaf/internal/logging"
	"github.com/yaklabco/decaf/pkg/convert"
)

// Runner converts discovered files with a bounded worker pool.
type Runner struct {
	Pipeline *convert.Pipeline
}

// New creates a Runner around pipeline.
func New(pipeline *convert.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers files and converts them concurrently. A failing file is
// recorded in its outcome and does not stop the others; only discovery
// errors and cancellation fail the run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	sources, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	return r.RunSources(ctx, sources, opts)
}

// RunSources converts an already discovered file list.
func (r *Runner) RunSources(ctx context.Context, sources []Source, opts Options) (*Result, error) {
	result := &Result{Files: make([]FileOutcome, 0, len(sources))}
	result.Stats.FilesDiscovered = len(sources)
	if len(sources) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(sources))

	logging.FromContext(ctx).Debug("converting",
		logging.FieldFilesDiscovered, len(sources),
		logging.FieldJobs, jobs,
	)

	// Each worker owns one slot, so no locking is needed and the order
	// matches sources.
	outcomes := make([]FileOutcome, len(sources))
	done := make([]bool, len(sources))

	var group errgroup.Group
	group.SetLimit(jobs)
	for i, src := range sources {
		if ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pipelineOpts := opts.Pipeline
			pipelineOpts.BaseDir = src.Base

			outcome := FileOutcome{Path: src.Path}
			pr, err := r.Pipeline.ProcessFile(ctx, src.Path, pipelineOpts)
			if err != nil {
				outcome.Error = err
			} else {
				outcome.Result = pr
			}
			outcomes[i] = outcome
			done[i] = true
			return nil
		})
	}
	waitErr := group.Wait()

	for i, outcome := range outcomes {
		if done[i] {
			result.accumulate(outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	if waitErr != nil {
		return result, fmt.Errorf("run: %w", waitErr)
	}
	return result, nil
}
