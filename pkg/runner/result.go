package runner

import "github.com/yaklabco/decaf/pkg/convert"

// FileOutcome is the result of one file. Exactly one of Result and Error
// is set.
type FileOutcome struct {
	Path   string
	Result *convert.PipelineResult
	Error  error
}

// Stats aggregates a run.
type Stats struct {
	FilesDiscovered int
	FilesConverted  int
	FilesWritten    int
	FilesUnchanged  int
	FilesSkipped    int
	FilesFailed     int
	BackupsCreated  int

	// EditsTotal sums committed edits over converted files.
	EditsTotal int
}

// Result is the overall runner result.
type Result struct {
	// Files is ordered like discovery: by path.
	Files []FileOutcome
	Stats Stats
}

// HasFailures reports whether any file failed to convert.
func (r *Result) HasFailures() bool {
	return r != nil && r.Stats.FilesFailed > 0
}

// Failures returns the failed outcomes in order.
func (r *Result) Failures() []FileOutcome {
	if r == nil {
		return nil
	}
	var out []FileOutcome
	for _, f := range r.Files {
		if f.Error != nil {
			out = append(out, f)
		}
	}
	return out
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesFailed++
		return
	}
	pr := outcome.Result
	if pr == nil {
		return
	}

	r.Stats.FilesConverted++
	r.Stats.EditsTotal += pr.EditCount()
	switch {
	case pr.Skipped:
		r.Stats.FilesSkipped++
	case pr.Unchanged:
		r.Stats.FilesUnchanged++
	case pr.Written:
		r.Stats.FilesWritten++
	}
	if pr.BackupCreated {
		r.Stats.BackupsCreated++
	}
}
