package logging

// Structured logging keys.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Conversion fields.
	FieldEdits    = "edits"
	FieldPatchers = "patchers"
	FieldLine     = "line"
	FieldColumn   = "column"
	FieldDryRun   = "dry_run"
	FieldJobs     = "jobs"
	FieldFormat   = "format"

	// Run statistics.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesConverted  = "files_converted"
	FieldFilesFailed     = "files_failed"
	FieldFilesWritten    = "files_written"

	// Build information.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
