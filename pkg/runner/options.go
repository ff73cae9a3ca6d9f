// Package runner converts many files concurrently. Each file goes through
// its own convert.Pipeline call with no shared mutable state, and outcomes
// come back in discovery order whatever order the workers finish in.
package runner

import "github.com/yaklabco/decaf/pkg/convert"

// Options controls a multi-file run.
type Options struct {
	// Paths are the files or directories to convert. Defaults to ".".
	Paths []string

	// WorkingDir resolves relative Paths. Defaults to the process
	// working directory.
	WorkingDir string

	// IncludeGlobs restricts discovery to matching paths, relative to
	// WorkingDir. Empty includes every CoffeeScript file.
	IncludeGlobs []string

	// ExcludeGlobs skips matching files and directories.
	ExcludeGlobs []string

	// Literate enables .litcoffee and .coffee.md files.
	Literate bool

	// FollowSymlinks descends into symlinked directories.
	FollowSymlinks bool

	// Jobs caps concurrent conversions; 0 or negative means runtime.NumCPU().
	Jobs int

	// Pipeline is applied to every file. BaseDir is filled in per file.
	Pipeline convert.Options
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
