package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/decaf/pkg/config"
	"github.com/yaklabco/decaf/pkg/edit"
	"github.com/yaklabco/decaf/pkg/fsutil"
	"github.com/yaklabco/decaf/pkg/langdetect"
)

// ErrOutputOutsideDir is returned when a source path cannot be mirrored
// under the output directory.
var ErrOutputOutsideDir = errors.New("source is outside the base directory")

// Options controls how Pipeline writes results.
type Options struct {
	// DryRun computes the output and a diff without writing.
	DryRun bool

	// Stdout leaves the file system untouched; the caller prints Output.
	Stdout bool

	// OutputDir mirrors converted files under this directory, relative to
	// BaseDir. Empty writes next to the source.
	OutputDir string

	// BaseDir is the root the source layout is mirrored from.
	BaseDir string

	// Extension replaces the source extension. Defaults to ".js".
	Extension string

	// Backup controls what happens to an existing output file.
	Backup fsutil.BackupConfig

	// StrictRaceDetection re-hashes the source before writing instead of
	// comparing only size and mtime.
	StrictRaceDetection bool
}

// DefaultOptions returns defaults matching config.NewConfig.
func DefaultOptions() Options {
	return Options{
		Extension:           config.DefaultExtension,
		Backup:              fsutil.DefaultBackupConfig(),
		StrictRaceDetection: true,
	}
}

// OptionsFromConfig derives pipeline options from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	if cfg == nil {
		return opts
	}
	opts.DryRun = cfg.DryRun
	opts.Stdout = cfg.Stdout
	opts.OutputDir = cfg.OutputDir
	if cfg.Extension != "" {
		opts.Extension = cfg.Extension
	}
	opts.Backup = fsutil.BackupConfig{
		Enabled: cfg.BackupsEnabled(),
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
	return opts
}

// PipelineResult describes what happened to one file.
type PipelineResult struct {
	*FileResult

	// OutputPath is where the JavaScript goes.
	OutputPath string

	// OriginalInfo is the source state before processing.
	OriginalInfo *fsutil.FileInfo

	// Diff runs from the parsed source to the output. Set in dry-run mode
	// only.
	Diff *edit.Diff

	Skipped    bool
	SkipReason string

	// Unchanged is true when the output file already held this content.
	Unchanged bool

	// DryRun marks a result computed only for preview.
	DryRun bool

	BackupCreated bool
	Written       bool
}

// Summary returns a human-readable status.
func (pr *PipelineResult) Summary() string {
	switch {
	case pr.Skipped:
		return "skipped: " + pr.SkipReason
	case pr.DryRun:
		return "would convert"
	case pr.Written && pr.BackupCreated:
		return "converted (backup created)"
	case pr.Written:
		return "converted"
	case pr.Unchanged:
		return "up to date"
	default:
		return "ok"
	}
}

// Pipeline wraps an Engine with file I/O and write safety.
type Pipeline struct {
	Engine *Engine
}

// NewPipeline creates a pipeline around engine.
func NewPipeline(engine *Engine) *Pipeline {
	return &Pipeline{Engine: engine}
}

// ProcessFile converts the file at path.
//
// Steps:
//  1. Read and hash the source.
//  2. Convert in memory.
//  3. Resolve the output path.
//  4. In dry-run or stdout mode, stop (dry-run also builds a diff).
//  5. Check the source was not modified meanwhile.
//  6. Back up an existing output file.
//  7. Write the output atomically.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, opts Options) (*PipelineResult, error) {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeIOError(path, err, ErrFileNotFound)
	}

	result, err := p.ProcessContent(ctx, path, content, opts)
	if err != nil {
		return nil, err
	}
	result.OriginalInfo = info
	if opts.DryRun || opts.Stdout {
		return result, nil
	}

	modified, err := p.checkModified(ctx, info, opts.StrictRaceDetection)
	if err != nil {
		return nil, categorizeIOError(path, err, ErrWriteFailure)
	}
	if modified {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	if unchanged, err := sameContent(ctx, result.OutputPath, result.Output); err == nil && unchanged {
		result.Unchanged = true
		return result, nil
	}

	created, err := fsutil.CreateBackup(ctx, result.OutputPath, opts.Backup)
	if err != nil {
		return nil, categorizeIOError(result.OutputPath, err, ErrWriteFailure)
	}
	result.BackupCreated = created

	if err := fsutil.WriteAtomic(ctx, result.OutputPath, result.Output, outputMode(info)); err != nil {
		return nil, categorizeIOError(result.OutputPath, err, ErrWriteFailure)
	}
	result.Written = true
	return result, nil
}

// ProcessContent converts in-memory content without writing anything.
// In dry-run mode the result carries a source-to-output diff.
func (p *Pipeline) ProcessContent(ctx context.Context, path string, content []byte, opts Options) (*PipelineResult, error) {
	fileResult, err := p.Engine.ConvertContent(ctx, path, content)
	if err != nil {
		return nil, err
	}

	outputPath, err := OutputPath(path, opts)
	if err != nil {
		return nil, &FileError{Path: path, Category: ErrWriteFailure, Err: err}
	}

	result := &PipelineResult{FileResult: fileResult, OutputPath: outputPath, DryRun: opts.DryRun}
	if opts.DryRun {
		result.Diff = edit.GenerateDiff(path, fileResult.Source, fileResult.Output)
		if result.Diff != nil {
			result.Diff.NewPath = outputPath
		}
	}
	return result, nil
}

// OutputPath maps a source path to its JavaScript path.
func OutputPath(path string, opts Options) (string, error) {
	ext := opts.Extension
	if ext == "" {
		ext = config.DefaultExtension
	}
	name := stripSourceExt(path) + ext

	if opts.OutputDir == "" {
		return name, nil
	}

	base := opts.BaseDir
	if base == "" {
		base = "."
	}
	rel, err := filepath.Rel(base, name)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s not under %s", ErrOutputOutsideDir, path, base)
	}
	return filepath.Join(opts.OutputDir, rel), nil
}

// stripSourceExt removes the longest recognized CoffeeScript extension,
// or the last extension of any other file.
func stripSourceExt(path string) string {
	lower := strings.ToLower(path)
	longest := ""
	for ext := range langdetect.Extensions {
		if strings.HasSuffix(lower, ext) && len(ext) > len(longest) {
			longest = ext
		}
	}
	if longest != "" {
		return path[:len(path)-len(longest)]
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

func (p *Pipeline) checkModified(ctx context.Context, info *fsutil.FileInfo, strict bool) (bool, error) {
	if strict {
		return fsutil.CheckModified(ctx, info)
	}
	return fsutil.CheckModifiedQuick(ctx, info)
}

func sameContent(ctx context.Context, path string, content []byte) (bool, error) {
	existing, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return false, err
	}
	return string(existing) == string(content), nil
}

// outputMode gives the output the source's permission bits, so
// executable scripts stay executable.
func outputMode(info *fsutil.FileInfo) os.FileMode {
	if info == nil {
		return fsutil.DefaultFileMode
	}
	return info.Mode.Perm()
}
