package cli

import (
	"errors"

	"github.com/yaklabco/decaf/internal/configloader"
	"github.com/yaklabco/decaf/pkg/convert"
	"github.com/yaklabco/decaf/pkg/runner"
)

// Exit codes for decaf.
const (
	// ExitSuccess indicates every file converted.
	ExitSuccess = 0

	// ExitConversionErrors indicates at least one file failed to convert.
	ExitConversionErrors = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrConversionFailed signals that some files failed; they have
	// already been reported.
	ErrConversionFailed = errors.New("conversion failed")

	// ErrInvalidUsage wraps bad flag or argument combinations.
	ErrInvalidUsage = errors.New("invalid usage")
)

// ExitCodeFromResult determines the exit code of a finished run.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasFailures() {
		return ExitConversionErrors
	}
	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var validationErr *configloader.ValidationError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrConversionFailed):
		return ExitConversionErrors
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.As(err, &validationErr):
		return ExitConfigError
	case errors.Is(err, convert.ErrFileNotFound),
		errors.Is(err, convert.ErrPermissionDenied),
		errors.Is(err, convert.ErrWriteFailure):
		return ExitIOError
	case errors.Is(err, convert.ErrParseFailure), errors.Is(err, convert.ErrPatchFailure):
		return ExitConversionErrors
	default:
		return ExitInternalError
	}
}
