package convert

import (
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/decaf/pkg/fsutil"
	"github.com/yaklabco/decaf/pkg/parser/coffee"
	"github.com/yaklabco/decaf/pkg/syntax"
)

// Error categories. Every error returned by Engine and Pipeline matches
// exactly one of them with errors.Is.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrParseFailure indicates the source could not be parsed.
	ErrParseFailure = errors.New("parse failure")

	// ErrPatchFailure indicates a patcher could not rewrite the tree.
	ErrPatchFailure = errors.New("patch failure")

	// ErrWriteFailure indicates the output could not be written.
	ErrWriteFailure = errors.New("write failure")
)

// offsetError is implemented by errors that point at a byte in the source.
type offsetError interface {
	ErrorOffset() int
}

// FileError ties a failure to a location in one file.
type FileError struct {
	Path string

	// Line and Column are 1-based; zero when the failure has no location.
	Line   int
	Column int

	// Category is one of the Err* sentinels.
	Category error

	// SourceLine is the text of Line, for context in reports.
	SourceLine string

	Err error
}

func (e *FileError) Error() string {
	msg := e.Message()
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Path, e.Line, e.Column, e.Category, msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Category, msg)
}

// Message describes the cause without path or location.
func (e *FileError) Message() string {
	var parseErr *coffee.ParseError
	if errors.As(e.Err, &parseErr) {
		return parseErr.Message
	}
	return e.Err.Error()
}

// Position returns the location for structured output, or the zero
// Position when the error has none.
func (e *FileError) Position() syntax.Position {
	return syntax.NewPosition(e.Line, e.Column)
}

// Unwrap exposes both the category and the cause to errors.Is/As.
func (e *FileError) Unwrap() []error {
	return []error{e.Category, e.Err}
}

// newFileError locates err within snapshot when it carries an offset.
func newFileError(path string, snapshot *syntax.FileSnapshot, category, err error) *FileError {
	fileErr := &FileError{Path: path, Category: category, Err: err}

	var parseErr *coffee.ParseError
	var located offsetError
	switch {
	case errors.As(err, &parseErr):
		fileErr.Line, fileErr.Column = parseErr.Line, parseErr.Column
	case snapshot != nil && errors.As(err, &located):
		pos := snapshot.PositionAt(located.ErrorOffset())
		fileErr.Line, fileErr.Column = int(pos.Line), int(pos.Column)
	}
	if snapshot != nil && fileErr.Line > 0 {
		fileErr.SourceLine = string(snapshot.LineContent(fileErr.Line))
	}
	return fileErr
}

// categorizeIOError maps a filesystem error onto a category.
func categorizeIOError(path string, err error, fallback error) *FileError {
	category := fallback
	switch {
	case errors.Is(err, fsutil.ErrNotFound), errors.Is(err, os.ErrNotExist):
		category = ErrFileNotFound
	case errors.Is(err, fsutil.ErrPermissionDenied), errors.Is(err, os.ErrPermission):
		category = ErrPermissionDenied
	}
	return &FileError{Path: path, Category: category, Err: err}
}

// IsConversionError reports whether err carries one of the categories.
func IsConversionError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrParseFailure) ||
		errors.Is(err, ErrPatchFailure) ||
		errors.Is(err, ErrWriteFailure)
}
