package coffee

import "fmt"

// ParseError reports source the parser could not accept.
type ParseError struct {
	// Path is the file being parsed (may be empty).
	Path string

	// Line is the 1-based line of the offending token.
	Line int

	// Column is the 1-based byte column of the offending token.
	Column int

	// Offset is the byte offset of the offending token.
	Offset int

	// Message describes the problem.
	Message string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
}

// ErrorOffset returns the byte offset the error refers to.
func (e *ParseError) ErrorOffset() int {
	return e.Offset
}

// lexError and syntaxError carry an offset until the parser can attach a
// line and column.
type lexError struct {
	Offset  int
	Message string
}

func (e *lexError) Error() string {
	return e.Message
}

type syntaxError struct {
	Offset  int
	Message string
}

func (e *syntaxError) Error() string {
	return e.Message
}
