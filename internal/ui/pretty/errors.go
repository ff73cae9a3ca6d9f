package pretty

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/decaf/pkg/convert"
)

// sourceIndent aligns source context under a failure line.
const sourceIndent = "    "

// FormatFileError formats a failed file as 'path:line:col: category: message'
// followed, when known, by the offending line and a caret.
func (s *Styles) FormatFileError(path string, err error) string {
	var builder strings.Builder

	var fileErr *convert.FileError
	if !errors.As(err, &fileErr) {
		fmt.Fprintf(&builder, "%s: %s\n", s.FilePath.Render(path), s.Error.Render(err.Error()))
		return builder.String()
	}

	location := s.FilePath.Render(path)
	if fileErr.Line > 0 {
		location += s.Location.Render(fmt.Sprintf(":%d:%d", fileErr.Line, fileErr.Column))
	}

	fmt.Fprintf(&builder, "%s: %s: %s\n", location, s.Category.Render(fmt.Sprint(fileErr.Category)), s.Message.Render(fileErr.Message()))

	if fileErr.SourceLine != "" {
		builder.WriteString(s.FormatSourceContext(fileErr.SourceLine, fileErr.Column))
	}
	return builder.String()
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	builder.WriteString(sourceIndent + s.SourceLine.Render(line) + "\n")
	if column > 0 {
		// Tabs keep their width so the caret lines up.
		var pad strings.Builder
		for i := 0; i < column-1 && i < len(line); i++ {
			if line[i] == '\t' {
				pad.WriteByte('\t')
			} else {
				pad.WriteByte(' ')
			}
		}
		builder.WriteString(sourceIndent + pad.String() + s.Caret.Render("^") + "\n")
	}
	return builder.String()
}

// FormatFileStatus formats one line for a converted file.
func (s *Styles) FormatFileStatus(path, outputPath, status string, edits int) string {
	line := s.FilePath.Render(path)
	if outputPath != "" {
		line += s.Dim.Render(" -> ") + outputPath
	}
	line += "  " + s.Success.Render(status)
	if edits > 0 {
		line += s.Dim.Render(fmt.Sprintf(" (%d edits)", edits))
	}
	return line + "\n"
}
