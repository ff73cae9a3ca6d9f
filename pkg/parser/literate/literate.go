// Package literate turns Literate CoffeeScript into plain CoffeeScript.
//
// A literate file is Markdown whose indented code blocks form the program.
// Extract keeps those blocks, dedented, and turns every other non-blank
// line into a '#' comment, so the output has exactly as many lines as the
// input and parse errors point at the right line of the original.
package literate

import (
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/decaf/pkg/syntax"
)

// Extractor converts literate sources. It is safe for concurrent use.
type Extractor struct {
	md goldmark.Markdown
}

// New creates an Extractor using CommonMark block parsing.
func New() *Extractor {
	return &Extractor{md: goldmark.New()}
}

// Extract returns the CoffeeScript program embedded in content.
func (e *Extractor) Extract(ctx context.Context, content []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract cancelled: %w", err)
	}

	doc := e.md.Parser().Parse(text.NewReader(content), parser.WithContext(parser.NewContext()))

	// codeStart maps a line's start offset to where its code begins once the
	// block indentation is removed.
	codeStart := make(map[int]int)
	lines := syntax.BuildLines(content)
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindCodeBlock {
			return ast.WalkContinue, nil
		}
		segments := n.Lines()
		for i := range segments.Len() {
			seg := segments.At(i)
			codeStart[lineStartOf(lines, seg.Start)] = seg.Start
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}

	var out strings.Builder
	out.Grow(len(content) + len(lines)*2)
	for _, line := range lines {
		body := content[line.StartOffset:line.NewlineStart]
		newline := content[line.NewlineStart:line.EndOffset]

		switch start, ok := codeStart[line.StartOffset]; {
		case ok:
			out.Write(content[min(start, line.NewlineStart):line.NewlineStart])
		case len(strings.TrimSpace(string(body))) == 0:
		default:
			out.WriteString("# ")
			out.WriteString(strings.TrimLeft(string(body), " \t"))
		}
		out.Write(newline)
	}
	return []byte(out.String()), nil
}

func lineStartOf(lines []syntax.LineInfo, offset int) int {
	lo, hi := 0, len(lines)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if lines[mid].StartOffset <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	if len(lines) == 0 {
		return 0
	}
	return lines[lo].StartOffset
}
