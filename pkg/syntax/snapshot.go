// Package syntax provides the immutable CoffeeScript tree consumed by the
// patcher framework. It defines:
//   - FileSnapshot: the source buffer, line index, token stream and root node
//   - Token: a classified lexeme with a byte range
//   - Node: a syntax tree node with kind, range, slot and ordered children
//
// Everything in this package is read-only once a parser has returned it.
package syntax

// FileSnapshot is an immutable view of one source file.
type FileSnapshot struct {
	// Path is the file path (may be empty for in-memory content).
	Path string

	// Content is the full file bytes.
	Content []byte

	// Lines contains metadata for each line in the file.
	Lines []LineInfo

	// Tokens is the ordered token stream. Whitespace is not tokenized;
	// comments and significant newlines are.
	Tokens []Token

	// Root is the Program node.
	Root *Node

	// NodeCount is one past the largest node ID in the tree.
	NodeCount int
}

// LineInfo holds metadata for a single line in a file.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline (e.g., last line), this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of file).
	EndOffset int
}

// NewFileSnapshot creates a new FileSnapshot from content.
// It builds the line index but does not tokenize or parse.
func NewFileSnapshot(path string, content []byte) *FileSnapshot {
	return &FileSnapshot{
		Path:    path,
		Content: content,
		Lines:   BuildLines(content),
	}
}

// Text returns the source text covered by r.
func (f *FileSnapshot) Text(r SourceRange) string {
	if r.StartOffset < 0 || r.EndOffset > len(f.Content) || r.StartOffset > r.EndOffset {
		return ""
	}
	return string(f.Content[r.StartOffset:r.EndOffset])
}

// NodeText returns the source text of a node.
func (f *FileSnapshot) NodeText(n *Node) string {
	if n == nil {
		return ""
	}
	return f.Text(n.Range)
}
