package patch

import (
	"github.com/yaklabco/decaf/pkg/syntax"
)

// Before returns the offset of the node's first byte.
func (p *NodePatcher) Before() int {
	return p.node.Range.StartOffset
}

// After returns the offset just past the node's last byte.
func (p *NodePatcher) After() int {
	return p.node.Range.EndOffset
}

// Text returns the node's original source text.
func (p *NodePatcher) Text() string {
	return p.tree.snapshot.NodeText(p.node)
}

// FirstToken returns the token that starts the node.
func (p *NodePatcher) FirstToken() (syntax.Token, error) {
	tok, ok := p.tree.snapshot.TokenAfter(p.Before())
	if !ok || tok.StartOffset != p.Before() {
		return syntax.Token{}, p.Malformed(p.Before(), "first token")
	}
	return tok, nil
}

// LastToken returns the token that ends the node.
func (p *NodePatcher) LastToken() (syntax.Token, error) {
	tok, ok := p.tree.snapshot.TokenBefore(p.After())
	if !ok || tok.EndOffset != p.After() {
		return syntax.Token{}, p.Malformed(p.After(), "last token")
	}
	return tok, nil
}

// TokenAfter returns the first significant token at or after offset
// within the node.
func (p *NodePatcher) TokenAfter(offset int) (syntax.Token, error) {
	tok, ok := p.tree.snapshot.TokenAfter(offset)
	if !ok || tok.StartOffset >= p.After() {
		return syntax.Token{}, p.Malformed(offset, "token")
	}
	return tok, nil
}

// TokenBefore returns the last significant token ending at or before
// offset within the node.
func (p *NodePatcher) TokenBefore(offset int) (syntax.Token, error) {
	tok, ok := p.tree.snapshot.TokenBefore(offset)
	if !ok || tok.StartOffset < p.Before() {
		return syntax.Token{}, p.Malformed(offset, "token")
	}
	return tok, nil
}

// ExpectToken returns the first token of kind in [offset, After()).
func (p *NodePatcher) ExpectToken(offset int, kind syntax.TokenKind) (syntax.Token, error) {
	tok, ok := p.tree.snapshot.NextTokenOfKind(offset, p.After(), kind)
	if !ok {
		return syntax.Token{}, p.Malformed(offset, kind.String()+" token")
	}
	return tok, nil
}

// HasTokenBetween reports whether a token of kind lies in [start, end).
func (p *NodePatcher) HasTokenBetween(start, end int, kind syntax.TokenKind) bool {
	_, ok := p.tree.snapshot.NextTokenOfKind(start, end, kind)
	return ok
}

// Indent returns the indentation of the line the node starts on.
func (p *NodePatcher) Indent() string {
	return p.tree.snapshot.IndentAt(p.Before())
}

// IndentUnit returns the file's indentation step.
func (p *NodePatcher) IndentUnit() string {
	return p.tree.indentUnit
}

// Newline returns the line terminator used by the file.
func (p *NodePatcher) Newline() string {
	return p.tree.newline
}

// LineEndAfter returns the offset at which text can be appended after
// offset without splitting a trailing comment on the same line: the end of
// that comment if there is one, otherwise offset itself.
func (p *NodePatcher) LineEndAfter(offset int) int {
	snap := p.tree.snapshot
	idx := snap.TokenIndexAt(offset)
	if idx >= len(snap.Tokens) {
		return offset
	}
	tok := snap.Tokens[idx]
	if tok.Kind == syntax.TokComment && tok.StartOffset < snap.LineEnd(offset) {
		return tok.EndOffset
	}
	return offset
}

// TrailingEnd returns the offset after which a container appends text that
// must follow everything this node emits. It defaults to the node's end, or
// to the trailing end of a last child that ends where the node ends.
func (p *NodePatcher) TrailingEnd() int {
	if p.trailing > p.After() {
		return p.trailing
	}
	if n := len(p.children); n > 0 {
		last := p.tree.patchers[p.children[n-1]].Base()
		if last.After() == p.After() {
			return last.TrailingEnd()
		}
	}
	return p.After()
}

// SetTrailingEnd records that the patcher emitted text up to offset, past
// the end of its node.
func (p *NodePatcher) SetTrailingEnd(offset int) {
	p.trailing = offset
}

// CommentsOwned returns the comment tokens this node is responsible for.
func (p *NodePatcher) CommentsOwned() []syntax.Token {
	return p.tree.comments[p.node.ID]
}

// rewriteComments turns '#' comments into '//' comments and '###' blocks
// into '/* */' blocks. A leading '#!' line is left alone.
func (p *NodePatcher) rewriteComments() error {
	content := p.tree.snapshot.Content
	for _, tok := range p.CommentsOwned() {
		switch tok.Kind {
		case syntax.TokComment:
			if tok.StartOffset == 0 && tok.Len() > 1 && content[1] == '!' {
				continue
			}
			if err := p.Overwrite(tok.StartOffset, tok.StartOffset+1, "//"); err != nil {
				return err
			}
		case syntax.TokBlockComment:
			if err := p.Overwrite(tok.StartOffset, tok.StartOffset+3, "/*"); err != nil {
				return err
			}
			if err := p.Overwrite(tok.EndOffset-3, tok.EndOffset, "*/"); err != nil {
				return err
			}
		}
	}
	return nil
}
