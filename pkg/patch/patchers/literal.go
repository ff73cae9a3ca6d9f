package patchers

import (
	"github.com/yaklabco/decaf/pkg/patch"
	"github.com/yaklabco/decaf/pkg/syntax"
)

// StringPatcher turns interpolated strings into template literals.
type StringPatcher struct {
	*patch.NodePatcher
}

// Rewrite converts '"a#{b}c"' to '`a${b}c`'. Strings without
// interpolation are left alone.
func (s *StringPatcher) Rewrite() error {
	parts := s.ChildrenIn(syntax.SlotInterpolation)
	if len(parts) == 0 {
		return nil
	}

	for _, tok := range s.ownTokens(parts) {
		start, end := tok.StartOffset, tok.EndOffset
		switch tok.Kind {
		case syntax.TokStringStart:
			if err := s.Overwrite(start, start+1, "`"); err != nil {
				return err
			}
			if err := s.escapeLiteral(start+1, end-2); err != nil {
				return err
			}
			if err := s.Overwrite(end-2, end, "${"); err != nil {
				return err
			}
		case syntax.TokStringMid:
			if err := s.escapeLiteral(start+1, end-2); err != nil {
				return err
			}
			if err := s.Overwrite(end-2, end, "${"); err != nil {
				return err
			}
		case syntax.TokStringEnd:
			if err := s.escapeLiteral(start+1, end-1); err != nil {
				return err
			}
			if err := s.Overwrite(end-1, end, "`"); err != nil {
				return err
			}
		}
	}
	return nil
}

// ownTokens returns the string-part tokens of this literal, skipping those
// of strings nested inside interpolations.
func (s *StringPatcher) ownTokens(parts []patch.Patcher) []syntax.Token {
	var out []syntax.Token
	for _, tok := range s.Snapshot().TokensIn(s.Node().Range) {
		if tok.Kind != syntax.TokStringStart && tok.Kind != syntax.TokStringMid && tok.Kind != syntax.TokStringEnd {
			continue
		}
		nested := false
		for _, part := range parts {
			r := part.Base().Node().Range
			if r.StartOffset <= tok.StartOffset && tok.EndOffset <= r.EndOffset {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, tok)
		}
	}
	return out
}

// escapeLiteral escapes the characters a template literal treats
// specially inside [start, end).
func (s *StringPatcher) escapeLiteral(start, end int) error {
	content := s.Snapshot().Content
	for i := start; i < end; i++ {
		switch {
		case content[i] == '\\':
			i++
		case content[i] == '`':
			if err := s.Overwrite(i, i+1, "\\`"); err != nil {
				return err
			}
		case content[i] == '$' && i+1 < end && content[i+1] == '{':
			if err := s.Overwrite(i, i+1, "\\$"); err != nil {
				return err
			}
		}
	}
	return nil
}

// BoolPatcher maps CoffeeScript's boolean aliases to true and false.
type BoolPatcher struct {
	*patch.NodePatcher
}

// Rewrite replaces yes/on/no/off.
func (b *BoolPatcher) Rewrite() error {
	var text string
	switch b.Node().Data {
	case "yes", "on":
		text = "true"
	case "no", "off":
		text = "false"
	default:
		return nil
	}
	tok, err := b.ExpectToken(b.Before(), syntax.TokKeyword)
	if err != nil {
		return err
	}
	return b.Overwrite(tok.StartOffset, tok.EndOffset, text)
}
