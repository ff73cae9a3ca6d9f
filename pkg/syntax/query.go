package syntax

import "sort"

// TokenIndexAt returns the index of the first token starting at or after
// offset. It returns len(f.Tokens) when no such token exists.
func (f *FileSnapshot) TokenIndexAt(offset int) int {
	return sort.Search(len(f.Tokens), func(i int) bool {
		return f.Tokens[i].StartOffset >= offset
	})
}

// TokenAfter returns the first non-trivia token starting at or after offset.
func (f *FileSnapshot) TokenAfter(offset int) (Token, bool) {
	for i := f.TokenIndexAt(offset); i < len(f.Tokens); i++ {
		if !f.Tokens[i].IsTrivia() {
			return f.Tokens[i], true
		}
	}
	return Token{}, false
}

// TokenBefore returns the last non-trivia token ending at or before offset.
func (f *FileSnapshot) TokenBefore(offset int) (Token, bool) {
	idx := sort.Search(len(f.Tokens), func(i int) bool {
		return f.Tokens[i].EndOffset > offset
	})
	for i := idx - 1; i >= 0; i-- {
		if !f.Tokens[i].IsTrivia() {
			return f.Tokens[i], true
		}
	}
	return Token{}, false
}

// NextTokenOfKind returns the first token of kind within [offset, limit).
func (f *FileSnapshot) NextTokenOfKind(offset, limit int, kind TokenKind) (Token, bool) {
	for i := f.TokenIndexAt(offset); i < len(f.Tokens); i++ {
		tok := f.Tokens[i]
		if tok.StartOffset >= limit {
			break
		}
		if tok.Kind == kind {
			return tok, true
		}
	}
	return Token{}, false
}

// PrevTokenOfKind returns the last token of kind ending at or before offset
// and starting at or after floor.
func (f *FileSnapshot) PrevTokenOfKind(offset, floor int, kind TokenKind) (Token, bool) {
	idx := sort.Search(len(f.Tokens), func(i int) bool {
		return f.Tokens[i].EndOffset > offset
	})
	for i := idx - 1; i >= 0; i-- {
		tok := f.Tokens[i]
		if tok.StartOffset < floor {
			break
		}
		if tok.Kind == kind {
			return tok, true
		}
	}
	return Token{}, false
}

// TokensIn returns the tokens that lie entirely within r.
func (f *FileSnapshot) TokensIn(r SourceRange) []Token {
	var out []Token
	for i := f.TokenIndexAt(r.StartOffset); i < len(f.Tokens); i++ {
		tok := f.Tokens[i]
		if tok.EndOffset > r.EndOffset {
			break
		}
		out = append(out, tok)
	}
	return out
}

// Comments returns every comment token in the file.
func (f *FileSnapshot) Comments() []Token {
	var out []Token
	for _, tok := range f.Tokens {
		if tok.IsComment() {
			out = append(out, tok)
		}
	}
	return out
}
