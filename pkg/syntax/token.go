package syntax

// TokenKind classifies a lexeme in CoffeeScript source.
type TokenKind uint16

// Token kinds. Whitespace between tokens is not represented.
const (
	TokIdentifier TokenKind = iota
	TokKeyword
	TokNumber
	TokString      // complete string literal without interpolation
	TokStringStart // opening quote up to and including the first '#{'
	TokStringMid   // '}' ... '#{' between two interpolations
	TokStringEnd   // '}' ... closing quote
	TokOperator
	TokAssign // '=' and compound forms such as '+='
	TokAt     // '@'
	TokDot    // '.'
	TokProto  // '::'
	TokColon
	TokComma
	TokSemicolon
	TokParenOpen
	TokParenClose
	TokBracketOpen
	TokBracketClose
	TokBraceOpen
	TokBraceClose
	TokArrow    // '->'
	TokFatArrow // '=>'
	TokComment
	TokBlockComment
	TokNewline
)

var tokenKindNames = [...]string{
	TokIdentifier:   "Identifier",
	TokKeyword:      "Keyword",
	TokNumber:       "Number",
	TokString:       "String",
	TokStringStart:  "StringStart",
	TokStringMid:    "StringMid",
	TokStringEnd:    "StringEnd",
	TokOperator:     "Operator",
	TokAssign:       "Assign",
	TokAt:           "At",
	TokDot:          "Dot",
	TokProto:        "Proto",
	TokColon:        "Colon",
	TokComma:        "Comma",
	TokSemicolon:    "Semicolon",
	TokParenOpen:    "ParenOpen",
	TokParenClose:   "ParenClose",
	TokBracketOpen:  "BracketOpen",
	TokBracketClose: "BracketClose",
	TokBraceOpen:    "BraceOpen",
	TokBraceClose:   "BraceClose",
	TokArrow:        "Arrow",
	TokFatArrow:     "FatArrow",
	TokComment:      "Comment",
	TokBlockComment: "BlockComment",
	TokNewline:      "Newline",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "Unknown"
}

// Token represents a classified span of bytes in the source.
type Token struct {
	// Kind classifies what this token represents.
	Kind TokenKind

	// StartOffset is the byte index where this token begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where this token ends (exclusive).
	EndOffset int
}

// Text returns the source text of this token from the given content.
func (t Token) Text(content []byte) string {
	if t.StartOffset < 0 || t.EndOffset > len(content) || t.StartOffset > t.EndOffset {
		return ""
	}
	return string(content[t.StartOffset:t.EndOffset])
}

// Range returns the token's byte range.
func (t Token) Range() SourceRange {
	return SourceRange{StartOffset: t.StartOffset, EndOffset: t.EndOffset}
}

// Len returns the length of this token in bytes.
func (t Token) Len() int {
	return t.EndOffset - t.StartOffset
}

// IsTrivia reports whether the token carries no syntax (comments, newlines).
func (t Token) IsTrivia() bool {
	return t.Kind == TokComment || t.Kind == TokBlockComment || t.Kind == TokNewline
}

// IsComment reports whether the token is a line or block comment.
func (t Token) IsComment() bool {
	return t.Kind == TokComment || t.Kind == TokBlockComment
}

// ValidateTokens checks that tokens are ordered, non-overlapping and lie
// within [0, contentLen).
func ValidateTokens(tokens []Token, contentLen int) bool {
	prevEnd := 0
	for _, tok := range tokens {
		if tok.StartOffset < prevEnd || tok.EndOffset < tok.StartOffset || tok.EndOffset > contentLen {
			return false
		}
		prevEnd = tok.EndOffset
	}
	return true
}
