package coffee

import (
	"github.com/yaklabco/decaf/pkg/syntax"
)

// keywords are reserved words emitted as TokKeyword.
//
//nolint:gochecknoglobals // read-only lookup table
var keywords = map[string]bool{
	"class": true, "extends": true, "if": true, "else": true, "unless": true,
	"then": true, "while": true, "until": true, "loop": true, "for": true,
	"in": true, "of": true, "by": true, "when": true, "return": true,
	"throw": true, "new": true, "this": true, "super": true, "true": true,
	"false": true, "yes": true, "no": true, "on": true, "off": true,
	"null": true, "undefined": true, "is": true, "isnt": true, "and": true,
	"or": true, "not": true, "typeof": true, "delete": true,
	"instanceof": true, "try": true, "catch": true, "finally": true,
	"switch": true, "do": true, "break": true, "continue": true,
	"debugger": true, "await": true, "yield": true, "import": true,
	"export": true,
}

// punctuators maps multi-character operators to token kinds, longest first
// within each leading byte.
//
//nolint:gochecknoglobals // read-only lookup table
var punctuators = []struct {
	text string
	kind syntax.TokenKind
}{
	{">>>=", syntax.TokAssign},
	{">>>", syntax.TokOperator},
	{"**=", syntax.TokAssign},
	{"||=", syntax.TokAssign},
	{"&&=", syntax.TokAssign},
	{"<<=", syntax.TokAssign},
	{">>=", syntax.TokAssign},
	{"->", syntax.TokArrow},
	{"=>", syntax.TokFatArrow},
	{"::", syntax.TokProto},
	{"==", syntax.TokOperator},
	{"!=", syntax.TokOperator},
	{"<=", syntax.TokOperator},
	{">=", syntax.TokOperator},
	{"&&", syntax.TokOperator},
	{"||", syntax.TokOperator},
	{"**", syntax.TokOperator},
	{"<<", syntax.TokOperator},
	{">>", syntax.TokOperator},
	{"+=", syntax.TokAssign},
	{"-=", syntax.TokAssign},
	{"*=", syntax.TokAssign},
	{"/=", syntax.TokAssign},
	{"%=", syntax.TokAssign},
	{"?=", syntax.TokAssign},
	{"|=", syntax.TokAssign},
	{"&=", syntax.TokAssign},
	{"^=", syntax.TokAssign},
}

// unsupportedPunctuators are CoffeeScript operators with no direct
// JavaScript spelling.
//
//nolint:gochecknoglobals // read-only lookup table
var unsupportedPunctuators = []string{"...", "..", "//", "%%", "?.", "?::", "?[", "?("}

// lexFrame tracks an open string interpolation.
type lexFrame struct {
	depth int
}

// lexer converts source into a token stream in one pass.
type lexer struct {
	src    []byte
	pos    int
	tokens []syntax.Token
	frames []lexFrame
}

// Lex tokenizes CoffeeScript source. Whitespace is skipped; comments and
// newlines are kept.
func Lex(src []byte) ([]syntax.Token, error) {
	const initialCapacityDivisor = 3
	lx := &lexer{
		src:    src,
		tokens: make([]syntax.Token, 0, len(src)/initialCapacityDivisor+1),
	}
	if err := lx.run(); err != nil {
		return nil, err
	}
	return lx.tokens, nil
}

func (lx *lexer) emit(kind syntax.TokenKind, start, end int) {
	lx.tokens = append(lx.tokens, syntax.Token{Kind: kind, StartOffset: start, EndOffset: end})
	lx.pos = end
}

func (lx *lexer) fail(offset int, msg string) error {
	return &lexError{Offset: offset, Message: msg}
}

func (lx *lexer) peek(offset int) byte {
	if lx.pos+offset < len(lx.src) {
		return lx.src[lx.pos+offset]
	}
	return 0
}

func (lx *lexer) hasPrefix(s string) bool {
	return lx.pos+len(s) <= len(lx.src) && string(lx.src[lx.pos:lx.pos+len(s)]) == s
}

func (lx *lexer) run() error {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			lx.pos++
		case c == '\n':
			lx.emit(syntax.TokNewline, lx.pos, lx.pos+1)
		case c == '\\' && lx.peek(1) == '\n':
			// Explicit line continuation.
			lx.pos += 2
		case c == '#':
			if err := lx.comment(); err != nil {
				return err
			}
		case isIdentStart(c):
			lx.word()
		case isDigit(c) || (c == '.' && isDigit(lx.peek(1))):
			lx.number()
		case c == '\'' || c == '"':
			if err := lx.string(c); err != nil {
				return err
			}
		case c == '`':
			return lx.fail(lx.pos, "embedded JavaScript is not supported")
		case c == '/' && lx.regexAllowed():
			return lx.fail(lx.pos, "regular expression literals are not supported")
		default:
			if err := lx.punctuator(); err != nil {
				return err
			}
		}
	}
	if len(lx.frames) > 0 {
		return lx.fail(len(lx.src), "unterminated string interpolation")
	}
	return nil
}

func (lx *lexer) comment() error {
	start := lx.pos
	if lx.hasPrefix("###") && lx.peek(3) != '#' {
		end := indexFrom(lx.src, start+3, "###")
		if end < 0 {
			return lx.fail(start, "unterminated block comment")
		}
		lx.emit(syntax.TokBlockComment, start, end+3)
		return nil
	}
	end := start
	for end < len(lx.src) && lx.src[end] != '\n' {
		end++
	}
	if end > start && lx.src[end-1] == '\r' {
		end--
	}
	lx.emit(syntax.TokComment, start, end)
	return nil
}

func (lx *lexer) word() {
	start := lx.pos
	end := start
	for end < len(lx.src) && isIdentPart(lx.src[end]) {
		end++
	}
	text := string(lx.src[start:end])

	// A word directly after '.' or '@' is a property name, never a keyword.
	if n := len(lx.tokens); n > 0 {
		prev := lx.tokens[n-1]
		if (prev.Kind == syntax.TokDot || prev.Kind == syntax.TokAt || prev.Kind == syntax.TokProto) && prev.EndOffset == start {
			lx.emit(syntax.TokIdentifier, start, end)
			return
		}
	}

	if (text == "or" || text == "and") && end < len(lx.src) && lx.src[end] == '=' &&
		(end+1 >= len(lx.src) || lx.src[end+1] != '=') {
		lx.emit(syntax.TokAssign, start, end+1)
		return
	}

	if keywords[text] {
		lx.emit(syntax.TokKeyword, start, end)
		return
	}
	lx.emit(syntax.TokIdentifier, start, end)
}

func (lx *lexer) number() {
	start := lx.pos
	end := start
	if lx.src[end] == '0' && end+1 < len(lx.src) && isRadixMarker(lx.src[end+1]) {
		end += 2
		for end < len(lx.src) && (isHexDigit(lx.src[end]) || lx.src[end] == '_') {
			end++
		}
		lx.emit(syntax.TokNumber, start, end)
		return
	}
	for end < len(lx.src) && (isDigit(lx.src[end]) || lx.src[end] == '_') {
		end++
	}
	if end+1 < len(lx.src) && lx.src[end] == '.' && isDigit(lx.src[end+1]) {
		end++
		for end < len(lx.src) && isDigit(lx.src[end]) {
			end++
		}
	}
	if end < len(lx.src) && (lx.src[end] == 'e' || lx.src[end] == 'E') {
		exp := end + 1
		if exp < len(lx.src) && (lx.src[exp] == '+' || lx.src[exp] == '-') {
			exp++
		}
		if exp < len(lx.src) && isDigit(lx.src[exp]) {
			end = exp
			for end < len(lx.src) && isDigit(lx.src[end]) {
				end++
			}
		}
	}
	lx.emit(syntax.TokNumber, start, end)
}

// string lexes a quoted string starting at lx.pos. Double-quoted strings
// containing '#{' are split into StringStart/StringMid/StringEnd tokens
// around the interpolated expressions.
func (lx *lexer) string(quote byte) error {
	start := lx.pos
	if lx.hasPrefix(string([]byte{quote, quote, quote})) {
		return lx.fail(start, "block strings are not supported")
	}
	return lx.stringBody(start, start+1, quote, syntax.TokString, syntax.TokStringStart)
}

// stringBody scans from pos to the closing quote or the next '#{'.
// whole is the kind emitted on reaching the quote, open the kind emitted
// on reaching an interpolation.
func (lx *lexer) stringBody(start, pos int, quote byte, whole, open syntax.TokenKind) error {
	for pos < len(lx.src) {
		switch c := lx.src[pos]; {
		case c == '\\':
			pos += 2
		case c == quote:
			lx.emit(whole, start, pos+1)
			return nil
		case quote == '"' && c == '#' && pos+1 < len(lx.src) && lx.src[pos+1] == '{':
			lx.emit(open, start, pos+2)
			lx.frames = append(lx.frames, lexFrame{})
			return nil
		default:
			pos++
		}
	}
	return lx.fail(start, "unterminated string")
}

func (lx *lexer) punctuator() error {
	start := lx.pos
	c := lx.src[start]

	for _, bad := range unsupportedPunctuators {
		if lx.hasPrefix(bad) {
			return lx.fail(start, "operator "+bad+" is not supported")
		}
	}

	for _, p := range punctuators {
		if lx.hasPrefix(p.text) {
			lx.emit(p.kind, start, start+len(p.text))
			return nil
		}
	}

	switch c {
	case '{':
		if n := len(lx.frames); n > 0 {
			lx.frames[n-1].depth++
		}
		lx.emit(syntax.TokBraceOpen, start, start+1)
	case '}':
		if n := len(lx.frames); n > 0 {
			if lx.frames[n-1].depth == 0 {
				lx.frames = lx.frames[:n-1]
				return lx.stringBody(start, start+1, '"', syntax.TokStringEnd, syntax.TokStringMid)
			}
			lx.frames[n-1].depth--
		}
		lx.emit(syntax.TokBraceClose, start, start+1)
	case '(':
		lx.emit(syntax.TokParenOpen, start, start+1)
	case ')':
		lx.emit(syntax.TokParenClose, start, start+1)
	case '[':
		lx.emit(syntax.TokBracketOpen, start, start+1)
	case ']':
		lx.emit(syntax.TokBracketClose, start, start+1)
	case ',':
		lx.emit(syntax.TokComma, start, start+1)
	case ';':
		lx.emit(syntax.TokSemicolon, start, start+1)
	case ':':
		lx.emit(syntax.TokColon, start, start+1)
	case '.':
		lx.emit(syntax.TokDot, start, start+1)
	case '@':
		lx.emit(syntax.TokAt, start, start+1)
	case '=':
		lx.emit(syntax.TokAssign, start, start+1)
	case '+', '-', '*', '/', '%', '<', '>', '!', '&', '|', '^', '~':
		lx.emit(syntax.TokOperator, start, start+1)
	case '?':
		return lx.fail(start, "existential operator is not supported")
	default:
		return lx.fail(start, "unexpected character "+quoteByte(c))
	}
	return nil
}

// regexAllowed reports whether a '/' at the current position would start a
// regular expression rather than a division.
func (lx *lexer) regexAllowed() bool {
	if lx.peek(1) == '/' || lx.peek(1) == '=' {
		return false
	}
	n := len(lx.tokens)
	if n == 0 {
		return true
	}
	prev := lx.tokens[n-1]
	switch prev.Kind {
	case syntax.TokIdentifier, syntax.TokNumber, syntax.TokString, syntax.TokStringEnd,
		syntax.TokParenClose, syntax.TokBracketClose, syntax.TokBraceClose:
		// 'a /b/' after whitespace would be an implicit call in CoffeeScript;
		// treat it as division and let the parser complain.
		return false
	case syntax.TokKeyword:
		text := string(lx.src[prev.StartOffset:prev.EndOffset])
		return text != "this" && text != "super" && text != "true" && text != "false" &&
			text != "null" && text != "undefined"
	default:
		return true
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isRadixMarker(c byte) bool {
	return c == 'x' || c == 'X' || c == 'o' || c == 'O' || c == 'b' || c == 'B'
}

func indexFrom(src []byte, from int, needle string) int {
	for i := from; i+len(needle) <= len(src); i++ {
		if string(src[i:i+len(needle)]) == needle {
			return i
		}
	}
	return -1
}

func quoteByte(c byte) string {
	return "'" + string(rune(c)) + "'"
}
