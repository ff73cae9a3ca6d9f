// Package coffee parses the supported CoffeeScript subset into a
// syntax.FileSnapshot.
package coffee

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/decaf/pkg/syntax"
)

// Parser implements convert.Parser for CoffeeScript sources.
type Parser struct{}

// New creates a CoffeeScript parser.
func New() *Parser {
	return &Parser{}
}

// Parse converts raw CoffeeScript bytes into a fully-populated FileSnapshot.
//
// The method:
//  1. Checks for context cancellation.
//  2. Builds a FileSnapshot shell with path, content, and lines.
//  3. Tokenizes the content.
//  4. Parses the token stream into a node tree with dense IDs.
//  5. Validates the token stream.
//
// Lexical and syntactic problems are returned as *ParseError.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*syntax.FileSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	snapshot := syntax.NewFileSnapshot(path, copyContent(content))

	tokens, err := Lex(snapshot.Content)
	if err != nil {
		return nil, locate(snapshot, err)
	}
	snapshot.Tokens = tokens

	state := newParseState(snapshot.Content, tokens)
	root, err := state.parseProgram()
	if err != nil {
		return nil, locate(snapshot, err)
	}
	snapshot.Root = root
	snapshot.NodeCount = state.builder.Count()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	if !syntax.ValidateTokens(snapshot.Tokens, len(snapshot.Content)) {
		return nil, errors.New("token stream validation failed")
	}

	return snapshot, nil
}

// copyContent creates a defensive copy of the content slice.
func copyContent(content []byte) []byte {
	if content == nil {
		return nil
	}
	c := make([]byte, len(content))
	copy(c, content)
	return c
}

// locate converts an offset-carrying error into a *ParseError.
func locate(snapshot *syntax.FileSnapshot, err error) error {
	var offset int
	var msg string
	var lexErr *lexError
	var synErr *syntaxError
	switch {
	case errors.As(err, &lexErr):
		offset, msg = lexErr.Offset, lexErr.Message
	case errors.As(err, &synErr):
		offset, msg = synErr.Offset, synErr.Message
	default:
		return err
	}
	line, col := snapshot.LineAt(offset)
	if line == 0 && len(snapshot.Lines) > 0 {
		line = len(snapshot.Lines)
		col = len(snapshot.LineContent(line)) + 1
	}
	return &ParseError{
		Path:    snapshot.Path,
		Line:    line,
		Column:  col,
		Offset:  offset,
		Message: msg,
	}
}

// binaryPrecedence maps binary operator spellings to binding power.
//
//nolint:gochecknoglobals,mnd // read-only lookup table
var binaryPrecedence = map[string]int{
	"or": 1, "||": 1,
	"and": 2, "&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"is": 6, "isnt": 6, "==": 6, "!=": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7, "instanceof": 7, "of": 7,
	"<<": 8, ">>": 8, ">>>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
	"**": 11,
}

// unsupportedStatements are keywords that begin constructs outside the
// supported subset.
//
//nolint:gochecknoglobals // read-only lookup table
var unsupportedStatements = map[string]bool{
	"for": true, "loop": true, "try": true, "switch": true, "do": true,
	"break": true, "continue": true, "debugger": true, "import": true,
	"export": true, "yield": true, "await": true,
}

// parseState is a recursive-descent parser over the significant tokens
// and newlines of one file.
type parseState struct {
	src     []byte
	toks    []syntax.Token
	pos     int
	builder syntax.Builder
}

func newParseState(src []byte, tokens []syntax.Token) *parseState {
	toks := make([]syntax.Token, 0, len(tokens))
	for _, tok := range tokens {
		if !tok.IsComment() {
			toks = append(toks, tok)
		}
	}
	return &parseState{src: src, toks: toks}
}

// Token stream helpers.

func (p *parseState) eof() bool {
	return p.pos >= len(p.toks)
}

func (p *parseState) cur() syntax.Token {
	if p.eof() {
		return syntax.Token{Kind: syntax.TokNewline, StartOffset: len(p.src), EndOffset: len(p.src)}
	}
	return p.toks[p.pos]
}

func (p *parseState) next() syntax.Token {
	tok := p.cur()
	if !p.eof() {
		p.pos++
	}
	return tok
}

func (p *parseState) text(tok syntax.Token) string {
	return tok.Text(p.src)
}

func (p *parseState) at(kind syntax.TokenKind) bool {
	return !p.eof() && p.toks[p.pos].Kind == kind
}

func (p *parseState) atKeyword(words ...string) bool {
	if !p.at(syntax.TokKeyword) {
		return false
	}
	text := p.text(p.cur())
	for _, w := range words {
		if text == w {
			return true
		}
	}
	return false
}

func (p *parseState) skipNewlines() {
	for p.at(syntax.TokNewline) {
		p.pos++
	}
}

// newlineBefore reports whether the current token starts a line.
func (p *parseState) newlineBefore() bool {
	return p.pos == 0 || p.toks[p.pos-1].Kind == syntax.TokNewline
}

// spaceBefore reports whether whitespace separates the current token from
// the previous one.
func (p *parseState) spaceBefore() bool {
	if p.pos == 0 || p.eof() {
		return false
	}
	return p.toks[p.pos].StartOffset > p.toks[p.pos-1].EndOffset
}

// spaceAfter reports whether whitespace follows the current token.
func (p *parseState) spaceAfter() bool {
	end := p.cur().EndOffset
	return end >= len(p.src) || p.src[end] == ' ' || p.src[end] == '\t' || p.src[end] == '\n'
}

// indentAt returns the width of the leading whitespace of the line
// containing offset.
func (p *parseState) indentAt(offset int) int {
	start := min(offset, len(p.src))
	for start > 0 && p.src[start-1] != '\n' {
		start--
	}
	width := 0
	for start+width < len(p.src) && (p.src[start+width] == ' ' || p.src[start+width] == '\t') {
		width++
	}
	return width
}

func (p *parseState) errorf(offset int, format string, args ...any) error {
	return &syntaxError{Offset: offset, Message: fmt.Sprintf(format, args...)}
}

func (p *parseState) unexpected() error {
	if p.eof() {
		return p.errorf(len(p.src), "unexpected end of input")
	}
	tok := p.cur()
	if tok.Kind == syntax.TokNewline {
		return p.errorf(tok.StartOffset, "unexpected newline")
	}
	return p.errorf(tok.StartOffset, "unexpected %s %q", tok.Kind, p.text(tok))
}

func (p *parseState) expect(kind syntax.TokenKind) (syntax.Token, error) {
	if !p.at(kind) {
		if p.eof() || p.at(syntax.TokNewline) {
			return syntax.Token{}, p.errorf(p.cur().StartOffset, "expected %s", kind)
		}
		return syntax.Token{}, p.errorf(p.cur().StartOffset, "expected %s, found %q", kind, p.text(p.cur()))
	}
	return p.next(), nil
}

func (p *parseState) node(kind syntax.NodeKind, start, end int) *syntax.Node {
	return p.builder.NewNode(kind, start, end)
}

// Blocks.

func (p *parseState) parseProgram() (*syntax.Node, error) {
	root := p.node(syntax.NodeProgram, 0, len(p.src))
	p.skipNewlines()
	if p.eof() {
		return root, nil
	}
	if indent := p.indentAt(p.cur().StartOffset); indent != 0 {
		return nil, p.errorf(p.cur().StartOffset, "unexpected indentation")
	}
	body, err := p.parseBlock(0, p.parseStatement)
	if err != nil {
		return nil, err
	}
	syntax.AppendChild(root, syntax.SlotBody, body)
	if !p.eof() {
		return nil, p.unexpected()
	}
	return root, nil
}

// parseBlock parses statements at indentation indent until a line with
// less indentation or a token that cannot continue the block.
func (p *parseState) parseBlock(indent int, statement func() (*syntax.Node, error)) (*syntax.Node, error) {
	block := p.node(syntax.NodeBlock, p.cur().StartOffset, p.cur().StartOffset)
	for {
		stmt, err := statement()
		if err != nil {
			return nil, err
		}
		syntax.AppendChild(block, syntax.SlotStatement, stmt)

		if p.at(syntax.TokSemicolon) {
			p.next()
			if !p.eof() && !p.at(syntax.TokNewline) {
				continue
			}
		}
		if !p.at(syntax.TokNewline) && !p.newlineBefore() {
			break
		}
		p.skipNewlines()
		if p.eof() {
			break
		}
		next := p.indentAt(p.cur().StartOffset)
		if next < indent {
			break
		}
		if next > indent {
			return nil, p.errorf(p.cur().StartOffset, "unexpected indentation")
		}
	}
	first, last := block.Children[0], block.Children[len(block.Children)-1]
	block.Span(first.Start(), last.End())
	return block, nil
}

// parseIndentedBlock parses the block that follows a header ending at
// the current newline. It returns nil and restores the position when the
// next line is not indented past the header's line.
func (p *parseState) parseIndentedBlock(header int, statement func() (*syntax.Node, error)) (*syntax.Node, error) {
	save := p.pos
	p.skipNewlines()
	if p.eof() || p.indentAt(p.cur().StartOffset) <= p.indentAt(header) {
		p.pos = save
		return nil, nil //nolint:nilnil // absent block is not an error
	}
	return p.parseBlock(p.indentAt(p.cur().StartOffset), statement)
}

// parseInlineBlock wraps a single same-line statement in a shorthand block.
func (p *parseState) parseInlineBlock() (*syntax.Node, error) {
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	block := p.node(syntax.NodeBlock, stmt.Start(), stmt.End())
	block.Shorthand = true
	syntax.AppendChild(block, syntax.SlotStatement, stmt)
	return block, nil
}

// parseClause parses the body of if/else/while: 'then' and a statement,
// an indented block, or (for else) a same-line statement.
func (p *parseState) parseClause(header int, inline bool) (*syntax.Node, error) {
	switch {
	case p.atKeyword("then"):
		p.next()
		return p.parseInlineBlock()
	case p.at(syntax.TokNewline):
		block, err := p.parseIndentedBlock(header, p.parseStatement)
		if err != nil {
			return nil, err
		}
		if block == nil {
			return nil, p.errorf(p.cur().StartOffset, "expected an indented block")
		}
		return block, nil
	case inline && !p.eof():
		return p.parseInlineBlock()
	default:
		return nil, p.errorf(p.cur().StartOffset, "expected 'then' or an indented block")
	}
}

// Statements.

func (p *parseState) parseStatement() (*syntax.Node, error) {
	if p.at(syntax.TokKeyword) {
		word := p.text(p.cur())
		switch {
		case word == "class":
			return p.parseClass()
		case word == "while" || word == "until":
			return p.parseWhile()
		case word == "return":
			return p.parseReturn()
		case word == "throw":
			return p.parseThrow()
		case unsupportedStatements[word]:
			return nil, p.errorf(p.cur().StartOffset, "'%s' is not supported", word)
		}
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.newlineBefore() && p.atKeyword("if", "unless", "while", "until", "for") {
		return nil, p.errorf(p.cur().StartOffset, "postfix '%s' is not supported", p.text(p.cur()))
	}
	return expr, nil
}

func (p *parseState) atStatementEnd() bool {
	if p.eof() {
		return true
	}
	switch p.cur().Kind {
	case syntax.TokNewline, syntax.TokSemicolon, syntax.TokParenClose,
		syntax.TokBracketClose, syntax.TokBraceClose, syntax.TokComma:
		return true
	case syntax.TokKeyword:
		return p.atKeyword("else", "then")
	default:
		return false
	}
}

func (p *parseState) parseReturn() (*syntax.Node, error) {
	kw := p.next()
	ret := p.node(syntax.NodeReturn, kw.StartOffset, kw.EndOffset)
	if p.atStatementEnd() {
		return ret, nil
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	syntax.AppendChild(ret, syntax.SlotExpression, expr)
	ret.Span(kw.StartOffset, expr.End())
	return ret, nil
}

func (p *parseState) parseThrow() (*syntax.Node, error) {
	kw := p.next()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	thr := p.node(syntax.NodeThrow, kw.StartOffset, expr.End())
	syntax.AppendChild(thr, syntax.SlotExpression, expr)
	return thr, nil
}

func (p *parseState) parseConditional() (*syntax.Node, error) {
	kw := p.next()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	node := p.node(syntax.NodeConditional, kw.StartOffset, cond.End())
	node.Data = p.text(kw)
	syntax.AppendChild(node, syntax.SlotCondition, cond)

	consequent, err := p.parseClause(kw.StartOffset, false)
	if err != nil {
		return nil, err
	}
	syntax.AppendChild(node, syntax.SlotConsequent, consequent)
	node.Range.EndOffset = consequent.End()

	save := p.pos
	p.skipNewlines()
	if !p.atKeyword("else") || (p.newlineBefore() && p.indentAt(p.cur().StartOffset) != p.indentAt(kw.StartOffset)) {
		p.pos = save
		return node, nil
	}
	elseTok := p.next()

	var alternate *syntax.Node
	if p.atKeyword("if", "unless") {
		alternate, err = p.parseConditional()
	} else {
		alternate, err = p.parseClause(elseTok.StartOffset, true)
	}
	if err != nil {
		return nil, err
	}
	syntax.AppendChild(node, syntax.SlotAlternate, alternate)
	node.Range.EndOffset = alternate.End()
	return node, nil
}

func (p *parseState) parseWhile() (*syntax.Node, error) {
	kw := p.next()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	node := p.node(syntax.NodeWhile, kw.StartOffset, cond.End())
	node.Data = p.text(kw)
	syntax.AppendChild(node, syntax.SlotCondition, cond)

	body, err := p.parseClause(kw.StartOffset, false)
	if err != nil {
		return nil, err
	}
	syntax.AppendChild(node, syntax.SlotBody, body)
	node.Range.EndOffset = body.End()
	return node, nil
}

// Classes.

func (p *parseState) parseClass() (*syntax.Node, error) {
	kw := p.next()
	cls := p.node(syntax.NodeClass, kw.StartOffset, kw.EndOffset)

	if p.at(syntax.TokIdentifier) {
		tok := p.next()
		name := p.node(syntax.NodeIdentifier, tok.StartOffset, tok.EndOffset)
		name.Data = p.text(tok)
		syntax.AppendChild(cls, syntax.SlotName, name)
		cls.Range.EndOffset = name.End()
	}

	if p.atKeyword("extends") {
		p.next()
		primary, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		superclass, err := p.parsePostfix(primary, false)
		if err != nil {
			return nil, err
		}
		syntax.AppendChild(cls, syntax.SlotSuperclass, superclass)
		cls.Range.EndOffset = superclass.End()
	}

	if !p.at(syntax.TokNewline) {
		if p.atStatementEnd() {
			return cls, nil
		}
		return nil, p.unexpected()
	}

	body, err := p.parseIndentedBlock(kw.StartOffset, p.parseClassMember)
	if err != nil {
		return nil, err
	}
	if body != nil {
		syntax.AppendChild(cls, syntax.SlotBody, body)
		cls.Range.EndOffset = body.End()
	}
	return cls, nil
}

// parseClassMember parses 'key: value' inside a class body.
func (p *parseState) parseClassMember() (*syntax.Node, error) {
	var key *syntax.Node
	var err error

	switch tok := p.cur(); {
	case tok.Kind == syntax.TokAt:
		key, err = p.parseAt()
	case tok.Kind == syntax.TokBracketOpen:
		key, err = p.parseComputedKey()
	case tok.Kind == syntax.TokString || tok.Kind == syntax.TokNumber:
		key, err = p.parsePrimary()
	case tok.Kind == syntax.TokIdentifier || p.atKeyword("this"):
		key, err = p.parsePrimary()
		for err == nil && p.at(syntax.TokDot) {
			key, err = p.parseMemberAccess(key)
		}
	case tok.Kind == syntax.TokKeyword:
		p.next()
		key = p.node(syntax.NodeIdentifier, tok.StartOffset, tok.EndOffset)
		key.Data = p.text(tok)
	default:
		return nil, p.unexpected()
	}
	if err != nil {
		return nil, err
	}

	if !p.at(syntax.TokColon) {
		return nil, p.errorf(p.cur().StartOffset, "expected ':' after class member name")
	}
	p.next()

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	member := p.node(syntax.NodeClassProtoAssignOp, key.Start(), value.End())
	syntax.AppendChild(member, syntax.SlotKey, key)
	syntax.AppendChild(member, syntax.SlotExpression, value)
	return member, nil
}

func (p *parseState) parseComputedKey() (*syntax.Node, error) {
	open := p.next()
	p.skipNewlines()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.skipNewlines()
	closeTok, err := p.expect(syntax.TokBracketClose)
	if err != nil {
		return nil, err
	}
	key := p.node(syntax.NodeComputedKey, open.StartOffset, closeTok.EndOffset)
	syntax.AppendChild(key, syntax.SlotExpression, expr)
	return key, nil
}

// Expressions.

func (p *parseState) parseExpression() (*syntax.Node, error) {
	if p.atKeyword("if", "unless") {
		return p.parseConditional()
	}
	if p.atKeyword("class") {
		return nil, p.errorf(p.cur().StartOffset, "class expressions are not supported")
	}

	left, err := p.parseBinary(1)
	if err != nil {
		return nil, err
	}
	if !p.at(syntax.TokAssign) {
		return left, nil
	}

	op := p.next()
	if !assignable(left) {
		return nil, p.errorf(op.StartOffset, "invalid assignment target")
	}
	right, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	kind := syntax.NodeAssignOp
	if p.text(op) != "=" {
		kind = syntax.NodeCompoundAssignOp
	}
	assign := p.node(kind, left.Start(), right.End())
	assign.Data = p.text(op)
	syntax.AppendChild(assign, syntax.SlotAssignee, left)
	syntax.AppendChild(assign, syntax.SlotExpression, right)
	return assign, nil
}

func assignable(n *syntax.Node) bool {
	if n.Parenthesized {
		return false
	}
	switch n.Kind {
	case syntax.NodeIdentifier, syntax.NodeMemberAccessOp, syntax.NodeDynamicMemberAccessOp,
		syntax.NodeProtoMemberAccessOp:
		return true
	default:
		return false
	}
}

func (p *parseState) binaryOperator() (string, int, bool) {
	if p.eof() {
		return "", 0, false
	}
	tok := p.cur()
	if tok.Kind != syntax.TokOperator && tok.Kind != syntax.TokKeyword {
		return "", 0, false
	}
	op := p.text(tok)
	prec, ok := binaryPrecedence[op]
	return op, prec, ok
}

func (p *parseState) parseBinary(minPrec int) (*syntax.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		if p.atKeyword("in") {
			return nil, p.errorf(p.cur().StartOffset, "operator 'in' is not supported")
		}
		op, prec, ok := p.binaryOperator()
		if !ok || prec < minPrec {
			return left, nil
		}
		p.next()
		p.skipNewlines()

		nextMin := prec + 1
		if op == "**" {
			nextMin = prec
		}
		right, err := p.parseBinary(nextMin)
		if err != nil {
			return nil, err
		}
		bin := p.node(syntax.NodeBinaryOp, left.Start(), right.End())
		bin.Data = op
		syntax.AppendChild(bin, syntax.SlotLeft, left)
		syntax.AppendChild(bin, syntax.SlotRight, right)
		left = bin
	}
}

func (p *parseState) parseUnary() (*syntax.Node, error) {
	tok := p.cur()
	isUnary := p.atKeyword("not", "typeof", "delete")
	if tok.Kind == syntax.TokOperator {
		switch p.text(tok) {
		case "!", "-", "+", "~":
			isUnary = true
		}
	}
	if !isUnary {
		primary, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return p.parsePostfix(primary, true)
	}

	p.next()
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	unary := p.node(syntax.NodeUnaryOp, tok.StartOffset, operand.End())
	unary.Data = p.text(tok)
	syntax.AppendChild(unary, syntax.SlotOperand, operand)
	return unary, nil
}

// parsePostfix applies member access, indexing and calls to expr. With
// calls false only member access and indexing are accepted.
func (p *parseState) parsePostfix(expr *syntax.Node, calls bool) (*syntax.Node, error) {
	for !p.eof() {
		tok := p.cur()
		var err error
		switch {
		case tok.Kind == syntax.TokDot:
			expr, err = p.parseMemberAccess(expr)

		case tok.Kind == syntax.TokProto:
			p.next()
			proto := p.node(syntax.NodeProtoMemberAccessOp, expr.Start(), tok.EndOffset)
			if p.at(syntax.TokIdentifier) && !p.spaceBefore() {
				name := p.next()
				proto.Data = p.text(name)
				proto.Range.EndOffset = name.EndOffset
			}
			syntax.AppendChild(proto, syntax.SlotExpression, expr)
			expr = proto

		case tok.Kind == syntax.TokBracketOpen && !p.spaceBefore():
			p.next()
			p.skipNewlines()
			index, indexErr := p.parseExpression()
			if indexErr != nil {
				return nil, indexErr
			}
			p.skipNewlines()
			closeTok, closeErr := p.expect(syntax.TokBracketClose)
			if closeErr != nil {
				return nil, closeErr
			}
			dyn := p.node(syntax.NodeDynamicMemberAccessOp, expr.Start(), closeTok.EndOffset)
			syntax.AppendChild(dyn, syntax.SlotExpression, expr)
			syntax.AppendChild(dyn, syntax.SlotIndex, index)
			expr = dyn

		case calls && tok.Kind == syntax.TokParenOpen && !p.spaceBefore():
			args, closeTok, argsErr := p.parseArguments()
			if argsErr != nil {
				return nil, argsErr
			}
			call := p.node(syntax.NodeFunctionApplication, expr.Start(), closeTok.EndOffset)
			syntax.AppendChild(call, syntax.SlotFunction, expr)
			for _, arg := range args {
				syntax.AppendChild(call, syntax.SlotArgument, arg)
			}
			expr = call

		case calls && p.implicitCallStart(expr):
			args, argsErr := p.parseImplicitArguments()
			if argsErr != nil {
				return nil, argsErr
			}
			call := p.node(syntax.NodeFunctionApplication, expr.Start(), args[len(args)-1].End())
			call.Shorthand = true
			syntax.AppendChild(call, syntax.SlotFunction, expr)
			for _, arg := range args {
				syntax.AppendChild(call, syntax.SlotArgument, arg)
			}
			return call, nil

		default:
			return expr, nil
		}
		if err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *parseState) parseMemberAccess(object *syntax.Node) (*syntax.Node, error) {
	p.next()
	name, err := p.expect(syntax.TokIdentifier)
	if err != nil {
		return nil, err
	}
	member := p.node(syntax.NodeMemberAccessOp, object.Start(), name.EndOffset)
	member.Data = p.text(name)
	syntax.AppendChild(member, syntax.SlotExpression, object)
	return member, nil
}

// callable reports whether n may be the callee of an implicit call.
func callable(n *syntax.Node) bool {
	if n.Parenthesized {
		return false
	}
	switch n.Kind {
	case syntax.NodeIdentifier, syntax.NodeMemberAccessOp, syntax.NodeDynamicMemberAccessOp, syntax.NodeSuper:
		return true
	case syntax.NodeProtoMemberAccessOp:
		return n.Data != ""
	case syntax.NodeFunctionApplication:
		return !n.Shorthand
	default:
		return false
	}
}

// implicitCallStart reports whether the current token begins the first
// argument of a paren-less call on callee.
func (p *parseState) implicitCallStart(callee *syntax.Node) bool {
	if p.eof() || !p.spaceBefore() || !callable(callee) {
		return false
	}
	tok := p.cur()
	switch tok.Kind {
	case syntax.TokIdentifier, syntax.TokNumber, syntax.TokString, syntax.TokStringStart,
		syntax.TokAt, syntax.TokArrow, syntax.TokFatArrow, syntax.TokParenOpen,
		syntax.TokBracketOpen, syntax.TokBraceOpen:
		return true
	case syntax.TokKeyword:
		return p.atKeyword("this", "new", "not", "typeof", "delete", "true", "false",
			"yes", "no", "on", "off", "null", "undefined", "super")
	case syntax.TokOperator:
		switch p.text(tok) {
		case "-", "+", "!", "~":
			return !p.spaceAfter()
		}
	}
	return false
}

func (p *parseState) parseImplicitArguments() ([]*syntax.Node, error) {
	var args []*syntax.Node
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.at(syntax.TokComma) {
			return args, nil
		}
		p.next()
		p.skipNewlines()
	}
}

// parseArguments parses '(' args ')' and returns the closing token.
func (p *parseState) parseArguments() ([]*syntax.Node, syntax.Token, error) {
	p.next()
	var args []*syntax.Node
	p.skipNewlines()
	for !p.at(syntax.TokParenClose) {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, syntax.Token{}, err
		}
		args = append(args, arg)
		p.skipNewlines()
		if p.at(syntax.TokComma) {
			p.next()
			p.skipNewlines()
			continue
		}
		if !p.at(syntax.TokParenClose) {
			return nil, syntax.Token{}, p.unexpected()
		}
	}
	return args, p.next(), nil
}

// Primaries.

func (p *parseState) parsePrimary() (*syntax.Node, error) {
	if p.eof() {
		return nil, p.unexpected()
	}
	tok := p.cur()
	switch tok.Kind {
	case syntax.TokIdentifier:
		p.next()
		ident := p.node(syntax.NodeIdentifier, tok.StartOffset, tok.EndOffset)
		ident.Data = p.text(tok)
		return ident, nil

	case syntax.TokNumber:
		p.next()
		num := p.node(syntax.NodeNumber, tok.StartOffset, tok.EndOffset)
		num.Data = p.text(tok)
		return num, nil

	case syntax.TokString:
		p.next()
		str := p.node(syntax.NodeString, tok.StartOffset, tok.EndOffset)
		str.Data = string(p.src[tok.StartOffset])
		return str, nil

	case syntax.TokStringStart:
		return p.parseInterpolation()

	case syntax.TokAt:
		return p.parseAt()

	case syntax.TokArrow, syntax.TokFatArrow:
		return p.parseFunction()

	case syntax.TokParenOpen:
		if p.isFunctionStart() {
			return p.parseFunction()
		}
		return p.parseParenthesized()

	case syntax.TokBracketOpen:
		return p.parseArray()

	case syntax.TokBraceOpen:
		return p.parseObject()

	case syntax.TokKeyword:
		return p.parseKeywordPrimary()

	default:
		return nil, p.unexpected()
	}
}

func (p *parseState) parseKeywordPrimary() (*syntax.Node, error) {
	tok := p.cur()
	word := p.text(tok)
	var kind syntax.NodeKind
	switch word {
	case "this":
		kind = syntax.NodeThis
	case "super":
		kind = syntax.NodeSuper
	case "true", "false", "yes", "no", "on", "off":
		kind = syntax.NodeBool
	case "null":
		kind = syntax.NodeNull
	case "undefined":
		kind = syntax.NodeUndefined
	case "new":
		return p.parseNew()
	default:
		if unsupportedStatements[word] {
			return nil, p.errorf(tok.StartOffset, "'%s' is not supported", word)
		}
		return nil, p.unexpected()
	}
	p.next()
	n := p.node(kind, tok.StartOffset, tok.EndOffset)
	n.Data = word
	return n, nil
}

// parseAt parses '@' and '@name'.
func (p *parseState) parseAt() (*syntax.Node, error) {
	at := p.next()
	this := p.node(syntax.NodeThis, at.StartOffset, at.EndOffset)
	this.Shorthand = true
	if !p.at(syntax.TokIdentifier) || p.spaceBefore() {
		return this, nil
	}
	name := p.next()
	member := p.node(syntax.NodeMemberAccessOp, at.StartOffset, name.EndOffset)
	member.Data = p.text(name)
	member.Shorthand = true
	syntax.AppendChild(member, syntax.SlotExpression, this)
	return member, nil
}

func (p *parseState) parseParenthesized() (*syntax.Node, error) {
	open := p.next()
	p.skipNewlines()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.skipNewlines()
	closeTok, err := p.expect(syntax.TokParenClose)
	if err != nil {
		return nil, err
	}
	expr.Parenthesized = true
	expr.Span(open.StartOffset, closeTok.EndOffset)
	return expr, nil
}

func (p *parseState) parseNew() (*syntax.Node, error) {
	kw := p.next()
	primary, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	ctor, err := p.parsePostfix(primary, false)
	if err != nil {
		return nil, err
	}
	newOp := p.node(syntax.NodeNewOp, kw.StartOffset, ctor.End())
	syntax.AppendChild(newOp, syntax.SlotFunction, ctor)

	switch {
	case p.at(syntax.TokParenOpen) && !p.spaceBefore():
		args, closeTok, err := p.parseArguments()
		if err != nil {
			return nil, err
		}
		for _, arg := range args {
			syntax.AppendChild(newOp, syntax.SlotArgument, arg)
		}
		newOp.Range.EndOffset = closeTok.EndOffset
	case p.implicitCallStart(ctor):
		args, err := p.parseImplicitArguments()
		if err != nil {
			return nil, err
		}
		for _, arg := range args {
			syntax.AppendChild(newOp, syntax.SlotArgument, arg)
		}
		newOp.Shorthand = true
		newOp.Range.EndOffset = args[len(args)-1].End()
	}
	return newOp, nil
}

func (p *parseState) parseInterpolation() (*syntax.Node, error) {
	start := p.next()
	str := p.node(syntax.NodeString, start.StartOffset, start.EndOffset)
	str.Data = `"`
	for {
		p.skipNewlines()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		syntax.AppendChild(str, syntax.SlotInterpolation, expr)
		p.skipNewlines()
		switch {
		case p.at(syntax.TokStringMid):
			p.next()
		case p.at(syntax.TokStringEnd):
			end := p.next()
			str.Range.EndOffset = end.EndOffset
			return str, nil
		default:
			return nil, p.errorf(p.cur().StartOffset, "expected '}' to close interpolation")
		}
	}
}

func (p *parseState) parseArray() (*syntax.Node, error) {
	open := p.next()
	arr := p.node(syntax.NodeArrayInitialiser, open.StartOffset, open.EndOffset)
	p.skipNewlines()
	for !p.at(syntax.TokBracketClose) {
		elem, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		syntax.AppendChild(arr, syntax.SlotElement, elem)
		if err := p.skipSeparator(syntax.TokBracketClose); err != nil {
			return nil, err
		}
	}
	closeTok := p.next()
	arr.Range.EndOffset = closeTok.EndOffset
	return arr, nil
}

// skipSeparator consumes a comma and/or newlines between list elements.
func (p *parseState) skipSeparator(closer syntax.TokenKind) error {
	switch {
	case p.at(syntax.TokComma):
		p.next()
		p.skipNewlines()
	case p.at(syntax.TokNewline):
		p.skipNewlines()
	case p.at(closer):
	default:
		return p.unexpected()
	}
	return nil
}

func (p *parseState) parseObject() (*syntax.Node, error) {
	open := p.next()
	obj := p.node(syntax.NodeObjectInitialiser, open.StartOffset, open.EndOffset)
	p.skipNewlines()
	for !p.at(syntax.TokBraceClose) {
		member, err := p.parseObjectMember()
		if err != nil {
			return nil, err
		}
		syntax.AppendChild(obj, syntax.SlotMember, member)
		if err := p.skipSeparator(syntax.TokBraceClose); err != nil {
			return nil, err
		}
	}
	closeTok := p.next()
	obj.Range.EndOffset = closeTok.EndOffset
	return obj, nil
}

func (p *parseState) parseObjectMember() (*syntax.Node, error) {
	tok := p.cur()
	var key *syntax.Node
	var err error
	switch tok.Kind {
	case syntax.TokIdentifier, syntax.TokKeyword:
		p.next()
		key = p.node(syntax.NodeIdentifier, tok.StartOffset, tok.EndOffset)
		key.Data = p.text(tok)
	case syntax.TokString:
		p.next()
		key = p.node(syntax.NodeString, tok.StartOffset, tok.EndOffset)
		key.Data = string(p.src[tok.StartOffset])
	case syntax.TokNumber:
		p.next()
		key = p.node(syntax.NodeNumber, tok.StartOffset, tok.EndOffset)
		key.Data = p.text(tok)
	case syntax.TokBracketOpen:
		key, err = p.parseComputedKey()
		if err != nil {
			return nil, err
		}
	default:
		return nil, p.unexpected()
	}

	if !p.at(syntax.TokColon) {
		if tok.Kind != syntax.TokIdentifier {
			return nil, p.errorf(p.cur().StartOffset, "expected ':' after object key")
		}
		member := p.node(syntax.NodeObjectInitialiserMember, key.Start(), key.End())
		member.Shorthand = true
		syntax.AppendChild(member, syntax.SlotKey, key)
		return member, nil
	}
	p.next()
	p.skipNewlines()

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	member := p.node(syntax.NodeObjectInitialiserMember, key.Start(), value.End())
	syntax.AppendChild(member, syntax.SlotKey, key)
	syntax.AppendChild(member, syntax.SlotExpression, value)
	return member, nil
}

// Functions.

// isFunctionStart reports whether the '(' at the current position opens a
// parameter list, i.e. its matching ')' is followed by an arrow.
func (p *parseState) isFunctionStart() bool {
	depth := 0
	for i := p.pos; i < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case syntax.TokParenOpen, syntax.TokBracketOpen, syntax.TokBraceOpen:
			depth++
		case syntax.TokParenClose, syntax.TokBracketClose, syntax.TokBraceClose:
			depth--
			if depth == 0 {
				if i+1 >= len(p.toks) {
					return false
				}
				next := p.toks[i+1].Kind
				return next == syntax.TokArrow || next == syntax.TokFatArrow
			}
		}
	}
	return false
}

func (p *parseState) parseFunction() (*syntax.Node, error) {
	start := p.cur().StartOffset

	var params []*syntax.Node
	if p.at(syntax.TokParenOpen) {
		p.next()
		p.skipNewlines()
		for !p.at(syntax.TokParenClose) {
			param, err := p.parseParam()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if err := p.skipSeparator(syntax.TokParenClose); err != nil {
				return nil, err
			}
		}
		p.next()
	}

	arrow := p.next()
	kind := syntax.NodeFunction
	switch arrow.Kind {
	case syntax.TokArrow:
	case syntax.TokFatArrow:
		kind = syntax.NodeBoundFunction
	default:
		return nil, p.errorf(arrow.StartOffset, "expected '->' or '=>'")
	}

	fn := p.node(kind, start, arrow.EndOffset)
	for _, param := range params {
		syntax.AppendChild(fn, syntax.SlotParameter, param)
	}

	var body *syntax.Node
	var err error
	switch {
	case p.at(syntax.TokNewline):
		body, err = p.parseIndentedBlock(arrow.StartOffset, p.parseStatement)
	case p.atStatementEnd():
	default:
		body, err = p.parseInlineBlock()
	}
	if err != nil {
		return nil, err
	}
	if body != nil {
		syntax.AppendChild(fn, syntax.SlotBody, body)
		fn.Range.EndOffset = body.End()
	}
	return fn, nil
}

func (p *parseState) parseParam() (*syntax.Node, error) {
	tok := p.cur()
	if tok.Kind == syntax.TokAt {
		return nil, p.errorf(tok.StartOffset, "'@' parameters are not supported")
	}
	if tok.Kind != syntax.TokIdentifier {
		return nil, p.errorf(tok.StartOffset, "expected parameter name")
	}
	p.next()
	name := p.node(syntax.NodeIdentifier, tok.StartOffset, tok.EndOffset)
	name.Data = p.text(tok)

	if !p.at(syntax.TokAssign) || p.text(p.cur()) != "=" {
		return name, nil
	}
	p.next()
	def, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	param := p.node(syntax.NodeDefaultParam, name.Start(), def.End())
	syntax.AppendChild(param, syntax.SlotAssignee, name)
	syntax.AppendChild(param, syntax.SlotDefault, def)
	return param, nil
}
