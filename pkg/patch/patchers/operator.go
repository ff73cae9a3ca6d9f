package patchers

import (
	"github.com/yaklabco/decaf/pkg/patch"
	"github.com/yaklabco/decaf/pkg/syntax"
)

// binaryOperators maps CoffeeScript operator spellings to JavaScript.
//
//nolint:gochecknoglobals // read-only lookup table
var binaryOperators = map[string]string{
	"is":   "===",
	"isnt": "!==",
	"==":   "===",
	"!=":   "!==",
	"and":  "&&",
	"or":   "||",
	"of":   "in",
}

// compoundOperators maps CoffeeScript compound assignments to JavaScript.
//
//nolint:gochecknoglobals // read-only lookup table
var compoundOperators = map[string]string{
	"or=":  "||=",
	"and=": "&&=",
	"?=":   "??=",
}

// BinaryOpPatcher translates word and equality operators.
type BinaryOpPatcher struct {
	*patch.NodePatcher
}

// OperatorToken returns the operator between the operands.
func (b *BinaryOpPatcher) OperatorToken() (syntax.Token, error) {
	return operatorBetween(b.NodePatcher, syntax.SlotLeft, syntax.SlotRight)
}

// Rewrite replaces the operator when JavaScript spells it differently.
func (b *BinaryOpPatcher) Rewrite() error {
	text, ok := binaryOperators[b.Node().Data]
	if !ok {
		return nil
	}
	tok, err := b.OperatorToken()
	if err != nil {
		return err
	}
	return b.Overwrite(tok.StartOffset, tok.EndOffset, text)
}

// UnaryOpPatcher translates 'not'.
type UnaryOpPatcher struct {
	*patch.NodePatcher
}

// Rewrite replaces 'not x' with '!x'.
func (u *UnaryOpPatcher) Rewrite() error {
	if u.Node().Data != "not" {
		return nil
	}
	tok, err := u.ExpectToken(u.Before(), syntax.TokKeyword)
	if err != nil {
		return err
	}
	operand := u.Child(syntax.SlotOperand)
	return u.Overwrite(tok.StartOffset, operand.Base().Before(), "!")
}

// CompoundAssignOpPatcher translates 'or=', 'and=' and '?='.
type CompoundAssignOpPatcher struct {
	*patch.NodePatcher
}

// OperatorToken returns the assignment operator.
func (c *CompoundAssignOpPatcher) OperatorToken() (syntax.Token, error) {
	return operatorBetween(c.NodePatcher, syntax.SlotAssignee, syntax.SlotExpression)
}

// Rewrite replaces operators JavaScript spells differently.
func (c *CompoundAssignOpPatcher) Rewrite() error {
	text, ok := compoundOperators[c.Node().Data]
	if !ok {
		return nil
	}
	tok, err := c.OperatorToken()
	if err != nil {
		return err
	}
	return c.Overwrite(tok.StartOffset, tok.EndOffset, text)
}

// operatorBetween returns the first significant token between the
// children in the two slots, which must spell the node's operator.
func operatorBetween(p *patch.NodePatcher, left, right syntax.Slot) (syntax.Token, error) {
	l, r := p.Child(left), p.Child(right)
	if l == nil || r == nil {
		return syntax.Token{}, p.Malformed(p.Before(), "operands")
	}
	tok, err := p.TokenAfter(l.Base().After())
	if err != nil {
		return syntax.Token{}, err
	}
	if tok.StartOffset >= r.Base().Before() || tok.Text(p.Snapshot().Content) != p.Node().Data {
		return syntax.Token{}, p.Malformed(l.Base().After(), "operator "+p.Node().Data)
	}
	return tok, nil
}
