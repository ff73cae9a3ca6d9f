package patchers

import (
	"github.com/yaklabco/decaf/pkg/patch"
	"github.com/yaklabco/decaf/pkg/syntax"
)

// ConditionalPatcher rewrites if/unless/else. As a statement it produces
// a braced if statement; inside an expression it produces a conditional
// operator.
type ConditionalPatcher struct {
	*patch.NodePatcher
}

// isStatement reports whether the conditional stands as a statement. An
// else-if chain inherits the form of its head.
func (c *ConditionalPatcher) isStatement() bool {
	switch c.Node().Slot {
	case syntax.SlotStatement:
		return true
	case syntax.SlotAlternate:
		if parent, ok := c.Parent().(*ConditionalPatcher); ok {
			return parent.isStatement()
		}
	}
	return false
}

// StatementNeedsSemicolon is false: an if statement ends with '}'.
func (c *ConditionalPatcher) StatementNeedsSemicolon() bool {
	return false
}

// Branches returns the consequent and, when present, the alternate.
func (c *ConditionalPatcher) Branches() []patch.Patcher {
	out := []patch.Patcher{c.Child(syntax.SlotConsequent)}
	if alt := c.Child(syntax.SlotAlternate); alt != nil {
		out = append(out, alt)
	}
	return out
}

func (c *ConditionalPatcher) negated() bool {
	return c.Node().Data == "unless"
}

// Rewrite dispatches on the conditional's position.
func (c *ConditionalPatcher) Rewrite() error {
	if c.isStatement() {
		return c.patchStatement()
	}
	return c.patchExpression()
}

func (c *ConditionalPatcher) patchStatement() error {
	kw, err := c.FirstToken()
	if err != nil {
		return err
	}
	cond := c.Child(syntax.SlotCondition)
	consequent := c.Child(syntax.SlotConsequent)
	alternate := c.Child(syntax.SlotAlternate)

	if err := patchHeader(c.NodePatcher, kw, "if", c.negated(), cond, consequent); err != nil {
		return err
	}

	if alternate == nil {
		return closeBlock(c.NodePatcher, consequent)
	}

	elseTok, err := c.ExpectToken(consequent.Base().After(), syntax.TokKeyword)
	if err != nil {
		return err
	}
	if elseTok.Text(c.Snapshot().Content) != "else" {
		return c.Malformed(elseTok.StartOffset, "else")
	}

	opener := " {"
	if alternate.Base().Kind() == syntax.NodeConditional {
		opener = ""
	}

	end := consequent.Base().TrailingEnd()
	switch {
	case c.HasTokenBetween(end, elseTok.StartOffset, syntax.TokComment),
		c.HasTokenBetween(end, elseTok.StartOffset, syntax.TokBlockComment):
		if err := closeBlock(c.NodePatcher, consequent); err != nil {
			return err
		}
		if err := c.Overwrite(elseTok.StartOffset, elseTok.EndOffset, "else"+opener); err != nil {
			return err
		}
	case consequent.Base().Node().Shorthand:
		if err := c.Overwrite(end, elseTok.EndOffset, " } else"+opener); err != nil {
			return err
		}
	default:
		if err := c.Overwrite(end, elseTok.EndOffset, c.Newline()+c.Indent()+"} else"+opener); err != nil {
			return err
		}
	}

	if alternate.Base().Kind() == syntax.NodeConditional {
		c.SetTrailingEnd(alternate.Base().TrailingEnd())
		return nil
	}
	return closeBlock(c.NodePatcher, alternate)
}

// patchExpression renders 'if a then b else c' as '(a ? b : c)'.
func (c *ConditionalPatcher) patchExpression() error {
	kw, err := c.FirstToken()
	if err != nil {
		return err
	}
	cond := c.Child(syntax.SlotCondition)
	consequent := c.Child(syntax.SlotConsequent)
	alternate := c.Child(syntax.SlotAlternate)
	if !consequent.Base().Node().Shorthand || len(statements(consequent)) != 1 {
		return c.Malformed(consequent.Base().Before(), "single-line consequent")
	}

	open := ""
	if !c.Node().Parenthesized && c.Node().Slot != syntax.SlotAlternate {
		open = "("
	}
	if c.negated() {
		open += "!"
	}
	if c.negated() && !cond.Base().Node().Parenthesized {
		open += "("
		if err := c.Insert(cond.Base().TrailingEnd(), ")"); err != nil {
			return err
		}
	}
	if err := c.Overwrite(kw.StartOffset, cond.Base().Before(), open); err != nil {
		return err
	}

	thenTok, err := c.ExpectToken(cond.Base().After(), syntax.TokKeyword)
	if err != nil {
		return err
	}
	if err := c.Overwrite(thenTok.StartOffset, thenTok.EndOffset, "?"); err != nil {
		return err
	}

	var end int
	if alternate == nil {
		end = consequent.Base().TrailingEnd()
		if err := c.Insert(end, " : undefined"); err != nil {
			return err
		}
	} else {
		if alternate.Base().Kind() != syntax.NodeConditional &&
			(!alternate.Base().Node().Shorthand || len(statements(alternate)) != 1) {
			return c.Malformed(alternate.Base().Before(), "single-line alternate")
		}
		elseTok, err := c.ExpectToken(consequent.Base().After(), syntax.TokKeyword)
		if err != nil {
			return err
		}
		if err := c.Overwrite(elseTok.StartOffset, elseTok.EndOffset, ":"); err != nil {
			return err
		}
		end = alternate.Base().TrailingEnd()
	}

	if open != "" && open[0] == '(' {
		if err := c.Insert(end, ")"); err != nil {
			return err
		}
	}
	c.SetTrailingEnd(end)
	return nil
}

// WhilePatcher rewrites while/until loops.
type WhilePatcher struct {
	*patch.NodePatcher
}

// StatementNeedsSemicolon is false: a loop ends with '}'.
func (w *WhilePatcher) StatementNeedsSemicolon() bool {
	return false
}

// Rewrite produces 'while (cond) { ... }'; until negates the condition.
func (w *WhilePatcher) Rewrite() error {
	kw, err := w.FirstToken()
	if err != nil {
		return err
	}
	body := w.Child(syntax.SlotBody)
	if err := patchHeader(w.NodePatcher, kw, "while", w.Node().Data == "until", w.Child(syntax.SlotCondition), body); err != nil {
		return err
	}
	return closeBlock(w.NodePatcher, body)
}

// patchHeader rewrites 'kw cond [then]' as 'word (cond) {'.
func patchHeader(p *patch.NodePatcher, kw syntax.Token, word string, negate bool, cond, body patch.Patcher) error {
	condNode := cond.Base().Node()

	open, closeParens := word+" (", ")"
	switch {
	case negate && condNode.Parenthesized:
		open, closeParens = word+" (!", ")"
	case negate:
		open, closeParens = word+" (!(", "))"
	case condNode.Parenthesized:
		open, closeParens = word+" ", ""
	}
	if err := p.Overwrite(kw.StartOffset, cond.Base().Before(), open); err != nil {
		return err
	}

	condEnd := cond.Base().TrailingEnd()
	if tok, err := p.TokenAfter(cond.Base().After()); err == nil &&
		tok.Kind == syntax.TokKeyword && tok.Text(p.Snapshot().Content) == "then" {
		if err := p.Insert(condEnd, closeParens); err != nil {
			return err
		}
		return p.Overwrite(tok.StartOffset, tok.EndOffset, "{")
	}
	if body.Base().Node().Shorthand {
		return p.Malformed(cond.Base().After(), "then")
	}
	return p.Insert(condEnd, closeParens+" {")
}

// closeBlock appends the brace that ends block.
func closeBlock(p *patch.NodePatcher, block patch.Patcher) error {
	end := block.Base().TrailingEnd()
	if block.Base().Node().Shorthand {
		if err := p.Insert(end, " }"); err != nil {
			return err
		}
		p.SetTrailingEnd(end)
		return nil
	}
	closeAt := p.LineEndAfter(end)
	if err := p.Insert(closeAt, p.Newline()+p.Indent()+"}"); err != nil {
		return err
	}
	p.SetTrailingEnd(closeAt)
	return nil
}
