package patchers

import (
	"github.com/yaklabco/decaf/pkg/patch"
	"github.com/yaklabco/decaf/pkg/syntax"
)

// FunctionApplicationPatcher adds the parentheses of implicit calls.
type FunctionApplicationPatcher struct {
	*patch.NodePatcher
}

// Rewrite parenthesizes 'f a, b' as 'f(a, b)'.
func (f *FunctionApplicationPatcher) Rewrite() error {
	if !f.Node().Shorthand {
		return nil
	}
	return parenthesizeArguments(f.NodePatcher)
}

// NewOpPatcher adds the parentheses of 'new C a'.
type NewOpPatcher struct {
	*patch.NodePatcher
}

// Rewrite parenthesizes implicit constructor arguments.
func (n *NewOpPatcher) Rewrite() error {
	if !n.Node().Shorthand {
		return nil
	}
	return parenthesizeArguments(n.NodePatcher)
}

// parenthesizeArguments replaces the space between callee and first
// argument with '(' and closes after everything the last argument emits.
func parenthesizeArguments(p *patch.NodePatcher) error {
	callee := p.Child(syntax.SlotFunction)
	args := p.ChildrenIn(syntax.SlotArgument)
	if callee == nil || len(args) == 0 {
		return p.Malformed(p.After(), "call arguments")
	}
	if err := p.Overwrite(callee.Base().After(), args[0].Base().Before(), "("); err != nil {
		return err
	}
	end := args[len(args)-1].Base().TrailingEnd()
	if err := p.Insert(end, ")"); err != nil {
		return err
	}
	p.SetTrailingEnd(end)
	return nil
}
