// Package patchers provides the concrete patcher variants that rewrite
// CoffeeScript constructs as JavaScript, and registers them with
// patch.DefaultRegistry.
package patchers

import (
	"strings"

	"github.com/yaklabco/decaf/pkg/patch"
	"github.com/yaklabco/decaf/pkg/syntax"
)

// PassthroughPatcher leaves its node's text unchanged. It serves every
// construct whose CoffeeScript spelling is already valid JavaScript; its
// children are still patched.
type PassthroughPatcher struct {
	*patch.NodePatcher
}

// Rewrite does nothing.
func (p *PassthroughPatcher) Rewrite() error {
	return nil
}

// ProgramPatcher declares the variables first assigned at the top level.
type ProgramPatcher struct {
	*patch.NodePatcher
}

// Rewrite emits the program's 'let' declarations.
func (p *ProgramPatcher) Rewrite() error {
	return declareVariables(p.NodePatcher, p.Tree().Scope(p.Node()), p.Child(syntax.SlotBody), nil)
}

// BlockPatcher terminates the statements it contains.
type BlockPatcher struct {
	*patch.NodePatcher
}

// Rewrite appends ';' after every statement that needs one and does not
// already have one.
func (b *BlockPatcher) Rewrite() error {
	if cond, ok := b.Parent().(*ConditionalPatcher); ok && !cond.isStatement() {
		return nil
	}
	for _, stmt := range b.ChildrenIn(syntax.SlotStatement) {
		if !patch.StatementNeedsSemicolon(stmt) || b.followedBySemicolon(stmt.Base().After()) {
			continue
		}
		if err := b.Insert(stmt.Base().TrailingEnd(), ";"); err != nil {
			return err
		}
	}
	return nil
}

func (b *BlockPatcher) followedBySemicolon(offset int) bool {
	snap := b.Snapshot()
	idx := snap.TokenIndexAt(offset)
	return idx < len(snap.Tokens) && snap.Tokens[idx].Kind == syntax.TokSemicolon
}

// statements returns the statement patchers of a block patcher, or nil.
func statements(block patch.Patcher) []patch.Patcher {
	if block == nil {
		return nil
	}
	return block.Base().ChildrenIn(syntax.SlotStatement)
}

// declareVariables emits 'let' for the names first assigned in scope.
// A name whose first assignment is a plain statement directly in body is
// declared inline; the rest are hoisted into one declaration before the
// first statement. returned is the statement that receives an implicit
// return, which cannot carry a declaration.
func declareVariables(owner *patch.NodePatcher, scope *patch.Scope, body patch.Patcher, returned *syntax.Node) error {
	if scope == nil || body == nil {
		return nil
	}
	decls := scope.Declarations()
	if len(decls) == 0 {
		return nil
	}

	bodyNode := body.Base().Node()
	var hoisted []string
	var inline []*syntax.Node
	for _, decl := range decls {
		assign := decl.Assignment
		if assign.Parent == bodyNode && assign.Slot == syntax.SlotStatement &&
			assign != returned && !assign.Parenthesized {
			inline = append(inline, assign)
			continue
		}
		hoisted = append(hoisted, decl.Name)
	}

	if len(hoisted) > 0 {
		first := statements(body)[0].Base()
		sep := owner.Newline() + first.Indent()
		if bodyNode.Shorthand {
			sep = " "
		}
		text := "let " + strings.Join(hoisted, ", ") + ";" + sep
		if err := owner.Insert(first.Before(), text); err != nil {
			return err
		}
	}

	for _, assign := range inline {
		if err := owner.Insert(assign.Start(), "let "); err != nil {
			return err
		}
	}
	return nil
}
