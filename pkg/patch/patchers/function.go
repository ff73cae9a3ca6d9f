package patchers

import (
	"strings"

	"github.com/yaklabco/decaf/pkg/patch"
	"github.com/yaklabco/decaf/pkg/syntax"
)

// FunctionPatcher rewrites '->' functions. Depending on its parent a
// function renders as a method ('name(a) {'), or as a function expression
// ('function(a) {'). Bodies get braces, hoisted declarations and an
// implicit return.
type FunctionPatcher struct {
	*patch.NodePatcher
}

// ArrowToken returns the function's '->' or '=>'.
func (f *FunctionPatcher) ArrowToken() (syntax.Token, error) {
	kind := syntax.TokArrow
	if f.Kind() == syntax.NodeBoundFunction {
		kind = syntax.TokFatArrow
	}
	if body := f.Child(syntax.SlotBody); body != nil {
		tok, err := f.TokenBefore(body.Base().Before())
		if err != nil || tok.Kind != kind {
			return syntax.Token{}, f.Malformed(body.Base().Before(), kind.String()+" token")
		}
		return tok, nil
	}
	tok, ok := f.Snapshot().PrevTokenOfKind(f.After(), f.Before(), kind)
	if !ok {
		return syntax.Token{}, f.Malformed(f.Before(), kind.String()+" token")
	}
	return tok, nil
}

// paramList returns the parentheses around the parameters, if written.
func (f *FunctionPatcher) paramList(arrow syntax.Token) (syntax.Token, syntax.Token, bool) {
	closeTok, err := f.TokenBefore(arrow.StartOffset)
	if err != nil || closeTok.Kind != syntax.TokParenClose {
		return syntax.Token{}, syntax.Token{}, false
	}
	from := closeTok.StartOffset
	if params := f.ChildrenIn(syntax.SlotParameter); len(params) > 0 {
		from = params[0].Base().Before()
	}
	open, err := f.TokenBefore(from)
	if err != nil || open.Kind != syntax.TokParenOpen {
		return syntax.Token{}, syntax.Token{}, false
	}
	return open, closeTok, true
}

// isMethod reports whether the parent renders this function as a method.
func (f *FunctionPatcher) isMethod() bool {
	parent := f.Parent()
	return parent != nil && f.Node().Slot == syntax.SlotExpression && patch.IsMethod(parent)
}

// isConstructor reports whether the function is a class constructor.
func (f *FunctionPatcher) isConstructor() bool {
	member, ok := f.Parent().(*ClassAssignOpPatcher)
	return ok && f.Node().Slot == syntax.SlotExpression && member.IsConstructor()
}

// ImplicitlyReturns reports whether the last statement of the body is the
// function's value. Constructors never return one.
func (f *FunctionPatcher) ImplicitlyReturns() bool {
	return f.Child(syntax.SlotBody) != nil && !f.isConstructor()
}

// constructorBindings returns the binding statements a constructor must
// run, or nil.
func (f *FunctionPatcher) constructorBindings() []string {
	if !f.isConstructor() {
		return nil
	}
	class, ok := f.Tree().PatcherFor(f.Context().Class).(*ClassPatcher)
	if !ok {
		return nil
	}
	return class.Bindings()
}

// Rewrite patches the head, the body prologue and the closing brace.
func (f *FunctionPatcher) Rewrite() error {
	arrow, err := f.ArrowToken()
	if err != nil {
		return err
	}
	body := f.Child(syntax.SlotBody)
	bindings := f.constructorBindings()

	if err := f.patchHead(arrow, body == nil, bindings); err != nil {
		return err
	}
	if body == nil {
		return nil
	}

	if err := f.insertBindings(body, bindings); err != nil {
		return err
	}

	var returned *syntax.Node
	stmts := statements(body)
	if f.ImplicitlyReturns() {
		returned = stmts[len(stmts)-1].Base().Node()
	}
	if err := declareVariables(f.NodePatcher, f.Tree().Scope(f.Node()), body, returned); err != nil {
		return err
	}
	if returned != nil {
		if err := insertReturn(f.NodePatcher, stmts[len(stmts)-1]); err != nil {
			return err
		}
	}

	return f.close(body)
}

// patchHead rewrites the parameter list and arrow into the opening of the
// function. Empty functions are closed immediately.
func (f *FunctionPatcher) patchHead(arrow syntax.Token, empty bool, bindings []string) error {
	open, closeTok, hasParams := f.paramList(arrow)

	brace := "{"
	if empty {
		brace = "{}"
		if len(bindings) > 0 {
			inner := f.Indent() + f.IndentUnit()
			nl := f.Newline()
			brace = "{" + nl + inner + strings.Join(bindings, ";"+nl+inner) + ";" + nl + f.Indent() + "}"
		}
	}

	switch {
	case f.isMethod():
		if hasParams {
			return f.Overwrite(closeTok.EndOffset, arrow.EndOffset, " "+brace)
		}
		return f.Overwrite(arrow.StartOffset, arrow.EndOffset, "() "+brace)

	case f.Kind() == syntax.NodeBoundFunction:
		if hasParams {
			return f.Overwrite(closeTok.EndOffset, arrow.EndOffset, " => "+brace)
		}
		return f.Overwrite(arrow.StartOffset, arrow.EndOffset, "() => "+brace)

	default:
		if hasParams {
			if err := f.Insert(open.StartOffset, "function"); err != nil {
				return err
			}
			return f.Overwrite(closeTok.EndOffset, arrow.EndOffset, " "+brace)
		}
		return f.Overwrite(arrow.StartOffset, arrow.EndOffset, "function() "+brace)
	}
}

// insertBindings places constructor bindings after a leading super call,
// or at the start of the body.
func (f *FunctionPatcher) insertBindings(body patch.Patcher, bindings []string) error {
	if len(bindings) == 0 {
		return nil
	}
	stmts := statements(body)
	first := stmts[0].Base()
	sep := f.Newline() + first.Indent()
	if body.Base().Node().Shorthand {
		sep = " "
	}

	if isSuperCall(first.Node()) {
		var sb strings.Builder
		for _, stmt := range bindings {
			sb.WriteString(sep + stmt + ";")
		}
		return f.Insert(first.TrailingEnd(), sb.String())
	}

	var sb strings.Builder
	for _, stmt := range bindings {
		sb.WriteString(stmt + ";" + sep)
	}
	return f.Insert(first.Before(), sb.String())
}

// isSuperCall reports whether n is 'super' or a call of it.
func isSuperCall(n *syntax.Node) bool {
	if n.Is(syntax.NodeSuper) {
		return true
	}
	return n.Is(syntax.NodeFunctionApplication) && n.Child(syntax.SlotFunction).Is(syntax.NodeSuper)
}

// close appends the closing brace after the body.
func (f *FunctionPatcher) close(body patch.Patcher) error {
	end := body.Base().TrailingEnd()
	if body.Base().Node().Shorthand {
		if err := f.Insert(end, " }"); err != nil {
			return err
		}
		f.SetTrailingEnd(end)
		return nil
	}
	closeAt := f.LineEndAfter(end)
	if err := f.Insert(closeAt, f.Newline()+f.Indent()+"}"); err != nil {
		return err
	}
	f.SetTrailingEnd(closeAt)
	return nil
}

// insertReturn makes stmt the value of its function. Statements that
// transfer control or produce no value are left alone; conditionals
// return from each branch.
func insertReturn(owner *patch.NodePatcher, stmt patch.Patcher) error {
	switch stmt.Base().Kind() {
	case syntax.NodeReturn, syntax.NodeThrow, syntax.NodeWhile, syntax.NodeClass:
		return nil
	case syntax.NodeConditional:
		if cond, ok := stmt.(*ConditionalPatcher); ok && cond.isStatement() {
			for _, branch := range cond.Branches() {
				if err := insertReturnInBranch(owner, branch); err != nil {
					return err
				}
			}
			return nil
		}
	}
	return owner.Insert(stmt.Base().Before(), "return ")
}

func insertReturnInBranch(owner *patch.NodePatcher, branch patch.Patcher) error {
	if branch.Base().Kind() == syntax.NodeConditional {
		return insertReturn(owner, branch)
	}
	stmts := statements(branch)
	if len(stmts) == 0 {
		return nil
	}
	return insertReturn(owner, stmts[len(stmts)-1])
}

// BoundFunctionPatcher rewrites '=>' functions as arrow functions.
type BoundFunctionPatcher struct {
	FunctionPatcher
}

// ClassBoundMethodFunctionPatcher is the value of a class entry whose value
// is a bound function. It renders as a method and supplies the statement
// the constructor uses to bind it to the instance.
type ClassBoundMethodFunctionPatcher struct {
	FunctionPatcher
}

// BindingStatement returns 'this.name = this.name.bind(this)' for bound
// instance methods, or "" when the entry is static or not a method.
func (c *ClassBoundMethodFunctionPatcher) BindingStatement() string {
	member, ok := c.Parent().(*ClassAssignOpPatcher)
	if !ok || !member.IsBoundInstanceMethod() || !member.IsMethod() {
		return ""
	}
	key := member.Key().Base()
	var ref string
	switch key.Kind() {
	case syntax.NodeIdentifier:
		ref = "this." + key.Node().Data
	case syntax.NodeString, syntax.NodeNumber:
		ref = "this[" + key.Text() + "]"
	case syntax.NodeComputedKey:
		ref = "this" + key.Text()
	default:
		return ""
	}
	return ref + " = " + ref + ".bind(this)"
}
