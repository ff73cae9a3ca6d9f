package patchers

import (
	"strings"

	"github.com/yaklabco/decaf/pkg/patch"
	"github.com/yaklabco/decaf/pkg/syntax"
)

// constructorName is the key of a class constructor member.
const constructorName = "constructor"

// ClassPatcher braces a class body and synthesizes a constructor when bound
// instance methods need binding and the class does not declare one.
type ClassPatcher struct {
	*patch.NodePatcher
}

// StatementNeedsSemicolon is false: a class declaration ends with '}'.
func (c *ClassPatcher) StatementNeedsSemicolon() bool {
	return false
}

// Members returns the class body members in source order.
func (c *ClassPatcher) Members() []patch.Patcher {
	return statements(c.Child(syntax.SlotBody))
}

// Bindings returns the statements that bind the class's bound instance
// methods, without terminators.
func (c *ClassPatcher) Bindings() []string {
	var out []string
	for _, member := range c.Members() {
		if !patch.IsBoundInstanceMethod(member) || !patch.IsMethod(member) {
			continue
		}
		binder, ok := member.Base().Child(syntax.SlotExpression).(patch.Binder)
		if !ok {
			continue
		}
		if stmt := binder.BindingStatement(); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// IsDerived reports whether the class has an extends clause.
func (c *ClassPatcher) IsDerived() bool {
	return c.Child(syntax.SlotSuperclass) != nil
}

func (c *ClassPatcher) hasConstructor() bool {
	for _, member := range c.Members() {
		if ctor, ok := member.(*ClassAssignOpPatcher); ok && ctor.IsConstructor() {
			return true
		}
	}
	return false
}

// headerEnd returns the offset just past 'class Name extends Super'.
func (c *ClassPatcher) headerEnd() int {
	if super := c.Child(syntax.SlotSuperclass); super != nil {
		return super.Base().TrailingEnd()
	}
	if name := c.Child(syntax.SlotName); name != nil {
		return name.Base().After()
	}
	kw, err := c.FirstToken()
	if err != nil {
		return c.Before()
	}
	return kw.EndOffset
}

// Rewrite braces the body.
func (c *ClassPatcher) Rewrite() error {
	body := c.Child(syntax.SlotBody)
	if body == nil {
		return c.Insert(c.headerEnd(), " {}")
	}

	if err := c.Insert(c.headerEnd(), " {"); err != nil {
		return err
	}

	if bindings := c.Bindings(); len(bindings) > 0 && !c.hasConstructor() {
		first := c.Members()[0].Base()
		if err := c.Insert(first.Before(), c.syntheticConstructor(first.Indent(), bindings)); err != nil {
			return err
		}
	}

	closeAt := c.LineEndAfter(body.Base().TrailingEnd())
	if err := c.Insert(closeAt, c.Newline()+c.Indent()+"}"); err != nil {
		return err
	}
	c.SetTrailingEnd(closeAt)
	return nil
}

// syntheticConstructor renders a constructor that forwards to the parent
// constructor and binds methods; indent is the member indentation.
func (c *ClassPatcher) syntheticConstructor(indent string, bindings []string) string {
	inner := indent + c.IndentUnit()
	nl := c.Newline()
	var sb strings.Builder
	if c.IsDerived() {
		sb.WriteString("constructor(...args) {" + nl)
		sb.WriteString(inner + "super(...args);" + nl)
	} else {
		sb.WriteString("constructor() {" + nl)
	}
	for _, stmt := range bindings {
		sb.WriteString(inner + stmt + ";" + nl)
	}
	sb.WriteString(indent + "}" + nl + nl + indent)
	return sb.String()
}

// ClassAssignOpPatcher patches one 'key: value' entry of a class body,
// classifying it as a static method, an instance method, or an instance
// property.
type ClassAssignOpPatcher struct {
	ObjectBodyMember
}

// memberNamer is implemented by member access patchers.
type memberNamer interface {
	MemberNameToken() (syntax.Token, error)
}

// IsStaticMethod reports whether the key is qualified by the class itself:
// '@name', 'this.name', or 'ClassName.name' inside class ClassName.
func (c *ClassAssignOpPatcher) IsStaticMethod() bool {
	key := c.Key().Base().Node()
	if key.Kind != syntax.NodeMemberAccessOp || key.Parenthesized {
		return false
	}
	object := key.Child(syntax.SlotExpression)
	switch {
	case object.Is(syntax.NodeThis):
		return true
	case object.Is(syntax.NodeIdentifier) && !object.Parenthesized:
		className := c.Context().ClassName
		return className != "" && object.Data == className
	default:
		return false
	}
}

// IsMethod reports whether the entry renders as a method: its value is a
// function and its key is either unqualified or a static qualifier.
func (c *ClassAssignOpPatcher) IsMethod() bool {
	if !c.valueIsFunction() {
		return false
	}
	return c.Key().Base().Kind() != syntax.NodeMemberAccessOp || c.IsStaticMethod()
}

// IsComputed is false for static members; otherwise any key other than a
// plain identifier, string or number is computed.
func (c *ClassAssignOpPatcher) IsComputed() bool {
	if c.IsStaticMethod() {
		return false
	}
	return c.ObjectBodyMember.IsComputed()
}

// IsBoundInstanceMethod reports whether the entry is a non-static member
// whose value is a bound function.
func (c *ClassAssignOpPatcher) IsBoundInstanceMethod() bool {
	return !c.IsStaticMethod() && c.Expression().Base().Kind() == syntax.NodeBoundFunction
}

// IsConstructor reports whether the entry is the class constructor.
func (c *ClassAssignOpPatcher) IsConstructor() bool {
	key := c.Key().Base().Node()
	return key.Is(syntax.NodeIdentifier) && key.Data == constructorName && c.valueIsFunction()
}

// StatementNeedsSemicolon is true for properties only.
func (c *ClassAssignOpPatcher) StatementNeedsSemicolon() bool {
	return !c.IsMethod()
}

// ClaimChildren takes the key: it is either rewritten here or kept as is.
func (c *ClassAssignOpPatcher) ClaimChildren() {
	c.Claim(c.Key())
}

// Rewrite applies the static, method or property shape. The key is only
// patched for computed instance methods; a property keeps its key text.
func (c *ClassAssignOpPatcher) Rewrite() error {
	if c.IsStaticMethod() {
		if err := c.patchStaticKey(); err != nil {
			return err
		}
	}
	if !c.IsMethod() {
		return c.patchAsProperty(" = ")
	}

	computed := c.IsComputed()
	if computed {
		if err := c.Key().Base().Patch(); err != nil {
			return err
		}
	}
	return c.patchAsMethod(computed)
}

// patchStaticKey replaces the qualifier with the static marker.
func (c *ClassAssignOpPatcher) patchStaticKey() error {
	key := c.Key()
	namer, ok := key.(memberNamer)
	if !ok {
		return c.Malformed(key.Base().Before(), "member access key")
	}
	name, err := namer.MemberNameToken()
	if err != nil {
		return err
	}
	return c.Overwrite(key.Base().Before(), name.StartOffset, "static ")
}
