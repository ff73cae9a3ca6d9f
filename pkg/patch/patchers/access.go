package patchers

import (
	"github.com/yaklabco/decaf/pkg/patch"
	"github.com/yaklabco/decaf/pkg/syntax"
)

// ThisPatcher spells '@' as 'this'.
type ThisPatcher struct {
	*patch.NodePatcher
}

// Rewrite expands the shorthand.
func (t *ThisPatcher) Rewrite() error {
	if !t.Node().Shorthand {
		return nil
	}
	tok, err := t.ExpectToken(t.Before(), syntax.TokAt)
	if err != nil {
		return err
	}
	return t.Overwrite(tok.StartOffset, tok.EndOffset, "this")
}

// MemberAccessOpPatcher patches 'a.b' and '@b'.
type MemberAccessOpPatcher struct {
	*patch.NodePatcher
}

// MemberNameToken returns the identifier naming the accessed member.
func (m *MemberAccessOpPatcher) MemberNameToken() (syntax.Token, error) {
	snap := m.Snapshot()
	floor := m.Before()
	if object := m.Child(syntax.SlotExpression); object != nil {
		floor = object.Base().After()
	}
	tok, ok := snap.PrevTokenOfKind(m.After(), floor, syntax.TokIdentifier)
	if !ok || tok.Text(snap.Content) != m.Node().Data {
		return syntax.Token{}, m.Malformed(m.After(), "member name")
	}
	return tok, nil
}

// Rewrite inserts the '.' that '@name' leaves implicit.
func (m *MemberAccessOpPatcher) Rewrite() error {
	if !m.Node().Shorthand {
		return nil
	}
	name, err := m.MemberNameToken()
	if err != nil {
		return err
	}
	return m.Insert(name.StartOffset, ".")
}

// ProtoMemberAccessOpPatcher rewrites 'A::b' as 'A.prototype.b'.
type ProtoMemberAccessOpPatcher struct {
	*patch.NodePatcher
}

// Rewrite expands '::'.
func (p *ProtoMemberAccessOpPatcher) Rewrite() error {
	object := p.Child(syntax.SlotExpression)
	tok, err := p.ExpectToken(object.Base().After(), syntax.TokProto)
	if err != nil {
		return err
	}
	text := ".prototype"
	if p.Node().Data != "" {
		text += "."
	}
	return p.Overwrite(tok.StartOffset, tok.EndOffset, text)
}

// SuperPatcher resolves 'super' against the enclosing method: inside a
// method 'm', 'super(x)' calls 'super.m(x)', and a bare 'super' forwards
// the current arguments.
type SuperPatcher struct {
	*patch.NodePatcher
}

// isCallee reports whether super is being called directly.
func (s *SuperPatcher) isCallee() bool {
	return s.Node().Slot == syntax.SlotFunction && s.Node().Parent.Is(syntax.NodeFunctionApplication)
}

// Rewrite spells out the target and, for bare super, the arguments.
func (s *SuperPatcher) Rewrite() error {
	method := s.Context().Method
	if method == "" {
		return nil
	}

	target := "super"
	if method != constructorName {
		target = "super." + method
	}
	if !s.isCallee() {
		target += "(...arguments)"
	}
	if target == "super" {
		return nil
	}
	return s.Overwrite(s.Before(), s.After(), target)
}
