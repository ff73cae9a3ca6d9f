package patchers

import (
	"github.com/yaklabco/decaf/pkg/patch"
	"github.com/yaklabco/decaf/pkg/syntax"
)

// ObjectBodyMember is the logic shared by 'key: value' members of object
// literals and class bodies.
type ObjectBodyMember struct {
	*patch.NodePatcher
}

// Key returns the key patcher.
func (m *ObjectBodyMember) Key() patch.Patcher {
	return m.Child(syntax.SlotKey)
}

// Expression returns the value patcher, or nil for shorthand members.
func (m *ObjectBodyMember) Expression() patch.Patcher {
	return m.Child(syntax.SlotExpression)
}

// SeparatorToken returns the ':' between key and value.
func (m *ObjectBodyMember) SeparatorToken() (syntax.Token, error) {
	return m.ExpectToken(m.Key().Base().After(), syntax.TokColon)
}

// IsComputed reports whether the key is anything other than a plain
// identifier, string or number.
func (m *ObjectBodyMember) IsComputed() bool {
	switch m.Key().Base().Kind() {
	case syntax.NodeIdentifier, syntax.NodeString, syntax.NodeNumber:
		return false
	default:
		return true
	}
}

// valueIsFunction reports whether the value is one of the function forms.
func (m *ObjectBodyMember) valueIsFunction() bool {
	value := m.Expression()
	return value != nil && value.Base().Kind().IsFunction()
}

// wrapComputedKey brackets a computed key that is not already written in
// bracket form.
func (m *ObjectBodyMember) wrapComputedKey(computed bool) error {
	key := m.Key().Base()
	if !computed || key.Kind() == syntax.NodeComputedKey {
		return nil
	}
	if err := m.Insert(key.Before(), "["); err != nil {
		return err
	}
	return m.Insert(key.After(), "]")
}

// patchAsMethod drops the separator so the function value becomes the
// method's parameter list and body.
func (m *ObjectBodyMember) patchAsMethod(computed bool) error {
	if _, err := m.SeparatorToken(); err != nil {
		return err
	}
	if err := m.wrapComputedKey(computed); err != nil {
		return err
	}
	return m.Remove(m.Key().Base().After(), m.Expression().Base().Before())
}

// patchAsProperty replaces the separator with sep. Both sides are left
// as written.
func (m *ObjectBodyMember) patchAsProperty(sep string) error {
	if _, err := m.SeparatorToken(); err != nil {
		return err
	}
	return m.Overwrite(m.Key().Base().After(), m.Expression().Base().Before(), sep)
}

// ObjectInitialiserMemberPatcher patches one member of an object literal.
// Plain function values become methods; everything else is already valid.
type ObjectInitialiserMemberPatcher struct {
	ObjectBodyMember
}

// IsMethod reports whether the member renders as a method.
func (m *ObjectInitialiserMemberPatcher) IsMethod() bool {
	value := m.Expression()
	return value != nil && value.Base().Kind() == syntax.NodeFunction
}

// Rewrite turns function-valued members into methods.
func (m *ObjectInitialiserMemberPatcher) Rewrite() error {
	if m.Node().Shorthand || !m.IsMethod() {
		return nil
	}
	return m.patchAsMethod(false)
}

// ObjectInitialiserPatcher inserts the commas CoffeeScript lets a
// multi-line object literal omit.
type ObjectInitialiserPatcher struct {
	*patch.NodePatcher
}

// Rewrite separates members with commas.
func (o *ObjectInitialiserPatcher) Rewrite() error {
	return insertMissingCommas(o.NodePatcher, o.ChildrenIn(syntax.SlotMember))
}

// ArrayInitialiserPatcher inserts the commas CoffeeScript lets a
// multi-line array literal omit.
type ArrayInitialiserPatcher struct {
	*patch.NodePatcher
}

// Rewrite separates elements with commas.
func (a *ArrayInitialiserPatcher) Rewrite() error {
	return insertMissingCommas(a.NodePatcher, a.ChildrenIn(syntax.SlotElement))
}

func insertMissingCommas(owner *patch.NodePatcher, items []patch.Patcher) error {
	for i := 0; i+1 < len(items); i++ {
		cur, next := items[i].Base(), items[i+1].Base()
		if owner.HasTokenBetween(cur.After(), next.Before(), syntax.TokComma) {
			continue
		}
		if err := owner.Insert(cur.TrailingEnd(), ","); err != nil {
			return err
		}
	}
	return nil
}
