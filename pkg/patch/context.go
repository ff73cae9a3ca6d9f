package patch

import "github.com/yaklabco/decaf/pkg/syntax"

// Context is the immutable information a patcher receives from its
// ancestors when the tree is built. Patchers read it instead of walking
// parent pointers at classification time.
type Context struct {
	// Class is the nearest enclosing class node, or nil.
	Class *syntax.Node

	// ClassName is the declared name of Class; empty for anonymous
	// classes and outside of classes.
	ClassName string

	// Method is the name of the class method whose body encloses the
	// node; "constructor" inside constructors, empty elsewhere.
	Method string

	// Scope is the innermost function or program scope.
	Scope *Scope
}

// Scope tracks the variables a function or program body introduces.
// CoffeeScript variables are function scoped and implicitly declared on
// first assignment; a name already visible from an enclosing scope is not
// redeclared.
type Scope struct {
	// Owner is the Program or function node that introduces the scope.
	Owner *syntax.Node

	parent *Scope
	names  map[string]bool
	order  []Declaration
}

// Declaration is a variable first assigned in a scope.
type Declaration struct {
	// Name is the variable name.
	Name string

	// Assignment is the node whose assignee first introduced the name.
	Assignment *syntax.Node
}

// NewScope creates a scope nested in parent (which may be nil).
func NewScope(owner *syntax.Node, parent *Scope) *Scope {
	return &Scope{
		Owner:  owner,
		parent: parent,
		names:  make(map[string]bool),
	}
}

// Parent returns the enclosing scope, or nil.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Has reports whether name is visible from s.
func (s *Scope) Has(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.names[name] {
			return true
		}
	}
	return false
}

// Bind makes name visible without requiring a declaration; used for
// parameters and class names, which declare themselves.
func (s *Scope) Bind(name string) {
	s.names[name] = true
}

// Assign records an assignment to name. It returns true if the assignment
// introduced the name.
func (s *Scope) Assign(name string, assignment *syntax.Node) bool {
	if s.Has(name) {
		return false
	}
	s.names[name] = true
	s.order = append(s.order, Declaration{Name: name, Assignment: assignment})
	return true
}

// Declarations returns the names introduced by assignment, in source order.
func (s *Scope) Declarations() []Declaration {
	out := make([]Declaration, len(s.order))
	copy(out, s.order)
	return out
}
