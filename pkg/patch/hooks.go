package patch

// ComputedHook is implemented by variants whose key may be computed.
type ComputedHook interface {
	IsComputed() bool
}

// TerminatorHook is implemented by statement variants that decide whether
// their container must append a statement terminator.
type TerminatorHook interface {
	StatementNeedsSemicolon() bool
}

// MethodHook is implemented by member variants that may render as methods.
type MethodHook interface {
	IsMethod() bool
}

// StaticMethodHook is implemented by class members that may be static.
type StaticMethodHook interface {
	IsStaticMethod() bool
}

// BoundMethodHook is implemented by class members that may need instance
// binding.
type BoundMethodHook interface {
	IsBoundInstanceMethod() bool
}

// Binder is implemented by function variants that must be bound to their
// instance at construction time. BindingStatement returns the statement
// (without terminator) that performs the binding, or "" when none applies.
type Binder interface {
	BindingStatement() string
}

// IsComputed reports whether p has a computed key. Defaults to false.
func IsComputed(p Patcher) bool {
	if h, ok := p.(ComputedHook); ok {
		return h.IsComputed()
	}
	return false
}

// StatementNeedsSemicolon reports whether p, as a statement, must be
// followed by a terminator. Defaults to true.
func StatementNeedsSemicolon(p Patcher) bool {
	if h, ok := p.(TerminatorHook); ok {
		return h.StatementNeedsSemicolon()
	}
	return true
}

// IsMethod reports whether p renders as a method. Defaults to false.
func IsMethod(p Patcher) bool {
	if h, ok := p.(MethodHook); ok {
		return h.IsMethod()
	}
	return false
}

// IsStaticMethod reports whether p is a static class member. Defaults to false.
func IsStaticMethod(p Patcher) bool {
	if h, ok := p.(StaticMethodHook); ok {
		return h.IsStaticMethod()
	}
	return false
}

// IsBoundInstanceMethod reports whether p needs instance binding.
// Defaults to false.
func IsBoundInstanceMethod(p Patcher) bool {
	if h, ok := p.(BoundMethodHook); ok {
		return h.IsBoundInstanceMethod()
	}
	return false
}

// ImplicitReturnHook is implemented by function variants whose last
// statement yields the function's value.
type ImplicitReturnHook interface {
	ImplicitlyReturns() bool
}

// ImplicitlyReturns reports whether p returns the value of its final
// statement without an explicit return. Defaults to false.
func ImplicitlyReturns(p Patcher) bool {
	if h, ok := p.(ImplicitReturnHook); ok {
		return h.ImplicitlyReturns()
	}
	return false
}
