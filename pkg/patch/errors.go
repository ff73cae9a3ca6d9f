package patch

import (
	"errors"
	"fmt"

	"github.com/yaklabco/decaf/pkg/syntax"
)

var (
	// ErrMalformedContext indicates that the tree and token stream disagree:
	// a boundary token a patcher relies on cannot be found.
	ErrMalformedContext = errors.New("malformed context")

	// ErrLifecycle indicates a patcher was driven out of order.
	ErrLifecycle = errors.New("lifecycle violation")

	// ErrNoPatcher indicates the registry has no variant for a node kind.
	ErrNoPatcher = errors.New("no patcher registered")
)

// MalformedContextError reports a missing or unexpected boundary token.
type MalformedContextError struct {
	NodeID   int
	Kind     syntax.NodeKind
	Offset   int
	Expected string
}

func (e *MalformedContextError) Error() string {
	return fmt.Sprintf("%s node %d: expected %s at offset %d", e.Kind, e.NodeID, e.Expected, e.Offset)
}

func (e *MalformedContextError) Unwrap() error {
	return ErrMalformedContext
}

// ErrorOffset returns the byte offset the error refers to.
func (e *MalformedContextError) ErrorOffset() int {
	return e.Offset
}

// LifecycleError reports a patch or edit issued in the wrong state.
type LifecycleError struct {
	NodeID  int
	Kind    syntax.NodeKind
	State   State
	Offset  int
	Message string
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("%s node %d (%s): %s", e.Kind, e.NodeID, e.State, e.Message)
}

func (e *LifecycleError) Unwrap() error {
	return ErrLifecycle
}

// ErrorOffset returns the byte offset the error refers to.
func (e *LifecycleError) ErrorOffset() int {
	return e.Offset
}
