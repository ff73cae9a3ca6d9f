package patch

import (
	"github.com/yaklabco/decaf/pkg/syntax"
)

// State is a patcher's position in its single-pass lifecycle.
type State uint8

// Lifecycle states.
const (
	StateUnpatched State = iota
	StatePatching
	StatePatched
)

func (s State) String() string {
	switch s {
	case StateUnpatched:
		return "unpatched"
	case StatePatching:
		return "patching"
	case StatePatched:
		return "patched"
	default:
		return "unknown"
	}
}

// Patcher is implemented by every concrete variant. Variants embed
// *NodePatcher, which supplies Base and the shared machinery.
type Patcher interface {
	// Base returns the embedded framework state.
	Base() *NodePatcher

	// Rewrite emits the node's local edits. It runs once, after every
	// unclaimed child has been patched.
	Rewrite() error
}

// ChildClaimer is implemented by variants that take ownership of some of
// their children's ranges. ClaimChildren runs before children are patched.
type ChildClaimer interface {
	ClaimChildren()
}

// NodePatcher is the framework state shared by every variant: the wrapped
// node, its place in the arena, its build-time context, and its lifecycle.
type NodePatcher struct {
	node     *syntax.Node
	tree     *Tree
	parent   int
	children []int
	ctx      Context
	variant  string
	state    State
	claimed  bool
	trailing int
	self     Patcher
}

// Base returns p itself, satisfying Patcher for embedders.
func (p *NodePatcher) Base() *NodePatcher {
	return p
}

// Node returns the wrapped syntax node.
func (p *NodePatcher) Node() *syntax.Node {
	return p.node
}

// Kind returns the wrapped node's kind.
func (p *NodePatcher) Kind() syntax.NodeKind {
	return p.node.Kind
}

// Variant returns the registry name of the concrete variant.
func (p *NodePatcher) Variant() string {
	return p.variant
}

// State returns the current lifecycle state.
func (p *NodePatcher) State() State {
	return p.state
}

// Context returns the immutable context computed at build time.
func (p *NodePatcher) Context() Context {
	return p.ctx
}

// Tree returns the tree that owns the patcher.
func (p *NodePatcher) Tree() *Tree {
	return p.tree
}

// Snapshot returns the file being patched.
func (p *NodePatcher) Snapshot() *syntax.FileSnapshot {
	return p.tree.snapshot
}

// Self returns the concrete variant wrapping p.
func (p *NodePatcher) Self() Patcher {
	return p.self
}

// Parent returns the parent patcher, or nil for the root.
func (p *NodePatcher) Parent() Patcher {
	if p.parent < 0 {
		return nil
	}
	return p.tree.patchers[p.parent]
}

// Children returns the owned child patchers in source order.
func (p *NodePatcher) Children() []Patcher {
	out := make([]Patcher, len(p.children))
	for i, id := range p.children {
		out[i] = p.tree.patchers[id]
	}
	return out
}

// Child returns the first child patcher occupying slot, or nil.
func (p *NodePatcher) Child(slot syntax.Slot) Patcher {
	for _, id := range p.children {
		if p.tree.patchers[id].Base().node.Slot == slot {
			return p.tree.patchers[id]
		}
	}
	return nil
}

// ChildrenIn returns every child patcher occupying slot.
func (p *NodePatcher) ChildrenIn(slot syntax.Slot) []Patcher {
	var out []Patcher
	for _, id := range p.children {
		if p.tree.patchers[id].Base().node.Slot == slot {
			out = append(out, p.tree.patchers[id])
		}
	}
	return out
}

// Claim marks child as owned by p: it will not be patched generically and
// p may edit inside its range.
func (p *NodePatcher) Claim(child Patcher) {
	if child == nil {
		return
	}
	child.Base().claimed = true
}

// IsClaimed reports whether the parent took over this patcher's range.
func (p *NodePatcher) IsClaimed() bool {
	return p.claimed
}

// Patch runs the patcher exactly once: claim hook, unclaimed children in
// order, the variant's Rewrite, then the comments the node owns.
func (p *NodePatcher) Patch() error {
	if p.state != StateUnpatched {
		return p.lifecycleError(p.node.Start(), "patch invoked more than once")
	}
	p.state = StatePatching

	if claimer, ok := p.self.(ChildClaimer); ok {
		claimer.ClaimChildren()
	}

	for _, id := range p.children {
		child := p.tree.patchers[id].Base()
		if child.claimed {
			continue
		}
		if err := child.Patch(); err != nil {
			return err
		}
	}

	if err := p.self.Rewrite(); err != nil {
		return err
	}

	if err := p.rewriteComments(); err != nil {
		return err
	}

	p.state = StatePatched
	return nil
}

// Overwrite replaces [start, end) with text.
func (p *NodePatcher) Overwrite(start, end int, text string) error {
	if err := p.checkEdit(start, end); err != nil {
		return err
	}
	return p.tree.commit(p.node.ID, start, end, text)
}

// Insert inserts text at offset.
func (p *NodePatcher) Insert(offset int, text string) error {
	return p.Overwrite(offset, offset, text)
}

// Remove deletes [start, end).
func (p *NodePatcher) Remove(start, end int) error {
	if start == end {
		return nil
	}
	return p.Overwrite(start, end, "")
}

// checkEdit rejects edits issued outside the patching state, and edits
// that reach into a child that has neither been patched nor claimed.
func (p *NodePatcher) checkEdit(start, end int) error {
	if p.state != StatePatching {
		return p.lifecycleError(start, "edit issued outside of patch")
	}
	for _, id := range p.children {
		child := p.tree.patchers[id].Base()
		if child.claimed || child.state == StatePatched {
			continue
		}
		if intersectsInterior(child.node.Range, start, end) {
			return p.lifecycleError(start, "edit overlaps uncommitted child "+child.node.Kind.String())
		}
	}
	return nil
}

// intersectsInterior reports whether [start, end) touches r beyond its
// boundaries.
func intersectsInterior(r syntax.SourceRange, start, end int) bool {
	if start == end {
		return r.StartOffset < start && start < r.EndOffset
	}
	return start < r.EndOffset && r.StartOffset < end
}

func (p *NodePatcher) lifecycleError(offset int, msg string) error {
	return &LifecycleError{
		NodeID:  p.node.ID,
		Kind:    p.node.Kind,
		State:   p.state,
		Offset:  offset,
		Message: msg,
	}
}

// Malformed builds a MalformedContextError for this node.
func (p *NodePatcher) Malformed(offset int, expected string) error {
	return &MalformedContextError{
		NodeID:   p.node.ID,
		Kind:     p.node.Kind,
		Offset:   offset,
		Expected: expected,
	}
}
