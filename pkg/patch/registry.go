package patch

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/yaklabco/decaf/pkg/syntax"
)

// Factory wraps a freshly built NodePatcher in a concrete variant.
type Factory func(base *NodePatcher) Patcher

// Entry names a patcher variant and how to construct it.
type Entry struct {
	// Variant is a stable, human-readable name for the variant.
	Variant string

	// New constructs the variant around its base.
	New Factory
}

// childKey identifies a child by its structural context.
type childKey struct {
	parent syntax.NodeKind
	slot   syntax.Slot
	child  syntax.NodeKind
}

// Binding describes one registry entry for listing.
type Binding struct {
	// Kind is the node kind the entry applies to.
	Kind syntax.NodeKind

	// Parent and Slot are set for child overrides only.
	Parent   syntax.NodeKind
	Slot     syntax.Slot
	Override bool

	Variant string
}

// Registry maps nodes to patcher variants. Resolution is static per
// (parent kind, slot, child kind): a registered child override wins,
// otherwise the default for the child's kind applies.
type Registry struct {
	mu        sync.RWMutex
	byKind    map[syntax.NodeKind]Entry
	overrides map[childKey]Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byKind:    make(map[syntax.NodeKind]Entry),
		overrides: make(map[childKey]Entry),
	}
}

// Register sets the default variant for a node kind.
// If an entry for the kind already exists, it is replaced.
func (r *Registry) Register(kind syntax.NodeKind, entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKind[kind] = entry
}

// RegisterChildOverride redirects children of childKind occupying slot in
// a parentKind node to a specialized variant.
func (r *Registry) RegisterChildOverride(parentKind syntax.NodeKind, slot syntax.Slot, childKind syntax.NodeKind, entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[childKey{parent: parentKind, slot: slot, child: childKind}] = entry
}

// Resolve returns the entry for a child of childKind in slot of a
// parentKind node. The root is resolved with syntax.SlotNone.
func (r *Registry) Resolve(parentKind syntax.NodeKind, slot syntax.Slot, childKind syntax.NodeKind) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if entry, ok := r.overrides[childKey{parent: parentKind, slot: slot, child: childKind}]; ok {
		return entry, nil
	}
	if entry, ok := r.byKind[childKind]; ok {
		return entry, nil
	}
	return Entry{}, fmt.Errorf("%w for %s", ErrNoPatcher, childKind)
}

// Bindings returns every registered entry, defaults first, sorted by kind.
func (r *Registry) Bindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Binding, 0, len(r.byKind)+len(r.overrides))
	for kind, entry := range r.byKind {
		result = append(result, Binding{Kind: kind, Variant: entry.Variant})
	}
	for key, entry := range r.overrides {
		result = append(result, Binding{
			Kind:     key.child,
			Parent:   key.parent,
			Slot:     key.slot,
			Override: true,
			Variant:  entry.Variant,
		})
	}

	slices.SortFunc(result, func(a, b Binding) int {
		if a.Override != b.Override {
			if a.Override {
				return 1
			}
			return -1
		}
		if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
			return c
		}
		return cmp.Compare(a.Parent, b.Parent)
	})

	return result
}

// DefaultRegistry is the global registry for built-in patchers.
// Patchers register themselves during init().
//
//nolint:gochecknoglobals // Global registry is intentional for patcher registration
var DefaultRegistry = NewRegistry()
