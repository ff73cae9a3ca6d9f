package patch

import (
	"errors"
	"fmt"

	"github.com/yaklabco/decaf/pkg/edit"
	"github.com/yaklabco/decaf/pkg/syntax"
)

// defaultIndentUnit is used when a file has no indented lines.
const defaultIndentUnit = "  "

// Tree is the patcher tree for one file. Patchers live in an arena indexed
// by node ID; parents hold child IDs and children hold their parent's ID.
// A Tree is not safe for concurrent use.
type Tree struct {
	snapshot   *syntax.FileSnapshot
	patchers   []Patcher
	scopes     map[int]*Scope
	comments   map[int][]syntax.Token
	ledger     *edit.Ledger
	indentUnit string
	newline    string
	root       int
}

// Build mirrors the snapshot's syntax tree with patchers resolved through
// registry, computing each patcher's Context on the way down.
func Build(snapshot *syntax.FileSnapshot, registry *Registry) (*Tree, error) {
	if snapshot == nil || snapshot.Root == nil {
		return nil, errors.New("build patcher tree: snapshot has no root")
	}

	count := snapshot.NodeCount
	if count == 0 {
		//nolint:errcheck,revive // callback never fails
		syntax.Walk(snapshot.Root, func(n *syntax.Node) error {
			count = max(count, n.ID+1)
			return nil
		})
	}

	tree := &Tree{
		snapshot:   snapshot,
		patchers:   make([]Patcher, count),
		scopes:     make(map[int]*Scope),
		comments:   make(map[int][]syntax.Token),
		ledger:     edit.NewLedger(len(snapshot.Content)),
		indentUnit: detectIndentUnit(snapshot),
		newline:    snapshot.Newline(),
		root:       snapshot.Root.ID,
	}

	rootScope := NewScope(snapshot.Root, nil)
	tree.scopes[snapshot.Root.ID] = rootScope

	if _, err := tree.build(registry, snapshot.Root, -1, Context{Scope: rootScope}); err != nil {
		return nil, err
	}

	tree.assignComments()
	return tree, nil
}

func (t *Tree) build(registry *Registry, node *syntax.Node, parentID int, ctx Context) (Patcher, error) {
	if node.ID < 0 || node.ID >= len(t.patchers) || t.patchers[node.ID] != nil {
		return nil, fmt.Errorf("build patcher tree: invalid or duplicate node id %d", node.ID)
	}

	parentKind := node.Kind
	if node.Parent != nil {
		parentKind = node.Parent.Kind
	}
	entry, err := registry.Resolve(parentKind, node.Slot, node.Kind)
	if err != nil {
		return nil, err
	}

	base := &NodePatcher{
		node:    node,
		tree:    t,
		parent:  parentID,
		ctx:     ctx,
		variant: entry.Variant,
	}
	patcher := entry.New(base)
	base.self = patcher
	t.patchers[node.ID] = patcher

	childCtx := t.enter(node, ctx)
	for _, child := range node.Children {
		if _, err := t.build(registry, child, node.ID, childCtx); err != nil {
			return nil, err
		}
		base.children = append(base.children, child.ID)
	}

	return patcher, nil
}

// enter updates scopes for node and returns the context its children see.
func (t *Tree) enter(node *syntax.Node, ctx Context) Context {
	content := t.snapshot.Content
	switch node.Kind {
	case syntax.NodeClass:
		ctx.Class = node
		ctx.ClassName = ""
		if name := node.Child(syntax.SlotName); name.Is(syntax.NodeIdentifier) {
			ctx.ClassName = name.Data
			ctx.Scope.Bind(name.Data)
		}

	case syntax.NodeFunction, syntax.NodeBoundFunction:
		scope := NewScope(node, ctx.Scope)
		for _, param := range node.ChildrenIn(syntax.SlotParameter) {
			name := param
			if param.Is(syntax.NodeDefaultParam) {
				name = param.Child(syntax.SlotAssignee)
			}
			if name.Is(syntax.NodeIdentifier) {
				scope.Bind(name.Data)
			}
		}
		t.scopes[node.ID] = scope
		ctx.Scope = scope
		if name := methodName(content, node); name != "" || node.Kind == syntax.NodeFunction {
			ctx.Method = name
		}

	case syntax.NodeAssignOp:
		if assignee := node.Child(syntax.SlotAssignee); assignee.Is(syntax.NodeIdentifier) {
			ctx.Scope.Assign(assignee.Data, node)
		}
	}
	return ctx
}

// methodName returns the key of the class member a function is the value
// of, or "" when the function is not a class member value.
func methodName(content []byte, fn *syntax.Node) string {
	member := fn.Parent
	if member == nil || member.Kind != syntax.NodeClassProtoAssignOp || fn.Slot != syntax.SlotExpression {
		return ""
	}
	key := member.Child(syntax.SlotKey)
	switch {
	case key.Is(syntax.NodeIdentifier):
		return key.Data
	case key.Is(syntax.NodeMemberAccessOp):
		return key.Data
	case key != nil:
		return string(content[key.Start():key.End()])
	}
	return ""
}

// assignComments gives each comment to the innermost node containing it.
func (t *Tree) assignComments() {
	for _, tok := range t.snapshot.Comments() {
		owner := syntax.Innermost(t.snapshot.Root, tok.StartOffset)
		if owner == nil {
			owner = t.snapshot.Root
		}
		t.comments[owner.ID] = append(t.comments[owner.ID], tok)
	}
}

// detectIndentUnit returns the indentation of the first indented line.
func detectIndentUnit(snapshot *syntax.FileSnapshot) string {
	for line := 1; line <= snapshot.LineCount(); line++ {
		content := snapshot.LineContent(line)
		end := 0
		for end < len(content) && (content[end] == ' ' || content[end] == '\t') {
			end++
		}
		if end > 0 && end < len(content) {
			return string(content[:end])
		}
	}
	return defaultIndentUnit
}

// Snapshot returns the file the tree was built from.
func (t *Tree) Snapshot() *syntax.FileSnapshot {
	return t.snapshot
}

// Root returns the root patcher.
func (t *Tree) Root() Patcher {
	return t.patchers[t.root]
}

// Patcher returns the patcher for a node ID, or nil.
func (t *Tree) Patcher(id int) Patcher {
	if id < 0 || id >= len(t.patchers) {
		return nil
	}
	return t.patchers[id]
}

// PatcherFor returns the patcher wrapping node, or nil.
func (t *Tree) PatcherFor(node *syntax.Node) Patcher {
	if node == nil {
		return nil
	}
	return t.Patcher(node.ID)
}

// Len returns the number of patchers in the tree.
func (t *Tree) Len() int {
	n := 0
	for _, p := range t.patchers {
		if p != nil {
			n++
		}
	}
	return n
}

// Scope returns the scope introduced by node, or nil.
func (t *Tree) Scope(node *syntax.Node) *Scope {
	if node == nil {
		return nil
	}
	return t.scopes[node.ID]
}

// Ledger returns the tree's edit ledger.
func (t *Tree) Ledger() *edit.Ledger {
	return t.ledger
}

// Patch patches the whole tree from the root.
func (t *Tree) Patch() error {
	return t.Root().Base().Patch()
}

// Output assembles the committed edits against the original content.
// The root must have been patched.
func (t *Tree) Output() ([]byte, error) {
	if root := t.Root().Base(); root.state != StatePatched {
		return nil, root.lifecycleError(0, "output requested before patching completed")
	}
	return t.ledger.Assemble(t.snapshot.Content)
}

func (t *Tree) commit(owner, start, end int, text string) error {
	if err := t.ledger.Commit(owner, start, end, text); err != nil {
		return fmt.Errorf("%s node %d: %w", t.patchers[owner].Base().node.Kind, owner, err)
	}
	return nil
}
