package syntax

// Builder allocates nodes with dense IDs for one file.
// A Builder is not safe for concurrent use.
type Builder struct {
	next int
}

// NewNode creates a node of kind spanning [start, end).
func (b *Builder) NewNode(kind NodeKind, start, end int) *Node {
	n := &Node{
		ID:    b.next,
		Kind:  kind,
		Range: SourceRange{StartOffset: start, EndOffset: end},
	}
	b.next++
	return n
}

// Count returns the number of nodes allocated so far.
func (b *Builder) Count() int {
	return b.next
}

// AppendChild attaches child to parent in slot. Nil children are ignored.
func AppendChild(parent *Node, slot Slot, child *Node) {
	if parent == nil || child == nil {
		return
	}
	child.Parent = parent
	child.Slot = slot
	parent.Children = append(parent.Children, child)
}

// Span widens the node's range to cover [start, end).
func (n *Node) Span(start, end int) {
	n.Range.StartOffset = start
	n.Range.EndOffset = end
}
