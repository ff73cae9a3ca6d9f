// Package edit holds the source buffer's edit ledger: position-anchored
// text replacements committed by patchers and assembled into output in a
// single pass over the original content.
package edit

import "fmt"

// TextEdit represents a single text replacement in a file.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string

	// Owner is the ID of the node whose patcher committed the edit,
	// or -1 when the edit was not made by a patcher.
	Owner int

	// Seq is the commit sequence number within its ledger.
	Seq int
}

// IsInsert reports whether the edit replaces nothing.
func (e TextEdit) IsInsert() bool {
	return e.StartOffset == e.EndOffset
}

func (e TextEdit) String() string {
	return fmt.Sprintf("[%d:%d]%q", e.StartOffset, e.EndOffset, e.NewText)
}

// strictlyContains reports whether outer encloses inner without being
// identical to it. An insertion is enclosed only when it lies strictly
// between outer's boundaries.
func strictlyContains(outer, inner TextEdit) bool {
	if outer.IsInsert() {
		return false
	}
	if inner.IsInsert() {
		return outer.StartOffset < inner.StartOffset && inner.StartOffset < outer.EndOffset
	}
	if outer.StartOffset == inner.StartOffset && outer.EndOffset == inner.EndOffset {
		return false
	}
	return outer.StartOffset <= inner.StartOffset && inner.EndOffset <= outer.EndOffset
}

// disjoint reports whether the two edits touch no common byte. Insertions
// at the boundary of a replacement are disjoint from it.
func disjoint(a, b TextEdit) bool {
	switch {
	case a.IsInsert() && b.IsInsert():
		return true
	case a.IsInsert():
		return a.StartOffset <= b.StartOffset || a.StartOffset >= b.EndOffset
	case b.IsInsert():
		return b.StartOffset <= a.StartOffset || b.StartOffset >= a.EndOffset
	default:
		return a.EndOffset <= b.StartOffset || b.EndOffset <= a.StartOffset
	}
}
