package syntax

import "fortio.org/safecast"

// SourceRange represents a byte range in the source content.
type SourceRange struct {
	// StartOffset is the byte index where the range begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the range ends (exclusive).
	EndOffset int
}

// Len returns the length of the range in bytes.
func (r SourceRange) Len() int {
	return r.EndOffset - r.StartOffset
}

// IsEmpty returns true if the range has zero length.
func (r SourceRange) IsEmpty() bool {
	return r.StartOffset == r.EndOffset
}

// Contains returns true if offset lies within [StartOffset, EndOffset).
func (r SourceRange) Contains(offset int) bool {
	return offset >= r.StartOffset && offset < r.EndOffset
}

// Encloses returns true if other lies entirely within r.
func (r SourceRange) Encloses(other SourceRange) bool {
	return r.StartOffset <= other.StartOffset && other.EndOffset <= r.EndOffset
}

// Overlaps returns true if r and other share at least one byte.
func (r SourceRange) Overlaps(other SourceRange) bool {
	return r.StartOffset < other.EndOffset && other.StartOffset < r.EndOffset
}

// Position is a 1-based line/column location suitable for reporting.
type Position struct {
	Line   uint32 `json:"line"`
	Column uint32 `json:"column"`
}

// IsValid returns true if the position refers to a real location.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// NewPosition converts a 1-based line and column. Values that are negative
// or too large to represent yield the zero Position.
func NewPosition(line, col int) Position {
	l, err := safecast.Conv[uint32](line)
	if err != nil {
		return Position{}
	}
	c, err := safecast.Conv[uint32](col)
	if err != nil {
		return Position{}
	}
	return Position{Line: l, Column: c}
}

// PositionAt converts a byte offset into a reportable Position.
// Out-of-range offsets yield the zero Position.
func (f *FileSnapshot) PositionAt(offset int) Position {
	return NewPosition(f.LineAt(offset))
}
