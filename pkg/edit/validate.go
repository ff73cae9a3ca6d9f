package edit

import (
	"fmt"
	"sort"
)

// ValidationError describes an invalid edit.
type ValidationError struct {
	Edit    TextEdit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.StartOffset, e.Edit.EndOffset, e.Message)
}

// ConflictError describes two edits that partially overlap, or a later
// edit that lands inside an earlier one.
type ConflictError struct {
	Edit1 TextEdit
	Edit2 TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.Edit1.StartOffset, e.Edit1.EndOffset,
		e.Edit2.StartOffset, e.Edit2.EndOffset)
}

// ErrorOffset returns the start of the rejected edit.
func (e *ConflictError) ErrorOffset() int {
	return e.Edit2.StartOffset
}

// ValidateEdits checks that all edits have valid ranges for the given content length.
// Returns nil if all edits are valid, or the first validation error encountered.
func ValidateEdits(edits []TextEdit, contentLen int) error {
	for _, e := range edits {
		if e.StartOffset < 0 {
			return &ValidationError{Edit: e, Message: "start offset is negative"}
		}
		if e.EndOffset < e.StartOffset {
			return &ValidationError{Edit: e, Message: "end offset is before start offset"}
		}
		if e.EndOffset > contentLen {
			return &ValidationError{
				Edit:    e,
				Message: fmt.Sprintf("end offset %d exceeds content length %d", e.EndOffset, contentLen),
			}
		}
	}
	return nil
}

// SortEdits orders edits for application: by start offset, insertions
// before replacements that start at the same offset, then by commit order.
func SortEdits(edits []TextEdit) {
	sort.SliceStable(edits, func(i, j int) bool {
		a, b := edits[i], edits[j]
		if a.StartOffset != b.StartOffset {
			return a.StartOffset < b.StartOffset
		}
		if a.IsInsert() != b.IsInsert() {
			return a.IsInsert()
		}
		return a.Seq < b.Seq
	})
}

// DropSuperseded removes every edit strictly contained in another edit.
// The containing edit's replacement text already accounts for the span.
func DropSuperseded(edits []TextEdit) []TextEdit {
	out := make([]TextEdit, 0, len(edits))
	for i, inner := range edits {
		superseded := false
		for j, outer := range edits {
			if i != j && strictlyContains(outer, inner) {
				superseded = true
				break
			}
		}
		if !superseded {
			out = append(out, inner)
		}
	}
	return out
}

// DetectConflicts checks a sorted, superseded-free slice for overlaps.
// Returns nil if no conflicts, or the first conflict found.
func DetectConflicts(edits []TextEdit) error {
	for i := 1; i < len(edits); i++ {
		prev, curr := edits[i-1], edits[i]
		if !disjoint(prev, curr) {
			return &ConflictError{Edit1: prev, Edit2: curr}
		}
	}
	return nil
}

// PrepareEdits validates, removes superseded edits, sorts, and checks for
// conflicts. The input slice is not modified.
func PrepareEdits(edits []TextEdit, contentLen int) ([]TextEdit, error) {
	if len(edits) == 0 {
		return nil, nil
	}

	if err := ValidateEdits(edits, contentLen); err != nil {
		return nil, err
	}

	result := DropSuperseded(edits)
	SortEdits(result)

	if err := DetectConflicts(result); err != nil {
		return nil, err
	}

	return result, nil
}
