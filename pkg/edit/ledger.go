package edit

// Ledger accumulates the committed edits for one file and enforces the
// nesting invariant at commit time: a new edit must be disjoint from every
// committed edit or strictly contain it. Because descendants commit first,
// a containing edit always belongs to an ancestor and supersedes the
// descendant edits inside it at assembly.
//
// A Ledger is not safe for concurrent use; each file owns its own.
type Ledger struct {
	contentLen int
	edits      []TextEdit
}

// NewLedger creates an empty ledger for content of the given length.
func NewLedger(contentLen int) *Ledger {
	return &Ledger{contentLen: contentLen}
}

// Commit validates and records an edit on behalf of owner.
func (l *Ledger) Commit(owner, start, end int, text string) error {
	candidate := TextEdit{
		StartOffset: start,
		EndOffset:   end,
		NewText:     text,
		Owner:       owner,
		Seq:         len(l.edits),
	}
	if err := ValidateEdits([]TextEdit{candidate}, l.contentLen); err != nil {
		return err
	}
	for _, existing := range l.edits {
		if disjoint(existing, candidate) || strictlyContains(candidate, existing) {
			continue
		}
		return &ConflictError{Edit1: existing, Edit2: candidate}
	}
	l.edits = append(l.edits, candidate)
	return nil
}

// Edits returns a copy of the committed edits in commit order.
func (l *Ledger) Edits() []TextEdit {
	out := make([]TextEdit, len(l.edits))
	copy(out, l.edits)
	return out
}

// Len returns the number of committed edits.
func (l *Ledger) Len() int {
	return len(l.edits)
}

// Assemble prepares the committed edits and applies them to content.
func (l *Ledger) Assemble(content []byte) ([]byte, error) {
	prepared, err := PrepareEdits(l.edits, len(content))
	if err != nil {
		return nil, err
	}
	return ApplyEdits(content, prepared), nil
}

// ApplyEdits splices prepared edits into a fresh copy of content: the
// untouched spans between edits are copied through and each edit's range
// is replaced by its text. Edits must be sorted and non-overlapping, as
// PrepareEdits leaves them.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	size := len(content)
	for _, e := range edits {
		size += len(e.NewText) - e.EndOffset + e.StartOffset
	}

	out := make([]byte, 0, size)
	next := 0
	for _, e := range edits {
		out = append(out, content[next:e.StartOffset]...)
		out = append(out, e.NewText...)
		next = e.EndOffset
	}
	return append(out, content[next:]...)
}
