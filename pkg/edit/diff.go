package edit

import (
	"fmt"
	"strings"
)

// Diff represents a unified diff between original and modified content.
type Diff struct {
	// Path is the file path for the diff header.
	Path string

	// NewPath is the output path when it differs from Path.
	NewPath string

	// Hunks contains the diff hunks.
	Hunks []DiffHunk

	// Additions is the number of lines added.
	Additions int

	// Deletions is the number of lines deleted.
	Deletions int
}

// DiffHunk represents a single hunk in a unified diff.
type DiffHunk struct {
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
	Lines         []DiffLine
}

// DiffLine represents a single line in a diff hunk.
type DiffLine struct {
	Kind    DiffLineKind
	Content string
}

// DiffLineKind indicates the type of diff line.
type DiffLineKind int

const (
	// DiffLineContext is an unchanged context line.
	DiffLineContext DiffLineKind = iota

	// DiffLineAdd is a line added in the modified version.
	DiffLineAdd

	// DiffLineRemove is a line removed from the original version.
	DiffLineRemove
)

// contextLines is the number of context lines to show around changes.
const contextLines = 3

// GenerateDiff creates a unified diff between original and modified content.
// Returns nil if there are no changes.
func GenerateDiff(path string, original, modified []byte) *Diff {
	origLines := splitLines(original)
	modLines := splitLines(modified)

	ops := diffLines(origLines, modLines)
	hunks := groupHunks(ops)
	if len(hunks) == 0 {
		return nil
	}

	d := &Diff{Path: path, Hunks: hunks}
	for _, op := range ops {
		switch op.Kind {
		case DiffLineAdd:
			d.Additions++
		case DiffLineRemove:
			d.Deletions++
		}
	}
	return d
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	return fmt.Sprintf("diff --git a/%s b/%s", d.oldName(), d.newName())
}

func (d *Diff) oldName() string {
	return strings.TrimPrefix(d.Path, "/")
}

func (d *Diff) newName() string {
	if d.NewPath != "" {
		return strings.TrimPrefix(d.NewPath, "/")
	}
	return d.oldName()
}

// String returns the diff in unified diff format (without the git header).
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n", d.oldName())
	fmt.Fprintf(&b, "+++ b/%s\n", d.newName())

	for _, hunk := range d.Hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n",
			hunk.OriginalStart, hunk.OriginalCount,
			hunk.ModifiedStart, hunk.ModifiedCount)
		for _, line := range hunk.Lines {
			b.WriteByte(linePrefix(line.Kind))
			b.WriteString(line.Content)
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// FullString returns the complete diff including the git header.
func (d *Diff) FullString() string {
	if !d.HasChanges() {
		return ""
	}
	return d.GitHeader() + "\n" + d.String()
}

// HasChanges returns true if the diff contains any changes.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

func linePrefix(kind DiffLineKind) byte {
	switch kind {
	case DiffLineAdd:
		return '+'
	case DiffLineRemove:
		return '-'
	default:
		return ' '
	}
}

// splitLines splits content into lines, dropping the empty string that a
// trailing newline would produce.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	lines := strings.Split(string(content), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// diffLines computes a line-level edit script from an LCS table.
func diffLines(orig, mod []string) []DiffLine {
	rows, cols := len(orig), len(mod)

	// lcs[i][j] is the LCS length of orig[i:] and mod[j:].
	lcs := make([][]int, rows+1)
	for i := range lcs {
		lcs[i] = make([]int, cols+1)
	}
	for i := rows - 1; i >= 0; i-- {
		for j := cols - 1; j >= 0; j-- {
			if orig[i] == mod[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	ops := make([]DiffLine, 0, rows+cols)
	i, j := 0, 0
	for i < rows || j < cols {
		switch {
		case i < rows && j < cols && orig[i] == mod[j]:
			ops = append(ops, DiffLine{Kind: DiffLineContext, Content: orig[i]})
			i++
			j++
		case i < rows && (j == cols || lcs[i+1][j] >= lcs[i][j+1]):
			ops = append(ops, DiffLine{Kind: DiffLineRemove, Content: orig[i]})
			i++
		default:
			ops = append(ops, DiffLine{Kind: DiffLineAdd, Content: mod[j]})
			j++
		}
	}
	return ops
}

// groupHunks slices an edit script into hunks with surrounding context.
// Changes separated by more than twice the context size start a new hunk.
func groupHunks(ops []DiffLine) []DiffHunk {
	var hunks []DiffHunk

	idx := 0
	for idx < len(ops) {
		if ops[idx].Kind == DiffLineContext {
			idx++
			continue
		}

		start := max(idx-contextLines, 0)
		end := idx
		for end < len(ops) {
			if ops[end].Kind != DiffLineContext {
				end++
				continue
			}
			run := end
			for run < len(ops) && ops[run].Kind == DiffLineContext {
				run++
			}
			if run == len(ops) || run-end > contextLines*2 {
				break
			}
			end = run
		}
		stop := min(end+contextLines, len(ops))

		hunks = append(hunks, buildHunk(ops, start, stop))
		idx = stop
	}

	return hunks
}

func buildHunk(ops []DiffLine, start, stop int) DiffHunk {
	hunk := DiffHunk{OriginalStart: 1, ModifiedStart: 1}
	for _, op := range ops[:start] {
		if op.Kind != DiffLineAdd {
			hunk.OriginalStart++
		}
		if op.Kind != DiffLineRemove {
			hunk.ModifiedStart++
		}
	}
	for _, op := range ops[start:stop] {
		hunk.Lines = append(hunk.Lines, op)
		if op.Kind != DiffLineAdd {
			hunk.OriginalCount++
		}
		if op.Kind != DiffLineRemove {
			hunk.ModifiedCount++
		}
	}
	return hunk
}
