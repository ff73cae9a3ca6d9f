package edit_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/yaklabco/decaf/pkg/edit"
)

func TestValidateEdits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		edits      []edit.TextEdit
		contentLen int
		errMsg     string
	}{
		{
			name:       "empty edits",
			contentLen: 10,
		},
		{
			name: "valid edits",
			edits: []edit.TextEdit{
				{StartOffset: 0, EndOffset: 5, NewText: "hello"},
				{StartOffset: 5, EndOffset: 10, NewText: "world"},
			},
			contentLen: 10,
		},
		{
			name:       "negative start offset",
			edits:      []edit.TextEdit{{StartOffset: -1, EndOffset: 5}},
			contentLen: 10,
			errMsg:     "start offset is negative",
		},
		{
			name:       "end before start",
			edits:      []edit.TextEdit{{StartOffset: 5, EndOffset: 3}},
			contentLen: 10,
			errMsg:     "end offset is before start offset",
		},
		{
			name:       "end exceeds content length",
			edits:      []edit.TextEdit{{StartOffset: 5, EndOffset: 15}},
			contentLen: 10,
			errMsg:     "exceeds content length",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := edit.ValidateEdits(tt.edits, tt.contentLen)
			if tt.errMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *edit.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestSortEdits_InsertBeforeReplace(t *testing.T) {
	t.Parallel()

	edits := []edit.TextEdit{
		{StartOffset: 4, EndOffset: 6, NewText: "b", Seq: 0},
		{StartOffset: 4, EndOffset: 4, NewText: "second", Seq: 2},
		{StartOffset: 0, EndOffset: 1, NewText: "a", Seq: 3},
		{StartOffset: 4, EndOffset: 4, NewText: "first", Seq: 1},
	}
	edit.SortEdits(edits)

	want := []string{"a", "first", "second", "b"}
	for i, w := range want {
		if edits[i].NewText != w {
			t.Errorf("position %d: got %q, want %q", i, edits[i].NewText, w)
		}
	}
}

func TestDropSuperseded(t *testing.T) {
	t.Parallel()

	edits := []edit.TextEdit{
		{StartOffset: 2, EndOffset: 3, NewText: "inner"},
		{StartOffset: 4, EndOffset: 4, NewText: "inner-insert"},
		{StartOffset: 1, EndOffset: 6, NewText: "outer"},
		{StartOffset: 1, EndOffset: 1, NewText: "boundary"},
	}

	got := edit.DropSuperseded(edits)
	if len(got) != 2 {
		t.Fatalf("expected 2 edits, got %d: %v", len(got), got)
	}
	if got[0].NewText != "outer" || got[1].NewText != "boundary" {
		t.Errorf("unexpected survivors: %v", got)
	}
}

func TestPrepareEdits_Conflict(t *testing.T) {
	t.Parallel()

	edits := []edit.TextEdit{
		{StartOffset: 0, EndOffset: 4, NewText: "x"},
		{StartOffset: 2, EndOffset: 6, NewText: "y"},
	}

	_, err := edit.PrepareEdits(edits, 10)
	var conflict *edit.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestPrepareEdits_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	edits := []edit.TextEdit{
		{StartOffset: 5, EndOffset: 6, NewText: "b", Seq: 0},
		{StartOffset: 0, EndOffset: 1, NewText: "a", Seq: 1},
	}

	prepared, err := edit.PrepareEdits(edits, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if edits[0].NewText != "b" {
		t.Error("input slice was reordered")
	}
	if prepared[0].NewText != "a" {
		t.Errorf("prepared[0] = %q, want a", prepared[0].NewText)
	}
}
