package syntax_test

import (
	"testing"

	"github.com/yaklabco/decaf/pkg/syntax"
)

func TestBuildLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    []syntax.LineInfo
	}{
		{
			name:    "empty",
			content: "",
			want:    []syntax.LineInfo{},
		},
		{
			name:    "single line without newline",
			content: "a = 1",
			want:    []syntax.LineInfo{{StartOffset: 0, NewlineStart: 5, EndOffset: 5}},
		},
		{
			name:    "lf endings",
			content: "a\nbc\n",
			want: []syntax.LineInfo{
				{StartOffset: 0, NewlineStart: 1, EndOffset: 2},
				{StartOffset: 2, NewlineStart: 4, EndOffset: 5},
				{StartOffset: 5, NewlineStart: 5, EndOffset: 5},
			},
		},
		{
			name:    "crlf endings",
			content: "a\r\nb",
			want: []syntax.LineInfo{
				{StartOffset: 0, NewlineStart: 1, EndOffset: 3},
				{StartOffset: 3, NewlineStart: 4, EndOffset: 4},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := syntax.BuildLines([]byte(tt.content))
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d lines, got %d", len(tt.want), len(got))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("line %d: expected %+v, got %+v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestFileSnapshot_LineAt(t *testing.T) {
	t.Parallel()

	snap := syntax.NewFileSnapshot("a.coffee", []byte("class A\n  b: 1\n"))

	tests := []struct {
		offset   int
		wantLine int
		wantCol  int
	}{
		{offset: 0, wantLine: 1, wantCol: 1},
		{offset: 6, wantLine: 1, wantCol: 7},
		{offset: 8, wantLine: 2, wantCol: 1},
		{offset: 10, wantLine: 2, wantCol: 3},
		{offset: -1, wantLine: 0, wantCol: 0},
	}

	for _, tt := range tests {
		line, col := snap.LineAt(tt.offset)
		if line != tt.wantLine || col != tt.wantCol {
			t.Errorf("LineAt(%d) = (%d, %d), want (%d, %d)", tt.offset, line, col, tt.wantLine, tt.wantCol)
		}
	}
}

func TestFileSnapshot_IndentAt(t *testing.T) {
	t.Parallel()

	snap := syntax.NewFileSnapshot("a.coffee", []byte("class A\n    b: 1\n\tc: 2"))

	if got := snap.IndentAt(2); got != "" {
		t.Errorf("IndentAt(2) = %q, want empty", got)
	}
	if got := snap.IndentAt(13); got != "    " {
		t.Errorf("IndentAt(13) = %q, want four spaces", got)
	}
	if got := snap.IndentAt(19); got != "\t" {
		t.Errorf("IndentAt(19) = %q, want tab", got)
	}
}

func TestFileSnapshot_PositionAt(t *testing.T) {
	t.Parallel()

	snap := syntax.NewFileSnapshot("a.coffee", []byte("a\nbc"))
	pos := snap.PositionAt(3)
	if pos.Line != 2 || pos.Column != 2 {
		t.Errorf("PositionAt(3) = %+v, want 2:2", pos)
	}
	if snap.PositionAt(-5).IsValid() {
		t.Error("negative offset should yield an invalid position")
	}
}

func TestFileSnapshot_Newline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "lf", content: "a\nb\n", want: "\n"},
		{name: "crlf", content: "a\r\nb\r\n", want: "\r\n"},
		{name: "first line decides", content: "a\r\nb\n", want: "\r\n"},
		{name: "single line", content: "a", want: "\n"},
		{name: "empty", content: "", want: "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := syntax.NewFileSnapshot("a.coffee", []byte(tt.content)).Newline(); got != tt.want {
				t.Errorf("Newline() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewPosition(t *testing.T) {
	t.Parallel()

	if got := syntax.NewPosition(3, 9); got != (syntax.Position{Line: 3, Column: 9}) {
		t.Errorf("NewPosition(3, 9) = %+v", got)
	}
	if syntax.NewPosition(-1, 2).IsValid() {
		t.Error("negative line should yield an invalid position")
	}
	if syntax.NewPosition(1<<40, 1).IsValid() {
		t.Error("line beyond uint32 should yield an invalid position")
	}
}
