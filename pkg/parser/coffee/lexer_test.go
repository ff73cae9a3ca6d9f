package coffee_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/decaf/pkg/parser/coffee"
	"github.com/yaklabco/decaf/pkg/syntax"
)

func kinds(tokens []syntax.Token) []syntax.TokenKind {
	out := make([]syntax.TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestLex_Kinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []syntax.TokenKind
	}{
		{
			name: "assignment",
			src:  "a = 1",
			want: []syntax.TokenKind{syntax.TokIdentifier, syntax.TokAssign, syntax.TokNumber},
		},
		{
			name: "arrows",
			src:  "-> =>",
			want: []syntax.TokenKind{syntax.TokArrow, syntax.TokFatArrow},
		},
		{
			name: "member name after dot is an identifier",
			src:  "a.class",
			want: []syntax.TokenKind{syntax.TokIdentifier, syntax.TokDot, syntax.TokIdentifier},
		},
		{
			name: "member name after at is an identifier",
			src:  "@new",
			want: []syntax.TokenKind{syntax.TokAt, syntax.TokIdentifier},
		},
		{
			name: "prototype access",
			src:  "A::b",
			want: []syntax.TokenKind{syntax.TokIdentifier, syntax.TokProto, syntax.TokIdentifier},
		},
		{
			name: "word compound assignment",
			src:  "a or= b",
			want: []syntax.TokenKind{syntax.TokIdentifier, syntax.TokAssign, syntax.TokIdentifier},
		},
		{
			name: "keywords",
			src:  "if a then b else c",
			want: []syntax.TokenKind{
				syntax.TokKeyword, syntax.TokIdentifier, syntax.TokKeyword,
				syntax.TokIdentifier, syntax.TokKeyword, syntax.TokIdentifier,
			},
		},
		{
			name: "comments and newlines are kept",
			src:  "a # note\n### block ###\n",
			want: []syntax.TokenKind{
				syntax.TokIdentifier, syntax.TokComment, syntax.TokNewline,
				syntax.TokBlockComment, syntax.TokNewline,
			},
		},
		{
			name: "line continuation is skipped",
			src:  "a \\\n+ b",
			want: []syntax.TokenKind{syntax.TokIdentifier, syntax.TokOperator, syntax.TokIdentifier},
		},
		{
			name: "interpolation",
			src:  `"a#{b}c#{d}e"`,
			want: []syntax.TokenKind{
				syntax.TokStringStart, syntax.TokIdentifier, syntax.TokStringMid,
				syntax.TokIdentifier, syntax.TokStringEnd,
			},
		},
		{
			name: "braces inside interpolation",
			src:  `"#{ {a: 1}.a }"`,
			want: []syntax.TokenKind{
				syntax.TokStringStart, syntax.TokBraceOpen, syntax.TokIdentifier, syntax.TokColon,
				syntax.TokNumber, syntax.TokBraceClose, syntax.TokDot, syntax.TokIdentifier,
				syntax.TokStringEnd,
			},
		},
		{
			name: "single quotes never interpolate",
			src:  `'#{a}'`,
			want: []syntax.TokenKind{syntax.TokString},
		},
		{
			name: "numbers",
			src:  "0xff 1.5e3 .5 1_000",
			want: []syntax.TokenKind{syntax.TokNumber, syntax.TokNumber, syntax.TokNumber, syntax.TokNumber},
		},
		{
			name: "division after an identifier",
			src:  "a / b",
			want: []syntax.TokenKind{syntax.TokIdentifier, syntax.TokOperator, syntax.TokIdentifier},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens, err := coffee.Lex([]byte(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, kinds(tokens))
			assert.True(t, syntax.ValidateTokens(tokens, len(tt.src)))
		})
	}
}

func TestLex_Offsets(t *testing.T) {
	t.Parallel()

	src := `x = "a#{b}c"`
	tokens, err := coffee.Lex([]byte(src))
	require.NoError(t, err)
	require.Len(t, tokens, 5)

	assert.Equal(t, `"a#{`, tokens[2].Text([]byte(src)))
	assert.Equal(t, "b", tokens[3].Text([]byte(src)))
	assert.Equal(t, `}c"`, tokens[4].Text([]byte(src)))
}

func TestLex_Unsupported(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{name: "existential", src: "a ? b"},
		{name: "soak", src: "a?.b"},
		{name: "range", src: "[1..2]"},
		{name: "splat", src: "f(a...)"},
		{name: "floor division", src: "a // b"},
		{name: "embedded javascript", src: "`x`"},
		{name: "regex", src: "a = /x/"},
		{name: "block string", src: `"""x"""`},
		{name: "unterminated string", src: `"abc`},
		{name: "unterminated interpolation", src: `"a#{b`},
		{name: "unterminated block comment", src: "### open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := coffee.Lex([]byte(tt.src))
			assert.Error(t, err)
		})
	}
}
