package edit_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/decaf/pkg/edit"
)

func TestGenerateDiff_NoChanges(t *testing.T) {
	t.Parallel()

	assert.Nil(t, edit.GenerateDiff("a.coffee", []byte("x\n"), []byte("x\n")))
	assert.Nil(t, edit.GenerateDiff("a.coffee", nil, nil))
}

func TestGenerateDiff_SingleLine(t *testing.T) {
	t.Parallel()

	d := edit.GenerateDiff("a.coffee", []byte("a\nb: 1\nc\n"), []byte("a\nb = 1;\nc\n"))
	require.NotNil(t, d)

	assert.Equal(t, 1, d.Additions)
	assert.Equal(t, 1, d.Deletions)
	require.Len(t, d.Hunks, 1)
	assert.Equal(t, 1, d.Hunks[0].OriginalStart)
	assert.Equal(t, 3, d.Hunks[0].OriginalCount)

	out := d.String()
	assert.Contains(t, out, "--- a/a.coffee\n+++ b/a.coffee\n")
	assert.Contains(t, out, "-b: 1\n+b = 1;\n")
}

func TestGenerateDiff_SeparateHunks(t *testing.T) {
	t.Parallel()

	var orig, mod []string
	for i := range 20 {
		line := strings.Repeat("x", i+1)
		orig = append(orig, line)
		mod = append(mod, line)
	}
	mod[1] = "changed-1"
	mod[18] = "changed-18"

	d := edit.GenerateDiff("f", []byte(strings.Join(orig, "\n")+"\n"), []byte(strings.Join(mod, "\n")+"\n"))
	require.NotNil(t, d)
	assert.Len(t, d.Hunks, 2)
}

func TestDiff_FullStringUsesNewPath(t *testing.T) {
	t.Parallel()

	d := edit.GenerateDiff("src/a.coffee", []byte("a\n"), []byte("b\n"))
	require.NotNil(t, d)
	d.NewPath = "src/a.js"

	assert.True(t, strings.HasPrefix(d.FullString(), "diff --git a/src/a.coffee b/src/a.js\n"))
	assert.Contains(t, d.String(), "+++ b/src/a.js\n")
}
