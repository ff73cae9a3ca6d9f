package pretty_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/decaf/internal/ui/pretty"
	"github.com/yaklabco/decaf/pkg/convert"
)

func TestFormatFileError_Located(t *testing.T) {
	styles := pretty.NewStyles(false)

	_, err := convert.NewDefaultEngine().ConvertContent(context.Background(), "bad.coffee", []byte("a = 1 if b\n"))
	require.Error(t, err)

	got := styles.FormatFileError("bad.coffee", err)
	want := "bad.coffee:1:7: parse failure: postfix 'if' is not supported\n" +
		"    a = 1 if b\n" +
		"          ^\n"
	assert.Equal(t, want, got)
}

func TestFormatFileError_Plain(t *testing.T) {
	styles := pretty.NewStyles(false)

	got := styles.FormatFileError("a.coffee", errors.New("boom"))
	assert.Equal(t, "a.coffee: boom\n", got)
}

func TestFormatSourceContext_Tabs(t *testing.T) {
	styles := pretty.NewStyles(false)

	got := styles.FormatSourceContext("\tx y", 4)
	assert.Equal(t, "    \tx y\n    \t  ^\n", got)
}

func TestFormatFileStatus(t *testing.T) {
	styles := pretty.NewStyles(false)

	got := styles.FormatFileStatus("a.coffee", "a.js", "converted", 3)
	assert.Equal(t, "a.coffee -> a.js  converted (3 edits)\n", got)
}
