package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/decaf/internal/ui/pretty"
	"github.com/yaklabco/decaf/pkg/runner"
)

func TestFormatSummaryOneLine(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		name  string
		stats runner.Stats
		want  string
	}{
		{
			name:  "nothing found",
			stats: runner.Stats{},
			want:  "No CoffeeScript files found\n",
		},
		{
			name:  "single file",
			stats: runner.Stats{FilesDiscovered: 1, FilesConverted: 1, FilesWritten: 1},
			want:  "1 file converted, 1 written\n",
		},
		{
			name: "mixed",
			stats: runner.Stats{
				FilesDiscovered: 4, FilesConverted: 3, FilesWritten: 2,
				FilesUnchanged: 1, FilesFailed: 1,
			},
			want: "3 files converted, 2 written, 1 up to date, 1 failed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.stats))
		})
	}
}

func TestFormatSummary(t *testing.T) {
	styles := pretty.NewStyles(false)

	got := styles.FormatSummary(runner.Stats{
		FilesDiscovered: 3, FilesConverted: 2, FilesWritten: 2, FilesFailed: 1, EditsTotal: 9,
	})
	assert.Contains(t, got, "Summary")
	assert.Contains(t, got, "Files found:")
	assert.Contains(t, got, "Files written:")
	assert.Contains(t, got, "Files failed:")
	assert.NotContains(t, got, "Up to date:")
	assert.Contains(t, got, "Conversion finished with errors")

	ok := styles.FormatSummary(runner.Stats{FilesDiscovered: 1, FilesConverted: 1, FilesUnchanged: 1})
	assert.Contains(t, ok, "Conversion succeeded")
}
