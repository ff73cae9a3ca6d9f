package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/decaf/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 files converted, 2 written, 1 up to date, 1 failed".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No CoffeeScript files found") + "\n"
	}

	parts := []string{
		fmt.Sprintf("%d %s converted", stats.FilesConverted, plural(stats.FilesConverted, wordFile, wordFiles)),
	}
	if stats.FilesWritten > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d written", stats.FilesWritten)))
	}
	if stats.FilesUnchanged > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d up to date", stats.FilesUnchanged)))
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}
	if stats.FilesFailed > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesFailed)))
	}
	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row := func(label string, value int, style func(...string) string) {
		fmt.Fprintf(&builder, "  %-18s %s\n", label+":", style(strconv.Itoa(value)))
	}

	row("Files found", stats.FilesDiscovered, s.SummaryValue.Render)
	row("Files converted", stats.FilesConverted, s.SummaryValue.Render)
	if stats.FilesWritten > 0 {
		row("Files written", stats.FilesWritten, s.Success.Render)
	}
	if stats.FilesUnchanged > 0 {
		row("Up to date", stats.FilesUnchanged, s.Dim.Render)
	}
	if stats.BackupsCreated > 0 {
		row("Backups created", stats.BackupsCreated, s.SummaryValue.Render)
	}
	if stats.FilesFailed > 0 {
		row("Files failed", stats.FilesFailed, s.Failure.Render)
	}
	row("Edits applied", stats.EditsTotal, s.SummaryValue.Render)

	builder.WriteString("\n")
	if stats.FilesFailed > 0 {
		builder.WriteString(s.Failure.Render("Conversion finished with errors"))
	} else {
		builder.WriteString(s.Success.Render("Conversion succeeded"))
	}
	builder.WriteString("\n")

	return builder.String()
}
