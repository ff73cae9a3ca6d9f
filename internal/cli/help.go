package cli

import (
	"io"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/yaklabco/decaf/internal/ui/pretty"
)

const usageTemplate = `{{ heading "Usage:" }}{{if .Runnable}}
  {{ command .UseLine }}{{end}}{{if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}{{if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}{{end}}{{if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ command (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags.FlagUsages }}{{end}}{{if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags.FlagUsages }}{{end}}{{if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.{{end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trimRight . }}

{{end}}{{if or .Runnable .HasSubCommands}}{{ .UsageString }}{{end}}`

// applyHelp installs Lipgloss-styled help and usage output on cmd. Cobra
// hands both functions down to every subcommand.
func applyHelp(cmd *cobra.Command, colorMode string, w io.Writer) {
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, w))

	funcs := template.FuncMap{
		"heading":   styles.Heading.Render,
		"command":   styles.Command.Render,
		"dim":       styles.Dim.Render,
		"flags":     func(usages string) string { return styleFlags(styles, usages) },
		"trimRight": func(s string) string { return strings.TrimRight(s, " \t\n") },
		"rpad":      rpad,
	}
	usage := template.Must(template.New("usage").Funcs(funcs).Parse(usageTemplate))
	help := template.Must(template.New("help").Funcs(funcs).Parse(helpTemplate))

	cmd.SetUsageFunc(func(c *cobra.Command) error {
		return usage.Execute(c.OutOrStderr(), c)
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := help.Execute(c.OutOrStdout(), c); err != nil {
			c.PrintErrln(err)
		}
	})
}

func rpad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// styleFlags colors the flag names in pflag's FlagUsages output and dims
// the value placeholder that follows them.
func styleFlags(styles *pretty.Styles, usages string) string {
	lines := strings.Split(strings.TrimRight(usages, "\n"), "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		gap := strings.Index(trimmed, "   ")
		if trimmed == "" || gap < 0 {
			continue
		}

		head := trimmed[:gap]
		fields := strings.Fields(head)
		for j, field := range fields {
			name := strings.TrimSuffix(field, ",")
			if strings.HasPrefix(name, "-") {
				fields[j] = styles.Flag.Render(name) + strings.TrimPrefix(field, name)
			} else {
				fields[j] = styles.Dim.Render(field)
			}
		}
		indent := line[:len(line)-len(trimmed)]
		lines[i] = indent + strings.Join(fields, " ") + trimmed[gap:]
	}
	return strings.Join(lines, "\n")
}
