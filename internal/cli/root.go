// Package cli provides the Cobra command structure for decaf.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/decaf/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root decaf command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "decaf",
		Short: "Convert CoffeeScript to modern JavaScript",
		Long: `decaf converts CoffeeScript source into modern JavaScript.

Every construct is rewritten in place by a tree of patchers that edit the
original text, so comments, blank lines and formatting survive the move.
Class bodies become ES classes, bound methods are bound in the constructor
and implicit returns become explicit.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel(logging.LevelDebug)
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newPatchersCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	applyHelp(rootCmd, color, os.Stdout)

	return rootCmd
}
