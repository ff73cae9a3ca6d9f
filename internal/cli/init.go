package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/decaf/internal/configloader"
	"github.com/yaklabco/decaf/internal/logging"
	"github.com/yaklabco/decaf/pkg/config"
	"github.com/yaklabco/decaf/pkg/fsutil"
)

// ErrInitAborted is returned when the user declines to overwrite.
var ErrInitAborted = errors.New("init aborted")

type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a decaf configuration file",
		Long: `Create a .decaf.yml configuration file in the current directory with
sensible defaults.

Examples:
  decaf init                    Create a minimal .decaf.yml
  decaf init --full             Write every setting with its default
  decaf init --format toml      Create .decaf.toml instead
  decaf init -o ci/decaf.yml    Write to a custom path`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing file without asking")
	cmd.Flags().BoolVar(&flags.full, "full", false, "write every setting with its default")
	cmd.Flags().StringVar(&flags.format, "format", config.TemplateYAML, "file format: yaml or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output path (default .decaf.yml or .decaf.toml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.Default()

	if flags.format != config.TemplateYAML && flags.format != config.TemplateTOML {
		return fmt.Errorf("%w: invalid format %q: must be yaml or toml", ErrInvalidUsage, flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".decaf.yml"
		if flags.format == config.TemplateTOML {
			outputPath = ".decaf.toml"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil && !flags.force {
		if !configloader.IsInteractive() {
			return fmt.Errorf("file %q already exists; use --force to overwrite", outputPath)
		}
		ok, err := configloader.Confirm(cmd.InOrStdin(), cmd.ErrOrStderr(),
			fmt.Sprintf("%s already exists. Overwrite?", outputPath), false)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInitAborted
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := fsutil.WriteAtomic(cmd.Context(), absPath, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'decaf config' to see the merged configuration")

	return nil
}
