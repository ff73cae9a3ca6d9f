package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/decaf/internal/configloader"
	"github.com/yaklabco/decaf/internal/logging"
	"github.com/yaklabco/decaf/internal/ui/pretty"
	"github.com/yaklabco/decaf/pkg/config"
	"github.com/yaklabco/decaf/pkg/convert"
	"github.com/yaklabco/decaf/pkg/reporter"
	"github.com/yaklabco/decaf/pkg/runner"
)

// stdinPath names standard input in messages.
const stdinPath = "<stdin>"

type convertFlags struct {
	format         string
	include        []string
	ignore         []string
	verbose        bool
	compact        bool
	includeOutput  bool
	followSymlinks bool
}

func newConvertCommand() *cobra.Command {
	var cfg config.Config
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert [paths...]",
		Short: "Convert CoffeeScript files to JavaScript",
		Long:  convertLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, &cfg, flags)
		},
	}

	addConvertFlags(cmd, &cfg, flags)

	return cmd
}

const convertLongDescription = `Convert CoffeeScript files to JavaScript.

By default, converts every .coffee file (and literate .litcoffee and
.coffee.md file) under the current directory, writing each result next
to its source with a .js extension. Pass "-" to read from standard input
and write to standard output.

Examples:
  decaf convert                      # Convert the current directory
  decaf convert src/ -o lib/         # Mirror src/ into lib/
  decaf convert app.coffee --stdout  # Print the result instead of writing
  decaf convert --dry-run            # Show a diff of what would change
  decaf convert --format json        # Machine-readable results
  cat a.coffee | decaf convert -     # Filter mode`

func runConvert(cmd *cobra.Command, args []string, cfg *config.Config, flags *convertFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.Default()
	ctx = logging.WithLogger(ctx, logger)

	if len(args) == 1 && args[0] == "-" {
		return runStdin(ctx, cmd)
	}

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}
	cfg.Format = config.OutputFormat(format)
	if cmd.Flags().Changed("include") {
		cfg.Include = flags.include
	}
	if cmd.Flags().Changed("ignore") {
		cfg.Ignore = flags.ignore
	}
	if cfg.Stdout && cfg.DryRun {
		return fmt.Errorf("%w: --stdout and --dry-run cannot be combined", ErrInvalidUsage)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	finalCfg, err := loadConfig(ctx, cmd, workDir, cfg)
	if err != nil {
		return err
	}

	pipelineOpts := convert.OptionsFromConfig(finalCfg)
	runOpts := runner.Options{
		Paths:          args,
		WorkingDir:     workDir,
		IncludeGlobs:   finalCfg.Include,
		ExcludeGlobs:   finalCfg.Ignore,
		Literate:       finalCfg.Literate,
		FollowSymlinks: flags.followSymlinks,
		Jobs:           finalCfg.Jobs,
		Pipeline:       pipelineOpts,
	}

	logger.Debug("starting conversion",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldOutput, pipelineOpts.OutputDir,
		logging.FieldDryRun, pipelineOpts.DryRun,
		logging.FieldJobs, runOpts.Jobs,
	)

	convertRunner := runner.New(convert.NewPipeline(convert.NewDefaultEngine()))
	result, err := convertRunner.Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("conversion run failed: %w", err)
	}

	logger.Debug("conversion finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesConverted, result.Stats.FilesConverted,
		logging.FieldFilesWritten, result.Stats.FilesWritten,
		logging.FieldFilesFailed, result.Stats.FilesFailed,
	)

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	// With --stdout the JavaScript owns standard output and the report
	// moves to standard error.
	reportWriter := cmd.OutOrStdout()
	if finalCfg.Stdout {
		if err := writeOutputs(cmd.OutOrStdout(), result); err != nil {
			return err
		}
		reportWriter = cmd.ErrOrStderr()
	}

	rep, err := reporter.New(reporter.Options{
		Writer:        reportWriter,
		Format:        reporter.Format(finalCfg.Format),
		Color:         colorMode,
		ShowSummary:   !finalCfg.Stdout,
		Verbose:       flags.verbose,
		Quiet:         finalCfg.Stdout,
		Compact:       flags.compact,
		IncludeOutput: flags.includeOutput,
		WorkingDir:    workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrConversionFailed
	}
	return nil
}

// loadConfig resolves the layered configuration with cli on top.
func loadConfig(ctx context.Context, cmd *cobra.Command, workDir string, cli *config.Config) (*config.Config, error) {
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cli,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldConfig, loadResult.LoadedFrom)
	}
	return loadResult.Config, nil
}

// writeOutputs prints converted files in discovery order.
func writeOutputs(w io.Writer, result *runner.Result) error {
	for _, file := range result.Files {
		if file.Result == nil || file.Result.FileResult == nil {
			continue
		}
		if _, err := w.Write(file.Result.Output); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}

// runStdin converts standard input to standard output.
func runStdin(ctx context.Context, cmd *cobra.Command) error {
	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read standard input: %w", err)
	}

	result, err := convert.NewDefaultEngine().ConvertContent(ctx, stdinPath, content)
	if err != nil {
		var fileErr *convert.FileError
		if errors.As(err, &fileErr) {
			colorMode, _ := cmd.Flags().GetString("color")
			styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.ErrOrStderr()))
			fmt.Fprint(cmd.ErrOrStderr(), styles.FormatFileError(stdinPath, err))
			return ErrConversionFailed
		}
		return err
	}

	if _, err := cmd.OutOrStdout().Write(result.Output); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func addConvertFlags(cmd *cobra.Command, cfg *config.Config, flags *convertFlags) {
	cmd.Flags().StringVarP(&cfg.OutputDir, "out-dir", "o", "", "write output under this directory, mirroring the input layout")
	cmd.Flags().StringVar(&cfg.Extension, "ext", "", "output file extension (default .js)")
	cmd.Flags().BoolVar(&cfg.Stdout, "stdout", false, "print JavaScript to standard output instead of writing files")
	cmd.Flags().BoolVarP(&cfg.DryRun, "dry-run", "n", false, "show what would change without writing")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "do not back up output files before overwriting them")
	cmd.Flags().IntVarP(&cfg.Jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "text", "output format: text, json, diff, summary")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "only convert files matching these globs")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to skip")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "list files that are already up to date")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
	cmd.Flags().BoolVar(&flags.includeOutput, "include-output", false, "embed generated JavaScript in JSON output")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
}
