package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/yaklabco/decaf/internal/configloader"
	"github.com/yaklabco/decaf/pkg/config"
)

func newConfigCommand() *cobra.Command {
	var format string
	var showEnv bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration decaf would use in the current directory after
merging system, user, project and explicit config files with DECAF_*
environment variables.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if showEnv {
				vars := configloader.ListEnvVars()
				names := make([]string, 0, len(vars))
				for name := range vars {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintf(out, "%-24s %s\n", name, vars[name])
				}
				return nil
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			workDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			cfg, err := loadConfig(ctx, cmd, workDir, nil)
			if err != nil {
				return err
			}

			var data []byte
			switch format {
			case config.TemplateYAML:
				data, err = cfg.ToYAML()
			case config.TemplateTOML:
				data, err = cfg.ToTOML()
			default:
				return fmt.Errorf("%w: invalid format %q: must be yaml or toml", ErrInvalidUsage, format)
			}
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or toml")
	cmd.Flags().BoolVar(&showEnv, "env", false, "list the environment variables decaf reads")

	return cmd
}
