package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/decaf/internal/ui/pretty"
	"github.com/yaklabco/decaf/pkg/patch"
	_ "github.com/yaklabco/decaf/pkg/patch/patchers" // Register built-in patchers
)

const formatJSON = "json"

// bindingInfo represents a registry binding in JSON output.
type bindingInfo struct {
	Kind     string `json:"kind"`
	Variant  string `json:"variant"`
	Parent   string `json:"parent,omitempty"`
	Slot     string `json:"slot,omitempty"`
	Override bool   `json:"override,omitempty"`
}

func newPatchersCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "patchers",
		Short: "List registered patcher variants",
		Long: `List which patcher variant handles each node kind, followed by the
child overrides that select a specialized variant by parent and slot.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bindings := patch.DefaultRegistry.Bindings()
			if format == formatJSON {
				return outputBindingsJSON(cmd.OutOrStdout(), bindings)
			}
			colorMode, _ := cmd.Flags().GetString("color")
			styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.OutOrStdout()))
			return outputBindingsText(cmd.OutOrStdout(), styles, bindings)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")

	return cmd
}

func toBindingInfo(b patch.Binding) bindingInfo {
	info := bindingInfo{Kind: b.Kind.String(), Variant: b.Variant, Override: b.Override}
	if b.Override {
		info.Parent = b.Parent.String()
		info.Slot = b.Slot.String()
	}
	return info
}

func outputBindingsText(w io.Writer, styles *pretty.Styles, bindings []patch.Binding) error {
	headingDone := false
	fmt.Fprintln(w, styles.Heading.Render("Defaults:"))
	for _, b := range bindings {
		if b.Override && !headingDone {
			fmt.Fprintln(w)
			fmt.Fprintln(w, styles.Heading.Render("Child overrides:"))
			headingDone = true
		}
		info := toBindingInfo(b)
		if b.Override {
			fmt.Fprintf(w, "  %s %s %s\n",
				fmt.Sprintf("%-40s", info.Parent+"."+info.Slot+" "+info.Kind),
				styles.Dim.Render("->"),
				styles.Command.Render(info.Variant))
			continue
		}
		fmt.Fprintf(w, "  %-24s %s %s\n", info.Kind, styles.Dim.Render("->"), styles.Command.Render(info.Variant))
	}
	return nil
}

// outputBindingsJSON outputs bindings as a JSON array.
func outputBindingsJSON(w io.Writer, bindings []patch.Binding) error {
	infos := make([]bindingInfo, 0, len(bindings))
	for _, b := range bindings {
		infos = append(infos, toBindingInfo(b))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding bindings: %w", err)
	}
	return nil
}
