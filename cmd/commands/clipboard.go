package commands

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/pluqqy/tpmedit/internal/cli"
	"github.com/pluqqy/tpmedit/pkg/formmap"
	"github.com/pluqqy/tpmedit/pkg/jsondoc"
)

var clipboardFormat string

// clipboardWrite is swapped in tests
var clipboardWrite = clipboard.WriteAll

// NewClipboardCommand creates the clipboard command
func NewClipboardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clipboard <path>",
		Short: "Copy a value to the clipboard",
		Long: `Copy the value at a path to the system clipboard, ready to paste into
another config or a bug report. Whole sections and groups can be copied
as well as single fields.

Examples:
  # Copy a section as JSON
  tpmedit clipboard tyres

  # Copy a curve as YAML
  tpmedit clipboard dirty_air.curve --format yaml`,
		Args:    cobra.ExactArgs(1),
		Aliases: []string{"clip", "copy"},
		RunE:    runClipboard,
	}

	cmd.Flags().StringVar(&clipboardFormat, "format", "json", "Clipboard format (json, yaml)")

	return cmd
}

func runClipboard(cmd *cobra.Command, args []string) error {
	if err := cli.ValidateOutputFormat(clipboardFormat, cli.FormatJSON, cli.FormatYAML); err != nil {
		return err
	}

	ctx, err := commandContext(cmd)
	if err != nil {
		return err
	}

	doc, err := ctx.LoadDocument()
	if err != nil {
		return err
	}

	path, err := formmap.Resolve(doc, args[0])
	if err != nil {
		return err
	}

	value, err := formmap.Lookup(doc, path)
	if err != nil {
		return err
	}

	var content []byte
	if cli.OutputFormat(clipboardFormat) == cli.FormatYAML {
		content, err = jsondoc.MarshalYAML(value)
	} else {
		content, err = jsondoc.Marshal(value, ctx.Settings.Output.Indent)
	}
	if err != nil {
		return err
	}

	if err := clipboardWrite(string(content)); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}

	cli.PrintSuccess("Copied %s to clipboard (%d characters)", path, len(content))
	return nil
}
