package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pluqqy/tpmedit/internal/cli"
	"github.com/pluqqy/tpmedit/pkg/files"
	"github.com/pluqqy/tpmedit/pkg/formmap"
	"github.com/pluqqy/tpmedit/pkg/jsondoc"
)

var (
	getRaw     bool
	getCompact bool
)

// NewGetCommand creates the get command
func NewGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "Print the value at a path",
		Long: `Print the value stored at a dot separated path. Array elements are
addressed by index and dots inside keys are escaped with a backslash.

Examples:
  # A single number
  tpmedit get tyres.soft.grip

  # A whole curve point
  tpmedit get dirty_air.curve.0

  # Exactly as written in the file
  tpmedit get safety_car --raw

  # On one line
  tpmedit get tyres --compact`,
		Args: cobra.ExactArgs(1),
		RunE: runGet,
	}

	cmd.Flags().BoolVar(&getRaw, "raw", false, "Print the value exactly as it appears in the file")
	cmd.Flags().BoolVar(&getCompact, "compact", false, "Print JSON without indentation")

	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
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

	if getRaw {
		data, err := os.ReadFile(ctx.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		raw, ok := files.LookupRaw(data, path)
		if !ok {
			return fmt.Errorf("%w: %s", formmap.ErrPathNotFound, path)
		}
		if getCompact {
			raw = files.PrettyRaw(raw, 0)
		}
		return cli.WriteHighlighted(cmd.OutOrStdout(), []byte(raw+"\n"), "json")
	}

	value, err := formmap.Lookup(doc, path)
	if err != nil {
		return err
	}

	var out []byte
	language := "json"
	switch cli.OutputFormat(format) {
	case cli.FormatYAML:
		out, err = jsondoc.MarshalYAML(value)
		language = "yaml"
	default:
		indent := ctx.Settings.Output.Indent
		if getCompact {
			indent = 0
		}
		out, err = jsondoc.Marshal(value, indent)
	}
	if err != nil {
		return err
	}

	return cli.WriteHighlighted(cmd.OutOrStdout(), append(trimNewline(out), '\n'), language)
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && b[len(b)-1] == '\n' {
		b = b[:len(b)-1]
	}
	return b
}
