package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/tpmedit/internal/cli"
	"github.com/pluqqy/tpmedit/pkg/files"
	"github.com/pluqqy/tpmedit/pkg/jsondoc"
)

var (
	exportFormat string
	exportToFile string
)

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [section]",
		Short: "Export the config as JSON, YAML or TOML",
		Long: `Export the whole config file, or a single section, as JSON, YAML or
TOML. JSON and YAML keep the key order of the file. TOML sorts keys and leaves
out null values.

Examples:
  # Pretty JSON to stdout
  tpmedit export

  # Tyre section as YAML
  tpmedit export tyres --format yaml

  # Write to a file
  tpmedit export --format yaml --file config.yaml

  # TOML for other tools
  tpmedit export --format toml --file config.toml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExport,
	}

	cmd.Flags().StringVar(&exportFormat, "format", "json", "Export format (json, yaml, toml)")
	cmd.Flags().StringVar(&exportToFile, "file", "", "Write to a file instead of stdout")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := cli.ValidateOutputFormat(exportFormat, cli.FormatJSON, cli.FormatYAML, cli.FormatTOML); err != nil {
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

	var value any = doc
	if len(args) > 0 {
		section, ok := doc.Get(args[0])
		if !ok {
			return fmt.Errorf("section '%s' not found", args[0])
		}
		value = section
	}

	var out []byte
	switch cli.OutputFormat(exportFormat) {
	case cli.FormatYAML:
		out, err = jsondoc.MarshalYAML(value)
	case cli.FormatTOML:
		if len(args) > 0 {
			if _, ok := value.(*jsondoc.Object); !ok {
				value = wrapSection(args[0], value)
			}
		}
		out, err = jsondoc.MarshalTOML(value)
	default:
		out, err = jsondoc.Marshal(value, ctx.Settings.Output.Indent)
		out = append(trimNewline(out), '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}

	if exportToFile == "" {
		return cli.WriteHighlighted(cmd.OutOrStdout(), out, exportFormat)
	}

	if err := files.WriteFileAtomic(exportToFile, out, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	cli.PrintSuccess("Config exported to: %s (%s format)", exportToFile, exportFormat)

	return nil
}

// wrapSection nests a scalar or list section under its key, since a TOML
// document must be a table
func wrapSection(key string, value any) *jsondoc.Object {
	obj := jsondoc.NewObject()
	obj.Set(key, value)
	return obj
}
