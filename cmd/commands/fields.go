package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/tpmedit/internal/cli"
)

// FieldsResult represents the output structure for the fields command
type FieldsResult struct {
	Section string      `json:"section,omitempty" yaml:"section,omitempty"`
	Fields  []FieldItem `json:"fields" yaml:"fields"`
	Count   int         `json:"count" yaml:"count"`
}

// FieldItem represents one editable leaf
type FieldItem struct {
	Path  string `json:"path" yaml:"path"`
	Kind  string `json:"kind" yaml:"kind"`
	Value string `json:"value" yaml:"value"`
}

// NewFieldsCommand creates the fields command
func NewFieldsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields [section]",
		Short: "List editable fields",
		Long: `List every editable field of the config file, or of one section, in the
order the editor shows them. Each field has a path, an editor kind
(boolean, number, text or list) and its current value.

Examples:
  # All fields
  tpmedit fields

  # Only the tyre model
  tpmedit fields tyres

  # As YAML
  tpmedit fields dirty_air -o yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runFields,
	}

	return cmd
}

func runFields(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	ctx, err := commandContext(cmd)
	if err != nil {
		return err
	}

	_, form, err := ctx.LoadForm()
	if err != nil {
		return err
	}

	section := ""
	if len(args) > 0 {
		section = args[0]
	}

	fields, err := sectionFields(form, section)
	if err != nil {
		return err
	}

	result := FieldsResult{Section: section}
	for _, f := range fields {
		result.Fields = append(result.Fields, FieldItem{
			Path:  f.Path.String(),
			Kind:  f.Kind.String(),
			Value: form.DisplayValue(f.Path),
		})
	}
	result.Count = len(result.Fields)

	if format != string(cli.FormatText) {
		return cli.OutputResults(cmd.OutOrStdout(), format, result)
	}

	if result.Count == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No editable fields found")
		return nil
	}

	table := cli.NewTableFormatter(cmd.OutOrStdout())
	table.Header("PATH", "KIND", "VALUE")
	for _, f := range result.Fields {
		table.Row(f.Path, f.Kind, cli.TruncateString(f.Value, 50))
	}
	table.Flush()

	return nil
}
