package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/tpmedit/internal/cli"
	"github.com/pluqqy/tpmedit/pkg/formmap"
)

// SectionsResult represents the output structure for the sections command
type SectionsResult struct {
	Config   string        `json:"config" yaml:"config"`
	Sections []SectionItem `json:"sections" yaml:"sections"`
	Count    int           `json:"count" yaml:"count"`
}

// SectionItem represents one top-level section of the config
type SectionItem struct {
	Key    string `json:"key" yaml:"key"`
	Label  string `json:"label" yaml:"label"`
	Fields int    `json:"fields" yaml:"fields"`
}

// NewSectionsCommand creates the sections command
func NewSectionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sections",
		Short: "List the sections of the config file",
		Long: `List the top-level sections of the config file with their tab labels
and the number of editable fields in each.

Examples:
  # List sections
  tpmedit sections

  # List sections as JSON
  tpmedit sections -o json`,
		Args: cobra.NoArgs,
		RunE: runSections,
	}

	return cmd
}

func runSections(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	ctx, err := commandContext(cmd)
	if err != nil {
		return err
	}

	doc, form, err := ctx.LoadForm()
	if err != nil {
		return err
	}

	counts := make(map[string]int)
	for _, sec := range form.Sections() {
		counts[sec.Key] = len(sec.Fields)
	}

	result := SectionsResult{Config: ctx.ConfigPath}
	for _, key := range ctx.SectionKeys(doc) {
		result.Sections = append(result.Sections, SectionItem{
			Key:    key,
			Label:  ctx.Settings.SectionLabel(key),
			Fields: counts[key],
		})
	}
	result.Count = len(result.Sections)

	if format != string(cli.FormatText) {
		return cli.OutputResults(cmd.OutOrStdout(), format, result)
	}

	return outputSectionsText(cmd, result)
}

func outputSectionsText(cmd *cobra.Command, result SectionsResult) error {
	if result.Count == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No sections found in %s\n", result.Config)
		return nil
	}

	table := cli.NewTableFormatter(cmd.OutOrStdout())
	table.Header("KEY", "LABEL", "FIELDS")
	for _, sec := range result.Sections {
		table.Row(sec.Key, sec.Label, fmt.Sprintf("%d", sec.Fields))
	}
	table.Flush()

	return nil
}

// sectionFields returns the fields of one section, or all fields when key is empty
func sectionFields(form *formmap.Form, key string) ([]formmap.Field, error) {
	if key == "" {
		return form.Fields(), nil
	}
	for _, sec := range form.Sections() {
		if sec.Key == key {
			return sec.Fields, nil
		}
	}
	return nil, fmt.Errorf("section '%s' not found", key)
}
