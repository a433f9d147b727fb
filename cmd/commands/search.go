package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pluqqy/tpmedit/internal/cli"
	"github.com/pluqqy/tpmedit/pkg/search"
)

// SearchResultOutput represents the formatted search results
type SearchResultOutput struct {
	Query   string      `json:"query" yaml:"query"`
	Count   int         `json:"count" yaml:"count"`
	Results []FieldItem `json:"results" yaml:"results"`
}

// NewSearchCommand creates the search command
func NewSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search editable fields",
		Long: `Search the editable fields of the config file.

Query Syntax:
  grip                 - Path or value contains "grip"
  path:soft            - Path contains "soft"
  kind:number          - Fields of one kind (boolean, number, text, list)
  section:tyres        - Fields of one section
  value:wet            - Value contains "wet"
  value:>1.5           - Number fields above 1.5 (also <)
  value:=3             - Value equal to 3

  Conditions are joined with AND unless OR is given; NOT negates the next
  condition. Operators apply left to right.

Examples:
  # Every grip value
  tpmedit search path:grip

  # Large numbers in the tyre model
  tpmedit search "section:tyres kind:number value:>10"

  # Flags that are switched off
  tpmedit search "kind:boolean value:=false"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
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

	query := strings.Join(args, " ")
	results, err := search.NewEngine(form).Search(query)
	if err != nil {
		return err
	}

	output := SearchResultOutput{Query: query, Count: len(results)}
	for _, item := range results {
		output.Results = append(output.Results, FieldItem{
			Path:  item.Path,
			Kind:  item.Kind,
			Value: item.Value,
		})
	}

	if format != string(cli.FormatText) {
		return cli.OutputResults(cmd.OutOrStdout(), format, output)
	}

	if output.Count == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No fields match %q\n", query)
		return nil
	}

	table := cli.NewTableFormatter(cmd.OutOrStdout())
	table.Header("PATH", "KIND", "VALUE")
	for _, r := range output.Results {
		table.Row(r.Path, r.Kind, cli.TruncateString(r.Value, 50))
	}
	table.Flush()

	if output.Count > 1 {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d fields\n", output.Count)
	}
	return nil
}
