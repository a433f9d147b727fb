package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pluqqy/tpmedit/internal/cli"
	"github.com/pluqqy/tpmedit/pkg/formmap"
	"github.com/pluqqy/tpmedit/pkg/jsondoc"
)

// CheckResult represents the output structure for the check command
type CheckResult struct {
	Config    string       `json:"config" yaml:"config"`
	Fields    int          `json:"fields" yaml:"fields"`
	RoundTrip bool         `json:"round_trip" yaml:"round_trip"`
	Issues    []CheckIssue `json:"issues" yaml:"issues"`
}

// CheckIssue describes something the editor will not preserve as written
type CheckIssue struct {
	Path    string `json:"path" yaml:"path"`
	Problem string `json:"problem" yaml:"problem"`
}

// NewCheckCommand creates the check command
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that the editor can save the config unchanged",
		Long: `Flatten the config into editor fields, rebuild it without edits and
compare the result with the file. Reports values that a save would alter:
empty objects, which have no editable fields, and text values containing
commas, which are saved back as lists. Lists holding booleans, nulls or
numeric text are reported too, since editing them retypes their elements.

Exits with an error when a save would change the file.

Examples:
  tpmedit check
  tpmedit check -o json`,
		Args: cobra.NoArgs,
		RunE: runCheck,
	}

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	result := CheckResult{Config: ctx.ConfigPath, Fields: form.Len()}
	result.Issues = checkDocument(doc, form)

	rebuilt, err := form.Rebuild()
	if err != nil {
		result.Issues = append(result.Issues, CheckIssue{Path: "(root)", Problem: err.Error()})
	} else {
		result.RoundTrip = jsondoc.Equal(doc, rebuilt)
	}

	if format != string(cli.FormatText) {
		if err := cli.OutputResults(cmd.OutOrStdout(), format, result); err != nil {
			return err
		}
	} else {
		outputCheckText(cmd, result)
	}

	if !result.RoundTrip {
		return fmt.Errorf("saving %s from the editor would change it", ctx.ConfigPath)
	}
	return nil
}

// checkDocument lists values that do not survive flatten and rebuild
func checkDocument(doc *jsondoc.Object, form *formmap.Form) []CheckIssue {
	var issues []CheckIssue

	var walk func(v any, path formmap.FieldPath)
	walk = func(v any, path formmap.FieldPath) {
		switch val := v.(type) {
		case *jsondoc.Object:
			if val.Len() == 0 && len(path) > 0 {
				issues = append(issues, CheckIssue{Path: path.String(), Problem: "empty object is dropped on save"})
				return
			}
			for _, k := range val.Keys() {
				child, _ := val.Get(k)
				walk(child, path.Append(formmap.Key(k)))
			}
		case *jsondoc.Array:
			for i, item := range val.Items {
				walk(item, path.Append(formmap.Index(i)))
			}
		}
	}
	walk(doc, nil)

	for _, f := range form.Fields() {
		if f.Kind == formmap.KindScalarList {
			if problem := listProblem(f.Original); problem != "" {
				issues = append(issues, CheckIssue{Path: f.Path.String(), Problem: problem})
			}
			continue
		}
		if f.Kind != formmap.KindText {
			continue
		}
		if s, ok := f.Original.(string); ok && strings.Contains(s, formmap.ListSeparator) {
			issues = append(issues, CheckIssue{Path: f.Path.String(), Problem: "text containing commas is saved as a list"})
		}
		if f.Fallback && f.Original != nil {
			issues = append(issues, CheckIssue{Path: f.Path.String(), Problem: "value is edited as text"})
		}
	}

	return issues
}

// listProblem describes list elements that an edit of the list would retype.
// Untouched lists are saved as they are.
func listProblem(v any) string {
	arr, ok := v.(*jsondoc.Array)
	if !ok {
		return ""
	}
	for _, item := range arr.Items {
		switch val := item.(type) {
		case jsondoc.Number:
		case string:
			if strings.Contains(val, formmap.ListSeparator) {
				return "list element contains a comma; editing the list splits it"
			}
			if items := formmap.CoerceList(val).Items; len(items) == 1 {
				if _, isNum := items[0].(jsondoc.Number); isNum {
					return "list holds numeric text; editing the list saves numbers"
				}
			}
		default:
			return fmt.Sprintf("list holds %s; editing the list saves it as text", jsondoc.Kind(item))
		}
	}
	return ""
}

func outputCheckText(cmd *cobra.Command, result CheckResult) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Config: %s\n", result.Config)
	fmt.Fprintf(w, "Fields: %d\n", result.Fields)

	if len(result.Issues) > 0 {
		fmt.Fprintln(w)
		table := cli.NewTableFormatter(w)
		table.Header("PATH", "PROBLEM")
		for _, issue := range result.Issues {
			table.Row(issue.Path, issue.Problem)
		}
		table.Flush()
		fmt.Fprintln(w)
	}

	if result.RoundTrip {
		cli.PrintSuccess("Config round-trips through the editor unchanged")
	}
}
