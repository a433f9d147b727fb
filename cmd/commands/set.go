package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/tpmedit/internal/cli"
	"github.com/pluqqy/tpmedit/pkg/files"
	"github.com/pluqqy/tpmedit/pkg/formmap"
	"github.com/pluqqy/tpmedit/pkg/jsondoc"
)

var setDryRun bool

// NewSetCommand creates the set command
func NewSetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <path> <value>",
		Short: "Change a single field",
		Long: `Change one editable field and write the config file. The value is read
the same way the editor reads it: booleans accept true/false, numbers are
clamped to the configured range and rounded, lists are comma separated.

Only the changed value is rewritten; the rest of the file keeps its layout.

Examples:
  # Change a number
  tpmedit set tyres.soft.grip 1.15

  # Toggle a flag
  tpmedit set dirty_air.enabled false

  # Replace a list
  tpmedit set tyres.soft.cliff "10, 14, 18"

  # Show the result without writing
  tpmedit set pitstops.base_time 21.8 --dry-run`,
		Args: cobra.ExactArgs(2),
		RunE: runSet,
	}

	cmd.Flags().BoolVar(&setDryRun, "dry-run", false, "Print the new value without writing the file")

	return cmd
}

func runSet(cmd *cobra.Command, args []string) error {
	ctx, err := commandContext(cmd)
	if err != nil {
		return err
	}

	doc, form, err := ctx.LoadForm()
	if err != nil {
		return err
	}

	path, err := formmap.Resolve(doc, args[0])
	if err != nil {
		return err
	}

	field, ok := form.Lookup(path)
	if !ok {
		return fmt.Errorf("'%s' is not an editable field. Run 'tpmedit fields' to see editable paths", args[0])
	}

	before := form.DisplayValue(path)
	if err := form.Apply(path, args[1]); err != nil {
		return err
	}

	raw, _ := form.Value(path)
	value, err := field.ReadBack(raw)
	if err != nil {
		return err
	}

	encoded, err := jsondoc.Marshal(value, 0)
	if err != nil {
		return err
	}

	if setDryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", path, encoded)
		return nil
	}

	if err := files.PatchConfig(ctx.ConfigPath, path, value); err != nil {
		return err
	}

	cli.PrintSuccess("%s: %s → %s", path, before, encoded)
	if field.Kind == formmap.KindText && jsondoc.Kind(value) == "array" {
		cli.PrintWarning("text containing commas was saved as a list")
	}

	return nil
}
