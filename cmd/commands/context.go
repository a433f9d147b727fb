package commands

import (
	"github.com/spf13/cobra"

	"github.com/pluqqy/tpmedit/internal/cli"
)

// commandContext builds the shared context from the global --config flag
func commandContext(cmd *cobra.Command) (*cli.CommandContext, error) {
	configPath, _ := cmd.Flags().GetString("config")
	return cli.NewCommandContext(configPath)
}

// outputFormat returns the validated global --output flag
func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	if format == "" {
		format = string(cli.FormatText)
	}
	if err := cli.ValidateOutputFormat(format); err != nil {
		return "", err
	}
	return format, nil
}
