package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pluqqy/tpmedit/cmd/commands"
	"github.com/pluqqy/tpmedit/internal/cli"
	"github.com/pluqqy/tpmedit/pkg/files"
	"github.com/pluqqy/tpmedit/pkg/models"
	"github.com/pluqqy/tpmedit/pkg/tui"
)

// Version is set during build with -ldflags
var version = "dev"

const debugLogFile = "tpmedit-debug.log"

var (
	configFlag  string
	outputFlag  string
	quietFlag   bool
	noColorFlag bool
	yesFlag     bool
	debugFlag   bool

	debugLog *os.File
)

var rootCmd = &cobra.Command{
	Use:   "tpmedit",
	Short: "Terminal editor for Team Principal Manager config files",
	Long: `tpmedit edits the JSON config of a racing team management sim. Every
value in the file becomes a form field: booleans are checkboxes, numbers are
clamped inputs and lists of values are comma separated. Saving rebuilds the
file with its original structure and key order.

Run without arguments to open the editor, or use the subcommands to read and
change single values from scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cli.SetGlobalFlags(quietFlag, noColorFlag, yesFlag)
		return setupLogging()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if debugLog != nil {
			debugLog.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := cli.NewCommandContext(configFlag)
		if err != nil {
			return err
		}
		if err := ctx.ValidateConfig(); err != nil {
			return err
		}

		app, err := tui.NewApp(ctx.ConfigPath, ctx.Settings)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", ctx.ConfigPath, err)
		}
		defer app.Close()

		log.Printf("editing %s", ctx.ConfigPath)
		p := tea.NewProgram(app, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("failed to start the terminal user interface: %w", err)
		}
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default settings file",
	Long: `Creates ` + files.SettingsFile + ` in the current directory with the default
section labels, number limits and output indent. Use --config to record a
config path other than ` + files.DefaultConfigFile + `.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(files.SettingsFile); err == nil {
			ok, err := cli.Confirm(fmt.Sprintf("%s already exists. Overwrite?", files.SettingsFile), false)
			if err != nil {
				return err
			}
			if !ok {
				cli.PrintInfo("Left %s unchanged", files.SettingsFile)
				return nil
			}
		}

		settings := models.DefaultSettings()
		if configFlag != "" {
			settings.ConfigPath = configFlag
		}
		if err := files.WriteSettings(settings); err != nil {
			return fmt.Errorf("failed to write settings: %w", err)
		}

		cli.PrintSuccess("Created %s", files.SettingsFile)
		if _, err := os.Stat(settings.ConfigPath); os.IsNotExist(err) {
			cli.PrintWarning("No config file at %s yet", settings.ConfigPath)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tpmedit",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tpmedit version %s\n", version)
	},
}

// setupLogging sends log output to the debug file, or discards it
func setupLogging() error {
	if !debugFlag {
		log.SetOutput(io.Discard)
		return nil
	}
	f, err := tea.LogToFile(debugLogFile, "tpmedit")
	if err != nil {
		return fmt.Errorf("failed to open debug log: %w", err)
	}
	debugLog = f
	return nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFlag, "config", "c", "", "Config file to edit (default from "+files.SettingsFile+")")
	flags.StringVarP(&outputFlag, "output", "o", "text", "Output format (text, json, yaml)")
	flags.BoolVarP(&quietFlag, "quiet", "q", false, "Suppress informational output")
	flags.BoolVar(&noColorFlag, "no-color", false, "Disable symbols in messages")
	flags.BoolVarP(&yesFlag, "yes", "y", false, "Answer yes to confirmation prompts")
	flags.BoolVar(&debugFlag, "debug", false, "Write a debug log to "+debugLogFile)

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(commands.NewSectionsCommand())
	rootCmd.AddCommand(commands.NewFieldsCommand())
	rootCmd.AddCommand(commands.NewGetCommand())
	rootCmd.AddCommand(commands.NewSetCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewClipboardCommand())
	rootCmd.AddCommand(commands.NewSearchCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		cli.PrintError("%v", err)
		os.Exit(1)
	}
}
