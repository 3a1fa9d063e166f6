// Package cli provides the command-line interface for kanata.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/kanata/internal/cli/commands"
	"github.com/ccollicutt/kanata/internal/cli/plugins"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	return execute(os.Args[1:])
}

func execute(args []string) int {
	commands.ExitCode = 0
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)

	// Check if the first argument might be a plugin command
	if len(args) > 0 {
		potentialCommand := args[0]
		// Skip flags (start with -)
		if len(potentialCommand) > 0 && potentialCommand[0] != '-' {
			if !isBuiltinCommand(rootCmd, potentialCommand) {
				if pluginPath, err := plugins.FindPlugin(potentialCommand); err == nil {
					return plugins.Execute(pluginPath, args[1:])
				}
				// Plugin not found - will fall through to Cobra which will show error
			}
		}
	}

	if err := rootCmd.Execute(); err != nil {
		if len(args) > 0 {
			potentialCommand := args[0]
			if len(potentialCommand) > 0 && potentialCommand[0] != '-' {
				if !isBuiltinCommand(rootCmd, potentialCommand) {
					_, _ = fmt.Fprintln(os.Stderr, plugins.FormatNotFoundError(potentialCommand))
					return 2
				}
			}
		}
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	// Also check for special commands like help and completion
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	globals := &commands.GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "kanata",
		Short: "Parse and inspect Kanata pipeline traces",
		Long: `kanata reads Kanata pipeline trace logs, the line-oriented format
written by CPU simulators and shown by the Konata pipeline viewer.

It can:
  - Print every record (dump)
  - Report malformed records (check)
  - Summarise cycles, retirement and stage residency (stats)
  - Measure parser throughput (bench)

Settings come from --config, then KANATA_* environment variables, then
command flags.

PLUGINS:
  Plugins are standalone binaries named kanata-<command> that are
  discovered and invoked automatically.

  Plugin locations (searched in order):
    1. Same directory as the kanata binary
    2. $KANATA_PLUGIN_DIR, or ~/.kanata/plugins/ when unset
    3. Anywhere in PATH`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return globals.SetupLogging(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&globals.ConfigPath, "config", "c", "", "Configuration file (YAML)")
	rootCmd.PersistentFlags().StringVar(&globals.LogLevel, "log-level", "", "Log level: debug|info|warn|error (default from config)")

	rootCmd.AddCommand(commands.NewDumpCommand(globals))
	rootCmd.AddCommand(commands.NewCheckCommand(globals))
	rootCmd.AddCommand(commands.NewStatsCommand(globals))
	rootCmd.AddCommand(commands.NewBenchCommand(globals))
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
