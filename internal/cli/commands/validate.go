package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/kanata/pkg/config"
	"github.com/ccollicutt/kanata/pkg/source"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a kanata configuration file without reading any trace.

Checks:
  - YAML syntax
  - Log level, output format and resync policy names
  - Numeric limits
  - Trace source existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Log level:  %s\n", cfg.LogLevel)
	fmt.Fprintf(out, "  Output:     %s\n", cfg.Output)
	fmt.Fprintf(out, "  Resync:     %s\n", cfg.Resync)
	if cfg.MaxErrors > 0 {
		fmt.Fprintf(out, "  Max errors: %d\n", cfg.MaxErrors)
	} else {
		fmt.Fprintf(out, "  Max errors: unlimited\n")
	}
	fmt.Fprintf(out, "  Bench:      %d iteration(s), %d warmup\n", cfg.Bench.Iterations, cfg.Bench.Warmup)
	fmt.Fprintf(out, "  Sources:    %d pattern(s)\n", len(cfg.Sources))

	if len(cfg.Sources) == 0 {
		return nil
	}

	// Check if trace sources exist (warnings only)
	files, err := source.ExpandGlobs(cfg.Sources)
	switch {
	case err != nil:
		fmt.Fprintf(out, "\nWarning: Error expanding source patterns: %v\n", err)
	default:
		fmt.Fprintf(out, "\nTrace files:\n")
		for _, f := range files {
			if _, statErr := os.Stat(f); statErr != nil {
				fmt.Fprintf(out, "  - %s (warning: %v)\n", f, statErr)
				continue
			}
			fmt.Fprintf(out, "  - %s\n", f)
		}
	}

	return nil
}
