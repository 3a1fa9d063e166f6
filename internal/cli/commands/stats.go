package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/kanata/pkg/output"
	"github.com/ccollicutt/kanata/pkg/source"
	"github.com/ccollicutt/kanata/pkg/stats"
)

// StatsOptions holds command-line options for the stats command.
type StatsOptions struct {
	traceOptions

	Output  string
	Verbose bool
	Quiet   bool
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(g *GlobalOptions) *cobra.Command {
	g = globalsOrDefault(g)
	opts := &StatsOptions{}

	cmd := &cobra.Command{
		Use:   "stats [trace-file...]",
		Short: "Summarise traces",
		Long: `Summarise Kanata trace files: record counts, cycles, retired and flushed
instructions, IPC, and how long instructions stay in each pipeline stage.

Exit codes:
  0 - Summary written, no parse errors
  1 - Summary written, parse errors found
  2 - Configuration or runtime error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output format (text|json, default from config)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include per-kind record counts and timing")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "One-line summary only")
	opts.addFlags(cmd)

	return cmd
}

func runStats(cmd *cobra.Command, args []string, g *GlobalOptions, opts *StatsOptions) error {
	ctx := commandContext(cmd)

	cfg, err := g.Config(ctx)
	if err != nil {
		return err
	}

	files, err := resolveFiles(args, cfg)
	if err != nil {
		return err
	}

	srcOpts, err := opts.sourceOptions(cmd, cfg)
	if err != nil {
		return err
	}

	format := cfg.Output
	if cmd.Flags().Changed("output") {
		format = opts.Output
	}
	formatter, err := output.NewFormatter(format, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	src := source.NewFileSource(files, srcOpts)
	defer src.Close()

	summary, err := stats.Analyze(ctx, src)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if err := formatter.WriteSummary(ctx, cmd.OutOrStdout(), summary); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if summary.HasErrors() {
		ExitCode = 1
	}

	return nil
}
