package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/kanata/pkg/output"
	"github.com/ccollicutt/kanata/pkg/source"
)

// DumpOptions holds command-line options for the dump command.
type DumpOptions struct {
	traceOptions

	Output  string
	Verbose bool
	Quiet   bool
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(g *GlobalOptions) *cobra.Command {
	g = globalsOrDefault(g)
	opts := &DumpOptions{}

	cmd := &cobra.Command{
		Use:   "dump [trace-file...]",
		Short: "Print every record of a trace",
		Long: `Decode Kanata trace files and print one line per record.

Files may be glob patterns ("**" is supported) and may be gzip or zstd
compressed. With no arguments the sources from the configuration are used.

Exit codes:
  0 - All records decoded
  1 - Parse errors found
  2 - Configuration or runtime error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output format (text|json, default from config)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Prefix records with file, line and offset")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Print parse errors only")
	opts.addFlags(cmd)

	return cmd
}

func runDump(cmd *cobra.Command, args []string, g *GlobalOptions, opts *DumpOptions) error {
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

	w := bufio.NewWriter(cmd.OutOrStdout())
	defer w.Flush()

	for {
		ev, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_ = w.Flush()
			return fmt.Errorf("reading traces: %w", err)
		}
		if err := formatter.WriteEvent(ctx, w, ev); err != nil {
			return fmt.Errorf("formatting output: %w", err)
		}
	}

	if src.Errors() > 0 {
		ExitCode = 1
	}

	return w.Flush()
}
