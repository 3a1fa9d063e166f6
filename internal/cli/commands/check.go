package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/kanata/pkg/output"
	"github.com/ccollicutt/kanata/pkg/source"
)

// CheckOptions holds command-line options for the check command.
type CheckOptions struct {
	traceOptions
}

// NewCheckCommand creates the check command.
func NewCheckCommand(g *GlobalOptions) *cobra.Command {
	g = globalsOrDefault(g)
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check [trace-file...]",
		Short: "Report parse errors in traces",
		Long: `Parse Kanata trace files and report every record that fails to decode.

Exit codes:
  0 - Traces are well formed
  1 - Parse errors found
  2 - Configuration or runtime error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, g, opts)
		},
	}

	opts.addFlags(cmd)

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, g *GlobalOptions, opts *CheckOptions) error {
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

	formatter := output.NewTextFormatter(output.FormatOptions{Quiet: true})
	out := cmd.OutOrStdout()

	src := source.NewFileSource(files, srcOpts)
	defer src.Close()

	records := 0
	for {
		ev, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading traces: %w", err)
		}
		if ev.Err == nil {
			records++
			continue
		}
		if err := formatter.WriteEvent(ctx, out, ev); err != nil {
			return fmt.Errorf("formatting output: %w", err)
		}
	}

	status := "OK"
	if src.Errors() > 0 {
		status = "FAIL"
		ExitCode = 1
	}
	fmt.Fprintf(out, "%s: %d file(s), %d records, %d errors\n", status, len(files), records, src.Errors())

	return nil
}
