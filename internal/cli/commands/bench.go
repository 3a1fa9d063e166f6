package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/kanata/pkg/bench"
	"github.com/ccollicutt/kanata/pkg/config"
	"github.com/ccollicutt/kanata/pkg/source"
)

// BenchOptions holds command-line options for the bench command.
type BenchOptions struct {
	Output     string
	Iterations int
	Warmup     int
}

// NewBenchCommand creates the bench command.
func NewBenchCommand(g *GlobalOptions) *cobra.Command {
	g = globalsOrDefault(g)
	opts := &BenchOptions{}

	cmd := &cobra.Command{
		Use:   "bench [trace-file...]",
		Short: "Measure parser throughput",
		Long: `Load each trace into memory and parse it repeatedly, reporting time per
pass, MB/s and records/s. Decompression and file I/O are not timed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output format (text|json, default from config)")
	cmd.Flags().IntVarP(&opts.Iterations, "iterations", "n", 0, "Timed passes per trace (default from config)")
	cmd.Flags().IntVar(&opts.Warmup, "warmup", 0, "Untimed passes per trace (default from config)")

	return cmd
}

func runBench(cmd *cobra.Command, args []string, g *GlobalOptions, opts *BenchOptions) error {
	ctx := commandContext(cmd)

	cfg, err := g.Config(ctx)
	if err != nil {
		return err
	}

	files, err := resolveFiles(args, cfg)
	if err != nil {
		return err
	}

	benchOpts := bench.Options{
		Iterations: cfg.Bench.Iterations,
		Warmup:     cfg.Bench.Warmup,
	}
	if cmd.Flags().Changed("iterations") {
		benchOpts.Iterations = opts.Iterations
	}
	if cmd.Flags().Changed("warmup") {
		benchOpts.Warmup = opts.Warmup
	}

	format := cfg.Output
	if cmd.Flags().Changed("output") {
		format = opts.Output
	}
	if format != string(config.OutputText) && format != string(config.OutputJSON) {
		return fmt.Errorf("unknown output format %q (use text or json)", format)
	}

	results := make([]bench.Result, 0, len(files))
	for _, file := range files {
		trace, err := source.ReadTrace(ctx, file)
		if err != nil {
			return err
		}
		res, err := bench.Run(ctx, file, trace.Data, benchOpts)
		if err != nil {
			return fmt.Errorf("benchmarking %s: %w", file, err)
		}
		results = append(results, res)
	}

	out := cmd.OutOrStdout()
	if format == string(config.OutputJSON) {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "TRACE\tBYTES\tRECORDS\tERRORS\tPASSES\tTIME/PASS\tMB/s\tRECORDS/s\t")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\t%.1f\t%.0f\t\n",
			r.Name, r.Bytes, r.Records, r.Errors, r.Iterations, r.PerIteration(), r.MBPerSecond(), r.RecordsPerSecond())
	}
	return tw.Flush()
}
