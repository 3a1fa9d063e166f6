package output

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/ccollicutt/kanata/pkg/source"
	"github.com/ccollicutt/kanata/pkg/stats"
)

// TextFormatter formats events and summaries as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// WriteEvent renders one event as a line of text.
func (f *TextFormatter) WriteEvent(_ context.Context, w io.Writer, ev *source.Event) error {
	if ev.Err != nil {
		_, err := fmt.Fprintf(w, "%s:%d: error: %v\n", ev.Source, ev.Line, ev.Err)
		return err
	}
	if f.opts.Quiet {
		return nil
	}
	if f.opts.Verbose {
		_, err := fmt.Fprintf(w, "%s:%d @%d\t%s\n", ev.Source, ev.Line, ev.Offset, Render(ev.Command, ev.Input))
		return err
	}
	_, err := fmt.Fprintln(w, Render(ev.Command, ev.Input))
	return err
}

// WriteSummary renders the summary report.
func (f *TextFormatter) WriteSummary(_ context.Context, w io.Writer, s *stats.Summary) error {
	if f.opts.Quiet {
		_, err := fmt.Fprintf(w, "kanata: %d records, %d errors, %d cycles\n", s.Records, s.Errors, s.Cycles)
		return err
	}

	fmt.Fprintln(w, "=== Kanata Trace Summary ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sources: %d\n", len(s.Sources))
	for _, src := range s.Sources {
		fmt.Fprintf(w, "  - %s\n", src)
	}
	fmt.Fprintf(w, "Format version: %d\n", s.Version)
	fmt.Fprintf(w, "Records: %d (%d errors)\n", s.Records, s.Errors)
	fmt.Fprintf(w, "Cycles: %d\n", s.Cycles)
	fmt.Fprintf(w, "Instructions: %d (retired %d, flushed %d, IPC %.3f)\n",
		s.Instructions, s.Retired, s.Flushed, s.IPC())
	fmt.Fprintf(w, "Dependencies: %d\n", s.Dependencies)
	fmt.Fprintf(w, "Lanes: %d\n", s.Lanes)

	if f.opts.Verbose {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Records by kind:")
		writeCounts(w, s.Counts)
	}

	if len(s.ErrorKinds) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Errors by kind:")
		writeCounts(w, s.ErrorKinds)
	}

	if len(s.Stages) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Stage residency (cycles):")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  STAGE\tCOUNT\tMEAN\tMAX")
		for _, st := range s.Stages {
			fmt.Fprintf(tw, "  %s\t%d\t%.2f\t%d\n", st.Name, st.Count, st.MeanCycles(), st.MaxCycles)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if s.OpenStages > 0 || s.UnmatchedEnds > 0 {
		fmt.Fprintf(w, "Unbalanced stages: %d open, %d unmatched ends\n", s.OpenStages, s.UnmatchedEnds)
	}

	if f.opts.Verbose {
		fmt.Fprintf(w, "Duration: %s\n", s.Duration.Round(1e6))
	}

	return nil
}

func writeCounts(w io.Writer, counts map[string]int) {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-22s %d\n", name, counts[name])
	}
}
