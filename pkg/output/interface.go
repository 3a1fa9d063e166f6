// Package output renders Kanata trace events and summaries for humans and
// machines.
package output

import (
	"context"
	"fmt"
	"io"

	"github.com/ccollicutt/kanata/pkg/source"
	"github.com/ccollicutt/kanata/pkg/stats"
)

// Formatter renders trace events and summaries in a specific format.
type Formatter interface {
	// WriteEvent renders a single event to the given writer.
	WriteEvent(ctx context.Context, w io.Writer, ev *source.Event) error

	// WriteSummary renders an analysis summary to the given writer.
	WriteSummary(ctx context.Context, w io.Writer, s *stats.Summary) error

	// Name returns the format name (text, json).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose prefixes events with their location and adds detail to summaries.
	Verbose bool

	// Quiet writes only parse errors and a one-line summary.
	Quiet bool
}

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string, opts FormatOptions) (Formatter, error) {
	switch name {
	case "text":
		return NewTextFormatter(opts), nil
	case "json":
		return NewJSONFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", name)
	}
}
