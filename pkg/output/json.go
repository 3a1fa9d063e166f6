package output

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/ccollicutt/kanata/pkg/kanata"
	"github.com/ccollicutt/kanata/pkg/source"
	"github.com/ccollicutt/kanata/pkg/stats"
)

// JSONFormatter writes one JSON object per event (NDJSON) and the summary
// as an indented document.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// EventJSON is the wire form of one event.
type EventJSON struct {
	Source string         `json:"source,omitempty"`
	Line   int            `json:"line"`
	Offset int            `json:"offset"`
	Type   string         `json:"type,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
	Error  *ErrorJSON     `json:"error,omitempty"`
}

// ErrorJSON describes a parse error.
type ErrorJSON struct {
	Kind   string `json:"kind"`
	Offset int    `json:"offset"`
}

// WriteEvent renders one event as a single JSON line.
func (f *JSONFormatter) WriteEvent(_ context.Context, w io.Writer, ev *source.Event) error {
	if f.opts.Quiet && ev.Err == nil {
		return nil
	}

	out := EventJSON{Line: ev.Line, Offset: ev.Offset}
	if f.opts.Verbose {
		out.Source = ev.Source
	}

	if ev.Err != nil {
		var perr *kanata.ParseError
		if errors.As(ev.Err, &perr) {
			out.Error = &ErrorJSON{Kind: perr.Kind.String(), Offset: perr.Offset}
		} else {
			out.Error = &ErrorJSON{Kind: ev.Err.Error(), Offset: ev.Offset}
		}
	} else {
		out.Type = stats.KindOf(ev.Command)
		out.Fields = commandFields(ev.Command, ev.Input)
	}

	return json.NewEncoder(w).Encode(out)
}

// WriteSummary renders the summary as JSON.
func (f *JSONFormatter) WriteSummary(_ context.Context, w io.Writer, s *stats.Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Quiet {
		return encoder.Encode(struct {
			Records int   `json:"records"`
			Errors  int   `json:"errors"`
			Cycles  int64 `json:"cycles"`
		}{s.Records, s.Errors, s.Cycles})
	}

	return encoder.Encode(s)
}

func commandFields(cmd kanata.Command, input []byte) map[string]any {
	switch cmd := cmd.(type) {
	case kanata.Header:
		return map[string]any{"version": cmd.Version}
	case kanata.Cycle:
		return map[string]any{"abs": cmd.Abs, "value": cmd.Value}
	case kanata.Instruction:
		return map[string]any{"id_in_file": cmd.IDInFile, "id_in_sim": cmd.IDInSim, "thread_id": cmd.ThreadID}
	case kanata.Log:
		return map[string]any{"id": cmd.ID, "kind": cmd.Kind.String(), "text": text(cmd.Text, input)}
	case kanata.PipelineStage:
		return map[string]any{"id": cmd.ID, "lane_id": cmd.LaneID, "name": text(cmd.Name, input)}
	case kanata.Retire:
		return map[string]any{"id": cmd.ID, "retire_id": cmd.RetireID, "kind": cmd.Kind.String()}
	case kanata.Dependency:
		return map[string]any{"consumer_id": cmd.ConsumerID, "producer_id": cmd.ProducerID, "kind": cmd.Kind.String()}
	}
	return nil
}
