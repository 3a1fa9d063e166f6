// Package source loads Kanata trace files and turns them into a stream of
// parse events, applying the caller's error resynchronisation policy.
package source

import "github.com/ccollicutt/kanata/pkg/kanata"

// Event is one record pulled from a trace file.
type Event struct {
	// Source is the file path (or buffer name) this record came from.
	Source string

	// Input is the whole trace buffer. StrRef fields in Command resolve
	// against it.
	Input []byte

	// Offset is the byte offset where the record started.
	Offset int

	// Line is the 1-based line number of Offset.
	Line int

	// Command is the decoded record, nil when Err is set.
	Command kanata.Command

	// Err is the *kanata.ParseError that stopped the record, if any.
	Err error
}

// Text resolves a span of the event's input.
func (e *Event) Text(ref kanata.StrRef) string {
	return ref.String(e.Input)
}

// ResyncPolicy decides what happens after a parse error.
type ResyncPolicy string

const (
	// ResyncNone resumes exactly where the failing record stopped.
	ResyncNone ResyncPolicy = "none"
	// ResyncLine skips to the start of the next line.
	ResyncLine ResyncPolicy = "line"
	// ResyncStop abandons the rest of the file.
	ResyncStop ResyncPolicy = "stop"
)

// IsValid reports whether p is a known policy. The empty policy means none.
func (p ResyncPolicy) IsValid() bool {
	switch p {
	case "", ResyncNone, ResyncLine, ResyncStop:
		return true
	}
	return false
}

// Options controls a FileSource.
type Options struct {
	Resync ResyncPolicy

	// MaxErrors is the number of parse errors tolerated across all files
	// before Next fails with ErrTooManyErrors. Zero means unlimited.
	MaxErrors int
}
