package source

import (
	"context"
	"errors"
)

// ErrTooManyErrors is returned by Next once more than Options.MaxErrors
// parse errors have been seen.
var ErrTooManyErrors = errors.New("too many parse errors")

// Source provides an iterator over trace events.
// Implementations must be safe for sequential access (not concurrent).
type Source interface {
	// Next returns the next event.
	// Returns io.EOF when no more events are available.
	// Parse errors are reported in Event.Err, not as a Next error.
	Next(ctx context.Context) (*Event, error)

	// Close releases any resources held by the source.
	Close() error
}
