// Package kanata parses Kanata pipeline trace logs into a stream of typed
// simulation events.
//
// The parser works over an in-memory buffer and never copies or mutates it.
// Free-text fields are returned as StrRef spans that must be resolved against
// the same buffer the parser was created with.
package kanata

import "fmt"

// StrRef locates a contiguous span of the input buffer.
type StrRef struct {
	Offset int
	Len    int
}

// End returns the offset one past the last byte of the span.
func (s StrRef) End() int {
	return s.Offset + s.Len
}

// Bytes returns the referenced bytes of input without copying.
// input must be the buffer the span was produced from.
func (s StrRef) Bytes(input []byte) []byte {
	return input[s.Offset:s.End():s.End()]
}

// String returns a copy of the referenced text.
func (s StrRef) String(input []byte) string {
	return string(s.Bytes(input))
}

// LogKind selects where a log annotation is shown by a viewer.
type LogKind uint8

const (
	LogLeftPane LogKind = iota
	LogMouseOver
	LogOther
)

func (k LogKind) String() string {
	switch k {
	case LogLeftPane:
		return "left"
	case LogMouseOver:
		return "hover"
	case LogOther:
		return "other"
	default:
		return fmt.Sprintf("LogKind(%d)", uint8(k))
	}
}

func logKindFromDigit(d byte) (LogKind, bool) {
	switch d {
	case '0':
		return LogLeftPane, true
	case '1':
		return LogMouseOver, true
	case '2':
		return LogOther, true
	}
	return 0, false
}

// RetireKind distinguishes a committed instruction from a flushed one.
type RetireKind uint8

const (
	RetireCommit RetireKind = iota
	RetireFlush
)

func (k RetireKind) String() string {
	switch k {
	case RetireCommit:
		return "retire"
	case RetireFlush:
		return "flush"
	default:
		return fmt.Sprintf("RetireKind(%d)", uint8(k))
	}
}

func retireKindFromDigit(d byte) (RetireKind, bool) {
	switch d {
	case '0':
		return RetireCommit, true
	case '1':
		return RetireFlush, true
	}
	return 0, false
}

// DepKind is the type of an inter-instruction dependency.
// Only wake-up dependencies exist today.
type DepKind uint8

const (
	DepWakeUp DepKind = iota
)

func (k DepKind) String() string {
	if k == DepWakeUp {
		return "wakeup"
	}
	return fmt.Sprintf("DepKind(%d)", uint8(k))
}

func depKindFromDigit(d byte) (DepKind, bool) {
	if d == '0' {
		return DepWakeUp, true
	}
	return 0, false
}

// Command is one decoded trace record. The concrete type is one of
// Header, Cycle, Instruction, Log, PipelineStage, Retire or Dependency.
type Command interface {
	command()
}

// FormatVersion is the newest trace format version this package knows.
// Headers carrying other versions still parse.
const FormatVersion = 4

// Header is the "Kanata" file header.
type Header struct {
	Version uint32
}

// Cycle advances the simulation clock. When Abs is set Value is the
// absolute cycle, otherwise it is a delta from the previous cycle.
type Cycle struct {
	Abs   bool
	Value int32
}

// Instruction introduces a new instruction.
type Instruction struct {
	IDInFile uint32
	IDInSim  uint32
	ThreadID uint32
}

// Log attaches free text to an instruction.
type Log struct {
	ID   uint32
	Kind LogKind
	Text StrRef
}

// PipelineStage marks an instruction entering (Start) or leaving a stage.
type PipelineStage struct {
	Start  bool
	ID     uint32
	LaneID uint32
	Name   StrRef
}

// Retire marks an instruction as committed or flushed.
type Retire struct {
	ID       uint32
	RetireID uint32
	Kind     RetireKind
}

// Dependency records that the producer woke up the consumer.
type Dependency struct {
	ConsumerID uint32
	ProducerID uint32
	Kind       DepKind
}

func (Header) command()        {}
func (Cycle) command()         {}
func (Instruction) command()   {}
func (Log) command()           {}
func (PipelineStage) command() {}
func (Retire) command()        {}
func (Dependency) command()    {}
