package kanata

import "fmt"

// ErrorKind classifies a parse failure. It implements error so that
// errors.Is(err, kanata.ExpectedValue) matches any ParseError of that kind.
type ErrorKind uint8

const (
	InvalidHeader ErrorKind = iota + 1
	InvalidLogKind
	InvalidRetireKind
	InvalidDepKind
	ExpectedValue
	ValueTooBig
	ExpectedText
	UnexpectedCharacter
	UnexpectedEOF
)

var errorKindNames = map[ErrorKind]string{
	InvalidHeader:       "invalid header",
	InvalidLogKind:      "invalid log kind",
	InvalidRetireKind:   "invalid retire kind",
	InvalidDepKind:      "invalid dependency kind",
	ExpectedValue:       "expected value",
	ValueTooBig:         "value too big",
	ExpectedText:        "expected text",
	UnexpectedCharacter: "unexpected character",
	UnexpectedEOF:       "unexpected end of input",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

func (k ErrorKind) Error() string {
	return k.String()
}

// ErrorKinds lists every error kind in declaration order.
func ErrorKinds() []ErrorKind {
	return []ErrorKind{
		InvalidHeader,
		InvalidLogKind,
		InvalidRetireKind,
		InvalidDepKind,
		ExpectedValue,
		ValueTooBig,
		ExpectedText,
		UnexpectedCharacter,
		UnexpectedEOF,
	}
}

// ParseError reports a grammar failure at a byte offset of the input.
type ParseError struct {
	Offset int
	Kind   ErrorKind
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Kind)
}

// Unwrap exposes the error kind to errors.Is.
func (e *ParseError) Unwrap() error {
	return e.Kind
}
