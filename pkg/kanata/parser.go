package kanata

import (
	"bytes"
	"iter"
)

// Record is one pull from a Parser: the offset where the record started and
// either the decoded Command or the *ParseError that stopped it.
type Record struct {
	Offset  int
	Command Command
	Err     error
}

// Parser is a pull-based iterator over the records of a trace buffer.
//
// A Parser is not safe for concurrent use, but any number of parsers may
// share one input buffer across goroutines since none of them writes to it.
type Parser struct {
	cur cursor
}

// New returns a parser positioned at the start of input.
func New(input []byte) *Parser {
	return &Parser{cur: cursor{input: input}}
}

// Input returns the buffer the parser reads from. StrRef values produced by
// this parser resolve against it.
func (p *Parser) Input() []byte {
	return p.cur.input
}

// Offset returns the current byte offset.
func (p *Parser) Offset() int {
	return p.cur.offset()
}

// Done reports whether the whole input has been consumed.
func (p *Parser) Done() bool {
	return p.cur.pos >= len(p.cur.input)
}

// Next decodes the record at the current offset. It returns false once the
// input is exhausted.
//
// A failing record does not end the sequence: the next call resumes where
// the failing rule stopped, which is at least one byte further on. The
// parser never skips ahead on its own; see SkipLine.
func (p *Parser) Next() (Record, bool) {
	c := &p.cur
	b, ok := c.peek()
	if !ok {
		return Record{}, false
	}

	start := c.offset()
	var (
		cmd Command
		err error
	)
	switch b {
	case 'K':
		cmd, err = c.parseHeader()
	case 'C':
		cmd, err = c.parseCycle()
	case 'I':
		cmd, err = c.parseInstruction()
	case 'L':
		cmd, err = c.parseLog()
	case 'S':
		cmd, err = c.parseStage(true)
	case 'E':
		cmd, err = c.parseStage(false)
	case 'R':
		cmd, err = c.parseRetire()
	case 'W':
		cmd, err = c.parseDependency()
	default:
		err = c.fail(UnexpectedCharacter)
		c.bump()
	}
	return Record{Offset: start, Command: cmd, Err: err}, true
}

// All returns an iterator over the remaining records.
func (p *Parser) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for {
			rec, ok := p.Next()
			if !ok || !yield(rec) {
				return
			}
		}
	}
}

// SkipLine advances past the next line terminator (CR, LF or CRLF), or to
// the end of input if there is none.
func (p *Parser) SkipLine() {
	p.SkipLineFrom(p.cur.offset())
}

// SkipLineFrom moves to the start of the line following the one that
// contains start, typically the Offset of a failed Record. It never moves
// backwards, so a record that already consumed its line terminator does not
// cost the next line.
func (p *Parser) SkipLineFrom(start int) {
	c := &p.cur
	if start < 0 || start > len(c.input) {
		start = c.offset()
	}
	end := len(c.input)
	if n := bytes.IndexAny(c.input[start:], "\r\n"); n >= 0 {
		end = start + n + 1
		if c.input[start+n] == '\r' && end < len(c.input) && c.input[end] == '\n' {
			end++
		}
	}
	if end > c.pos {
		c.advance(end - c.pos)
	}
}
