package kanata

// cursor scans an immutable byte buffer. pos never decreases and never
// exceeds len(input).
type cursor struct {
	input []byte
	pos   int
}

func (c *cursor) offset() int {
	return c.pos
}

func (c *cursor) rest() []byte {
	return c.input[c.pos:]
}

// peek returns the byte at the current offset, or false at end of input.
func (c *cursor) peek() (byte, bool) {
	if c.pos >= len(c.input) {
		return 0, false
	}
	return c.input[c.pos], true
}

// advance moves forward n bytes. Callers must not pass more than len(rest()).
func (c *cursor) advance(n int) {
	c.pos += n
}

func (c *cursor) bump() {
	c.advance(1)
}

// fail returns a ParseError stamped with the current offset.
func (c *cursor) fail(kind ErrorKind) error {
	return &ParseError{Offset: c.pos, Kind: kind}
}
