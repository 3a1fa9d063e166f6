package kanata

import (
	"bytes"
	"math"
)

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// expect consumes b or fails with UnexpectedCharacter.
func (c *cursor) expect(b byte) error {
	if got, ok := c.peek(); ok && got == b {
		c.bump()
		return nil
	}
	return c.fail(UnexpectedCharacter)
}

// eat consumes b if it is the next byte.
func (c *cursor) eat(b byte) bool {
	if got, ok := c.peek(); ok && got == b {
		c.bump()
		return true
	}
	return false
}

func (c *cursor) tab() error {
	return c.expect('\t')
}

func (c *cursor) skipSpaces() {
	for {
		b, ok := c.peek()
		if !ok || (b != ' ' && b != '\t') {
			return
		}
		c.bump()
	}
}

// skipLineEnd consumes an optional CR followed by an optional LF.
func (c *cursor) skipLineEnd() {
	c.eat('\r')
	c.eat('\n')
}

// parseUnsigned consumes a run of ASCII digits. Magnitudes beyond uint64
// saturate at math.MaxUint64 so that narrowing still reports ValueTooBig.
func (c *cursor) parseUnsigned() (uint64, error) {
	const cutoff = math.MaxUint64 / 10
	r := c.rest()
	var v uint64
	saturated := false
	i := 0
	for i < len(r) && isDigit(r[i]) {
		d := uint64(r[i] - '0')
		if v > cutoff || (v == cutoff && d > math.MaxUint64%10) {
			saturated = true
		} else {
			v = v*10 + d
		}
		i++
	}
	if i == 0 {
		return 0, c.fail(ExpectedValue)
	}
	c.advance(i)
	if saturated {
		v = math.MaxUint64
	}
	return v, nil
}

func (c *cursor) parseUint32() (uint32, error) {
	v, err := c.parseUnsigned()
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint32 {
		return 0, c.fail(ValueTooBig)
	}
	return uint32(v), nil
}

// parseInt32 consumes an optionally signed decimal. The magnitude must fit
// an int32 before the sign is applied, so "-2147483648" is ValueTooBig.
func (c *cursor) parseInt32() (int32, error) {
	b, ok := c.peek()
	if !ok {
		return 0, c.fail(UnexpectedEOF)
	}
	neg := false
	switch b {
	case '-':
		neg = true
		c.bump()
	case '+':
		c.bump()
	}
	mag, err := c.parseUnsigned()
	if err != nil {
		return 0, err
	}
	if mag > math.MaxInt32 {
		return 0, c.fail(ValueTooBig)
	}
	if neg {
		return -int32(mag), nil
	}
	return int32(mag), nil
}

// parseSingleDigit consumes exactly one ASCII digit and returns it.
func (c *cursor) parseSingleDigit() (byte, error) {
	if b, ok := c.peek(); ok && isDigit(b) {
		c.bump()
		return b, nil
	}
	return 0, c.fail(ExpectedValue)
}

// parseText consumes everything up to, not including, the next CR or LF.
func (c *cursor) parseText() (StrRef, error) {
	r := c.rest()
	n := bytes.IndexAny(r, "\r\n")
	if n < 0 {
		n = len(r)
	}
	if n == 0 {
		return StrRef{}, c.fail(ExpectedText)
	}
	ref := StrRef{Offset: c.pos, Len: n}
	c.advance(n)
	return ref, nil
}
