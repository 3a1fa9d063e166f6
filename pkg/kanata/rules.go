package kanata

const headerMagic = "Kanata\t"

// decodeKind reads a one-digit kind code. Anything that is not a known code
// fails with invalid at the offset of the offending byte; end of input fails
// with ExpectedValue.
func decodeKind[K any](c *cursor, invalid ErrorKind, fromDigit func(byte) (K, bool)) (K, error) {
	var zero K
	at := c.offset()
	if b, ok := c.peek(); ok && !isDigit(b) {
		return zero, c.fail(invalid)
	}
	d, err := c.parseSingleDigit()
	if err != nil {
		return zero, err
	}
	k, ok := fromDigit(d)
	if !ok {
		return zero, &ParseError{Offset: at, Kind: invalid}
	}
	return k, nil
}

// tabUint32 parses a tab separator followed by an unsigned field.
func (c *cursor) tabUint32() (uint32, error) {
	if err := c.tab(); err != nil {
		return 0, err
	}
	return c.parseUint32()
}

// K\t<version>
func (c *cursor) parseHeader() (Command, error) {
	for i := 0; i < len(headerMagic); i++ {
		if !c.eat(headerMagic[i]) {
			return nil, c.fail(InvalidHeader)
		}
	}
	version, err := c.parseUint32()
	if err != nil {
		return nil, err
	}
	c.skipSpaces()
	c.skipLineEnd()
	return Header{Version: version}, nil
}

// C[=]\t<value>
func (c *cursor) parseCycle() (Command, error) {
	c.bump()
	abs := c.eat('=')
	if err := c.tab(); err != nil {
		return nil, err
	}
	value, err := c.parseInt32()
	if err != nil {
		return nil, err
	}
	c.skipSpaces()
	c.skipLineEnd()
	return Cycle{Abs: abs, Value: value}, nil
}

// I\t<id in file>\t<id in sim>\t<thread id>
func (c *cursor) parseInstruction() (Command, error) {
	c.bump()
	var ids [3]uint32
	for i := range ids {
		v, err := c.tabUint32()
		if err != nil {
			return nil, err
		}
		ids[i] = v
	}
	c.skipSpaces()
	c.skipLineEnd()
	return Instruction{IDInFile: ids[0], IDInSim: ids[1], ThreadID: ids[2]}, nil
}

// L\t<id>\t<kind>\t<text>
func (c *cursor) parseLog() (Command, error) {
	c.bump()
	id, err := c.tabUint32()
	if err != nil {
		return nil, err
	}
	if err := c.tab(); err != nil {
		return nil, err
	}
	kind, err := decodeKind(c, InvalidLogKind, logKindFromDigit)
	if err != nil {
		return nil, err
	}
	if err := c.tab(); err != nil {
		return nil, err
	}
	text, err := c.parseText()
	if err != nil {
		return nil, err
	}
	c.skipLineEnd()
	return Log{ID: id, Kind: kind, Text: text}, nil
}

// S|E\t<id>\t<lane>\t<stage name>
func (c *cursor) parseStage(start bool) (Command, error) {
	c.bump()
	id, err := c.tabUint32()
	if err != nil {
		return nil, err
	}
	lane, err := c.tabUint32()
	if err != nil {
		return nil, err
	}
	if err := c.tab(); err != nil {
		return nil, err
	}
	name, err := c.parseText()
	if err != nil {
		return nil, err
	}
	c.skipLineEnd()
	return PipelineStage{Start: start, ID: id, LaneID: lane, Name: name}, nil
}

// R\t<id>\t<retire id>\t<kind>
func (c *cursor) parseRetire() (Command, error) {
	c.bump()
	id, err := c.tabUint32()
	if err != nil {
		return nil, err
	}
	rid, err := c.tabUint32()
	if err != nil {
		return nil, err
	}
	if err := c.tab(); err != nil {
		return nil, err
	}
	kind, err := decodeKind(c, InvalidRetireKind, retireKindFromDigit)
	if err != nil {
		return nil, err
	}
	c.skipSpaces()
	c.skipLineEnd()
	return Retire{ID: id, RetireID: rid, Kind: kind}, nil
}

// W\t<consumer>\t<producer>\t<kind>
func (c *cursor) parseDependency() (Command, error) {
	c.bump()
	consumer, err := c.tabUint32()
	if err != nil {
		return nil, err
	}
	producer, err := c.tabUint32()
	if err != nil {
		return nil, err
	}
	if err := c.tab(); err != nil {
		return nil, err
	}
	kind, err := decodeKind(c, InvalidDepKind, depKindFromDigit)
	if err != nil {
		return nil, err
	}
	c.skipSpaces()
	c.skipLineEnd()
	return Dependency{ConsumerID: consumer, ProducerID: producer, Kind: kind}, nil
}
