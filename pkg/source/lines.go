package source

// lineCounter maps monotonically increasing offsets to 1-based line
// numbers. CR, LF and CRLF each end one line.
type lineCounter struct {
	input []byte
	pos   int
	line  int
}

func (lc *lineCounter) lineAt(off int) int {
	for i := lc.pos; i < off; i++ {
		switch lc.input[i] {
		case '\n':
			lc.line++
		case '\r':
			if i+1 >= len(lc.input) || lc.input[i+1] != '\n' {
				lc.line++
			}
		}
	}
	if off > lc.pos {
		lc.pos = off
	}
	return lc.line + 1
}
