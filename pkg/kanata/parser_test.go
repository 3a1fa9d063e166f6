package kanata

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseOne decodes the first record of input.
func parseOne(t *testing.T, input string) Record {
	t.Helper()
	p := New([]byte(input))
	rec, ok := p.Next()
	require.True(t, ok, "expected a record for %q", input)
	return rec
}

func collect(input []byte) []Record {
	var out []Record
	for rec := range New(input).All() {
		out = append(out, rec)
	}
	return out
}

func TestParser_Records(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Command
	}{
		{"header", "Kanata\t3\n", Header{Version: 3}},
		{"header leading zeros", "Kanata\t0004", Header{Version: 4}},
		{"header trailing blanks", "Kanata\t3 \t\r\n", Header{Version: 3}},
		{"absolute cycle", "C=\t5\n", Cycle{Abs: true, Value: 5}},
		{"relative cycle", "C\t-3\n", Cycle{Abs: false, Value: -3}},
		{"explicit plus", "C\t+7\n", Cycle{Value: 7}},
		{"most negative cycle", "C\t-2147483647\n", Cycle{Value: -math.MaxInt32}},
		{"max int32 cycle", "C=\t2147483647", Cycle{Abs: true, Value: math.MaxInt32}},
		{"instruction", "I\t1\t2\t3\n", Instruction{IDInFile: 1, IDInSim: 2, ThreadID: 3}},
		{"instruction max ids", "I\t4294967295\t0\t7  \n", Instruction{IDInFile: math.MaxUint32, ThreadID: 7}},
		{"log", "L\t10\t1\thello world\n", Log{ID: 10, Kind: LogMouseOver, Text: StrRef{Offset: 7, Len: 11}}},
		{"log left pane", "L\t0\t0\tx", Log{Kind: LogLeftPane, Text: StrRef{Offset: 6, Len: 1}}},
		{"log other", "L\t2\t2\ta\tb\r\n", Log{ID: 2, Kind: LogOther, Text: StrRef{Offset: 6, Len: 3}}},
		{"stage start", "S\t5\t2\tDecode\n", PipelineStage{Start: true, ID: 5, LaneID: 2, Name: StrRef{Offset: 6, Len: 6}}},
		{"stage end", "E\t5\t2\tDecode\n", PipelineStage{Start: false, ID: 5, LaneID: 2, Name: StrRef{Offset: 6, Len: 6}}},
		{"retire", "R\t1\t9\t0\n", Retire{ID: 1, RetireID: 9, Kind: RetireCommit}},
		{"flush", "R\t1\t9\t1\n", Retire{ID: 1, RetireID: 9, Kind: RetireFlush}},
		{"dependency", "W\t8\t7\t0 \n", Dependency{ConsumerID: 8, ProducerID: 7, Kind: DepWakeUp}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := parseOne(t, tt.input)
			require.NoError(t, rec.Err)
			assert.Equal(t, 0, rec.Offset)
			assert.Equal(t, tt.want, rec.Command)
		})
	}
}

func TestParser_TextSpans(t *testing.T) {
	input := []byte("L\t10\t1\thello world\nS\t5\t2\tDecode\r\n")
	recs := collect(input)
	require.Len(t, recs, 2)

	log, ok := recs[0].Command.(Log)
	require.True(t, ok)
	assert.Equal(t, "hello world", log.Text.String(input))

	stage, ok := recs[1].Command.(PipelineStage)
	require.True(t, ok)
	assert.Equal(t, 19, recs[1].Offset)
	assert.Equal(t, "Decode", string(stage.Name.Bytes(input)))
	assert.Equal(t, 31, stage.Name.End())
}

func TestParser_Errors(t *testing.T) {
	hugeDigits := strings.Repeat("9", 25)

	tests := []struct {
		name   string
		input  string
		kind   ErrorKind
		offset int
	}{
		{"unknown tag", "X\n", UnexpectedCharacter, 0},
		{"blank line", "\n", UnexpectedCharacter, 0},
		{"bad header literal", "Kanaxa\t1\n", InvalidHeader, 4},
		{"header without tab", "Kanata 1\n", InvalidHeader, 6},
		{"header missing version", "Kanata\t", ExpectedValue, 7},
		{"header version too big", "Kanata\t4294967296\n", ValueTooBig, 17},
		{"cycle eof before value", "C\t", UnexpectedEOF, 2},
		{"cycle sign only", "C\t-", ExpectedValue, 3},
		{"cycle missing tab", "C=5\n", UnexpectedCharacter, 2},
		{"cycle too big", "C\t2147483648\n", ValueTooBig, 12},
		{"cycle too small", "C\t-2147483649\n", ValueTooBig, 13},
		{"cycle min int32 magnitude", "C\t-2147483648\n", ValueTooBig, 13},
		{"cycle huge magnitude", "C\t" + hugeDigits, ValueTooBig, 2 + len(hugeDigits)},
		{"instruction id too big", "I\t4294967296\t0\t0\n", ValueTooBig, 12},
		{"instruction huge id", "I\t" + hugeDigits + "\t0\t0\n", ValueTooBig, 2 + len(hugeDigits)},
		{"instruction short", "I\t1\t2\n", UnexpectedCharacter, 5},
		{"instruction non digit", "I\tx", ExpectedValue, 2},
		{"log invalid kind", "L\t10\tX\thello\n", InvalidLogKind, 5},
		{"log kind out of range", "L\t1\t3\tx", InvalidLogKind, 4},
		{"log kind at eof", "L\t1\t", ExpectedValue, 4},
		{"log empty text", "L\t1\t0\t\n", ExpectedText, 6},
		{"log text at eof", "L\t1\t0\t", ExpectedText, 6},
		{"stage missing name", "S\t1\t2\t", ExpectedText, 6},
		{"stage bad id", "E\tx", ExpectedValue, 2},
		{"retire invalid kind", "R\t1\t2\t2\n", InvalidRetireKind, 6},
		{"retire missing kind", "R\t1\t2\t\n", InvalidRetireKind, 6},
		{"dependency invalid kind", "W\t1\t2\t1\n", InvalidDepKind, 6},
		{"dependency truncated", "W\t1", UnexpectedCharacter, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := parseOne(t, tt.input)
			require.Error(t, rec.Err)
			assert.Nil(t, rec.Command)
			assert.Equal(t, 0, rec.Offset)

			var perr *ParseError
			require.True(t, errors.As(rec.Err, &perr))
			assert.Equal(t, tt.kind, perr.Kind)
			assert.Equal(t, tt.offset, perr.Offset)
			assert.True(t, errors.Is(rec.Err, tt.kind))
			assert.LessOrEqual(t, perr.Offset, len(tt.input))
		})
	}
}

func TestParser_LineEndings(t *testing.T) {
	recs := collect([]byte("C\t1\r\nC\t2\rC\t3\nC\t4"))
	require.Len(t, recs, 4)

	wantOffsets := []int{0, 5, 9, 13}
	for i, rec := range recs {
		require.NoError(t, rec.Err)
		assert.Equal(t, wantOffsets[i], rec.Offset)
		assert.Equal(t, Cycle{Value: int32(i + 1)}, rec.Command)
	}
}

func TestParser_TrailingBlanks(t *testing.T) {
	recs := collect([]byte("R\t1\t2\t0 \t \nW\t3\t4\t0\t\n"))
	require.Len(t, recs, 2)
	require.NoError(t, recs[0].Err)
	require.NoError(t, recs[1].Err)
	assert.Equal(t, 11, recs[1].Offset)
	assert.Equal(t, Dependency{ConsumerID: 3, ProducerID: 4}, recs[1].Command)
}

func TestParser_EmptyInput(t *testing.T) {
	p := New(nil)
	assert.True(t, p.Done())
	_, ok := p.Next()
	assert.False(t, ok)
	assert.Empty(t, collect([]byte{}))
}

func TestParser_ResumesWhereRuleStopped(t *testing.T) {
	recs := collect([]byte("C\tx\nC\t1\n"))
	require.Len(t, recs, 4)

	assert.ErrorIs(t, recs[0].Err, ExpectedValue)
	assert.Equal(t, 0, recs[0].Offset)

	// The cursor stopped on 'x' and then on the newline.
	assert.ErrorIs(t, recs[1].Err, UnexpectedCharacter)
	assert.Equal(t, 2, recs[1].Offset)
	assert.ErrorIs(t, recs[2].Err, UnexpectedCharacter)
	assert.Equal(t, 3, recs[2].Offset)

	require.NoError(t, recs[3].Err)
	assert.Equal(t, 4, recs[3].Offset)
	assert.Equal(t, Cycle{Value: 1}, recs[3].Command)
}

func TestParser_SkipLine(t *testing.T) {
	p := New([]byte("Q\tjunk\r\nC\t1\nQ"))

	rec, ok := p.Next()
	require.True(t, ok)
	assert.ErrorIs(t, rec.Err, UnexpectedCharacter)

	p.SkipLine()
	assert.Equal(t, 8, p.Offset())

	rec, ok = p.Next()
	require.True(t, ok)
	require.NoError(t, rec.Err)
	assert.Equal(t, Cycle{Value: 1}, rec.Command)

	rec, ok = p.Next()
	require.True(t, ok)
	assert.ErrorIs(t, rec.Err, UnexpectedCharacter)

	p.SkipLine()
	assert.True(t, p.Done())
	_, ok = p.Next()
	assert.False(t, ok)
}

func TestParser_SkipLineFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"error mid line", "C\tx\nC\t1\n", 4},
		{"blank LF line", "\nC\t1\n", 1},
		{"bare CR", "\rC\t1\n", 1},
		{"blank CRLF line", "\r\nC\t1\n", 2},
		{"no terminator", "C\tx", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New([]byte(tt.input))
			rec, ok := p.Next()
			require.True(t, ok)
			require.Error(t, rec.Err)

			p.SkipLineFrom(rec.Offset)
			assert.Equal(t, tt.want, p.Offset())
		})
	}
}

func TestParser_SkipLineFromNeverRewinds(t *testing.T) {
	p := New([]byte("C\t1\nC\t2\n"))
	_, _ = p.Next()
	_, _ = p.Next()
	p.SkipLineFrom(0)
	assert.Equal(t, 8, p.Offset())
	assert.True(t, p.Done())
}

func TestParser_AllStopsEarly(t *testing.T) {
	p := New([]byte("C\t1\nC\t2\nC\t3\n"))
	n := 0
	for range p.All() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
	assert.Equal(t, 8, p.Offset())

	rec, ok := p.Next()
	require.True(t, ok)
	assert.Equal(t, Cycle{Value: 3}, rec.Command)
}

func TestParser_SampleLogs(t *testing.T) {
	tests := []struct {
		file    string
		records int
	}{
		{"kanata-sample-1.log", 25},
		{"kanata-sample-2.log", 20001},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			input, err := os.ReadFile(filepath.Join("testdata", tt.file))
			require.NoError(t, err)

			recs := collect(input)
			require.Len(t, recs, tt.records)
			for _, rec := range recs {
				require.NoError(t, rec.Err, "record at offset %d", rec.Offset)
			}
			assert.Equal(t, Header{Version: 4}, recs[0].Command)
		})
	}
}

func TestParser_SharedBufferConcurrentUse(t *testing.T) {
	input, err := os.ReadFile(filepath.Join("testdata", "kanata-sample-2.log"))
	require.NoError(t, err)
	want := collect(input)

	const workers = 8
	results := make([][]Record, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = collect(input)
		}(i)
	}
	wg.Wait()

	for i := range results {
		assert.Equal(t, want, results[i])
	}
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Offset: 12, Kind: ValueTooBig}
	assert.Equal(t, "offset 12: value too big", err.Error())
	assert.ErrorIs(t, err, ValueTooBig)
	assert.NotErrorIs(t, err, ExpectedValue)
	assert.Len(t, ErrorKinds(), 9)
}

func TestKinds_String(t *testing.T) {
	assert.Equal(t, "left", LogLeftPane.String())
	assert.Equal(t, "hover", LogMouseOver.String())
	assert.Equal(t, "other", LogOther.String())
	assert.Equal(t, "retire", RetireCommit.String())
	assert.Equal(t, "flush", RetireFlush.String())
	assert.Equal(t, "wakeup", DepWakeUp.String())
	assert.Equal(t, "LogKind(9)", LogKind(9).String())
}

// FuzzParser checks that arbitrary input never panics, every error offset
// lies inside the buffer and every pull makes progress.
func FuzzParser(f *testing.F) {
	seeds := []string{
		"Kanata\t3\n",
		"C=\t5\nC\t-3\n",
		"L\t10\t1\thello world\n",
		"S\t5\t2\tDecode\nE\t5\t2\tDecode\n",
		"R\t1\t9\t1\nW\t2\t1\t0\n",
		"I\t1\t2\t3\r\n",
		"L\t10\tX\thello\n",
		"",
		"\r\n\t",
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}

	f.Fuzz(func(t *testing.T, input []byte) {
		p := New(input)
		last := -1
		pulls := 0
		for rec := range p.All() {
			pulls++
			if rec.Offset <= last {
				t.Fatalf("no progress: record at %d after %d", rec.Offset, last)
			}
			last = rec.Offset
			if rec.Err != nil {
				var perr *ParseError
				if !errors.As(rec.Err, &perr) {
					t.Fatalf("untyped error %v", rec.Err)
				}
				if perr.Offset < rec.Offset || perr.Offset > len(input) {
					t.Fatalf("error offset %d outside [%d, %d]", perr.Offset, rec.Offset, len(input))
				}
			}
			if pulls > len(input) {
				t.Fatalf("more pulls than input bytes")
			}
		}
		if !p.Done() {
			t.Fatalf("iteration ended at %d of %d", p.Offset(), len(input))
		}
	})
}
