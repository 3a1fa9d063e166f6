package stats

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/kanata/pkg/kanata"
	"github.com/ccollicutt/kanata/pkg/source"
)

func TestAnalyze_SampleTrace(t *testing.T) {
	path := filepath.Join("..", "kanata", "testdata", "kanata-sample-1.log")
	src := source.NewFileSource([]string{path}, source.Options{})
	defer src.Close()

	s, err := Analyze(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, []string{path}, s.Sources)
	assert.Equal(t, uint32(4), s.Version)
	assert.Equal(t, 25, s.Records)
	assert.False(t, s.HasErrors())
	assert.Equal(t, map[string]int{
		KindHeader:      1,
		KindCycle:       4,
		KindInstruction: 2,
		KindLog:         3,
		KindStageStart:  6,
		KindStageEnd:    6,
		KindRetire:      1,
		KindFlush:       1,
		KindDependency:  1,
	}, s.Counts)
	assert.Equal(t, int64(3), s.Cycles)
	assert.Equal(t, 2, s.Instructions)
	assert.Equal(t, 1, s.Retired)
	assert.Equal(t, 1, s.Flushed)
	assert.Equal(t, 1, s.Dependencies)
	assert.Equal(t, 1, s.Lanes)
	assert.Zero(t, s.OpenStages)
	assert.Zero(t, s.UnmatchedEnds)
	assert.InDelta(t, 1.0/3.0, s.IPC(), 1e-9)

	require.Len(t, s.Stages, 3)
	for i, name := range []string{"Cm", "F", "Rn"} {
		st := s.Stages[i]
		assert.Equal(t, name, st.Name)
		assert.Equal(t, 2, st.Count)
		assert.Equal(t, int64(2), st.TotalCycles)
		assert.Equal(t, int64(1), st.MaxCycles)
		assert.InDelta(t, 1.0, st.MeanCycles(), 1e-9)
	}
}

func TestAnalyze_CountsErrors(t *testing.T) {
	input := "Kanata\t4\nL\t0\t7\tbad kind\nS\t0\t1\tX\nE\t1\t1\tX\n"
	src := source.NewBufferSource("mem", []byte(input), source.Options{Resync: source.ResyncLine})

	s, err := Analyze(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, 1, s.Errors)
	assert.Equal(t, map[string]int{"invalid log kind": 1}, s.ErrorKinds)
	assert.Equal(t, 3, s.Records)
	assert.Equal(t, 1, s.OpenStages)
	assert.Equal(t, 1, s.UnmatchedEnds)
	assert.Equal(t, 1, s.Lanes)
	assert.Empty(t, s.Stages)
}

func TestAnalyze_SourceError(t *testing.T) {
	src := source.NewBufferSource("mem", []byte("???"), source.Options{MaxErrors: 1})
	_, err := Analyze(context.Background(), src)
	assert.ErrorIs(t, err, source.ErrTooManyErrors)
}

func TestCollector_CycleRestartsPerSource(t *testing.T) {
	c := NewCollector()
	c.Process(&source.Event{Source: "a", Command: kanata.Cycle{Abs: true, Value: 100}})
	c.Process(&source.Event{Source: "a", Command: kanata.Cycle{Value: 5}})
	c.Process(&source.Event{Source: "b", Command: kanata.Cycle{Value: 7}})

	s := c.Finalize()
	assert.Equal(t, int64(105), s.Cycles)
	assert.Equal(t, []string{"a", "b"}, s.Sources)

	c.Reset()
	assert.Zero(t, c.Finalize().Records)
}

func TestCollector_StageResidency(t *testing.T) {
	input := []byte("S\t1\t0\tEx\nC\t3\nS\t2\t1\tEx\nC\t4\nE\t1\t0\tEx\nE\t2\t1\tEx\n")
	c := NewCollector()
	p := kanata.New(input)
	for rec := range p.All() {
		require.NoError(t, rec.Err)
		c.Process(&source.Event{Source: "mem", Input: input, Command: rec.Command})
	}

	s := c.Finalize()
	require.Len(t, s.Stages, 1)
	assert.Equal(t, StageStat{Name: "Ex", Count: 2, TotalCycles: 11, MaxCycles: 7}, s.Stages[0])
	assert.Equal(t, 2, s.Lanes)
}
