package stats

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/ccollicutt/kanata/pkg/kanata"
	"github.com/ccollicutt/kanata/pkg/source"
)

type stageKey struct {
	source string
	id     uint32
	lane   uint32
	name   string
}

// Collector accumulates statistics one event at a time.
type Collector struct {
	summary Summary
	stages  map[string]*StageStat
	open    map[stageKey]int64
	lanes   map[uint32]bool
	sources map[string]bool

	current string
	cycle   int64
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	c := &Collector{}
	c.Reset()
	return c
}

// Reset clears internal state for reuse.
func (c *Collector) Reset() {
	c.summary = Summary{
		Counts:     make(map[string]int),
		ErrorKinds: make(map[string]int),
		StartTime:  time.Now(),
	}
	c.stages = make(map[string]*StageStat)
	c.open = make(map[stageKey]int64)
	c.lanes = make(map[uint32]bool)
	c.sources = make(map[string]bool)
	c.current = ""
	c.cycle = 0
}

// Process handles a single event, updating internal state.
func (c *Collector) Process(ev *source.Event) {
	if ev.Source != c.current {
		// cycles restart with every trace
		c.current = ev.Source
		c.cycle = 0
	}
	if !c.sources[ev.Source] {
		c.sources[ev.Source] = true
		c.summary.Sources = append(c.summary.Sources, ev.Source)
	}

	if ev.Err != nil {
		c.summary.Errors++
		var perr *kanata.ParseError
		if errors.As(ev.Err, &perr) {
			c.summary.ErrorKinds[perr.Kind.String()]++
		}
		return
	}

	c.summary.Records++
	c.summary.Counts[KindOf(ev.Command)]++

	switch cmd := ev.Command.(type) {
	case kanata.Header:
		c.summary.Version = cmd.Version

	case kanata.Cycle:
		if cmd.Abs {
			c.cycle = int64(cmd.Value)
		} else {
			c.cycle += int64(cmd.Value)
		}
		if c.cycle > c.summary.Cycles {
			c.summary.Cycles = c.cycle
		}

	case kanata.Instruction:
		c.summary.Instructions++

	case kanata.PipelineStage:
		c.lanes[cmd.LaneID] = true
		key := stageKey{source: ev.Source, id: cmd.ID, lane: cmd.LaneID, name: ev.Text(cmd.Name)}
		if cmd.Start {
			c.open[key] = c.cycle
		} else {
			c.endStage(key)
		}

	case kanata.Retire:
		if cmd.Kind == kanata.RetireFlush {
			c.summary.Flushed++
		} else {
			c.summary.Retired++
		}

	case kanata.Dependency:
		c.summary.Dependencies++
	}
}

func (c *Collector) endStage(key stageKey) {
	start, ok := c.open[key]
	if !ok {
		c.summary.UnmatchedEnds++
		return
	}
	delete(c.open, key)

	st := c.stages[key.name]
	if st == nil {
		st = &StageStat{Name: key.name}
		c.stages[key.name] = st
	}
	d := c.cycle - start
	st.Count++
	st.TotalCycles += d
	if d > st.MaxCycles {
		st.MaxCycles = d
	}
}

// Finalize completes analysis and returns the summary.
func (c *Collector) Finalize() *Summary {
	s := c.summary
	s.Lanes = len(c.lanes)
	s.OpenStages = len(c.open)
	s.Stages = make([]StageStat, 0, len(c.stages))
	for _, st := range c.stages {
		s.Stages = append(s.Stages, *st)
	}
	sort.Slice(s.Stages, func(i, j int) bool {
		return s.Stages[i].Name < s.Stages[j].Name
	})
	s.Duration = time.Since(s.StartTime)
	return &s
}

// Analyze drains src through a fresh collector.
func Analyze(ctx context.Context, src source.Source) (*Summary, error) {
	c := NewCollector()
	for {
		ev, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading trace source: %w", err)
		}
		c.Process(ev)
	}
	return c.Finalize(), nil
}
