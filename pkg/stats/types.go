// Package stats summarises a stream of Kanata trace events.
package stats

import (
	"time"

	"github.com/ccollicutt/kanata/pkg/kanata"
)

// Record kind names used as keys in Summary.Counts.
const (
	KindHeader      = "header"
	KindCycle       = "cycle"
	KindInstruction = "instruction"
	KindLog         = "log"
	KindStageStart  = "stage_start"
	KindStageEnd    = "stage_end"
	KindRetire      = "retire"
	KindFlush       = "flush"
	KindDependency  = "dependency"
)

// KindOf returns the record kind name of cmd.
func KindOf(cmd kanata.Command) string {
	switch cmd := cmd.(type) {
	case kanata.Header:
		return KindHeader
	case kanata.Cycle:
		return KindCycle
	case kanata.Instruction:
		return KindInstruction
	case kanata.Log:
		return KindLog
	case kanata.PipelineStage:
		if cmd.Start {
			return KindStageStart
		}
		return KindStageEnd
	case kanata.Retire:
		if cmd.Kind == kanata.RetireFlush {
			return KindFlush
		}
		return KindRetire
	case kanata.Dependency:
		return KindDependency
	}
	return ""
}

// Summary is the result of analysing one or more traces.
type Summary struct {
	// Sources lists the trace files in the order they were read.
	Sources []string `json:"sources"`

	// Version is the format version from the last header seen.
	Version uint32 `json:"version"`

	// Records is the number of successfully decoded records.
	Records int `json:"records"`

	// Errors is the number of parse errors.
	Errors int `json:"errors"`

	// Counts holds decoded records per kind.
	Counts map[string]int `json:"counts"`

	// ErrorKinds holds parse errors per error kind.
	ErrorKinds map[string]int `json:"error_kinds,omitempty"`

	// Cycles is the highest cycle reached in any trace.
	Cycles int64 `json:"cycles"`

	Instructions int `json:"instructions"`
	Retired      int `json:"retired"`
	Flushed      int `json:"flushed"`
	Dependencies int `json:"dependencies"`

	// Lanes is the number of distinct lane ids used by stage records.
	Lanes int `json:"lanes"`

	// Stages holds occupancy per stage name, sorted by name.
	Stages []StageStat `json:"stages"`

	// OpenStages counts stages that were started but never ended.
	OpenStages int `json:"open_stages"`

	// UnmatchedEnds counts stage ends without a matching start.
	UnmatchedEnds int `json:"unmatched_ends"`

	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// StageStat describes how long instructions spent in one stage.
type StageStat struct {
	Name        string `json:"name"`
	Count       int    `json:"count"`
	TotalCycles int64  `json:"total_cycles"`
	MaxCycles   int64  `json:"max_cycles"`
}

// MeanCycles returns the average stage residency.
func (s StageStat) MeanCycles() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.TotalCycles) / float64(s.Count)
}

// IPC returns retired instructions per cycle.
func (s *Summary) IPC() float64 {
	if s.Cycles <= 0 {
		return 0
	}
	return float64(s.Retired) / float64(s.Cycles)
}

// HasErrors returns true if any parse error was seen.
func (s *Summary) HasErrors() bool {
	return s.Errors > 0
}
