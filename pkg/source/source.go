package source

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ccollicutt/kanata/pkg/kanata"
)

type input struct {
	path  string
	trace *Trace
}

// FileSource implements Source over one or more trace files, read in order.
type FileSource struct {
	inputs []input
	opts   Options

	current   *Trace
	parser    *kanata.Parser
	lines     lineCounter
	stopped   bool
	inputIdx  int
	records   int
	fileErrs  int
	totalErrs int
}

// NewFileSource creates a Source that reads the given trace files.
func NewFileSource(files []string, opts Options) *FileSource {
	inputs := make([]input, len(files))
	for i, f := range files {
		inputs[i] = input{path: f}
	}
	return newSource(inputs, opts)
}

// NewBufferSource creates a Source over an in-memory trace.
func NewBufferSource(name string, data []byte, opts Options) *FileSource {
	return newSource([]input{{
		path:  name,
		trace: &Trace{Path: name, Data: data, Compression: CompressionNone},
	}}, opts)
}

func newSource(inputs []input, opts Options) *FileSource {
	if opts.Resync == "" {
		opts.Resync = ResyncNone
	}
	return &FileSource{
		inputs:   inputs,
		opts:     opts,
		inputIdx: -1,
	}
}

// Errors returns the number of parse errors seen so far.
func (s *FileSource) Errors() int {
	return s.totalErrs
}

// Next returns the next event.
// Returns io.EOF when all files have been exhausted.
func (s *FileSource) Next(ctx context.Context) (*Event, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.parser == nil {
			if err := s.openNext(ctx); err != nil {
				return nil, err
			}
		}

		if s.stopped {
			s.finishCurrent()
			continue
		}

		rec, ok := s.parser.Next()
		if !ok {
			s.finishCurrent()
			continue
		}

		ev := &Event{
			Source:  s.current.Path,
			Input:   s.current.Data,
			Offset:  rec.Offset,
			Line:    s.lines.lineAt(rec.Offset),
			Command: rec.Command,
			Err:     rec.Err,
		}

		if rec.Err == nil {
			s.records++
			return ev, nil
		}

		s.fileErrs++
		s.totalErrs++
		logrus.WithFields(logrus.Fields{
			"file": ev.Source,
			"line": ev.Line,
		}).Debugf("parse error: %v", rec.Err)

		if s.opts.MaxErrors > 0 && s.totalErrs > s.opts.MaxErrors {
			return nil, fmt.Errorf("%w: limit is %d", ErrTooManyErrors, s.opts.MaxErrors)
		}

		switch s.opts.Resync {
		case ResyncLine:
			s.parser.SkipLineFrom(rec.Offset)
		case ResyncStop:
			s.stopped = true
		}

		return ev, nil
	}
}

// Close releases resources.
func (s *FileSource) Close() error {
	s.current = nil
	s.parser = nil
	return nil
}

func (s *FileSource) openNext(ctx context.Context) error {
	s.inputIdx++
	if s.inputIdx >= len(s.inputs) {
		return io.EOF
	}

	in := s.inputs[s.inputIdx]
	trace := in.trace
	if trace == nil {
		var err error
		trace, err = ReadTrace(ctx, in.path)
		if err != nil {
			return err
		}
	}

	logrus.WithFields(logrus.Fields{
		"file":        trace.Path,
		"bytes":       len(trace.Data),
		"compression": trace.Compression,
	}).Debug("opened trace")

	s.current = trace
	s.parser = kanata.New(trace.Data)
	s.lines = lineCounter{input: trace.Data}
	s.stopped = false
	s.records = 0
	s.fileErrs = 0
	return nil
}

func (s *FileSource) finishCurrent() {
	if s.stopped {
		logrus.WithField("file", s.current.Path).
			Warnf("stopped after parse error at offset %d", s.parser.Offset())
	}
	logrus.WithFields(logrus.Fields{
		"file":    s.current.Path,
		"records": s.records,
		"errors":  s.fileErrs,
	}).Debug("finished trace")
	s.current = nil
	s.parser = nil
}
