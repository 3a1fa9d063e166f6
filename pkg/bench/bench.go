// Package bench measures parser throughput over in-memory traces.
package bench

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ccollicutt/kanata/pkg/kanata"
)

// Options controls a benchmark run.
type Options struct {
	// Iterations is the number of timed passes. Values below 1 mean 1.
	Iterations int

	// Warmup is the number of untimed passes run first.
	Warmup int
}

// Result is the outcome of benchmarking one trace.
type Result struct {
	Name       string        `json:"name"`
	Bytes      int           `json:"bytes"`
	Records    int           `json:"records"`
	Errors     int           `json:"errors"`
	Iterations int           `json:"iterations"`
	Elapsed    time.Duration `json:"elapsed"`
}

// PerIteration returns the mean time of one pass.
func (r Result) PerIteration() time.Duration {
	if r.Iterations == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Iterations)
}

// MBPerSecond returns throughput in megabytes (10^6 bytes) per second.
func (r Result) MBPerSecond() float64 {
	secs := r.Elapsed.Seconds()
	if secs == 0 {
		return 0
	}
	return float64(r.Bytes) * float64(r.Iterations) / 1e6 / secs
}

// RecordsPerSecond returns decoded records per second.
func (r Result) RecordsPerSecond() float64 {
	secs := r.Elapsed.Seconds()
	if secs == 0 {
		return 0
	}
	return float64(r.Records) * float64(r.Iterations) / secs
}

// Drain parses input to the end and returns the number of records and
// parse errors. Errors never stop the pass.
func Drain(input []byte) (records, errs int) {
	for rec := range kanata.New(input).All() {
		if rec.Err != nil {
			errs++
			continue
		}
		records++
	}
	return records, errs
}

// Run benchmarks the parser over input. Cancellation is checked between
// passes.
func Run(ctx context.Context, name string, input []byte, opts Options) (Result, error) {
	if opts.Iterations < 1 {
		opts.Iterations = 1
	}

	res := Result{Name: name, Bytes: len(input), Iterations: opts.Iterations}

	for i := 0; i < opts.Warmup; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		Drain(input)
	}

	logrus.WithFields(logrus.Fields{
		"trace":      name,
		"bytes":      len(input),
		"iterations": opts.Iterations,
		"warmup":     opts.Warmup,
	}).Debug("benchmarking")

	var elapsed time.Duration
	for i := 0; i < opts.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		start := time.Now()
		records, errs := Drain(input)
		elapsed += time.Since(start)

		if i == 0 {
			res.Records, res.Errors = records, errs
		} else if records != res.Records || errs != res.Errors {
			return res, errNondeterministic
		}
	}
	res.Elapsed = elapsed

	return res, nil
}

var errNondeterministic = errors.New("parser produced different results across passes")
