// Package config provides configuration loading and validation for kanata.
package config

import "github.com/ccollicutt/kanata/pkg/source"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// LogLevel is a logrus level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// Output is the event and report format: text or json.
	Output string `yaml:"output"`

	// Resync decides how reading continues after a parse error.
	Resync source.ResyncPolicy `yaml:"resync"`

	// MaxErrors aborts reading after this many parse errors. 0 is unlimited.
	MaxErrors int `yaml:"max_errors"`

	// Sources are glob patterns used when no files are given on the
	// command line. Entries of the form $VAR or ${VAR} are read from the
	// environment.
	Sources []string `yaml:"sources,omitempty"`

	Bench BenchConfig `yaml:"bench"`
}

// BenchConfig controls the bench command.
type BenchConfig struct {
	// Iterations is the number of timed passes over each input.
	Iterations int `yaml:"iterations"`

	// Warmup is the number of untimed passes run first.
	Warmup int `yaml:"warmup"`
}

// OutputFormat names a supported output format.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
)

// SourceOptions returns the options for opening a trace source.
func (c *Config) SourceOptions() source.Options {
	return source.Options{
		Resync:    c.Resync,
		MaxErrors: c.MaxErrors,
	}
}
