package config

import (
	"os"

	"github.com/ccollicutt/kanata/pkg/source"
)

// Default values for configuration.
const (
	DefaultLogLevel        = "warn"
	DefaultOutput          = string(OutputText)
	DefaultResync          = source.ResyncLine
	DefaultBenchIterations = 10
	DefaultBenchWarmup     = 1
)

// Environment variable names.
const (
	EnvLogLevel = "KANATA_LOG_LEVEL"
	EnvOutput   = "KANATA_OUTPUT"
	EnvResync   = "KANATA_RESYNC"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Output:   DefaultOutput,
		Resync:   DefaultResync,
		Sources:  []string{},
		Bench: BenchConfig{
			Iterations: DefaultBenchIterations,
			Warmup:     DefaultBenchWarmup,
		},
	}
}

// ApplyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvironmentOverrides() {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = level
	}
	if format := os.Getenv(EnvOutput); format != "" {
		c.Output = format
	}
	if resync := os.Getenv(EnvResync); resync != "" {
		c.Resync = source.ResyncPolicy(resync)
	}
}
