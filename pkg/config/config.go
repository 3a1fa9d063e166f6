package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.ApplyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and fills in defaults for
// zero values.
func Validate(cfg *Config) error {
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	switch OutputFormat(cfg.Output) {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("output: invalid format %q (must be text or json)", cfg.Output)
	}

	if cfg.Resync == "" {
		cfg.Resync = DefaultResync
	}
	if !cfg.Resync.IsValid() {
		return fmt.Errorf("resync: invalid policy %q (must be none, line, or stop)", cfg.Resync)
	}

	if cfg.MaxErrors < 0 {
		return errors.New("max_errors: must be >= 0")
	}

	for i, pattern := range cfg.Sources {
		expanded := expandEnvVar(pattern)
		if expanded == "" {
			return fmt.Errorf("sources[%d]: %q is empty", i, pattern)
		}
		cfg.Sources[i] = expanded
	}

	if err := validateBench(&cfg.Bench); err != nil {
		return fmt.Errorf("bench: %w", err)
	}

	return nil
}

func validateBench(b *BenchConfig) error {
	if b.Iterations < 0 {
		return errors.New("iterations must be >= 0")
	}
	if b.Warmup < 0 {
		return errors.New("warmup must be >= 0")
	}
	if b.Iterations == 0 {
		b.Iterations = DefaultBenchIterations
	}
	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	// Handle ${VAR} format
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}

	// Handle $VAR format (no braces)
	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		return os.Getenv(s[1:])
	}

	return s
}
