package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/kanata/pkg/config"
	"github.com/ccollicutt/kanata/pkg/source"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// GlobalOptions holds the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	LogLevel   string

	cfg *config.Config
}

// Config returns the effective configuration, loading it on first use.
// Without --config the defaults plus environment overrides apply.
func (g *GlobalOptions) Config(ctx context.Context) (*config.Config, error) {
	if g.cfg != nil {
		return g.cfg, nil
	}

	var cfg *config.Config
	if g.ConfigPath != "" {
		loaded, err := config.Load(ctx, g.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.DefaultConfig()
		cfg.ApplyEnvironmentOverrides()
	}

	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	g.cfg = cfg
	return cfg, nil
}

// SetupLogging applies the configured log level to logrus.
func (g *GlobalOptions) SetupLogging(ctx context.Context) error {
	cfg, err := g.Config(ctx)
	if err != nil {
		return err
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return nil
}

// traceOptions are the flags shared by commands that read traces.
type traceOptions struct {
	Resync    string
	MaxErrors int
}

func (o *traceOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Resync, "resync", "", "After a parse error: none|line|stop (default from config)")
	cmd.Flags().IntVar(&o.MaxErrors, "max-errors", 0, "Abort after this many parse errors, 0 for unlimited (default from config)")
}

// sourceOptions merges the flags over the configuration.
func (o *traceOptions) sourceOptions(cmd *cobra.Command, cfg *config.Config) (source.Options, error) {
	opts := cfg.SourceOptions()
	if cmd.Flags().Changed("resync") {
		opts.Resync = source.ResyncPolicy(o.Resync)
		if !opts.Resync.IsValid() {
			return opts, fmt.Errorf("invalid --resync %q (use none, line, or stop)", o.Resync)
		}
	}
	if cmd.Flags().Changed("max-errors") {
		if o.MaxErrors < 0 {
			return opts, errors.New("--max-errors must be >= 0")
		}
		opts.MaxErrors = o.MaxErrors
	}
	return opts, nil
}

// resolveFiles expands the trace arguments, falling back to the configured
// sources when none are given.
func resolveFiles(args []string, cfg *config.Config) ([]string, error) {
	patterns := args
	if len(patterns) == 0 {
		patterns = cfg.Sources
	}
	if len(patterns) == 0 {
		return nil, errors.New("no trace files given and no sources configured")
	}

	files, err := source.ExpandGlobs(patterns)
	if err != nil {
		return nil, fmt.Errorf("expanding trace patterns: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no trace files matched patterns: %v", patterns)
	}
	return files, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// globalsOrDefault lets commands run without a root command, as in tests.
func globalsOrDefault(g *GlobalOptions) *GlobalOptions {
	if g == nil {
		return &GlobalOptions{}
	}
	return g
}
