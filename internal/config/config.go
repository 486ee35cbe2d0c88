package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/streamtrace/internal/dynamo"
	"github.com/san-kum/streamtrace/internal/field"
	"github.com/san-kum/streamtrace/internal/integrators"
	"github.com/san-kum/streamtrace/internal/streamline"
)

const (
	DefaultSeedsPath = "seeds.csv"
	DefaultDataDir   = ".streamtrace"
	DefaultBounds    = "stall"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Paths      PathsConfig      `yaml:"paths"`
	Trace      TraceConfig      `yaml:"trace"`
	Processing ProcessingConfig `yaml:"processing"`
}

type PathsConfig struct {
	Field string `yaml:"field"`
	Seeds string `yaml:"seeds"`
	Data  string `yaml:"data"`
}

type TraceConfig struct {
	Duration  float64 `yaml:"duration"`
	Samples   int     `yaml:"samples"`
	Method    string  `yaml:"method"`
	Normalize bool    `yaml:"normalize"`
	RTol      float64 `yaml:"rtol"`
	ATol      float64 `yaml:"atol"`
	Bounds    string  `yaml:"bounds"`
	MaxSteps  int     `yaml:"max_steps"`
	Substeps  int     `yaml:"substeps"`
}

type ProcessingConfig struct {
	// Cells at or below this speed are masked before tracing.
	SpeedThreshold float64 `yaml:"speed_threshold"`
}

func DefaultConfig() *Config {
	opts := streamline.DefaultOptions()
	return &Config{
		Paths: PathsConfig{
			Seeds: DefaultSeedsPath,
			Data:  DefaultDataDir,
		},
		Trace: TraceConfig{
			Duration:  opts.Duration,
			Samples:   opts.Samples,
			Method:    opts.Method,
			Normalize: opts.Normalize,
			RTol:      opts.Tolerance.RTol,
			ATol:      opts.Tolerance.ATol,
			Bounds:    DefaultBounds,
			MaxSteps:  opts.MaxSteps,
			Substeps:  opts.Substeps,
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := mergeFile(cfg, path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadLayered reads each file in order on top of the defaults. Later files
// override earlier ones and missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()
	for _, p := range paths {
		if p == "" {
			continue
		}
		err := mergeFile(cfg, p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Processing.SpeedThreshold < 0 || math.IsNaN(c.Processing.SpeedThreshold) {
		return fmt.Errorf("%w: speed_threshold must be non-negative, got %v", ErrInvalidConfig, c.Processing.SpeedThreshold)
	}
	opts, err := c.TraceOptions()
	if err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// TraceOptions converts the trace section into streamline options.
func (c *Config) TraceOptions() (streamline.Options, error) {
	bounds, err := field.ParseBounds(c.Trace.Bounds)
	if err != nil {
		return streamline.Options{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return streamline.Options{
		Duration:  c.Trace.Duration,
		Samples:   c.Trace.Samples,
		Method:    c.Trace.Method,
		Normalize: c.Trace.Normalize,
		Tolerance: dynamo.Tolerance{RTol: c.Trace.RTol, ATol: c.Trace.ATol},
		Bounds:    bounds,
		MaxSteps:  c.Trace.MaxSteps,
		Substeps:  c.Trace.Substeps,
	}, nil
}

// MethodIsAdaptive reports whether the configured method controls its own
// step size.
func (c *Config) MethodIsAdaptive() bool {
	m, err := integrators.Lookup(c.Trace.Method)
	return err == nil && m.Adaptive
}
