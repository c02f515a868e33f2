// Package config handles terrascape configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/terrascape/internal/pipeline"
	"github.com/Faultbox/terrascape/internal/projection"
	"github.com/Faultbox/terrascape/internal/terrain"
	"github.com/Faultbox/terrascape/pkg/formats"
)

// ErrInvalid is returned by Validate for unusable settings.
var ErrInvalid = errors.New("invalid config")

// Config holds all pipeline settings.
type Config struct {
	Terrain    TerrainConfig     `yaml:"terrain"`
	Projection projection.Params `yaml:"projection"`
	Contours   ContourConfig     `yaml:"contours"`
	Source     formats.Source    `yaml:"source"`
	Runner     RunnerConfig      `yaml:"runner"`
	Logging    LoggingConfig     `yaml:"logging"`
}

// TerrainConfig holds synthetic terrain settings.
type TerrainConfig struct {
	Segments     int     `yaml:"segments"`
	Size         float64 `yaml:"size"`
	Frequency    float64 `yaml:"frequency"`
	Amplitude    float64 `yaml:"amplitude"`
	Basis        string  `yaml:"basis"` // trig or perlin
	Seed         int64   `yaml:"seed"`
	Markers      int     `yaml:"markers"`
	MarkerJitter float64 `yaml:"marker_jitter"`
}

// ContourConfig holds band and coloring settings.
type ContourConfig struct {
	Bands     int `yaml:"bands"`
	RampSteps int `yaml:"ramp_steps"` // 0 means 12, negative disables banding
}

// RunnerConfig holds async runner settings.
type RunnerConfig struct {
	CacheSize int `yaml:"cache_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	synth := terrain.DefaultSynthParams()
	return &Config{
		Terrain: TerrainConfig{
			Segments:     synth.Segments,
			Size:         synth.Size,
			Frequency:    synth.Frequency,
			Amplitude:    synth.Amplitude,
			Basis:        string(synth.Basis),
			MarkerJitter: 1.5,
		},
		Projection: projection.Identity(),
		Contours: ContourConfig{
			Bands:     10,
			RampSteps: terrain.DefaultRamp.Steps,
		},
		Source: formats.Source{
			HeightField: "elevation",
			HeightScale: 1,
		},
		Runner: RunnerConfig{
			CacheSize: pipeline.DefaultCacheSize,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	if err := c.Projection.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Terrain.Segments < 1 {
		return fmt.Errorf("%w: terrain.segments must be positive, got %d", ErrInvalid, c.Terrain.Segments)
	}
	if c.Terrain.Size <= 0 {
		return fmt.Errorf("%w: terrain.size must be positive, got %v", ErrInvalid, c.Terrain.Size)
	}
	if _, err := terrain.NewNoise(terrain.Basis(c.Terrain.Basis), c.Terrain.Seed); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Terrain.Markers < 0 {
		return fmt.Errorf("%w: terrain.markers must not be negative", ErrInvalid)
	}
	if c.Contours.Bands < 0 {
		return fmt.Errorf("%w: contours.bands must not be negative", ErrInvalid)
	}
	if c.Runner.CacheSize < 0 {
		return fmt.Errorf("%w: runner.cache_size must not be negative", ErrInvalid)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %v", ErrInvalid, err)
	}
	return nil
}

// SynthParams returns the synthetic terrain parameters.
func (c *Config) SynthParams() terrain.SynthParams {
	return terrain.SynthParams{
		Segments:  c.Terrain.Segments,
		Size:      c.Terrain.Size,
		Frequency: c.Terrain.Frequency,
		Amplitude: c.Terrain.Amplitude,
		Basis:     terrain.Basis(c.Terrain.Basis),
		Seed:      c.Terrain.Seed,
	}
}

// Options returns the pipeline options.
func (c *Config) Options() pipeline.Options {
	return pipeline.Options{
		Bands:        c.Contours.Bands,
		Ramp:         terrain.ColorRamp{Steps: c.Contours.RampSteps},
		Markers:      c.Terrain.Markers,
		MarkerJitter: c.Terrain.MarkerJitter,
		MarkerSeed:   uint64(c.Terrain.Seed),
	}
}
