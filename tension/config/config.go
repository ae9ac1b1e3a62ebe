package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/RyanBlaney/capillary/algorithms/stats"
	"github.com/RyanBlaney/capillary/algorithms/windowing"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the complete analysis configuration
type Config struct {
	Histogram HistogramConfig `yaml:"histogram" json:"histogram"`
	Ripple    RippleConfig    `yaml:"ripple" json:"ripple"`
	Camera    CameraConfig    `yaml:"camera" json:"camera"`
	Analysis  AnalysisConfig  `yaml:"analysis" json:"analysis"`
}

// HistogramConfig configures the two-pass wavelength histogram
type HistogramConfig struct {
	stats.HistogramConfig `yaml:",inline" json:",inline"`
	Bins                  int `yaml:"bins" json:"bins"` // fine bin count
}

// RippleConfig holds the physics of the excited surface wave
type RippleConfig struct {
	FrequencyHz float64 `yaml:"frequency_hz" json:"frequency_hz"`   // vibration frequency driving the ripples
	Gravity     float64 `yaml:"gravity" json:"gravity"`             // m/s^2
	Density     float64 `yaml:"density_kg_m3" json:"density_kg_m3"` // liquid density
}

// CameraConfig converts pixel distances to meters
type CameraConfig struct {
	ResolutionConstant  float64 `yaml:"resolution_constant" json:"resolution_constant"`     // pixels per meter at the reference distance
	ReferenceDistanceMM float64 `yaml:"reference_distance_mm" json:"reference_distance_mm"` // distance the constant was calibrated at
	ResizeFactor        float64 `yaml:"resize_factor" json:"resize_factor"`                 // downscale applied to frames before analysis
}

// AnalysisConfig controls the per-frame wavelength estimation
type AnalysisConfig struct {
	Window  windowing.Type `yaml:"window" json:"window"`   // hann, hamming, blackman or none
	Workers int            `yaml:"workers" json:"workers"` // 0 picks a count from the CPU number
}

// DefaultConfig returns the calibration of the reference rig
func DefaultConfig() *Config {
	return &Config{
		Histogram: HistogramConfig{
			HistogramConfig: stats.DefaultHistogramConfig(),
			Bins:            20,
		},
		Ripple: RippleConfig{
			FrequencyHz: 144.5,
			Gravity:     9.8,
			Density:     1000,
		},
		Camera: CameraConfig{
			ResolutionConstant:  39500,
			ReferenceDistanceMM: 87,
			ResizeFactor:        1,
		},
		Analysis: AnalysisConfig{
			Window:  windowing.TypeHann,
			Workers: 0,
		},
	}
}

// Load reads a YAML file over DefaultConfig and validates the result
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over DefaultConfig and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section
func (c *Config) Validate() error {
	if err := c.Histogram.HistogramConfig.Validate(); err != nil {
		return fmt.Errorf("%w: histogram: %v", ErrInvalidConfig, err)
	}
	if c.Histogram.Bins < 3 {
		return fmt.Errorf("%w: histogram.bins must be at least 3, got %d", ErrInvalidConfig, c.Histogram.Bins)
	}

	if c.Ripple.FrequencyHz <= 0 {
		return fmt.Errorf("%w: ripple.frequency_hz must be positive", ErrInvalidConfig)
	}
	if c.Ripple.Gravity < 0 {
		return fmt.Errorf("%w: ripple.gravity must not be negative", ErrInvalidConfig)
	}
	if c.Ripple.Density <= 0 {
		return fmt.Errorf("%w: ripple.density_kg_m3 must be positive", ErrInvalidConfig)
	}

	if c.Camera.ResolutionConstant <= 0 || c.Camera.ReferenceDistanceMM <= 0 || c.Camera.ResizeFactor <= 0 {
		return fmt.Errorf("%w: camera values must be positive", ErrInvalidConfig)
	}

	if !c.Analysis.Window.Valid() {
		return fmt.Errorf("%w: unknown analysis.window %q", ErrInvalidConfig, c.Analysis.Window)
	}
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("%w: analysis.workers must not be negative", ErrInvalidConfig)
	}

	return nil
}
