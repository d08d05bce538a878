// Package config provides configuration loading and management for silhouette3d.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// DefaultThreshold is the intensity cutoff separating solid from empty pixels
const DefaultThreshold = 128

// DefaultMarkerColor is the colour used to paint unexplained silhouette pixels
const DefaultMarkerColor = "#ff00ff"

// Config represents the application configuration loaded from YAML
type Config struct {
	// Processing parameters
	Processing struct {
		// NumCores specifies how many CPU cores to use for the carving pass
		NumCores int `yaml:"numCores"`
	} `yaml:"processing"`

	// Thresholding of the input silhouettes
	Threshold struct {
		// Level is the intensity at or above which a pixel counts as bright
		Level int `yaml:"level"`

		// Invert makes dark pixels solid instead of bright ones
		Invert bool `yaml:"invert"`
	} `yaml:"threshold"`

	// Mesh parameters
	Mesh struct {
		// Scale is the voxel edge length along each axis in output units
		Scale struct {
			X float64 `yaml:"x"`
			Y float64 `yaml:"y"`
			Z float64 `yaml:"z"`
		} `yaml:"scale"`
	} `yaml:"mesh"`

	// Output parameters
	Output struct {
		// SaveAnnotated determines whether the annotated silhouettes are written
		SaveAnnotated bool `yaml:"saveAnnotated"`

		// MarkerColor is a hex colour for unexplained pixels
		MarkerColor string `yaml:"markerColor"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Processing.NumCores = runtime.NumCPU()

	cfg.Threshold.Level = DefaultThreshold
	cfg.Threshold.Invert = false

	cfg.Mesh.Scale.X = 1.0
	cfg.Mesh.Scale.Y = 1.0
	cfg.Mesh.Scale.Z = 1.0

	cfg.Output.SaveAnnotated = true
	cfg.Output.MarkerColor = DefaultMarkerColor
	cfg.Output.Verbose = true

	return cfg
}

// Validate checks value ranges that YAML cannot express
func (c *Config) Validate() error {
	if c.Processing.NumCores < 1 {
		return fmt.Errorf("processing.numCores must be at least 1, got %d", c.Processing.NumCores)
	}
	if c.Threshold.Level < 0 || c.Threshold.Level > 255 {
		return fmt.Errorf("threshold.level must be within 0-255, got %d", c.Threshold.Level)
	}
	if c.Mesh.Scale.X <= 0 || c.Mesh.Scale.Y <= 0 || c.Mesh.Scale.Z <= 0 {
		return fmt.Errorf("mesh.scale components must be positive")
	}
	if _, err := c.Marker(); err != nil {
		return err
	}
	return nil
}

// Marker parses Output.MarkerColor
func (c *Config) Marker() (colorful.Color, error) {
	col, err := colorful.Hex(c.Output.MarkerColor)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid output.markerColor %q: %w", c.Output.MarkerColor, err)
	}
	return col, nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
