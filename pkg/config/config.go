/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the skyc tool configuration
type Config struct {
	Stats   Stats   `yaml:"stats"`
	Logging Logging `yaml:"logging"`
}

// Stats contains the vertical motion model used by the statistics command
type Stats struct {
	TakeoffSpeed         float64 `yaml:"takeoff_speed_mm_s"`
	Acceleration         float64 `yaml:"acceleration_mm_s2"`
	MinAscent            float64 `yaml:"min_ascent_mm"`
	PreferredDescent     float64 `yaml:"preferred_descent_mm"`
	VerticalityThreshold float64 `yaml:"verticality_threshold_mm"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Stats: Stats{
			TakeoffSpeed:         2000,
			Acceleration:         4000,
			MinAscent:            2500,
			PreferredDescent:     5000,
			VerticalityThreshold: 50,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from the specified path. Fields missing
// from the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the motion model parameters are usable. Speeds and
// distances must be positive; the verticality threshold may be zero to
// classify every leg as non-vertical.
func (c *Config) Validate() error {
	if c.Stats.TakeoffSpeed <= 0 {
		return fmt.Errorf("takeoff_speed_mm_s must be positive, got %v", c.Stats.TakeoffSpeed)
	}
	if c.Stats.Acceleration <= 0 {
		return fmt.Errorf("acceleration_mm_s2 must be positive, got %v", c.Stats.Acceleration)
	}
	if c.Stats.MinAscent <= 0 {
		return fmt.Errorf("min_ascent_mm must be positive, got %v", c.Stats.MinAscent)
	}
	if c.Stats.PreferredDescent <= 0 {
		return fmt.Errorf("preferred_descent_mm must be positive, got %v", c.Stats.PreferredDescent)
	}
	if c.Stats.VerticalityThreshold < 0 {
		return fmt.Errorf("verticality_threshold_mm must not be negative, got %v", c.Stats.VerticalityThreshold)
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./skyc.yaml"
	}

	configDir := filepath.Join(homeDir, ".config", "skyc")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
