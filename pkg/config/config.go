// Package config provides the unified configuration system for dataslim.
// It defines a single Config structure shared by the CLI and both analysis
// passes, with defaults that match the documented contracts of each pass.
//
// The configuration is organized into logical sections:
//   - Optimize: numeric and string optimization thresholds
//   - Classify: classifier cardinality-ratio thresholds
//   - Logging: log level and encoding
//
// Example usage:
//
//	cfg := config.NewDefaultConfig()
//	cfg.Optimize.FloatTolerance = 1e-9
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"fmt"
)

// Config is the single configuration structure for the dataslim tool.
type Config struct {
	// Optimize controls the numeric and string optimization passes
	Optimize OptimizeConfig `yaml:"optimize" json:"optimize"`

	// Classify controls the special-column classifier thresholds
	Classify ClassifyConfig `yaml:"classify" json:"classify"`

	// Logging configures structured log output
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// OptimizeConfig contains settings for the optimization passes.
type OptimizeConfig struct {
	// Verbose enables per-column and summary diagnostics
	Verbose bool `yaml:"verbose" json:"verbose"`
	// FloatTolerance is the relative tolerance a float64 value must
	// round-trip within for a float32 downcast to be taken
	FloatTolerance float64 `yaml:"float_tolerance" json:"float_tolerance"`
	// CategoricalThreshold is the distinct/rows ratio below which a string
	// column is converted to categorical encoding
	CategoricalThreshold float64 `yaml:"categorical_threshold" json:"categorical_threshold"`
}

// ClassifyConfig contains the classifier's cardinality-ratio thresholds.
type ClassifyConfig struct {
	// IDRatio is the minimum distinct/rows ratio for an ID-named column to
	// be reported as a unique identifier
	IDRatio float64 `yaml:"id_ratio" json:"id_ratio"`
	// TextRatio is the distinct/rows ratio above which a string column is
	// reported as a text entity
	TextRatio float64 `yaml:"text_ratio" json:"text_ratio"`
}

// LoggingConfig configures the zap-backed logger.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `yaml:"level" json:"level"`
	// Encoding selects the log output format (json or console)
	Encoding string `yaml:"encoding" json:"encoding"`
	// Development enables human-friendly colored output
	Development bool `yaml:"development" json:"development"`
}

// NewDefaultConfig returns a Config with the documented default thresholds.
func NewDefaultConfig() *Config {
	return &Config{
		Optimize: OptimizeConfig{
			Verbose:              true,
			FloatTolerance:       1e-6,
			CategoricalThreshold: 0.5,
		},
		Classify: ClassifyConfig{
			IDRatio:   0.9,
			TextRatio: 0.5,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// Validate checks that all thresholds are usable.
func (c *Config) Validate() error {
	if c.Optimize.FloatTolerance < 0 {
		return fmt.Errorf("optimize.float_tolerance must be non-negative, got %g", c.Optimize.FloatTolerance)
	}
	if c.Optimize.CategoricalThreshold < 0 || c.Optimize.CategoricalThreshold > 1 {
		return fmt.Errorf("optimize.categorical_threshold must be in [0,1], got %g", c.Optimize.CategoricalThreshold)
	}
	if c.Classify.IDRatio < 0 || c.Classify.IDRatio > 1 {
		return fmt.Errorf("classify.id_ratio must be in [0,1], got %g", c.Classify.IDRatio)
	}
	if c.Classify.TextRatio < 0 || c.Classify.TextRatio > 1 {
		return fmt.Errorf("classify.text_ratio must be in [0,1], got %g", c.Classify.TextRatio)
	}
	switch c.Logging.Encoding {
	case "json", "console":
	default:
		return fmt.Errorf("logging.encoding must be json or console, got %q", c.Logging.Encoding)
	}
	return nil
}
