package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file.
const FileName = "txnenrich.yaml"

// Config represents the top-level txnenrich.yaml configuration.
type Config struct {
	Enrich   EnrichConfig   `yaml:"enrich"`
	Model    ModelConfig    `yaml:"model"`
	Industry IndustryConfig `yaml:"industry"`
	Input    InputConfig    `yaml:"input"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// EnrichConfig controls the enrichment pipeline.
type EnrichConfig struct {
	Threshold    float64 `yaml:"threshold"`
	Workers      int     `yaml:"workers"`
	OutputFormat string  `yaml:"output_format"` // csv or xlsx
}

// ModelConfig locates the brand classifier artifact.
type ModelConfig struct {
	Path string `yaml:"path"`
}

// IndustryConfig locates the industry lookup tables. Empty paths use the
// project's industry/ directory.
type IndustryConfig struct {
	BrandsPath string `yaml:"brands_path,omitempty"`
	MCCPath    string `yaml:"mcc_path,omitempty"`
}

// InputConfig describes input files.
type InputConfig struct {
	Encoding string `yaml:"encoding"`
}

// LoggingConfig controls diagnostic output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Load reads a txnenrich.yaml file from disk. Keys missing from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Enrich: EnrichConfig{
			Threshold:    0.25,
			Workers:      1,
			OutputFormat: "csv",
		},
		Model: ModelConfig{
			Path: "models/brand_classifier.json",
		},
		Input: InputConfig{
			Encoding: "utf-8",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if math.IsNaN(c.Enrich.Threshold) || c.Enrich.Threshold < 0 || c.Enrich.Threshold > 1 {
		errs = append(errs, fmt.Errorf("enrich.threshold must be within [0,1], got %v", c.Enrich.Threshold))
	}
	if c.Enrich.Workers < 1 {
		errs = append(errs, fmt.Errorf("enrich.workers must be at least 1, got %d", c.Enrich.Workers))
	}
	switch strings.ToLower(c.Enrich.OutputFormat) {
	case "csv", "xlsx":
	default:
		errs = append(errs, fmt.Errorf("enrich.output_format must be csv or xlsx, got %q", c.Enrich.OutputFormat))
	}
	if c.Model.Path == "" {
		errs = append(errs, errors.New("model.path must not be empty"))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}
