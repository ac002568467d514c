package config

import (
	"fmt"
	"os"
	"runtime"
	"slices"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
	OutputDump = "dump"
)

// Config is the tool configuration.
type Config struct {
	LogMode     string   `yaml:"log_mode"`
	Output      string   `yaml:"output"`
	Concurrency int      `yaml:"concurrency"`
	Database    Database `yaml:"database"`
}

// Database configures the optional SQLite import.
type Database struct {
	Path string `yaml:"path"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var c Config
	applyDefaults(&c)

	return &c
}

// LoadFile loads and parses a YAML configuration file from the given path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a Config.
func Parse(data []byte) (*Config, error) {
	var c Config

	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if !slices.Contains([]string{OutputJSON, OutputYAML, OutputDump}, c.Output) {
		return fmt.Errorf("unknown output format %q", c.Output)
	}

	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}

	return nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(c *Config) {
	if c.LogMode == "" {
		c.LogMode = "dev"
	}

	if c.Output == "" {
		c.Output = OutputJSON
	}

	if c.Concurrency == 0 {
		c.Concurrency = runtime.GOMAXPROCS(0)
	}

	if p := os.Getenv("WXR_DB_PATH"); p != "" && c.Database.Path == "" {
		c.Database.Path = p
	}
}
