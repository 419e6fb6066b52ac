// Package config provides configuration loading and validation for the CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RELIC_PLANNER_"

// Config represents the CLI configuration that can be loaded from a YAML or JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Dataset string `yaml:"dataset,omitempty" json:"dataset,omitempty"` // Reference dataset YAML

	// Save decoding
	Platform    string `yaml:"platform,omitempty" json:"platform,omitempty" validate:"omitempty,oneof=auto pc console"`
	KeepInvalid bool   `yaml:"keep_invalid,omitempty" json:"keep_invalid,omitempty"` // Keep relics failing validity checks

	// Search
	TopK                 int           `yaml:"top_k,omitempty" json:"top_k,omitempty" validate:"gte=0"`
	Workers              int           `yaml:"workers,omitempty" json:"workers,omitempty" validate:"gte=0,lte=256"`
	MaxCandidatesTotal   int           `yaml:"max_candidates_total,omitempty" json:"max_candidates_total,omitempty" validate:"gte=0"`
	MaxCandidatesPerSlot int           `yaml:"max_candidates_per_slot,omitempty" json:"max_candidates_per_slot,omitempty" validate:"gte=0"`
	MaxSteps             int           `yaml:"max_steps,omitempty" json:"max_steps,omitempty" validate:"gte=0"`
	TimeBudget           time.Duration `yaml:"time_budget,omitempty" json:"time_budget,omitempty" validate:"gte=0"`

	// Behavior
	LogLevel string `yaml:"log_level,omitempty" json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	Verbose  bool   `yaml:"verbose,omitempty" json:"verbose,omitempty"` // Print detailed debug information
}

// Defaults returns the stock configuration.
func Defaults() Config {
	return Config{
		Dataset:              "data/dataset.yaml",
		Platform:             "auto",
		TopK:                 10,
		Workers:              4,
		MaxCandidatesTotal:   200,
		MaxCandidatesPerSlot: 80,
		MaxSteps:             2_000_000,
		TimeBudget:           2 * time.Second,
		LogLevel:             "info",
	}
}

// LoadConfig loads configuration from a YAML or JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from RELIC_PLANNER_* variables found by lookup
// (normally os.LookupEnv).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: %s%s: %w", EnvPrefix, name, err)
		}
		*dst = n
		return nil
	}

	str("DATASET", &c.Dataset)
	str("PLATFORM", &c.Platform)
	str("LOG_LEVEL", &c.LogLevel)

	for name, dst := range map[string]*int{
		"TOP_K":                   &c.TopK,
		"WORKERS":                 &c.Workers,
		"MAX_CANDIDATES_TOTAL":    &c.MaxCandidatesTotal,
		"MAX_CANDIDATES_PER_SLOT": &c.MaxCandidatesPerSlot,
		"MAX_STEPS":               &c.MaxSteps,
	} {
		if err := num(name, dst); err != nil {
			return err
		}
	}

	if v, ok := lookup(EnvPrefix + "TIME_BUDGET"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config error: %sTIME_BUDGET: %w", EnvPrefix, err)
		}
		c.TimeBudget = d
	}
	for name, dst := range map[string]*bool{
		"VERBOSE":      &c.Verbose,
		"KEEP_INVALID": &c.KeepInvalid,
	} {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("config error: %s%s: %w", EnvPrefix, name, err)
			}
			*dst = b
		}
	}
	return nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.MaxCandidatesTotal > 0 && c.MaxCandidatesPerSlot > c.MaxCandidatesTotal {
		return fmt.Errorf("config error: 'max_candidates_per_slot' exceeds 'max_candidates_total'")
	}

	// Validate file paths exist (if specified)
	if c.Dataset != "" {
		if _, err := os.Stat(c.Dataset); os.IsNotExist(err) {
			return fmt.Errorf("config error: dataset file not found: %s", c.Dataset)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Dataset == "" {
		result.Dataset = defaults.Dataset
	}
	if result.Platform == "" {
		result.Platform = defaults.Platform
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	// Numeric fields: use default if zero
	if result.TopK == 0 {
		result.TopK = defaults.TopK
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.MaxCandidatesTotal == 0 {
		result.MaxCandidatesTotal = defaults.MaxCandidatesTotal
	}
	if result.MaxCandidatesPerSlot == 0 {
		result.MaxCandidatesPerSlot = defaults.MaxCandidatesPerSlot
	}
	if result.MaxSteps == 0 {
		result.MaxSteps = defaults.MaxSteps
	}
	if result.TimeBudget == 0 {
		result.TimeBudget = defaults.TimeBudget
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
