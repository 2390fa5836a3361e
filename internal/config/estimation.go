// Package config loads the measurement pipeline configuration from JSON or
// YAML files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the path to the canonical estimation defaults file.
const DefaultConfigPath = "config/estimation.defaults.json"

// Ordering policy names accepted in ordering_policy.
var orderingPolicies = []string{"any", "forward", "strict"}

// SensorConfig describes one sensor to register at startup.
type SensorConfig struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Modality string `json:"modality" yaml:"modality"`
	Frame    string `json:"frame,omitempty" yaml:"frame,omitempty"`
}

// EstimationConfig is the root configuration for the measurement pipeline.
// Pointer fields distinguish "unset" from zero; the Get* methods supply
// defaults for unset fields.
type EstimationConfig struct {
	// Window params
	WindowSpanSeconds     *float64 `json:"window_span_seconds,omitempty" yaml:"window_span_seconds,omitempty"`
	MaxWindowMeasurements *int     `json:"max_window_measurements,omitempty" yaml:"max_window_measurements,omitempty"`
	OrderingPolicy        *string  `json:"ordering_policy,omitempty" yaml:"ordering_policy,omitempty"` // "any", "forward" or "strict"

	// Storage params
	DatabasePath *string `json:"database_path,omitempty" yaml:"database_path,omitempty"`
	VectorDim    *int    `json:"vector_dim,omitempty" yaml:"vector_dim,omitempty"` // 0 accepts any dimension

	Debug *bool `json:"debug,omitempty" yaml:"debug,omitempty"`

	Sensors []SensorConfig `json:"sensors,omitempty" yaml:"sensors,omitempty"`
}

// EmptyEstimationConfig returns a config with every field unset.
func EmptyEstimationConfig() *EstimationConfig {
	return &EstimationConfig{}
}

// LoadEstimationConfig loads an EstimationConfig from a JSON or YAML file.
// The file must have a .json, .yaml or .yml extension and be under 1MB.
// Omitted fields fall back to the Get* defaults.
func LoadEstimationConfig(path string) (*EstimationConfig, error) {
	cleanPath := filepath.Clean(path)
	unmarshal, err := decoderFor(filepath.Ext(cleanPath))
	if err != nil {
		return nil, err
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyEstimationConfig()
	if err := unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func decoderFor(ext string) (func([]byte, any) error, error) {
	switch ext {
	case ".json":
		return json.Unmarshal, nil
	case ".yaml", ".yml":
		return yaml.Unmarshal, nil
	}
	return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath,
// searching the current directory and its parents up to the repository
// root. Panics if the file cannot be loaded; intended for tests.
func MustLoadDefaultConfig() *EstimationConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,          // from cmd/
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from internal/storage/sqlite/
		"../../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadEstimationConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *EstimationConfig) Validate() error {
	if c.WindowSpanSeconds != nil && *c.WindowSpanSeconds < 0 {
		return fmt.Errorf("window_span_seconds must be non-negative, got %f", *c.WindowSpanSeconds)
	}
	if c.MaxWindowMeasurements != nil && *c.MaxWindowMeasurements < 0 {
		return fmt.Errorf("max_window_measurements must be non-negative, got %d", *c.MaxWindowMeasurements)
	}
	if c.VectorDim != nil && *c.VectorDim < 0 {
		return fmt.Errorf("vector_dim must be non-negative, got %d", *c.VectorDim)
	}
	if c.OrderingPolicy != nil && *c.OrderingPolicy != "" {
		known := false
		for _, p := range orderingPolicies {
			if *c.OrderingPolicy == p {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("ordering_policy must be one of %v, got %q", orderingPolicies, *c.OrderingPolicy)
		}
	}
	if c.DatabasePath != nil && *c.DatabasePath == "" {
		return fmt.Errorf("database_path must not be empty when set")
	}

	seen := make(map[string]bool, len(c.Sensors))
	for i, s := range c.Sensors {
		if s.ID == "" {
			return fmt.Errorf("sensors[%d]: id is required", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("sensors[%d]: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

// GetWindowSpanSeconds returns the window_span_seconds value or the default.
func (c *EstimationConfig) GetWindowSpanSeconds() float64 {
	if c.WindowSpanSeconds == nil {
		return 10.0
	}
	return *c.WindowSpanSeconds
}

// GetMaxWindowMeasurements returns the max_window_measurements value or the default.
func (c *EstimationConfig) GetMaxWindowMeasurements() int {
	if c.MaxWindowMeasurements == nil {
		return 10000
	}
	return *c.MaxWindowMeasurements
}

// GetOrderingPolicy returns the ordering_policy value or the default.
func (c *EstimationConfig) GetOrderingPolicy() string {
	if c.OrderingPolicy == nil || *c.OrderingPolicy == "" {
		return "any"
	}
	return *c.OrderingPolicy
}

// GetDatabasePath returns the database_path value or the default.
func (c *EstimationConfig) GetDatabasePath() string {
	if c.DatabasePath == nil {
		return "measurements.db"
	}
	return *c.DatabasePath
}

// GetVectorDim returns the vector_dim value or the default.
func (c *EstimationConfig) GetVectorDim() int {
	if c.VectorDim == nil {
		return 0
	}
	return *c.VectorDim
}

// GetDebug returns the debug value or the default.
func (c *EstimationConfig) GetDebug() bool {
	if c.Debug == nil {
		return false
	}
	return *c.Debug
}
