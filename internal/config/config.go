// Package config provides configuration loading and validation for the
// matching engine's CLI and server entry points.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config represents the engine configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or must be
// provided via CLI flags / environment variables.
type Config struct {
	// Connectivity
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	LLMAPIKey   string `json:"llm_api_key,omitempty"`   // API key for the structured extractor / embedder

	// Engine knobs (spec §4.6, §4.8, §5)
	ReferenceDate       string `json:"reference_date,omitempty"`        // YYYY-MM-DD date used to resolve "Present"/"N/A" end dates
	RecencyMonthsLimit  int    `json:"recency_months_limit,omitempty"`  // Eligibility recency cutoff, in months
	WorkerPoolSize      int    `json:"worker_pool_size,omitempty"`      // Fixed-size ingestion/matching worker pool
	VectorMatchThreshold float64 `json:"vector_match_threshold,omitempty"` // Minimum cosine similarity for a vector-tier match

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// Defaults holds the engine's built-in defaults, applied by MergeWithDefaults
// whenever a field is left at its zero value.
var Defaults = Config{
	ReferenceDate:        "2026-01-01",
	RecencyMonthsLimit:   36,
	WorkerPoolSize:       2,
	VectorMatchThreshold: 0.92,
}

// LoadConfig loads configuration from a JSON file.
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
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.RecencyMonthsLimit < 0 {
		return fmt.Errorf("config error: 'recency_months_limit' must be non-negative")
	}
	if c.WorkerPoolSize < 0 {
		return fmt.Errorf("config error: 'worker_pool_size' must be non-negative")
	}
	if c.VectorMatchThreshold < 0 || c.VectorMatchThreshold > 1 {
		return fmt.Errorf("config error: 'vector_match_threshold' must be between 0 and 1")
	}

	if c.ReferenceDate != "" {
		if _, err := time.Parse("2006-01-02", c.ReferenceDate); err != nil {
			return fmt.Errorf("config error: 'reference_date' must be YYYY-MM-DD: %w", err)
		}
	}

	return nil
}

// ParsedReferenceDate parses ReferenceDate, falling back to the engine
// default when unset.
func (c *Config) ParsedReferenceDate() (time.Time, error) {
	raw := c.ReferenceDate
	if raw == "" {
		raw = Defaults.ReferenceDate
	}
	return time.Parse("2006-01-02", raw)
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags, and to apply the engine's built-in Defaults last.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.LLMAPIKey == "" {
		result.LLMAPIKey = defaults.LLMAPIKey
	}
	if result.ReferenceDate == "" {
		result.ReferenceDate = defaults.ReferenceDate
	}
	if result.RecencyMonthsLimit == 0 {
		result.RecencyMonthsLimit = defaults.RecencyMonthsLimit
	}
	if result.WorkerPoolSize == 0 {
		result.WorkerPoolSize = defaults.WorkerPoolSize
	}
	if result.VectorMatchThreshold == 0 {
		result.VectorMatchThreshold = defaults.VectorMatchThreshold
	}

	return result
}
