package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"lcdstats/internal/errors"
)

// Policy decides what happens to a batch when one family is unanalyzable
type Policy string

const (
	PolicySkip  Policy = "skip"  // Record the family error and continue
	PolicyAbort Policy = "abort" // Stop the batch on the first unanalyzable family
)

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig
	Batch    BatchConfig
	Output   OutputConfig
	Logging  LoggingConfig
}

// AnalysisConfig holds statistical settings
type AnalysisConfig struct {
	Alpha        float64 // Significance threshold on corrected p-values
	Correction   string  // Correction method name
	PFloor       float64 // Floor applied before -log10
	IncludeEmpty bool    // Test categories absent from both samples
}

// BatchConfig holds batch execution settings
type BatchConfig struct {
	Workers         int
	Policy          Policy
	ReferenceSuffix string // Reference family key = observed key + suffix
}

// OutputConfig holds output destinations
type OutputConfig struct {
	ResultsPath  string
	SummaryPath  string
	WorkbookPath string
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Analysis: AnalysisConfig{
			Alpha:        getEnvFloatOrDefault("LCDSTATS_ALPHA", 0.05),
			Correction:   getEnvOrDefault("LCDSTATS_CORRECTION", "sidak-holm"),
			PFloor:       getEnvFloatOrDefault("LCDSTATS_P_FLOOR", 1e-300),
			IncludeEmpty: getEnvBoolOrDefault("LCDSTATS_INCLUDE_EMPTY", false),
		},
		Batch: BatchConfig{
			Workers:         getEnvIntOrDefault("LCDSTATS_WORKERS", 4),
			Policy:          Policy(strings.ToLower(getEnvOrDefault("LCDSTATS_POLICY", string(PolicySkip)))),
			ReferenceSuffix: getEnvOrDefault("LCDSTATS_REFERENCE_SUFFIX", "_SCRAMBLED"),
		},
		Output: OutputConfig{
			ResultsPath:  getEnvOrDefault("LCDSTATS_OUT", "Observed_vs_Scrambled_FisherExact_Results.tsv"),
			SummaryPath:  getEnvOrDefault("LCDSTATS_SUMMARY", ""),
			WorkbookPath: getEnvOrDefault("LCDSTATS_XLSX", ""),
		},
		Logging: LoggingConfig{
			Level: getEnvOrDefault("LCDSTATS_LOG_LEVEL", "info"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// Validate checks value ranges; it is also called after CLI overrides
func (c *Config) Validate() error {
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		return errors.ConfigInvalid(fmt.Sprintf("alpha must be in (0, 1), got %v", c.Analysis.Alpha))
	}
	if c.Analysis.PFloor <= 0 || c.Analysis.PFloor >= 1 {
		return errors.ConfigInvalid(fmt.Sprintf("p-value floor must be in (0, 1), got %v", c.Analysis.PFloor))
	}
	if c.Batch.Workers < 1 {
		return errors.ConfigInvalid(fmt.Sprintf("workers must be at least 1, got %d", c.Batch.Workers))
	}
	switch c.Batch.Policy {
	case PolicySkip, PolicyAbort:
	default:
		return errors.ConfigInvalid(fmt.Sprintf("policy must be skip or abort, got %q", c.Batch.Policy))
	}
	if c.Batch.ReferenceSuffix == "" {
		return errors.ConfigInvalid("reference suffix is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
