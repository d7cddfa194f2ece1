package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// EnvPrefix starts the name of every environment override.
const EnvPrefix = "EXCEL_"

// Load reads the YAML file at path, applies defaults and environment
// overrides, and validates the result.
//
// Environment variables take precedence over the file:
//
//	EXCEL_SERVER_LISTEN_ADDRESS
//	EXCEL_SERVER_OUTPUT_DIR
//	EXCEL_SERVER_WATCH
//	EXCEL_LOGGING_LEVEL
//	EXCEL_LOGGING_FORMAT
//	EXCEL_METRICS_ENABLED
//	EXCEL_EXPORT_SCENARIO
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("configuration file %q: %w", path, err)
	}
	return cfg, nil
}

// Parse is Load for an in-memory document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	applyEnvOverrides(&cfg)
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv(EnvPrefix + "SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv(EnvPrefix + "SERVER_OUTPUT_DIR"); val != "" {
		cfg.Server.OutputDir = val
	}
	if val := os.Getenv(EnvPrefix + "SERVER_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Server.Watch = b
		}
	}
	if val := os.Getenv(EnvPrefix + "LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv(EnvPrefix + "LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
	if val := os.Getenv(EnvPrefix + "METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	// Applied before defaults so jobs inherit the overridden scenario.
	if val := os.Getenv(EnvPrefix + "EXPORT_SCENARIO"); val != "" {
		cfg.Export.Scenario = val
	}
}
