package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// Load builds the configuration: defaults, then the JSON file at path (when
// it exists), then environment overrides, then validation.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultConfigPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MARU_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("MARU_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("MARU_API_KEY"); v != "" {
		cfg.API.APIKey = v
	}
	if v := os.Getenv("MARU_MODEL"); v != "" {
		cfg.API.Model = v
	}
	if v := os.Getenv("MARU_DB_PATH"); v != "" {
		cfg.Data.DatabasePath = v
	}
	if v := os.Getenv("MARU_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
