// Package config loads voxnav.json and applies environment overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds all service settings.
type Config struct {
	Addr        string           `json:"addr"`
	CatalogPath string           `json:"catalog_path"`
	Oracle      OracleConfig     `json:"oracle"`
	Transcribe  TranscribeConfig `json:"transcribe"`
	Dispatch    DispatchConfig   `json:"dispatch"`
	Logging     LoggingConfig    `json:"logging"`
}

// OracleConfig selects and configures the language-model provider.
type OracleConfig struct {
	Provider       string `json:"provider"` // "openai" or "gemini"
	APIKey         string `json:"api_key"`
	BaseURL        string `json:"base_url"`
	Model          string `json:"model"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// TranscribeConfig configures the speech-to-text provider.
type TranscribeConfig struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
}

// DispatchConfig tunes the dispatch controller.
type DispatchConfig struct {
	GraceMillis int `json:"grace_millis"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Development bool   `json:"development"`
	Level       string `json:"level"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Addr: ":3001",
		Oracle: OracleConfig{
			TimeoutSeconds: 30,
		},
		Dispatch: DispatchConfig{
			GraceMillis: 2000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the config file at path and applies environment overrides.
// A missing file is not an error: defaults plus environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides layers environment variables over the file values.
// Provider detection precedence when none is configured: openai > gemini.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("VOXNAV_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("VOXNAV_CATALOG"); v != "" {
		c.CatalogPath = v
	}

	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		if c.Oracle.Provider == "" || c.Oracle.Provider == "openai" {
			c.Oracle.APIKey = v
			c.Oracle.Provider = "openai"
		}
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		if (c.Oracle.Provider == "" && c.Oracle.APIKey == "") || c.Oracle.Provider == "gemini" {
			c.Oracle.APIKey = v
			c.Oracle.Provider = "gemini"
		}
	}

	if v := os.Getenv("DEEPGRAM_API_KEY"); v != "" && c.Transcribe.APIKey == "" {
		c.Transcribe.APIKey = v
	}
}
