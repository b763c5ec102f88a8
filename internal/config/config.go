// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for olivia.
//
// Configuration precedence, lowest to highest:
//   - Built-in defaults
//   - ~/.olivia/config.toml
//   - Environment variables (OLIVIA_*), optionally from a .env file
//
// The config file holds defaults for a fresh install; once the user changes
// settings in the app, the persisted settings slot wins over all of this.
// The API key is never written to the config file.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/olivia-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete olivia configuration.
type Config struct {
	// Provider is the default provider ID.
	Provider string `toml:"provider"`
	// Model is the default model.
	Model string `toml:"model"`
	// BaseURL overrides the provider's default endpoint (custom providers).
	BaseURL string `toml:"base_url"`
	// Temperature is the default sampling temperature.
	Temperature float64 `toml:"temperature"`
	// MaxTokens is the default completion length cap.
	MaxTokens int `toml:"max_tokens"`

	// APIKey comes only from the environment; it is never persisted here.
	APIKey string `toml:"-"`

	UI        UIConfig  `toml:"ui"`
	Log       LogConfig `toml:"log"`
	Telemetry bool      `toml:"telemetry"`
}

// UIConfig holds presentation preferences.
type UIConfig struct {
	// Markdown renders assistant replies through the markdown renderer.
	Markdown bool `toml:"markdown"`
	// WordWrap is the render width for markdown output.
	WordWrap int `toml:"word_wrap"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `toml:"level"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Provider:    "openai",
		Model:       "gpt-4o-mini",
		Temperature: 0.7,
		MaxTokens:   1000,
		UI:          UIConfig{Markdown: true, WordWrap: 80},
		Log:         LogConfig{Level: "info"},
		Telemetry:   true,
	}
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the olivia home directory (~/.olivia).
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".olivia"), nil
}

// Path returns the config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the config file and applies environment overrides. A missing
// file is not an error; defaults are returned.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}
	return LoadFrom(path)
}

// LoadFrom reads configuration from an explicit path.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	// .env in the working directory, if present. Missing is fine.
	_ = godotenv.Load()
	applyEnv(&cfg)

	cfg.clamp()
	return cfg, nil
}

// applyEnv overlays OLIVIA_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("OLIVIA_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("OLIVIA_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("OLIVIA_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("OLIVIA_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("OLIVIA_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Temperature = f
		}
	}
	if v := os.Getenv("OLIVIA_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxTokens = n
		}
	}
	if v := os.Getenv("OLIVIA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// clamp pulls out-of-range values back into accepted bounds rather than
// failing startup over a hand-edited config file.
func (c *Config) clamp() {
	if c.Temperature < 0 {
		c.Temperature = 0
	}
	if c.Temperature > 2 {
		c.Temperature = 2
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = Default().MaxTokens
	}
	if c.UI.WordWrap <= 0 {
		c.UI.WordWrap = Default().UI.WordWrap
	}
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the config file.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes configuration to an explicit path.
func SaveTo(path string, cfg Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0644)
}
