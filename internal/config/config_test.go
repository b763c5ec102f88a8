// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestConfig_Default tests that Default() returns sensible defaults.
func TestConfig_Default(t *testing.T) {
	cfg := Default()

	if cfg.Provider != "openai" {
		t.Errorf("Expected default provider 'openai', got '%s'", cfg.Provider)
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("Expected default model 'gpt-4o-mini', got '%s'", cfg.Model)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("Expected default temperature 0.7, got %v", cfg.Temperature)
	}
	if cfg.MaxTokens != 1000 {
		t.Errorf("Expected default max tokens 1000, got %d", cfg.MaxTokens)
	}
	if !cfg.UI.Markdown {
		t.Error("Markdown rendering should be on by default")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected default log level 'info', got '%s'", cfg.Log.Level)
	}
}

// TestConfig_LoadMissingFile tests that a missing config file yields defaults.
func TestConfig_LoadMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() with missing file should not error, got %v", err)
	}
	if cfg != Default() {
		t.Errorf("Missing file should load defaults, got %+v", cfg)
	}
}

// TestConfig_LoadFile tests parsing an on-disk TOML file over the defaults.
func TestConfig_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := []byte(`
provider = "anthropic"
model = "claude-3-5-sonnet-20241022"
temperature = 0.2

[ui]
markdown = false
word_wrap = 100

[log]
level = "debug"
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Provider != "anthropic" {
		t.Errorf("Expected provider 'anthropic', got '%s'", cfg.Provider)
	}
	if cfg.Model != "claude-3-5-sonnet-20241022" {
		t.Errorf("Unexpected model '%s'", cfg.Model)
	}
	if cfg.Temperature != 0.2 {
		t.Errorf("Expected temperature 0.2, got %v", cfg.Temperature)
	}
	// Fields the file omits keep their defaults.
	if cfg.MaxTokens != 1000 {
		t.Errorf("Expected default max tokens 1000, got %d", cfg.MaxTokens)
	}
	if cfg.UI.Markdown {
		t.Error("Markdown should be disabled by the file")
	}
	if cfg.UI.WordWrap != 100 {
		t.Errorf("Expected word wrap 100, got %d", cfg.UI.WordWrap)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected log level 'debug', got '%s'", cfg.Log.Level)
	}
}

// TestConfig_LoadMalformedFile tests that a broken file is reported, not
// silently ignored.
func TestConfig_LoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("provider = [not toml"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() with malformed TOML should return an error")
	}
}

// TestConfig_EnvOverrides tests that OLIVIA_* variables win over the file.
func TestConfig_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`provider = "anthropic"`), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("OLIVIA_PROVIDER", "openrouter")
	t.Setenv("OLIVIA_MODEL", "meta-llama/llama-3.1-70b-instruct")
	t.Setenv("OLIVIA_API_KEY", "sk-or-v1-abcdefghijklmnop")
	t.Setenv("OLIVIA_TEMPERATURE", "1.3")
	t.Setenv("OLIVIA_MAX_TOKENS", "2048")
	t.Setenv("OLIVIA_LOG_LEVEL", "warn")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Provider != "openrouter" {
		t.Errorf("Env should override provider, got '%s'", cfg.Provider)
	}
	if cfg.Model != "meta-llama/llama-3.1-70b-instruct" {
		t.Errorf("Env should override model, got '%s'", cfg.Model)
	}
	if cfg.APIKey != "sk-or-v1-abcdefghijklmnop" {
		t.Errorf("Env should supply the API key, got '%s'", cfg.APIKey)
	}
	if cfg.Temperature != 1.3 {
		t.Errorf("Env should override temperature, got %v", cfg.Temperature)
	}
	if cfg.MaxTokens != 2048 {
		t.Errorf("Env should override max tokens, got %d", cfg.MaxTokens)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Env should override log level, got '%s'", cfg.Log.Level)
	}
}

// TestConfig_EnvBadNumbersIgnored tests that unparseable numeric overrides
// are skipped rather than zeroing the setting.
func TestConfig_EnvBadNumbersIgnored(t *testing.T) {
	t.Setenv("OLIVIA_TEMPERATURE", "hot")
	t.Setenv("OLIVIA_MAX_TOKENS", "many")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Temperature != 0.7 {
		t.Errorf("Bad temperature override should be ignored, got %v", cfg.Temperature)
	}
	if cfg.MaxTokens != 1000 {
		t.Errorf("Bad max tokens override should be ignored, got %d", cfg.MaxTokens)
	}
}

// TestConfig_Clamp tests that out-of-range values are pulled back into bounds.
func TestConfig_Clamp(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		check    func(Config) bool
		describe string
	}{
		{
			name:     "negative temperature",
			mutate:   func(c *Config) { c.Temperature = -1 },
			check:    func(c Config) bool { return c.Temperature == 0 },
			describe: "temperature clamped to 0",
		},
		{
			name:     "temperature above 2",
			mutate:   func(c *Config) { c.Temperature = 5 },
			check:    func(c Config) bool { return c.Temperature == 2 },
			describe: "temperature clamped to 2",
		},
		{
			name:     "zero max tokens",
			mutate:   func(c *Config) { c.MaxTokens = 0 },
			check:    func(c Config) bool { return c.MaxTokens == 1000 },
			describe: "max tokens reset to default",
		},
		{
			name:     "negative word wrap",
			mutate:   func(c *Config) { c.UI.WordWrap = -5 },
			check:    func(c Config) bool { return c.UI.WordWrap == 80 },
			describe: "word wrap reset to default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			cfg.clamp()
			if !tt.check(cfg) {
				t.Errorf("Expected %s, got %+v", tt.describe, cfg)
			}
		})
	}
}

// TestConfig_SaveLoadRoundTrip tests that Save and Load agree.
func TestConfig_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Provider = "custom"
	cfg.Model = "local-model"
	cfg.BaseURL = "http://localhost:8080/v1"
	cfg.Temperature = 1.1
	cfg.MaxTokens = 512
	cfg.APIKey = "should-not-be-written"

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if loaded.Provider != cfg.Provider || loaded.Model != cfg.Model ||
		loaded.BaseURL != cfg.BaseURL || loaded.Temperature != cfg.Temperature ||
		loaded.MaxTokens != cfg.MaxTokens {
		t.Errorf("Round trip mismatch: saved %+v, loaded %+v", cfg, loaded)
	}

	// The credential must never land on disk.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("Config file is empty after save")
	}
	if strings.Contains(string(data), "should-not-be-written") {
		t.Error("API key was persisted to the config file")
	}
}
