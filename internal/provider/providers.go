// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider holds the static catalog of supported LLM API providers.
//
// The catalog is reference data: loaded once, never mutated. Each entry
// carries the provider's default endpoint, its known models, and the key
// prefix used for lightweight credential validation before a key is ever
// sent over the wire.
package provider

import "strings"

// Well-known provider IDs.
const (
	OpenAI     = "openai"
	Anthropic  = "anthropic"
	OpenRouter = "openrouter"
	Custom     = "custom"
)

// Config describes one API provider.
type Config struct {
	ID          string
	Name        string
	BaseURL     string
	Models      []string
	KeyPrefix   string
	Description string
}

// Registry is the static list of supported providers.
var Registry = []Config{
	{
		ID:      OpenAI,
		Name:    "OpenAI",
		BaseURL: "https://api.openai.com/v1",
		Models: []string{
			"gpt-4o",
			"gpt-4o-mini",
			"gpt-4-turbo",
			"gpt-4",
			"gpt-3.5-turbo",
		},
		KeyPrefix:   "sk-",
		Description: "Official OpenAI API with GPT models",
	},
	{
		ID:      Anthropic,
		Name:    "Anthropic",
		BaseURL: "https://api.anthropic.com",
		Models: []string{
			"claude-3-5-sonnet-20241022",
			"claude-3-5-haiku-20241022",
			"claude-3-opus-20240229",
			"claude-3-sonnet-20240229",
			"claude-3-haiku-20240307",
		},
		KeyPrefix:   "sk-ant-",
		Description: "Anthropic's Claude models",
	},
	{
		ID:      OpenRouter,
		Name:    "OpenRouter",
		BaseURL: "https://openrouter.ai/api/v1",
		Models: []string{
			"anthropic/claude-3.5-sonnet",
			"openai/gpt-4o",
			"openai/gpt-4o-mini",
			"deepseek/deepseek-chat",
			"google/gemini-pro",
			"meta-llama/llama-3.1-8b-instruct:free",
		},
		KeyPrefix:   "sk-or-v1-",
		Description: "Access multiple AI models through one API",
	},
	{
		ID:          Custom,
		Name:        "Custom Provider",
		BaseURL:     "",
		Models:      []string{"custom-model-1"},
		KeyPrefix:   "",
		Description: "Configure your own API endpoint",
	},
}

// ByID looks up a provider by its identifier.
func ByID(id string) (Config, bool) {
	for _, p := range Registry {
		if p.ID == id {
			return p, true
		}
	}
	return Config{}, false
}

// ValidateKey reports whether key looks plausible for the given provider.
//
// A provider without a key prefix accepts any non-empty trimmed key. A
// provider with a prefix requires the trimmed key to start with that prefix
// and be strictly longer than prefix+10 characters. The length guard is a
// minimum-entropy heuristic, not real format validation: it rejects keys
// that are obviously a bare prefix or a placeholder.
func ValidateKey(key string, p Config) bool {
	trimmed := strings.TrimSpace(key)
	if p.KeyPrefix == "" {
		return trimmed != ""
	}
	return strings.HasPrefix(trimmed, p.KeyPrefix) && len(trimmed) > len(p.KeyPrefix)+10
}

// ValidateKeyFor validates key against the provider registered under id.
// Unknown providers reject every key.
func ValidateKeyFor(key, id string) bool {
	p, ok := ByID(id)
	if !ok {
		return false
	}
	return ValidateKey(key, p)
}

// MaskKey returns a display-safe form of an API key: first six and last four
// characters with the middle elided. Short keys are returned unchanged since
// there is nothing meaningful to hide.
func MaskKey(key string) string {
	if len(key) < 10 {
		return key
	}
	return key[:6] + "..." + key[len(key)-4:]
}
