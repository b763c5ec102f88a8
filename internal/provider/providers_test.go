// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import "testing"

func TestByID(t *testing.T) {
	p, ok := ByID("openrouter")
	if !ok {
		t.Fatal("openrouter should be registered")
	}
	if p.BaseURL != "https://openrouter.ai/api/v1" {
		t.Errorf("BaseURL = %q", p.BaseURL)
	}
	if p.KeyPrefix != "sk-or-v1-" {
		t.Errorf("KeyPrefix = %q", p.KeyPrefix)
	}

	if _, ok := ByID("nope"); ok {
		t.Error("unknown provider should not resolve")
	}
}

func TestValidateKeyFor(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		provider string
		want     bool
	}{
		{"openrouter valid", "sk-or-v1-abcdefghijklmnop", "openrouter", true},
		{"openrouter too short", "sk-or-v1-short", "openrouter", false},
		{"openrouter bare prefix", "sk-or-v1-", "openrouter", false},
		{"openrouter wrong prefix", "sk-abcdefghijklmnopqrst", "openrouter", false},
		{"custom accepts anything", "anything", "custom", true},
		{"custom rejects empty", "", "custom", false},
		{"custom rejects whitespace", "   ", "custom", false},
		{"anthropic valid", "sk-ant-abcdefghijklmnopqr", "anthropic", true},
		{"openai valid", "sk-abcdefghijklm", "openai", true},
		{"openai boundary", "sk-0123456789", "openai", false}, // exactly prefix+10
		{"unknown provider", "sk-or-v1-abcdefghijklmnop", "bogus", false},
		{"leading whitespace trimmed", "  sk-or-v1-abcdefghijklmnop  ", "openrouter", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateKeyFor(tt.key, tt.provider); got != tt.want {
				t.Errorf("ValidateKeyFor(%q, %q) = %v, want %v", tt.key, tt.provider, got, tt.want)
			}
		})
	}
}

func TestMaskKey(t *testing.T) {
	if got := MaskKey("sk-or-v1-abcdefghijklmnop"); got != "sk-or-...mnop" {
		t.Errorf("MaskKey = %q", got)
	}
	if got := MaskKey("short"); got != "short" {
		t.Errorf("short keys pass through, got %q", got)
	}
}
