// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"
)

// TestNewMessage tests message construction.
func TestNewMessage(t *testing.T) {
	msg := NewMessage("  Hello world  ", RoleUser)

	if msg.ID == "" {
		t.Error("NewMessage should assign an ID")
	}
	if msg.Content != "Hello world" {
		t.Errorf("Content should be trimmed, got '%s'", msg.Content)
	}
	if msg.Role != RoleUser {
		t.Errorf("Expected role 'user', got '%s'", msg.Role)
	}
	if msg.Timestamp.IsZero() {
		t.Error("NewMessage should stamp the message")
	}
}

// TestNewChat tests chat construction and the sentinel title.
func TestNewChat(t *testing.T) {
	chat := NewChat("")

	if chat.ID == "" {
		t.Error("NewChat should assign an ID")
	}
	if chat.Title != DefaultChatTitle {
		t.Errorf("Empty title should default to '%s', got '%s'", DefaultChatTitle, chat.Title)
	}
	if chat.Messages == nil || len(chat.Messages) != 0 {
		t.Error("New chat should start with an empty, non-nil message slice")
	}
	if !chat.CreatedAt.Equal(chat.UpdatedAt) {
		t.Error("CreatedAt and UpdatedAt should match at birth")
	}

	named := NewChat("Project notes")
	if named.Title != "Project notes" {
		t.Errorf("Explicit title should be kept, got '%s'", named.Title)
	}
}

// TestDeriveTitle tests first-message title derivation.
func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "short message unchanged",
			input: "Explain quantum computing",
			want:  "Explain quantum computing",
		},
		{
			name:  "whitespace trimmed",
			input: "   hello   ",
			want:  "hello",
		},
		{
			name:  "newlines collapse to spaces",
			input: "first line\nsecond line",
			want:  "first line second line",
		},
		{
			name:  "long message truncated with marker",
			input: strings.Repeat("a", 80),
			want:  strings.Repeat("a", 50) + "...",
		},
		{
			name:  "exactly fifty kept whole",
			input: strings.Repeat("b", 50),
			want:  strings.Repeat("b", 50),
		},
		{
			name:  "trailing space before cut is trimmed",
			input: strings.Repeat("c", 49) + " d e f g h i j k",
			want:  strings.Repeat("c", 49) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTitle(tt.input); got != tt.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestDeriveTitle_MultiByte tests that truncation counts runes, not bytes.
func TestDeriveTitle_MultiByte(t *testing.T) {
	input := strings.Repeat("日", 60)
	got := DeriveTitle(input)
	want := strings.Repeat("日", 50) + "..."
	if got != want {
		t.Errorf("DeriveTitle on multi-byte input = %q, want %q", got, want)
	}
}

// TestGenerateID tests the shape and session uniqueness of IDs.
func TestGenerateID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := generateID()

		parts := strings.SplitN(id, "-", 2)
		if len(parts) != 2 {
			t.Fatalf("ID %q should be '<millis>-<suffix>'", id)
		}
		if len(parts[1]) != 9 {
			t.Errorf("ID suffix should be 9 characters, got %q", parts[1])
		}
		for _, r := range parts[1] {
			if !strings.ContainsRune(idAlphabet, r) {
				t.Errorf("ID suffix contains %q outside the base36 alphabet", r)
			}
		}

		if seen[id] {
			t.Fatalf("Duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}
