// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat owns the conversation model: entities, the state reducer,
// the controller that applies intents, and the sync layer that mirrors
// state into durable storage.
package chat

import "time"

// =============================================================================
// ENTITIES
// =============================================================================

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in a chat. Immutable once created.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

// Chat is one conversation thread. Messages are append-only; UpdatedAt is
// refreshed on every mutation.
type Chat struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the chat.
func (c Chat) Clone() Chat {
	out := c
	out.Messages = make([]Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	return out
}

// Settings is the active provider/model/credential configuration. It is
// replaced wholesale on update, never partially aliased.
type Settings struct {
	APIKey      string  `json:"api_key"`
	Provider    string  `json:"provider"`
	BaseURL     string  `json:"base_url,omitempty"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// SettingsPatch is a partial Settings update. Nil fields are left untouched
// by Apply. The same shape is used for stored settings so that fields added
// in later releases pick up defaults when old data is loaded.
type SettingsPatch struct {
	APIKey      *string  `json:"api_key,omitempty"`
	Provider    *string  `json:"provider,omitempty"`
	BaseURL     *string  `json:"base_url,omitempty"`
	Model       *string  `json:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

// Apply returns s with the patch's non-nil fields merged in.
func (s Settings) Apply(p SettingsPatch) Settings {
	if p.APIKey != nil {
		s.APIKey = *p.APIKey
	}
	if p.Provider != nil {
		s.Provider = *p.Provider
	}
	if p.BaseURL != nil {
		s.BaseURL = *p.BaseURL
	}
	if p.Model != nil {
		s.Model = *p.Model
	}
	if p.Temperature != nil {
		s.Temperature = *p.Temperature
	}
	if p.MaxTokens != nil {
		s.MaxTokens = *p.MaxTokens
	}
	return s
}

// Patch converts full settings into a patch with every field set. Used when
// reloading persisted settings through the MergeSettings intent.
func (s Settings) Patch() SettingsPatch {
	return SettingsPatch{
		APIKey:      &s.APIKey,
		Provider:    &s.Provider,
		BaseURL:     &s.BaseURL,
		Model:       &s.Model,
		Temperature: &s.Temperature,
		MaxTokens:   &s.MaxTokens,
	}
}

// DefaultSettings returns the settings used before any are stored.
func DefaultSettings() Settings {
	return Settings{
		Provider:    "openai",
		Model:       "gpt-4o-mini",
		Temperature: 0.7,
		MaxTokens:   1000,
	}
}

// =============================================================================
// CONVERSATION STATE
// =============================================================================

// State is the root aggregate: every chat, the active chat pointer, the
// loading/error flags, and the active settings.
//
// Invariants maintained by the reducer:
//   - CurrentChatID, when non-empty, references an existing chat; deleting
//     the referenced chat repairs or clears the pointer.
//   - Chat IDs are unique.
//   - At most one send is logically in flight, tracked by IsLoading.
type State struct {
	Chats         []Chat   `json:"chats"`
	CurrentChatID string   `json:"current_chat_id"`
	IsLoading     bool     `json:"is_loading"`
	Error         string   `json:"error"`
	Settings      Settings `json:"settings"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	out.Chats = make([]Chat, len(s.Chats))
	for i, c := range s.Chats {
		out.Chats[i] = c.Clone()
	}
	return out
}

// ChatByID returns the chat with the given ID, if present.
func (s State) ChatByID(id string) (Chat, bool) {
	for _, c := range s.Chats {
		if c.ID == id {
			return c, true
		}
	}
	return Chat{}, false
}

// CurrentChat returns the active chat, if one is selected.
func (s State) CurrentChat() (Chat, bool) {
	if s.CurrentChatID == "" {
		return Chat{}, false
	}
	return s.ChatByID(s.CurrentChatID)
}
