// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "time"

// =============================================================================
// INTENTS
// =============================================================================

// Intent is a request to transition conversation state. The set of intents
// is closed: only types in this package implement the marker method, which
// keeps the reducer's type switch exhaustive.
type Intent interface {
	isIntent()
}

// ReplaceAllChats replaces the chat list wholesale. Used on startup when
// reloading persisted chats.
type ReplaceAllChats struct {
	Chats []Chat
}

// AddChat prepends a chat, makes it current, and clears any error.
type AddChat struct {
	Chat Chat
}

// UpdateChat merges the non-nil fields into an existing chat and refreshes
// its UpdatedAt. Unknown chat IDs are ignored.
type UpdateChat struct {
	ChatID    string
	Title     *string
	UpdatedAt time.Time
}

// DeleteChat removes a chat. If it was current, the pointer moves to the
// first remaining chat, or clears when none remain.
type DeleteChat struct {
	ChatID string
}

// SetCurrentChat moves the active chat pointer ("" clears it) and clears
// any error.
type SetCurrentChat struct {
	ChatID string
}

// AppendMessage appends a message to an existing chat, refreshes the chat's
// UpdatedAt from the message timestamp, and clears any error. Unknown chat
// IDs are ignored.
type AppendMessage struct {
	ChatID  string
	Message Message
}

// SetLoading toggles the in-flight flag.
type SetLoading struct {
	Loading bool
}

// SetError sets ("" clears) the error text and always drops the loading
// flag: an error is a terminal outcome for the attempt that raised it.
type SetError struct {
	Err string
}

// MergeSettings shallow-merges a partial settings update.
type MergeSettings struct {
	Patch SettingsPatch
}

// ClearAllChats removes every chat and clears the pointer and error.
// Settings are untouched.
type ClearAllChats struct{}

func (ReplaceAllChats) isIntent() {}
func (AddChat) isIntent()         {}
func (UpdateChat) isIntent()      {}
func (DeleteChat) isIntent()      {}
func (SetCurrentChat) isIntent()  {}
func (AppendMessage) isIntent()   {}
func (SetLoading) isIntent()      {}
func (SetError) isIntent()        {}
func (MergeSettings) isIntent()   {}
func (ClearAllChats) isIntent()   {}

// =============================================================================
// REDUCER
// =============================================================================

// reduce is a pure transition function: given the current state and an
// intent it returns the next state. It never performs I/O, reads the clock,
// or mutates its input; timestamps arrive already materialized inside the
// intents. Unrecognized intents return the state unchanged.
func reduce(s State, in Intent) State {
	switch in := in.(type) {
	case ReplaceAllChats:
		next := s.Clone()
		next.Chats = make([]Chat, len(in.Chats))
		for i, c := range in.Chats {
			next.Chats[i] = c.Clone()
		}
		return next

	case AddChat:
		next := s.Clone()
		next.Chats = append([]Chat{in.Chat.Clone()}, next.Chats...)
		next.CurrentChatID = in.Chat.ID
		next.Error = ""
		return next

	case UpdateChat:
		next := s.Clone()
		for i := range next.Chats {
			if next.Chats[i].ID != in.ChatID {
				continue
			}
			if in.Title != nil {
				next.Chats[i].Title = *in.Title
			}
			next.Chats[i].UpdatedAt = in.UpdatedAt
		}
		return next

	case DeleteChat:
		next := s.Clone()
		remaining := next.Chats[:0]
		for _, c := range next.Chats {
			if c.ID != in.ChatID {
				remaining = append(remaining, c)
			}
		}
		next.Chats = remaining
		if next.CurrentChatID == in.ChatID {
			if len(next.Chats) > 0 {
				next.CurrentChatID = next.Chats[0].ID
			} else {
				next.CurrentChatID = ""
			}
		}
		return next

	case SetCurrentChat:
		next := s.Clone()
		next.CurrentChatID = in.ChatID
		next.Error = ""
		return next

	case AppendMessage:
		next := s.Clone()
		for i := range next.Chats {
			if next.Chats[i].ID != in.ChatID {
				continue
			}
			next.Chats[i].Messages = append(next.Chats[i].Messages, in.Message)
			next.Chats[i].UpdatedAt = in.Message.Timestamp
		}
		next.Error = ""
		return next

	case SetLoading:
		next := s.Clone()
		next.IsLoading = in.Loading
		return next

	case SetError:
		next := s.Clone()
		next.Error = in.Err
		next.IsLoading = false
		return next

	case MergeSettings:
		next := s.Clone()
		next.Settings = next.Settings.Apply(in.Patch)
		return next

	case ClearAllChats:
		next := s.Clone()
		next.Chats = []Chat{}
		next.CurrentChatID = ""
		next.Error = ""
		return next

	default:
		return s
	}
}
