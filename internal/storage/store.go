// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage is the persistence gateway for olivia.
//
// State is durably stored in four independent named slots under the base
// directory: the API credential, the settings object, the chat list, and
// the active-chat reference. The gateway does pure key/value serialization;
// it knows nothing about what the values mean.
//
// Reads never fail: a missing slot or one whose content does not parse
// degrades to "no data", so corrupted storage can never abort startup.
// Writes are atomic (temp file + fsync + rename).
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/jeranaias/olivia-tui/internal/logger"
	"github.com/jeranaias/olivia-tui/internal/util"
)

// Slot file names under the base directory.
const (
	slotAPIKey      = "api_key"
	slotSettings    = "settings.json"
	slotChats       = "chats.json"
	slotCurrentChat = "current_chat"
)

// Store reads and writes the four persistence slots.
type Store struct {
	// BaseDir is the directory holding the slot files.
	// Default: ~/.olivia/
	BaseDir string
}

// NewStore creates a store rooted at ~/.olivia.
func NewStore() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewStoreWithDir(filepath.Join(homeDir, ".olivia"))
}

// NewStoreWithDir creates a store rooted at a custom directory.
func NewStoreWithDir(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &Store{BaseDir: baseDir}, nil
}

// =============================================================================
// CREDENTIAL SLOT
// =============================================================================

// APIKey returns the stored credential, or "" when absent.
func (s *Store) APIKey() string {
	return s.readText(slotAPIKey)
}

// SaveAPIKey persists the credential. The key file is written 0600 since it
// holds a secret.
func (s *Store) SaveAPIKey(key string) error {
	return util.AtomicWriteFile(s.path(slotAPIKey), []byte(key), 0600)
}

// ClearAPIKey removes the credential slot.
func (s *Store) ClearAPIKey() error {
	return s.remove(slotAPIKey)
}

// =============================================================================
// SETTINGS SLOT
// =============================================================================

// LoadSettings unmarshals the settings slot into v. Returns false when the
// slot is absent or unparseable.
func (s *Store) LoadSettings(v any) bool {
	return s.readJSON(slotSettings, v)
}

// SaveSettings persists the settings object.
func (s *Store) SaveSettings(v any) error {
	return s.writeJSON(slotSettings, v)
}

// =============================================================================
// CHAT LIST SLOT
// =============================================================================

// LoadChats unmarshals the chat-list slot into v. Returns false when the
// slot is absent or unparseable.
func (s *Store) LoadChats(v any) bool {
	return s.readJSON(slotChats, v)
}

// SaveChats persists the chat list.
func (s *Store) SaveChats(v any) error {
	return s.writeJSON(slotChats, v)
}

// =============================================================================
// ACTIVE-CHAT SLOT
// =============================================================================

// CurrentChatID returns the stored active-chat reference, or "" when absent.
func (s *Store) CurrentChatID() string {
	return s.readText(slotCurrentChat)
}

// SaveCurrentChatID persists the active-chat reference. An empty ID removes
// the slot, mirroring "no chat selected".
func (s *Store) SaveCurrentChatID(id string) error {
	if id == "" {
		return s.remove(slotCurrentChat)
	}
	return util.AtomicWriteFile(s.path(slotCurrentChat), []byte(id), 0644)
}

// =============================================================================
// CLEARING
// =============================================================================

// ClearChats removes only the chat-list and active-chat slots. Credential
// and settings survive, mirroring the ClearAllChats intent.
func (s *Store) ClearChats() error {
	if err := s.remove(slotChats); err != nil {
		return err
	}
	return s.remove(slotCurrentChat)
}

// ClearAll removes every slot.
func (s *Store) ClearAll() error {
	for _, slot := range []string{slotAPIKey, slotSettings, slotChats, slotCurrentChat} {
		if err := s.remove(slot); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SLOT PRIMITIVES
// =============================================================================

func (s *Store) path(slot string) string {
	return filepath.Join(s.BaseDir, slot)
}

func (s *Store) remove(slot string) error {
	if err := os.Remove(s.path(slot)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) readText(slot string) string {
	data, err := os.ReadFile(s.path(slot))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.L().Warn().Err(err).Str("slot", slot).Msg("slot read failed")
		}
		return ""
	}
	return string(data)
}

func (s *Store) readJSON(slot string, v any) bool {
	data, err := os.ReadFile(s.path(slot))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.L().Warn().Err(err).Str("slot", slot).Msg("slot read failed")
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		// Parse failure degrades to "no data"; the corrupt file stays on
		// disk until the next successful write replaces it.
		logger.L().Warn().Err(err).Str("slot", slot).Msg("slot content unparseable, ignoring")
		return false
	}
	return true
}

func (s *Store) writeJSON(slot string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(s.path(slot), data, 0644)
}
