// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/jeranaias/olivia-tui/internal/logger"
	"github.com/jeranaias/olivia-tui/internal/storage"
)

// =============================================================================
// SYNC LAYER
// =============================================================================

// Syncer mirrors conversation state into the persistence gateway and keeps
// the request pipeline configured. It is registered as a controller
// observer, so every accepted intent triggers a write-through.
//
// Writes are best-effort: a persistence failure is logged and swallowed,
// never surfaced to the caller. In-memory state is the source of truth for
// the running session.
type Syncer struct {
	store    *storage.Store
	pipeline Pipeline
	defaults Settings
}

// NewSyncer creates a sync layer over the given store and pipeline. The
// defaults are the settings used when nothing (or only partial data) is
// stored; stored values merge over them.
func NewSyncer(store *storage.Store, pipeline Pipeline, defaults Settings) *Syncer {
	return &Syncer{store: store, pipeline: pipeline, defaults: defaults}
}

// Bootstrap loads all four slots and replays them into the controller:
// settings merged over defaults, chats with their stored timestamps, and
// the active-chat reference resolved against the reloaded chats.
//
// Register the syncer as an observer before calling Bootstrap so the
// replayed state is immediately written through and the pipeline starts
// configured.
func (s *Syncer) Bootstrap(c *Controller) {
	// Read the active-chat reference before the first dispatch: every
	// dispatch below writes the pointer through, and while the replayed
	// state still has no current chat that write-through clears the slot.
	storedCurrent := s.store.CurrentChatID()

	// Settings: stored values win over defaults, so fields introduced after
	// the data was written still get defaults.
	var patch SettingsPatch
	s.store.LoadSettings(&patch)
	merged := s.defaults.Apply(patch)

	// The credential slot is authoritative for the key.
	if key := s.store.APIKey(); key != "" {
		merged.APIKey = key
	}
	c.Dispatch(MergeSettings{Patch: merged.Patch()})

	var chats []Chat
	if !s.store.LoadChats(&chats) || len(chats) == 0 {
		return
	}
	c.Dispatch(ReplaceAllChats{Chats: chats})

	// Active chat: the stored reference if it still exists, else the first
	// chat, else none.
	current := storedCurrent
	if _, ok := findChat(chats, current); !ok {
		current = chats[0].ID
	}
	c.Dispatch(SetCurrentChat{ChatID: current})

	logger.L().Info().Int("chats", len(chats)).Str("current", current).Msg("state restored")
}

// StateChanged implements Observer: unconditional write-through of the
// durable slots plus pipeline reconfiguration.
func (s *Syncer) StateChanged(prev, next State, in Intent) {
	if _, ok := in.(ClearAllChats); ok {
		if err := s.store.ClearChats(); err != nil {
			logger.L().Warn().Err(err).Msg("failed to clear chat slots")
		}
	} else if len(next.Chats) > 0 || len(prev.Chats) > 0 {
		// Skipping the empty-to-empty case keeps the bootstrap settings
		// replay from overwriting a chat slot that has not been loaded yet.
		if err := s.store.SaveChats(next.Chats); err != nil {
			logger.L().Warn().Err(err).Msg("failed to persist chats")
		}
	}

	if err := s.store.SaveCurrentChatID(next.CurrentChatID); err != nil {
		logger.L().Warn().Err(err).Msg("failed to persist active chat")
	}

	if prev.Settings != next.Settings {
		// The credential lives in its own slot; never duplicate it into the
		// settings document.
		stored := next.Settings
		stored.APIKey = ""
		if err := s.store.SaveSettings(stored); err != nil {
			logger.L().Warn().Err(err).Msg("failed to persist settings")
		}
		if key := strings.TrimSpace(next.Settings.APIKey); key != "" {
			if err := s.store.SaveAPIKey(key); err != nil {
				logger.L().Warn().Err(err).Msg("failed to persist credential")
			}
		} else if prev.Settings.APIKey != "" {
			if err := s.store.ClearAPIKey(); err != nil {
				logger.L().Warn().Err(err).Msg("failed to clear credential")
			}
		}
	}

	// Settings changes flow straight into the pipeline so the next send
	// uses them.
	s.pipeline.Configure(next.Settings)
}

func findChat(chats []Chat, id string) (Chat, bool) {
	if id == "" {
		return Chat{}, false
	}
	for _, c := range chats {
		if c.ID == id {
			return c, true
		}
	}
	return Chat{}, false
}
