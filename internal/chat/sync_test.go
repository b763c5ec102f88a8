// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"testing"

	"github.com/jeranaias/olivia-tui/internal/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.NewStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewStoreWithDir() error = %v", err)
	}
	return store
}

// wireController builds a controller with a syncer observing it, the way
// main wires them.
func wireController(t *testing.T, store *storage.Store, pipe *fakePipeline) (*Controller, *Syncer) {
	t.Helper()
	c := NewController(pipe)
	s := NewSyncer(store, pipe, DefaultSettings())
	c.AddObserver(s)
	s.Bootstrap(c)
	return c, s
}

// TestSyncer_RoundTrip tests that a session's state survives a restart.
func TestSyncer_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewStoreWithDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	// First session: talk, tweak settings, set a key.
	pipe := &fakePipeline{reply: "the sky scatters blue light"}
	c, _ := wireController(t, store, pipe)

	c.SetAPIKey("sk-0123456789abcdefghij")
	model := "gpt-4o"
	c.UpdateSettings(SettingsPatch{Model: &model})
	if err := c.SendMessage(context.Background(), "Why is the sky blue?"); err != nil {
		t.Fatal(err)
	}
	before := c.Snapshot()

	// Second session: fresh everything over the same directory.
	store2, err := storage.NewStoreWithDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	c2, _ := wireController(t, store2, &fakePipeline{})
	after := c2.Snapshot()

	if len(after.Chats) != 1 {
		t.Fatalf("Expected 1 restored chat, got %d", len(after.Chats))
	}
	got, want := after.Chats[0], before.Chats[0]
	if got.ID != want.ID || got.Title != want.Title {
		t.Errorf("Chat identity not restored: got %s/%s, want %s/%s",
			got.ID, got.Title, want.ID, want.Title)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("Expected both messages back, got %d", len(got.Messages))
	}
	for i := range got.Messages {
		if got.Messages[i].ID != want.Messages[i].ID ||
			got.Messages[i].Content != want.Messages[i].Content ||
			got.Messages[i].Role != want.Messages[i].Role ||
			!got.Messages[i].Timestamp.Equal(want.Messages[i].Timestamp) {
			t.Errorf("Message %d mismatch: got %+v, want %+v", i, got.Messages[i], want.Messages[i])
		}
	}
	if after.CurrentChatID != before.CurrentChatID {
		t.Error("Active chat reference not restored")
	}
	if after.Settings.Model != "gpt-4o" {
		t.Errorf("Settings not restored, model = '%s'", after.Settings.Model)
	}
	if after.Settings.APIKey != "sk-0123456789abcdefghij" {
		t.Error("Credential not restored from its slot")
	}
}

// TestSyncer_BootstrapEmptyStore tests first launch: defaults, no chats.
func TestSyncer_BootstrapEmptyStore(t *testing.T) {
	c, _ := wireController(t, newTestStore(t), &fakePipeline{})

	s := c.Snapshot()
	if len(s.Chats) != 0 {
		t.Errorf("Fresh store should restore no chats, got %d", len(s.Chats))
	}
	if s.CurrentChatID != "" {
		t.Error("Fresh store should leave no active chat")
	}
	if s.Settings != DefaultSettings() {
		t.Errorf("Fresh store should yield defaults, got %+v", s.Settings)
	}
}

// TestSyncer_PartialSettingsMergeOverDefaults tests that stored settings
// missing newer fields pick up defaults.
func TestSyncer_PartialSettingsMergeOverDefaults(t *testing.T) {
	store := newTestStore(t)

	provider := "anthropic"
	model := "claude-3-5-sonnet-20241022"
	if err := store.SaveSettings(SettingsPatch{Provider: &provider, Model: &model}); err != nil {
		t.Fatal(err)
	}

	c, _ := wireController(t, store, &fakePipeline{})

	s := c.Snapshot().Settings
	if s.Provider != "anthropic" || s.Model != "claude-3-5-sonnet-20241022" {
		t.Errorf("Stored fields should win, got %+v", s)
	}
	if s.Temperature != 0.7 || s.MaxTokens != 1000 {
		t.Errorf("Missing fields should fall back to defaults, got %+v", s)
	}
}

// TestSyncer_StaleCurrentChatFallsBack tests the dangling reference repair.
func TestSyncer_StaleCurrentChatFallsBack(t *testing.T) {
	store := newTestStore(t)

	chats := []Chat{NewChat("alpha"), NewChat("beta")}
	if err := store.SaveChats(chats); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveCurrentChatID("long-gone"); err != nil {
		t.Fatal(err)
	}

	c, _ := wireController(t, store, &fakePipeline{})

	if got := c.Snapshot().CurrentChatID; got != chats[0].ID {
		t.Errorf("Dangling reference should fall back to the first chat, got '%s'", got)
	}
}

// TestSyncer_RestoresStoredCurrentChat tests that restore honors the stored
// active-chat reference when it points past the first chat, and that the
// bootstrap dispatches do not clobber the slot on disk.
func TestSyncer_RestoresStoredCurrentChat(t *testing.T) {
	store := newTestStore(t)

	chats := []Chat{NewChat("alpha"), NewChat("beta")}
	if err := store.SaveChats(chats); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveCurrentChatID(chats[1].ID); err != nil {
		t.Fatal(err)
	}

	c, _ := wireController(t, store, &fakePipeline{})

	if got := c.Snapshot().CurrentChatID; got != chats[1].ID {
		t.Errorf("Restore should honor the stored reference, got '%s', want '%s'",
			got, chats[1].ID)
	}
	if got := store.CurrentChatID(); got != chats[1].ID {
		t.Errorf("Stored reference should survive bootstrap, got '%s', want '%s'",
			got, chats[1].ID)
	}
}

// TestSyncer_ClearAllChats tests that a wipe clears chat slots but leaves
// settings and credential on disk.
func TestSyncer_ClearAllChats(t *testing.T) {
	store := newTestStore(t)
	c, _ := wireController(t, store, &fakePipeline{reply: "hi"})

	c.SetAPIKey("sk-0123456789abcdefghij")
	c.CreateNewChat()
	if err := c.SendMessage(context.Background(), "hello"); err != nil {
		t.Fatal(err)
	}

	c.ClearAllChats()

	var chats []Chat
	if store.LoadChats(&chats) && len(chats) > 0 {
		t.Error("Chat slot should be cleared")
	}
	if store.CurrentChatID() != "" {
		t.Error("Active chat slot should be cleared")
	}
	if store.APIKey() != "sk-0123456789abcdefghij" {
		t.Error("Credential slot must survive a chat wipe")
	}
	var patch SettingsPatch
	if !store.LoadSettings(&patch) {
		t.Error("Settings slot must survive a chat wipe")
	}
}

// TestSyncer_PipelineReconfiguredOnSettingsChange tests the write-through to
// the pipeline.
func TestSyncer_PipelineReconfiguredOnSettingsChange(t *testing.T) {
	pipe := &fakePipeline{}
	c, _ := wireController(t, newTestStore(t), pipe)

	provider := "openrouter"
	c.UpdateSettings(SettingsPatch{Provider: &provider})

	pipe.mu.Lock()
	defer pipe.mu.Unlock()
	if len(pipe.configured) == 0 {
		t.Fatal("Pipeline should be reconfigured on settings changes")
	}
	if last := pipe.configured[len(pipe.configured)-1]; last.Provider != "openrouter" {
		t.Errorf("Pipeline should see the new settings, got provider '%s'", last.Provider)
	}
}

// TestSyncer_DeleteLastChatPersists tests that deleting the final chat is
// reflected on disk rather than leaving a stale copy.
func TestSyncer_DeleteLastChatPersists(t *testing.T) {
	store := newTestStore(t)
	c, _ := wireController(t, store, &fakePipeline{})

	chat := c.CreateNewChat()
	var onDisk []Chat
	if !store.LoadChats(&onDisk) || len(onDisk) != 1 {
		t.Fatal("Chat should be written through on creation")
	}

	c.DeleteChat(chat.ID)

	onDisk = nil
	if store.LoadChats(&onDisk) && len(onDisk) > 0 {
		t.Error("Deleting the last chat should persist the empty list")
	}
	if store.CurrentChatID() != "" {
		t.Error("Active chat slot should be cleared with the last chat")
	}
}

// TestSyncer_CredentialClearedOnDisk tests that blanking the key removes the
// credential slot.
func TestSyncer_CredentialClearedOnDisk(t *testing.T) {
	store := newTestStore(t)
	c, _ := wireController(t, store, &fakePipeline{})

	c.SetAPIKey("sk-0123456789abcdefghij")
	if store.APIKey() == "" {
		t.Fatal("Credential should be written through")
	}

	c.SetAPIKey("")
	if store.APIKey() != "" {
		t.Error("Blanking the key should clear the credential slot")
	}
}
