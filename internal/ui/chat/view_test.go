// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	conv "github.com/jeranaias/olivia-tui/internal/chat"
	"github.com/jeranaias/olivia-tui/internal/ui/styles"
)

type stubPipeline struct{}

func (stubPipeline) Configure(conv.Settings) {}
func (stubPipeline) Send(context.Context, []conv.Message, conv.Settings) (string, error) {
	return "stub reply", nil
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	ctrl := conv.NewController(stubPipeline{})
	m := New(ctrl, styles.NewTheme(), Options{Markdown: false, WordWrap: 80})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

func TestView_WelcomeWhenEmpty(t *testing.T) {
	m := newTestModel(t)
	out := m.View()

	if !strings.Contains(out, "start a conversation") {
		t.Error("empty state should show the welcome hint")
	}
	if !strings.Contains(out, "olivia") {
		t.Error("welcome screen should show the app name")
	}
}

func TestView_TranscriptShowsMessages(t *testing.T) {
	m := newTestModel(t)
	if err := m.ctrl.SendMessage(context.Background(), "What is a monad?"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	m.refresh()
	out := m.View()

	if !strings.Contains(out, "What is a monad?") {
		t.Error("transcript should contain the user message")
	}
	if !strings.Contains(out, "stub reply") {
		t.Error("transcript should contain the assistant reply")
	}
}

func TestView_StatusBarShowsProviderAndModel(t *testing.T) {
	m := newTestModel(t)
	out := m.View()

	snap := m.ctrl.Snapshot()
	if !strings.Contains(out, snap.Settings.Provider) {
		t.Errorf("status bar should show provider %q", snap.Settings.Provider)
	}
	if !strings.Contains(out, snap.Settings.Model) {
		t.Errorf("status bar should show model %q", snap.Settings.Model)
	}
}

func TestView_ErrorSurfaced(t *testing.T) {
	m := newTestModel(t)
	m.ctrl.Dispatch(conv.AddChat{Chat: conv.NewChat("")})
	m.ctrl.Dispatch(conv.SetError{Err: "credential rejected by provider"})
	m.refresh()

	if !strings.Contains(m.View(), "credential rejected by provider") {
		t.Error("error message should be rendered in the transcript area")
	}
}

func TestView_HelpOverlay(t *testing.T) {
	m := newTestModel(t)
	m.showHelp = true
	out := m.View()

	if !strings.Contains(out, "Keyboard shortcuts") {
		t.Error("help overlay should list shortcuts")
	}
	if !strings.Contains(out, "new chat") {
		t.Error("help overlay should describe the new chat binding")
	}
}

func TestUpdate_SubmitIgnoresBlankInput(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("   ")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if m.waiting {
		t.Error("blank submit must not enter the waiting state")
	}
	if cmd != nil {
		t.Error("blank submit must not produce a send command")
	}
}

func TestUpdate_NewChatKey(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	m = updated.(Model)

	if len(m.snapshot.Chats) != 1 {
		t.Fatalf("expected 1 chat after ctrl+n, got %d", len(m.snapshot.Chats))
	}
}

func TestCycleChat(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 3; i++ {
		m.ctrl.Dispatch(conv.AddChat{Chat: conv.NewChat("")})
	}
	m.refresh()
	start := m.currentIndex()

	m.cycleChat(1)
	if m.currentIndex() == start {
		t.Error("cycling forward should move to another chat")
	}

	m.cycleChat(-1)
	if m.currentIndex() != start {
		t.Error("cycling back should return to the starting chat")
	}
}
