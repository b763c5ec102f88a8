// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"

	conv "github.com/jeranaias/olivia-tui/internal/chat"
	"github.com/jeranaias/olivia-tui/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Options configures the chat view.
type Options struct {
	// Markdown renders assistant replies through glamour.
	Markdown bool

	// WordWrap is the markdown render width.
	WordWrap int
}

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// Conversation controller (canonical state)
	ctrl *conv.Controller

	// Last snapshot rendered
	snapshot conv.State

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Markdown rendering
	renderer *glamour.TermRenderer
	markdown bool

	// Key bindings
	keyMap KeyMap

	// Overlay state
	showHelp bool

	// True while a send command is running
	waiting bool
}

// New creates a new chat model over the given controller.
func New(ctrl *conv.Controller, theme *styles.Theme, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = theme.InputPrompt
	ti.Placeholder = "Type a message..."
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	// ASCII spinner frames keep the animation intact on limited terminals.
	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 12,
	}
	sp.Style = theme.Spinner

	var renderer *glamour.TermRenderer
	if opts.Markdown {
		wrap := opts.WordWrap
		if wrap <= 0 {
			wrap = 80
		}
		// A nil renderer falls back to plain text in the view.
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		)
	}

	return Model{
		ctrl:     ctrl,
		snapshot: ctrl.Snapshot(),
		theme:    theme,
		viewport: vp,
		input:    ti,
		spinner:  sp,
		renderer: renderer,
		markdown: opts.Markdown && renderer != nil,
		keyMap:   DefaultKeyMap(),
	}
}

// refresh pulls a fresh snapshot and re-renders the transcript.
func (m *Model) refresh() {
	m.snapshot = m.ctrl.Snapshot()
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderConversation())
	if atBottom || m.waiting {
		m.viewport.GotoBottom()
	}
}

// currentIndex returns the index of the active chat, or -1.
func (m Model) currentIndex() int {
	for i, c := range m.snapshot.Chats {
		if c.ID == m.snapshot.CurrentChatID {
			return i
		}
	}
	return -1
}
