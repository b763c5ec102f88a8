// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	conv "github.com/jeranaias/olivia-tui/internal/chat"
)

// =============================================================================
// MESSAGES
// =============================================================================

// SendFinishedMsg reports the outcome of a send command. The authoritative
// result already lives in controller state; the message only wakes the view.
type SendFinishedMsg struct {
	Err error
}

// =============================================================================
// COMMANDS
// =============================================================================

// sendCmd runs the full send workflow off the event loop.
func sendCmd(ctrl *conv.Controller, content string) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.SendMessage(context.Background(), content)
		return SendFinishedMsg{Err: err}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Init starts the spinner tick.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		// While a send is in flight the snapshot changes under us (user
		// message append, loading flag); the tick doubles as a refresh.
		if m.waiting {
			m.refresh()
		}
		return m, tea.Batch(cmds...)

	case SendFinishedMsg:
		m.waiting = false
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handleKey routes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keyMap

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit

	case key.Matches(msg, k.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, k.Dismiss):
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if m.snapshot.Error != "" {
			m.ctrl.Dispatch(conv.SetError{Err: ""})
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, k.Submit):
		content := strings.TrimSpace(m.input.Value())
		if content == "" || m.waiting {
			return m, nil
		}
		m.input.Reset()
		m.waiting = true
		m.refresh()
		return m, tea.Batch(sendCmd(m.ctrl, content), m.spinner.Tick)

	case key.Matches(msg, k.NewChat):
		m.ctrl.CreateNewChat()
		m.refresh()
		return m, nil

	case key.Matches(msg, k.NextChat):
		m.cycleChat(1)
		return m, nil

	case key.Matches(msg, k.PrevChat):
		m.cycleChat(-1)
		return m, nil

	case key.Matches(msg, k.DeleteChat):
		if m.snapshot.CurrentChatID != "" && !m.waiting {
			m.ctrl.DeleteChat(m.snapshot.CurrentChatID)
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, k.Up), key.Matches(msg, k.Down),
		key.Matches(msg, k.PageUp), key.Matches(msg, k.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// cycleChat moves the active chat pointer through the list.
func (m *Model) cycleChat(delta int) {
	n := len(m.snapshot.Chats)
	if n < 2 {
		return
	}
	idx := m.currentIndex()
	if idx < 0 {
		idx = 0
	}
	next := (idx + delta + n) % n
	m.ctrl.SelectChat(m.snapshot.Chats[next].ID)
	m.refresh()
	m.viewport.GotoBottom()
}

// layout recomputes component sizes from the window dimensions.
func (m *Model) layout() {
	headerHeight := 1
	statusHeight := 1
	inputHeight := 3

	m.viewport.Width = m.width
	m.viewport.Height = m.height - headerHeight - statusHeight - inputHeight
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
	m.input.Width = m.width - 4
}
