// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	conv "github.com/jeranaias/olivia-tui/internal/chat"
	"github.com/jeranaias/olivia-tui/internal/util"
)

// View renders the full chat screen.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(m.renderHelp())
	} else {
		b.WriteString(m.viewport.View())
	}
	b.WriteString("\n")

	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	return b.String()
}

// =============================================================================
// SECTIONS
// =============================================================================

func (m Model) renderHeader() string {
	title := "olivia"
	if cur, ok := m.snapshot.CurrentChat(); ok {
		title = cur.Title
	}

	left := m.theme.HeaderTitle.Render(title)

	right := ""
	if n := len(m.snapshot.Chats); n > 0 {
		idx := m.currentIndex()
		right = m.theme.HeaderSubtitle.Render(fmt.Sprintf("chat %d/%d", idx+1, n))
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderConversation builds the transcript for the viewport.
func (m Model) renderConversation() string {
	cur, ok := m.snapshot.CurrentChat()
	if !ok || len(cur.Messages) == 0 {
		if m.snapshot.Error != "" {
			return m.theme.ErrorBox.Width(m.width - 4).Render(
				m.theme.ErrorTitle.Render("Error: ")+m.snapshot.Error) + "\n"
		}
		return m.renderWelcome()
	}

	var b strings.Builder
	for _, msg := range cur.Messages {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}

	if m.snapshot.IsLoading || m.waiting {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(m.theme.ThinkingText.Render("Thinking..."))
		b.WriteString("\n")
	}

	if m.snapshot.Error != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.ErrorBox.Width(m.width - 4).Render(
			m.theme.ErrorTitle.Render("Error: ") + m.snapshot.Error))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderMessage(msg conv.Message) string {
	meta := m.theme.MessageMeta.Render(util.FormatClock(msg.Timestamp))
	width := m.width - 8
	if width < 20 {
		width = 20
	}

	switch msg.Role {
	case conv.RoleUser:
		label := m.theme.MessageMeta.Render("you ") + meta
		body := m.theme.UserBubble.Width(width).Render(msg.Content)
		return label + "\n" + body + "\n"
	default:
		label := m.theme.MessageMeta.Render("assistant ") + meta
		content := msg.Content
		if m.markdown {
			if rendered, err := m.renderer.Render(content); err == nil {
				content = strings.TrimRight(rendered, "\n")
			}
		}
		body := m.theme.AssistantBubble.Width(width).Render(content)
		return label + "\n" + body + "\n"
	}
}

func (m Model) renderWelcome() string {
	lines := []string{
		m.theme.HeaderTitle.Render("olivia"),
		"",
		"Type a message below to start a conversation.",
		"",
		m.theme.WelcomeHint.Render("C-n new chat   Tab switch chat   C-g help   C-c quit"),
	}
	box := m.theme.WelcomeBox.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.viewport.Width, m.viewport.Height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("Keyboard shortcuts"))
	b.WriteString("\n\n")

	for _, group := range m.keyMap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString("  ")
			b.WriteString(m.theme.ShortcutKey.Render(util.PadRight(h.Key, 12)))
			b.WriteString(m.theme.ShortcutDesc.Render(h.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(m.theme.WelcomeHint.Render("Press C-g to close"))

	content := b.String()
	lines := strings.Count(content, "\n")
	for lines < m.viewport.Height-1 {
		content += "\n"
		lines++
	}
	return content
}

func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	st := m.snapshot.Settings

	left := m.theme.ProviderTag.Render(st.Provider) + " " + m.theme.ModelTag.Render(st.Model)

	var parts []string
	for _, binding := range m.keyMap.ShortHelp() {
		h := binding.Help()
		parts = append(parts, m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
	}
	right := strings.Join(parts, "  ")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		return m.theme.StatusBar.Width(m.width).Render(left)
	}
	return m.theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}
