// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/peterh/liner"

	"github.com/jeranaias/olivia-tui/internal/chat"
	"github.com/jeranaias/olivia-tui/internal/config"
	uichat "github.com/jeranaias/olivia-tui/internal/ui/chat"
	"github.com/jeranaias/olivia-tui/internal/ui/styles"
)

// ChatCmd opens the interactive chat interface.
type ChatCmd struct {
	Plain bool `help:"Use a plain line-based prompt instead of the full-screen UI."`
}

// Run starts either the Bubble Tea UI or the plain REPL.
func (c *ChatCmd) Run(app *App) error {
	if c.Plain {
		return runPlainChat(app)
	}

	model := uichat.New(app.Ctrl, styles.NewTheme(), uichat.Options{
		Markdown: app.Cfg.UI.Markdown,
		WordWrap: app.Cfg.UI.WordWrap,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// =============================================================================
// PLAIN REPL
// =============================================================================

// lineReader wraps liner with a persistent history file.
type lineReader struct {
	line        *liner.State
	historyFile string
}

func newLineReader() *lineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}
	r := &lineReader{
		line:        line,
		historyFile: filepath.Join(dir, "chat_history"),
	}
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
	return r
}

func (r *lineReader) Read(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

func (r *lineReader) Close() {
	if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
		r.line.WriteHistory(f)
		f.Close()
	}
	r.line.Close()
}

func runPlainChat(app *App) error {
	reader := newLineReader()
	defer reader.Close()

	snap := app.Ctrl.Snapshot()
	fmt.Println(headerStyle.Render("olivia"))
	fmt.Println(infoStyle.Render(fmt.Sprintf("provider: %s  model: %s", snap.Settings.Provider, snap.Settings.Model)))
	fmt.Println(infoStyle.Render("Type /help for commands, /quit or Ctrl+D to exit."))
	fmt.Println()

	if !app.Ctrl.IsCredentialSet() {
		fmt.Println(warningStyle.Render("No API key configured. Run: olivia auth set"))
		fmt.Println()
	}

	for {
		input, err := reader.Read(promptStyle.Render("> "))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			// io.EOF on Ctrl+D
			fmt.Println()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, "/") {
			if quit := handleReplCommand(app, input); quit {
				return nil
			}
			continue
		}

		if err := app.Ctrl.SendMessage(context.Background(), input); err != nil {
			fmt.Println(errorStyle.Render("error: ") + err.Error())
			continue
		}
		printLastReply(app)
	}
}

func printLastReply(app *App) {
	snap := app.Ctrl.Snapshot()
	cur, ok := snap.CurrentChat()
	if !ok || len(cur.Messages) == 0 {
		return
	}
	last := cur.Messages[len(cur.Messages)-1]
	if last.Role != chat.RoleAssistant {
		if snap.Error != "" {
			fmt.Println(errorStyle.Render("error: ") + snap.Error)
		}
		return
	}
	if app.Cfg.UI.Markdown {
		fmt.Print(renderMarkdown(last.Content, app.Cfg.UI.WordWrap))
	} else {
		fmt.Println(last.Content)
	}
	fmt.Println()
}

func handleReplCommand(app *App, input string) (quit bool) {
	fields := strings.Fields(input)
	switch fields[0] {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		fmt.Println(infoStyle.Render("  /new          start a new chat"))
		fmt.Println(infoStyle.Render("  /list         list saved chats"))
		fmt.Println(infoStyle.Render("  /switch N     switch to chat N from /list"))
		fmt.Println(infoStyle.Render("  /quit         exit"))

	case "/new":
		created := app.Ctrl.CreateNewChat()
		fmt.Println(infoStyle.Render("Started " + created.Title))

	case "/list":
		snap := app.Ctrl.Snapshot()
		if len(snap.Chats) == 0 {
			fmt.Println(infoStyle.Render("No saved chats."))
			break
		}
		for i, c := range snap.Chats {
			marker := "  "
			if c.ID == snap.CurrentChatID {
				marker = promptStyle.Render("* ")
			}
			fmt.Printf("%s%d. %s (%d messages)\n", marker, i+1, c.Title, len(c.Messages))
		}

	case "/switch":
		if len(fields) < 2 {
			fmt.Println(warningStyle.Render("usage: /switch N"))
			break
		}
		snap := app.Ctrl.Snapshot()
		var idx int
		if _, err := fmt.Sscanf(fields[1], "%d", &idx); err != nil || idx < 1 || idx > len(snap.Chats) {
			fmt.Println(warningStyle.Render("no such chat"))
			break
		}
		target := snap.Chats[idx-1]
		app.Ctrl.SelectChat(target.ID)
		fmt.Println(infoStyle.Render("Switched to " + target.Title))

	default:
		fmt.Println(warningStyle.Render("unknown command, try /help"))
	}
	return false
}
