// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/olivia-tui/internal/chat"
	"github.com/jeranaias/olivia-tui/internal/export"
	"github.com/jeranaias/olivia-tui/internal/util"
)

// SessionsCmd manages saved chats from the command line.
type SessionsCmd struct {
	List   SessionsListCmd   `cmd:"" default:"1" help:"List saved chats."`
	Export SessionsExportCmd `cmd:"" help:"Export a chat to markdown or JSON."`
	Delete SessionsDeleteCmd `cmd:"" help:"Delete one chat."`
	Clear  SessionsClearCmd  `cmd:"" help:"Delete every chat."`
}

// SessionsListCmd prints the saved chats, newest first.
type SessionsListCmd struct{}

func (SessionsListCmd) Run(app *App) error {
	snap := app.Ctrl.Snapshot()
	if len(snap.Chats) == 0 {
		fmt.Println(infoStyle.Render("No saved chats."))
		return nil
	}

	fmt.Println(headerStyle.Render("Saved chats"))
	for i, c := range snap.Chats {
		marker := "  "
		if c.ID == snap.CurrentChatID {
			marker = promptStyle.Render("* ")
		}
		title := util.TruncateString(c.Title, 40)
		fmt.Printf("%s%2d. %s %s %s\n",
			marker, i+1,
			util.PadRight(title, 42),
			infoStyle.Render(fmt.Sprintf("%3d msgs", len(c.Messages))),
			infoStyle.Render(c.UpdatedAt.Local().Format("2006-01-02 15:04")))
	}
	return nil
}

// SessionsExportCmd writes one chat to a file in the chosen format.
type SessionsExportCmd struct {
	Chat   int    `arg:"" help:"Chat number from 'olivia sessions list'."`
	Format string `short:"f" default:"markdown" enum:"markdown,md,json" help:"Export format."`
	Dir    string `short:"o" default:"." help:"Output directory."`
}

func (e *SessionsExportCmd) Run(app *App) error {
	target, err := chatByNumber(app, e.Chat)
	if err != nil {
		return err
	}

	exporter, err := export.ByFormat(e.Format)
	if err != nil {
		return err
	}
	path, err := export.ToFile(target, exporter, e.Dir)
	if err != nil {
		return err
	}
	fmt.Println(infoStyle.Render("Exported to ") + path)
	return nil
}

// SessionsDeleteCmd removes a single chat.
type SessionsDeleteCmd struct {
	Chat  int  `arg:"" help:"Chat number from 'olivia sessions list'."`
	Force bool `short:"y" help:"Skip the confirmation prompt."`
}

func (d *SessionsDeleteCmd) Run(app *App) error {
	target, err := chatByNumber(app, d.Chat)
	if err != nil {
		return err
	}

	if !d.Force && !confirm(fmt.Sprintf("Delete %q (%d messages)?", target.Title, len(target.Messages))) {
		fmt.Println(infoStyle.Render("Aborted."))
		return nil
	}

	app.Ctrl.DeleteChat(target.ID)
	fmt.Println(infoStyle.Render("Deleted ") + target.Title)
	return nil
}

// SessionsClearCmd removes every chat while keeping settings and credential.
type SessionsClearCmd struct {
	Force bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *SessionsClearCmd) Run(app *App) error {
	n := len(app.Ctrl.Snapshot().Chats)
	if n == 0 {
		fmt.Println(infoStyle.Render("No saved chats."))
		return nil
	}

	if !c.Force && !confirm(fmt.Sprintf("Delete all %d chats?", n)) {
		fmt.Println(infoStyle.Render("Aborted."))
		return nil
	}

	app.Ctrl.ClearAllChats()
	fmt.Println(infoStyle.Render("All chats deleted."))
	return nil
}

// chatByNumber resolves a 1-based list position to a chat.
func chatByNumber(app *App, n int) (chat.Chat, error) {
	snap := app.Ctrl.Snapshot()
	if n < 1 || n > len(snap.Chats) {
		return chat.Chat{}, fmt.Errorf("no chat %d (have %d, see 'olivia sessions list')", n, len(snap.Chats))
	}
	return snap.Chats[n-1], nil
}

// confirm asks a yes/no question on stdin.
func confirm(question string) bool {
	fmt.Print(warningStyle.Render(question) + " [y/N] ")
	var answer string
	if _, err := fmt.Fscanln(os.Stdin, &answer); err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
