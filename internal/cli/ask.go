// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/olivia-tui/internal/chat"
)

// AskCmd sends a single prompt and prints the reply. Nothing is persisted,
// so it is safe to use from scripts.
type AskCmd struct {
	Prompt []string `arg:"" help:"The prompt text."`

	Model   string        `short:"m" help:"Override the configured model for this request."`
	Timeout time.Duration `default:"2m" help:"Request timeout."`
	Raw     bool          `help:"Print the reply without markdown rendering."`
}

// Run issues the one-shot request.
func (a *AskCmd) Run(app *App) error {
	prompt := strings.TrimSpace(strings.Join(a.Prompt, " "))
	if prompt == "" {
		return fmt.Errorf("empty prompt")
	}

	settings := app.Ctrl.Snapshot().Settings
	if a.Model != "" {
		settings.Model = a.Model
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Timeout)
	defer cancel()

	history := []chat.Message{chat.NewMessage(prompt, chat.RoleUser)}
	reply, err := app.Client.Send(ctx, history, settings)
	if err != nil {
		return err
	}

	if a.Raw || !app.Cfg.UI.Markdown {
		fmt.Println(reply)
		return nil
	}
	fmt.Print(renderMarkdown(reply, app.Cfg.UI.WordWrap))
	return nil
}
