// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/jeranaias/olivia-tui/internal/util"
)

// UsageCmd reports locally recorded token usage.
type UsageCmd struct {
	Recent int `short:"n" help:"Also show the N most recent requests."`
}

func (u *UsageCmd) Run(app *App) error {
	if app.Recorder == nil {
		fmt.Println(infoStyle.Render("Telemetry is disabled. Enable with: olivia config set telemetry true"))
		return nil
	}

	totals, err := app.Recorder.Totals()
	if err != nil {
		return fmt.Errorf("reading usage database: %w", err)
	}
	if len(totals) == 0 {
		fmt.Println(infoStyle.Render("No usage recorded yet."))
		return nil
	}

	fmt.Println(headerStyle.Render("Usage by model"))
	fmt.Printf("  %s %s %s %s %s\n",
		infoStyle.Render(util.PadRight("MODEL", 36)),
		infoStyle.Render(util.PadRight("REQS", 6)),
		infoStyle.Render(util.PadRight("FAIL", 6)),
		infoStyle.Render(util.PadRight("PROMPT", 10)),
		infoStyle.Render(util.PadRight("COMPLETION", 10)))
	for _, t := range totals {
		name := t.Provider + "/" + t.Model
		fmt.Printf("  %s %s %s %s %s\n",
			util.PadRight(util.TruncateString(name, 34), 36),
			util.PadRight(fmt.Sprintf("%d", t.Requests), 6),
			util.PadRight(fmt.Sprintf("%d", t.Failures), 6),
			util.PadRight(fmt.Sprintf("%d", t.PromptTokens), 10),
			util.PadRight(fmt.Sprintf("%d", t.CompletionTokens), 10))
	}

	if u.Recent > 0 {
		recent, err := app.Recorder.Recent(u.Recent)
		if err != nil {
			return fmt.Errorf("reading usage database: %w", err)
		}

		fmt.Println()
		fmt.Println(headerStyle.Render("Recent requests"))
		for _, r := range recent {
			outcome := "ok"
			if !r.OK {
				outcome = r.ErrorKind
			}
			fmt.Printf("  %s %s %s tokens=%d+%d %dms\n",
				infoStyle.Render(r.Timestamp.Local().Format("01-02 15:04:05")),
				util.PadRight(r.Model, 28),
				util.PadRight(outcome, 12),
				r.PromptTokens, r.CompletionTokens, r.DurationMs)
		}
	}
	return nil
}
