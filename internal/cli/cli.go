// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli defines the olivia command tree. The default command opens the
// full-screen TUI; the rest are one-shot subcommands for scripting and
// housekeeping (ask, sessions, auth, config, usage).
package cli

import (
	"github.com/alecthomas/kong"

	"github.com/jeranaias/olivia-tui/internal/chat"
	"github.com/jeranaias/olivia-tui/internal/cloud"
	"github.com/jeranaias/olivia-tui/internal/config"
	"github.com/jeranaias/olivia-tui/internal/storage"
	"github.com/jeranaias/olivia-tui/internal/telemetry"
)

// App carries the wired application services into command Run methods.
type App struct {
	Cfg      *config.Config
	Store    *storage.Store
	Ctrl     *chat.Controller
	Client   *cloud.Client
	Recorder *telemetry.Recorder
	Version  string
}

// CLI is the root command tree.
type CLI struct {
	Chat     ChatCmd     `cmd:"" default:"1" help:"Open the chat interface (default)."`
	Ask      AskCmd      `cmd:"" help:"Send a one-shot prompt and print the reply."`
	Sessions SessionsCmd `cmd:"" help:"List, export, and delete saved chats."`
	Auth     AuthCmd     `cmd:"" help:"Manage the API credential."`
	Config   ConfigCmd   `cmd:"" help:"Show or change settings."`
	Usage    UsageCmd    `cmd:"" help:"Show recorded token usage."`
	Version  VersionCmd  `cmd:"" help:"Print the version."`
}

// Parse builds the kong parser and resolves the command line.
func Parse(cli *CLI, args []string) (*kong.Context, error) {
	parser, err := kong.New(cli,
		kong.Name("olivia"),
		kong.Description("A terminal chat client for cloud LLM providers."),
		kong.UsageOnError(),
	)
	if err != nil {
		return nil, err
	}
	return parser.Parse(args)
}
