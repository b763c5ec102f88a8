// olivia - A terminal chat client for cloud LLM providers.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeranaias/olivia-tui/internal/chat"
	"github.com/jeranaias/olivia-tui/internal/cli"
	"github.com/jeranaias/olivia-tui/internal/cloud"
	"github.com/jeranaias/olivia-tui/internal/config"
	"github.com/jeranaias/olivia-tui/internal/logger"
	"github.com/jeranaias/olivia-tui/internal/storage"
	"github.com/jeranaias/olivia-tui/internal/telemetry"
)

// Version is set at build time via -ldflags.
var Version = "0.2.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logPath := ""
	if dir, derr := config.Dir(); derr == nil {
		logPath = filepath.Join(dir, "olivia.log")
	}
	if err := logger.Init(logger.Config{Level: cfg.Log.Level, Path: logPath}); err != nil {
		return err
	}

	store, err := storage.NewStore()
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}

	client := cloud.NewClient()

	var recorder *telemetry.Recorder
	if cfg.Telemetry {
		dir, derr := config.Dir()
		if derr == nil {
			if recorder, err = telemetry.Open(filepath.Join(dir, "usage.db")); err != nil {
				// Telemetry is best-effort; run without it.
				logger.L().Warn().Err(err).Msg("telemetry disabled")
				recorder = nil
			} else {
				defer recorder.Close()
				client.WithTelemetry(recorder)
			}
		}
	}

	defaults := chat.Settings{
		APIKey:      cfg.APIKey,
		Provider:    cfg.Provider,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}
	ctrl := chat.NewController(client)
	syncer := chat.NewSyncer(store, client, defaults)
	ctrl.AddObserver(syncer)
	syncer.Bootstrap(ctrl)

	var root cli.CLI
	ctx, err := cli.Parse(&root, os.Args[1:])
	if err != nil {
		return err
	}

	return ctx.Run(&cli.App{
		Cfg:      &cfg,
		Store:    store,
		Ctrl:     ctrl,
		Client:   client,
		Recorder: recorder,
		Version:  Version,
	})
}
