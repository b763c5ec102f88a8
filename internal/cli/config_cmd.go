// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jeranaias/olivia-tui/internal/chat"
	"github.com/jeranaias/olivia-tui/internal/config"
	"github.com/jeranaias/olivia-tui/internal/provider"
	"github.com/jeranaias/olivia-tui/internal/util"
)

// ConfigCmd shows or changes settings.
type ConfigCmd struct {
	Show ConfigShowCmd `cmd:"" default:"1" help:"Print the active settings."`
	Set  ConfigSetCmd  `cmd:"" help:"Change one setting."`
}

// ConfigShowCmd prints active provider settings and UI options.
type ConfigShowCmd struct{}

func (ConfigShowCmd) Run(app *App) error {
	st := app.Ctrl.Snapshot().Settings

	fmt.Println(headerStyle.Render("Provider"))
	printSetting("provider", st.Provider)
	printSetting("model", st.Model)
	if st.BaseURL != "" {
		printSetting("base-url", st.BaseURL)
	}
	printSetting("temperature", fmt.Sprintf("%.1f", st.Temperature))
	printSetting("max-tokens", strconv.Itoa(st.MaxTokens))

	fmt.Println()
	fmt.Println(headerStyle.Render("Interface"))
	printSetting("markdown", strconv.FormatBool(app.Cfg.UI.Markdown))
	printSetting("word-wrap", strconv.Itoa(app.Cfg.UI.WordWrap))
	printSetting("log-level", app.Cfg.Log.Level)
	printSetting("telemetry", strconv.FormatBool(app.Cfg.Telemetry))
	return nil
}

func printSetting(key, value string) {
	fmt.Printf("  %s %s\n", infoStyle.Render(util.PadRight(key, 14)), value)
}

// ConfigSetCmd updates a single setting by name.
type ConfigSetCmd struct {
	Key   string `arg:"" help:"Setting name (provider, model, base-url, temperature, max-tokens, markdown, word-wrap, log-level, telemetry)."`
	Value string `arg:"" help:"New value."`
}

func (c *ConfigSetCmd) Run(app *App) error {
	key := strings.ToLower(strings.TrimSpace(c.Key))
	value := strings.TrimSpace(c.Value)

	// Provider settings flow through the controller so the change is
	// persisted and the client reconfigured in one step.
	switch key {
	case "provider":
		p, ok := provider.ByID(value)
		if !ok {
			ids := make([]string, len(provider.Registry))
			for i, pc := range provider.Registry {
				ids[i] = pc.ID
			}
			return fmt.Errorf("unknown provider %q (known: %s)", value, strings.Join(ids, ", "))
		}
		app.Ctrl.UpdateSettings(providerPatch(p))
		fmt.Println(infoStyle.Render("Provider set to " + p.Name))
		return nil

	case "model":
		app.Ctrl.UpdateSettings(chat.SettingsPatch{Model: &value})

	case "base-url":
		app.Ctrl.UpdateSettings(chat.SettingsPatch{BaseURL: &value})

	case "temperature":
		t, err := strconv.ParseFloat(value, 64)
		if err != nil || t < 0 || t > 2 {
			return fmt.Errorf("temperature must be a number between 0 and 2")
		}
		app.Ctrl.UpdateSettings(chat.SettingsPatch{Temperature: &t})

	case "max-tokens":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("max-tokens must be a positive integer")
		}
		app.Ctrl.UpdateSettings(chat.SettingsPatch{MaxTokens: &n})

	case "markdown", "telemetry":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false", key)
		}
		if key == "markdown" {
			app.Cfg.UI.Markdown = b
		} else {
			app.Cfg.Telemetry = b
		}
		return saveConfig(app)

	case "word-wrap":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("word-wrap must be a positive integer")
		}
		app.Cfg.UI.WordWrap = n
		return saveConfig(app)

	case "log-level":
		switch value {
		case "debug", "info", "warn", "error", "disabled":
			app.Cfg.Log.Level = value
		default:
			return fmt.Errorf("log-level must be one of debug, info, warn, error, disabled")
		}
		return saveConfig(app)

	default:
		return fmt.Errorf("unknown setting %q", key)
	}

	fmt.Println(infoStyle.Render(key + " set to " + value))
	return nil
}

func saveConfig(app *App) error {
	if err := config.Save(*app.Cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Println(infoStyle.Render("Saved."))
	return nil
}
