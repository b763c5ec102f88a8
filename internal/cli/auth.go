// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jeranaias/olivia-tui/internal/chat"
	"github.com/jeranaias/olivia-tui/internal/provider"
	"github.com/jeranaias/olivia-tui/internal/ui/styles"
)

// AuthCmd manages the stored API credential.
type AuthCmd struct {
	Set    AuthSetCmd    `cmd:"" help:"Store an API key for the active provider."`
	Status AuthStatusCmd `cmd:"" default:"1" help:"Show whether a key is configured."`
	Clear  AuthClearCmd  `cmd:"" help:"Remove the stored key."`
}

// AuthSetCmd reads a key without echoing it and stores it.
type AuthSetCmd struct {
	Provider string `short:"p" help:"Provider to validate against (defaults to the active one)."`
}

func (a *AuthSetCmd) Run(app *App) error {
	providerID := a.Provider
	if providerID == "" {
		providerID = app.Ctrl.Snapshot().Settings.Provider
	}
	p, ok := provider.ByID(providerID)
	if !ok {
		return fmt.Errorf("unknown provider %q", providerID)
	}

	key, err := readSecret(fmt.Sprintf("API key for %s: ", p.Name))
	if err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("empty key")
	}

	if !provider.ValidateKey(key, p) {
		fmt.Println(warningStyle.Render(fmt.Sprintf(
			"Key does not look like a %s key (expected prefix %q). Storing anyway.",
			p.Name, p.KeyPrefix)))
	}

	if a.Provider != "" && a.Provider != app.Ctrl.Snapshot().Settings.Provider {
		app.Ctrl.UpdateSettings(providerPatch(p))
	}
	app.Ctrl.SetAPIKey(key)

	fmt.Println(styles.RenderSuccess("Key stored: " + provider.MaskKey(key)))
	return nil
}

// AuthStatusCmd reports the credential state.
type AuthStatusCmd struct{}

func (AuthStatusCmd) Run(app *App) error {
	snap := app.Ctrl.Snapshot()
	if snap.Settings.APIKey == "" {
		fmt.Println(styles.RenderWarning("No API key configured. Run: olivia auth set"))
		return nil
	}
	fmt.Println(styles.RenderSuccess(fmt.Sprintf("Key configured for %s: %s",
		snap.Settings.Provider, provider.MaskKey(snap.Settings.APIKey))))
	return nil
}

// AuthClearCmd removes the stored credential.
type AuthClearCmd struct{}

func (AuthClearCmd) Run(app *App) error {
	app.Ctrl.SetAPIKey("")
	fmt.Println(styles.RenderInfo("Key removed."))
	return nil
}

// providerPatch switches the active provider, resetting the model to the
// provider's default and clearing any base URL override.
func providerPatch(p provider.Config) chat.SettingsPatch {
	model := ""
	if len(p.Models) > 0 {
		model = p.Models[0]
	}
	baseURL := ""
	return chat.SettingsPatch{Provider: &p.ID, Model: &model, BaseURL: &baseURL}
}

// readSecret reads a line with echo disabled when stdin is a terminal.
func readSecret(prompt string) (string, error) {
	fmt.Print(promptStyle.Render(prompt))
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		data, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	// Piped input, e.g. echo "$KEY" | olivia auth set
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
