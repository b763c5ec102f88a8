// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import "fmt"

// VersionCmd prints the build version.
type VersionCmd struct{}

func (VersionCmd) Run(app *App) error {
	fmt.Printf("olivia %s\n", app.Version)
	return nil
}
