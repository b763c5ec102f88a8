// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/jeranaias/olivia-tui/internal/chat"
)

// JSONExporter emits a chat as an indented JSON envelope with an export
// timestamp and schema version.
type JSONExporter struct{}

type jsonEnvelope struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Chat       chat.Chat `json:"chat"`
}

// Export implements Exporter.
func (JSONExporter) Export(c chat.Chat) ([]byte, error) {
	env := jsonEnvelope{
		Version:    1,
		ExportedAt: time.Now().UTC(),
		Chat:       c,
	}
	return json.MarshalIndent(env, "", "  ")
}

// FileExtension implements Exporter.
func (JSONExporter) FileExtension() string { return "json" }
