// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders chats to portable formats (Markdown, JSON) for
// archival or sharing outside the app.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/olivia-tui/internal/chat"
	"github.com/jeranaias/olivia-tui/internal/util"
)

// =============================================================================
// EXPORTER CONTRACT
// =============================================================================

// Exporter converts a chat to a serialized document.
type Exporter interface {
	Export(c chat.Chat) ([]byte, error)
	FileExtension() string
}

// ByFormat returns the exporter for a format name.
func ByFormat(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "markdown", "md":
		return MarkdownExporter{}, nil
	case "json":
		return JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unknown export format %q (want markdown or json)", format)
	}
}

// ToFile writes the exported chat into dir and returns the file path. The
// filename is derived from the chat title and creation time.
func ToFile(c chat.Chat, e Exporter, dir string) (string, error) {
	data, err := e.Export(c)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s.%s",
		sanitizeFilename(c.Title),
		c.CreatedAt.Format("2006-01-02_150405"),
		e.FileExtension())
	path := filepath.Join(dir, name)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}

// sanitizeFilename keeps a conservative character set so exports land safely
// on any filesystem.
func sanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		s = "chat"
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('_')
		}
	}
	out := b.String()
	if out == "" {
		out = "chat"
	}
	if len(out) > 60 {
		out = out[:60]
	}
	return out
}

func formatTimestamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}
