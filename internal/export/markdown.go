// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"

	"github.com/jeranaias/olivia-tui/internal/chat"
)

// MarkdownExporter renders a chat as a Markdown document with YAML
// frontmatter.
type MarkdownExporter struct{}

// Export implements Exporter.
func (MarkdownExporter) Export(c chat.Chat) ([]byte, error) {
	var b strings.Builder

	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %s\n", escapeYAML(c.Title))
	fmt.Fprintf(&b, "created: %s\n", c.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"))
	fmt.Fprintf(&b, "updated: %s\n", c.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"))
	fmt.Fprintf(&b, "messages: %d\n", len(c.Messages))
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# %s\n\n", c.Title)

	for _, msg := range c.Messages {
		fmt.Fprintf(&b, "## %s\n\n", roleLabel(msg.Role))
		fmt.Fprintf(&b, "*%s*\n\n", formatTimestamp(msg.Timestamp))
		b.WriteString(strings.TrimSpace(msg.Content))
		b.WriteString("\n\n")
	}

	return []byte(b.String()), nil
}

// FileExtension implements Exporter.
func (MarkdownExporter) FileExtension() string { return "md" }

func roleLabel(r chat.Role) string {
	switch r {
	case chat.RoleUser:
		return "You"
	case chat.RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// escapeYAML quotes a frontmatter value when it contains characters that
// would break the scalar.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#\"'\n[]{}") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
