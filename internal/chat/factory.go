// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"crypto/rand"
	"strconv"
	"strings"
	"time"
)

// DefaultChatTitle is the sentinel title of a chat that has not yet been
// retitled from its first message.
const DefaultChatTitle = "New Chat"

// maxTitleLength is the hard cap applied by DeriveTitle.
const maxTitleLength = 50

// NewMessage builds a message with a fresh ID and timestamp. Content is
// trimmed; callers are responsible for dropping messages whose trimmed
// content is empty.
func NewMessage(content string, role Role) Message {
	return Message{
		ID:        generateID(),
		Content:   strings.TrimSpace(content),
		Role:      role,
		Timestamp: time.Now(),
	}
}

// NewChat builds an empty chat. An empty title defaults to the sentinel.
func NewChat(title string) Chat {
	if title == "" {
		title = DefaultChatTitle
	}
	now := time.Now()
	return Chat{
		ID:        generateID(),
		Title:     title,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DeriveTitle builds a chat title from its first message: newlines collapse
// to spaces and the result is hard-truncated to 50 characters with a
// trailing ellipsis marker.
func DeriveTitle(firstMessage string) string {
	cleaned := strings.TrimSpace(strings.ReplaceAll(firstMessage, "\n", " "))
	runes := []rune(cleaned)
	if len(runes) <= maxTitleLength {
		return cleaned
	}
	return strings.TrimSpace(string(runes[:maxTitleLength])) + "..."
}

// idAlphabet matches base36: digits then lowercase letters.
const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// generateID returns an identifier unique within a running session: the
// millisecond clock followed by a 9-character random suffix. Collisions
// require two IDs in the same millisecond with the same suffix, which is
// negligible for any real session length. Not cryptographically unique.
func generateID() string {
	buf := make([]byte, 9)
	rand.Read(buf)
	suffix := make([]byte, len(buf))
	for i, b := range buf {
		suffix[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + string(suffix)
}
