// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"time"

	"github.com/mattn/go-runewidth"
)

// TruncateString truncates s to maxLen characters, adding "..." if truncated.
// Uses rune-based truncation for proper Unicode handling.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// PadRight pads s with spaces to the given display width. Wide runes (CJK,
// emoji) count as their rendered cell width, not their rune count.
func PadRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	for i := 0; i < width-w; i++ {
		s += " "
	}
	return s
}

// FormatClock formats a timestamp as a short hh:mm clock for transcript
// display.
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}
