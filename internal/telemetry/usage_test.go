// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRecorder(t *testing.T) *Recorder {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "usage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRecorder_RecordAndTotals(t *testing.T) {
	r := openTestRecorder(t)

	now := time.Now()
	require.NoError(t, r.Record(Usage{
		RequestID: "req-1", Provider: "openai", Model: "gpt-4o-mini",
		PromptTokens: 10, CompletionTokens: 20, DurationMs: 150,
		OK: true, Timestamp: now,
	}))
	require.NoError(t, r.Record(Usage{
		RequestID: "req-2", Provider: "openai", Model: "gpt-4o-mini",
		DurationMs: 80, OK: false, ErrorKind: "invalid_credential",
		Timestamp: now.Add(time.Second),
	}))
	require.NoError(t, r.Record(Usage{
		RequestID: "req-3", Provider: "anthropic", Model: "claude-3-haiku-20240307",
		PromptTokens: 5, CompletionTokens: 7, DurationMs: 200,
		OK: true, Timestamp: now.Add(2 * time.Second),
	}))

	totals, err := r.Totals()
	require.NoError(t, err)
	require.Len(t, totals, 2)

	// Most requests first
	assert.Equal(t, "gpt-4o-mini", totals[0].Model)
	assert.Equal(t, 2, totals[0].Requests)
	assert.Equal(t, 1, totals[0].Failures)
	assert.Equal(t, 10, totals[0].PromptTokens)
	assert.Equal(t, 20, totals[0].CompletionTokens)
}

func TestRecorder_Recent(t *testing.T) {
	r := openTestRecorder(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, r.Record(Usage{
			RequestID: id, Provider: "openai", Model: "gpt-4o",
			OK: true, Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	recent, err := r.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].RequestID)
	assert.Equal(t, "b", recent[1].RequestID)
	assert.True(t, recent[0].OK)
}

func TestRecorder_DuplicateRequestIDRejected(t *testing.T) {
	r := openTestRecorder(t)

	u := Usage{RequestID: "dup", Provider: "openai", Model: "gpt-4o", OK: true, Timestamp: time.Now()}
	require.NoError(t, r.Record(u))
	assert.Error(t, r.Record(u))
}
