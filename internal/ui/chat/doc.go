// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// The view is a thin observer over the conversation controller: every state
// change flows through the controller's reducer, and the view re-renders
// from snapshots. Sending runs as a Bubble Tea command so the event loop
// stays responsive while a completion request is in flight.
package chat
