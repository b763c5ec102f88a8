// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"errors"
	"fmt"
)

// The pipeline's error taxonomy. Every failed send maps to exactly one of
// these; callers can match with errors.Is. The texts double as the
// user-facing error strings, so they are written for humans.
var (
	// ErrNotConfigured indicates no credential is set or the provider ID is
	// unrecognized. Sends fail fast without network I/O.
	ErrNotConfigured = errors.New("API client not configured. Please set an API key")

	// ErrMalformedRequest indicates the provider rejected the request body.
	ErrMalformedRequest = errors.New("invalid request")

	// ErrInvalidCredential indicates authentication failed.
	ErrInvalidCredential = errors.New("invalid API key. Please check your API key")

	// ErrQuotaExceeded indicates a quota or billing failure.
	ErrQuotaExceeded = errors.New("API quota exceeded. Please check your account")

	// ErrNetworkUnavailable indicates a transport-level failure (DNS,
	// connection reset, timeout).
	ErrNetworkUnavailable = errors.New("network error. Please check your internet connection")

	// ErrEmptyResponse indicates the provider returned no completion.
	ErrEmptyResponse = errors.New("no response received from the API")
)

// APIError carries a provider error that fits nowhere in the taxonomy.
type APIError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("API error (HTTP %d): %s", e.Status, e.Message)
}
