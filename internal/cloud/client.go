// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud implements the provider request pipeline.
//
// One Client serves every registered provider: it is rebuilt from the
// active settings, maps the local message history onto the provider's wire
// schema, and issues a single non-streaming completion request. Provider
// responses and transport failures are normalized into the error taxonomy
// in errors.go. The pipeline never retries: every send is one terminal
// outcome.
package cloud

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/olivia-tui/internal/chat"
	"github.com/jeranaias/olivia-tui/internal/logger"
	"github.com/jeranaias/olivia-tui/internal/provider"
	"github.com/jeranaias/olivia-tui/internal/telemetry"
)

const (
	// DefaultTimeout is the timeout for completion requests.
	DefaultTimeout = 60 * time.Second

	// maxResponseSize caps response bodies to keep a hostile or broken
	// endpoint from exhausting memory.
	maxResponseSize = 10 * 1024 * 1024

	// anthropicVersion is the fixed protocol version header Anthropic
	// requires on every request.
	anthropicVersion = "2023-06-01"

	userAgent = "olivia/0.1.0"
)

// sharedHTTPClient is used for all requests. Connection pooling avoids a
// TCP+TLS handshake per send.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// wireMessage is the only part of a Message that crosses the wire; IDs and
// timestamps are client-local.
type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      wireMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is the request pipeline. The zero value is unconfigured; Configure
// must run before sends can succeed.
type Client struct {
	mu sync.Mutex

	configured bool
	apiKey     string
	endpoint   string
	anthropic  bool
	providerID string

	httpClient *http.Client
	recorder   *telemetry.Recorder
}

// NewClient creates an unconfigured pipeline.
func NewClient() *Client {
	return &Client{httpClient: sharedHTTPClient}
}

// WithTelemetry attaches a usage recorder. Recording is best-effort and
// never fails a send.
func (c *Client) WithTelemetry(r *telemetry.Recorder) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recorder = r
	return c
}

// Configure rebuilds the pipeline from settings. With an empty credential
// or an unrecognized provider the pipeline becomes unconfigured and every
// send fails fast with ErrNotConfigured, without network I/O. Idempotent.
func (c *Client) Configure(st chat.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.configured = false
	c.apiKey = strings.TrimSpace(st.APIKey)
	c.providerID = st.Provider
	c.anthropic = st.Provider == provider.Anthropic

	p, ok := provider.ByID(st.Provider)
	if !ok {
		return
	}

	base := strings.TrimSuffix(st.BaseURL, "/")
	if base == "" {
		base = strings.TrimSuffix(p.BaseURL, "/")
	}
	if base == "" || c.apiKey == "" {
		return
	}

	// Anthropic wants a versioned path on top of its configured base.
	if c.anthropic {
		base += "/v1"
	}

	c.endpoint = base + "/chat/completions"
	c.configured = true
}

// IsConfigured reports whether the pipeline can send.
func (c *Client) IsConfigured() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.configured
}

// Send issues one completion request for the given history and returns the
// first completion's text. Settings are re-applied first, so a stale client
// can never send with outdated credentials.
func (c *Client) Send(ctx context.Context, history []chat.Message, st chat.Settings) (string, error) {
	c.Configure(st)

	c.mu.Lock()
	configured := c.configured
	endpoint := c.endpoint
	apiKey := c.apiKey
	anthropic := c.anthropic
	providerID := c.providerID
	recorder := c.recorder
	httpClient := c.httpClient
	c.mu.Unlock()

	if !configured {
		return "", ErrNotConfigured
	}

	reqID := uuid.NewString()
	start := time.Now()

	reply, usage, err := send(ctx, httpClient, endpoint, apiKey, anthropic, history, st)

	duration := time.Since(start)
	evt := logger.L().Info()
	if err != nil {
		evt = logger.L().Warn().Err(err)
	}
	evt.Str("request_id", reqID).
		Str("provider", providerID).
		Str("model", st.Model).
		Dur("duration", duration).
		Msg("completion request")

	if recorder != nil {
		rec := telemetry.Usage{
			RequestID:        reqID,
			Provider:         providerID,
			Model:            st.Model,
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
			DurationMs:       duration.Milliseconds(),
			OK:               err == nil,
			Timestamp:        start,
		}
		if err != nil {
			rec.ErrorKind = errorKind(err)
		}
		if rerr := recorder.Record(rec); rerr != nil {
			logger.L().Warn().Err(rerr).Msg("usage record failed")
		}
	}

	return reply, err
}

type usageCounts struct {
	PromptTokens     int
	CompletionTokens int
}

func send(ctx context.Context, httpClient *http.Client, endpoint, apiKey string, anthropic bool, history []chat.Message, st chat.Settings) (string, usageCounts, error) {
	var usage usageCounts

	messages := make([]wireMessage, len(history))
	for i, m := range history {
		messages[i] = wireMessage{Role: string(m.Role), Content: m.Content}
	}

	body, err := json.Marshal(chatRequest{
		Model:       st.Model,
		Messages:    messages,
		Temperature: st.Temperature,
		MaxTokens:   st.MaxTokens,
	})
	if err != nil {
		return "", usage, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", usage, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if anthropic {
		req.Header.Set("anthropic-version", anthropicVersion)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", usage, fmt.Errorf("%w: %v", ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", usage, fmt.Errorf("%w: %v", ErrNetworkUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", usage, mapErrorResponse(resp.StatusCode, respBody)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", usage, &APIError{Status: resp.StatusCode, Message: "unparseable response body"}
	}
	usage.PromptTokens = parsed.Usage.PromptTokens
	usage.CompletionTokens = parsed.Usage.CompletionTokens

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", usage, ErrEmptyResponse
	}
	return parsed.Choices[0].Message.Content, usage, nil
}

// mapErrorResponse normalizes a provider error response into the taxonomy.
// Providers are matched first on the error type they report, then on the
// HTTP status, since OpenAI-compatible backends are not consistent about
// either.
func mapErrorResponse(status int, body []byte) error {
	var apiErr apiErrorResponse
	detail := ""
	kind := ""
	if err := json.Unmarshal(body, &apiErr); err == nil {
		detail = apiErr.Error.Message
		kind = apiErr.Error.Type
	}

	switch kind {
	case "invalid_request_error":
		return fmt.Errorf("%w: %s", ErrMalformedRequest, detail)
	case "authentication_error":
		return ErrInvalidCredential
	case "insufficient_quota":
		return ErrQuotaExceeded
	}

	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrMalformedRequest, detail)
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrInvalidCredential
	case http.StatusPaymentRequired:
		return ErrQuotaExceeded
	}

	if detail == "" {
		detail = strings.TrimSpace(string(body))
	}
	return &APIError{Status: status, Code: apiErr.Error.Code, Message: detail}
}

// errorKind labels an error for telemetry without leaking request details.
func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrMalformedRequest):
		return "malformed_request"
	case errors.Is(err, ErrInvalidCredential):
		return "invalid_credential"
	case errors.Is(err, ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, ErrNetworkUnavailable):
		return "network_unavailable"
	case errors.Is(err, ErrEmptyResponse):
		return "empty_response"
	default:
		return "unknown"
	}
}
