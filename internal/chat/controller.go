// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/olivia-tui/internal/logger"
)

// =============================================================================
// PIPELINE CONTRACT
// =============================================================================

// Pipeline sends a message history to the active provider and returns the
// assistant's reply. Implementations must fail fast without network I/O
// when no credential is configured.
type Pipeline interface {
	// Configure rebuilds the client from settings. Idempotent.
	Configure(settings Settings)

	// Send issues one completion request and returns the reply text.
	Send(ctx context.Context, history []Message, settings Settings) (string, error)
}

// Observer is notified after every accepted intent. Observers run
// synchronously, in registration order, outside the controller lock.
type Observer interface {
	StateChanged(prev, next State, in Intent)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(prev, next State, in Intent)

// StateChanged implements Observer.
func (f ObserverFunc) StateChanged(prev, next State, in Intent) {
	f(prev, next, in)
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the canonical conversation state. It is the only writer:
// every mutation flows through Dispatch, which applies the pure reducer and
// then notifies observers (persistence, pipeline reconfiguration).
type Controller struct {
	mu        sync.Mutex
	state     State
	observers []Observer
	pipeline  Pipeline
}

// NewController creates a controller with empty state and default settings.
func NewController(p Pipeline) *Controller {
	return &Controller{
		state: State{
			Chats:    []Chat{},
			Settings: DefaultSettings(),
		},
		pipeline: p,
	}
}

// AddObserver registers an observer for post-transition hooks.
func (c *Controller) AddObserver(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

// Snapshot returns a deep copy of the current state. The copy is safe to
// hold across later dispatches.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Dispatch applies an intent and notifies observers.
func (c *Controller) Dispatch(in Intent) {
	c.mu.Lock()
	prev, next, obs := c.applyLocked(in)
	c.mu.Unlock()
	c.notify(obs, prev, next, in)
}

// applyLocked runs the reducer under the lock and returns what notify needs.
func (c *Controller) applyLocked(in Intent) (prev, next State, obs []Observer) {
	prev = c.state
	next = reduce(prev, in)
	c.state = next
	obs = make([]Observer, len(c.observers))
	copy(obs, c.observers)
	return prev, next, obs
}

func (c *Controller) notify(obs []Observer, prev, next State, in Intent) {
	for _, o := range obs {
		o.StateChanged(prev, next, in)
	}
}

// =============================================================================
// CHAT MANAGEMENT
// =============================================================================

// CreateNewChat creates an empty chat with the sentinel title and makes it
// current.
func (c *Controller) CreateNewChat() Chat {
	chat := NewChat("")
	c.Dispatch(AddChat{Chat: chat})
	return chat
}

// DeleteChat removes a chat by ID.
func (c *Controller) DeleteChat(id string) {
	c.Dispatch(DeleteChat{ChatID: id})
}

// SelectChat makes the given chat current.
func (c *Controller) SelectChat(id string) {
	c.Dispatch(SetCurrentChat{ChatID: id})
}

// CurrentChat returns the active chat, if any.
func (c *Controller) CurrentChat() (Chat, bool) {
	return c.Snapshot().CurrentChat()
}

// ClearAllChats removes every chat. Settings and credential are untouched.
func (c *Controller) ClearAllChats() {
	c.Dispatch(ClearAllChats{})
}

// =============================================================================
// SETTINGS
// =============================================================================

// UpdateSettings merges a partial settings update.
func (c *Controller) UpdateSettings(p SettingsPatch) {
	c.Dispatch(MergeSettings{Patch: p})
}

// SetAPIKey replaces the active credential.
func (c *Controller) SetAPIKey(key string) {
	c.Dispatch(MergeSettings{Patch: SettingsPatch{APIKey: &key}})
}

// IsCredentialSet reports whether a non-blank credential is configured.
func (c *Controller) IsCredentialSet() bool {
	return strings.TrimSpace(c.Snapshot().Settings.APIKey) != ""
}

// =============================================================================
// SEND ORCHESTRATION
// =============================================================================

// SendMessage runs the full send workflow: ensure a current chat exists,
// append the user message, retitle a fresh chat, call the pipeline, and
// append the reply or record the failure.
//
// Empty or whitespace-only content is a complete no-op: no state changes at
// all. A send issued while another is in flight is likewise a no-op; the
// controller enforces single-flight itself rather than trusting callers to
// respect IsLoading.
//
// Pipeline failures land in State.Error as text and are also returned for
// callers that want the typed error; they never panic across this boundary.
func (c *Controller) SendMessage(ctx context.Context, content string) error {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	c.mu.Lock()

	if c.state.IsLoading {
		c.mu.Unlock()
		logger.L().Debug().Msg("send ignored: another send is in flight")
		return nil
	}

	var pending []func()
	dispatch := func(in Intent) {
		prev, next, obs := c.applyLocked(in)
		pending = append(pending, func() { c.notify(obs, prev, next, in) })
	}

	// Ensure a target chat exists. An implicit chat is born already titled
	// from the outgoing content, so the retitle step below will not fire.
	if _, ok := c.state.CurrentChat(); !ok {
		dispatch(AddChat{Chat: NewChat(DeriveTitle(content))})
	}

	target, _ := c.state.CurrentChat()
	wasEmpty := len(target.Messages) == 0
	hadSentinelTitle := target.Title == DefaultChatTitle

	userMsg := NewMessage(content, RoleUser)

	// Outgoing history: the chat's messages as they were before this send,
	// plus the new user message.
	history := make([]Message, 0, len(target.Messages)+1)
	history = append(history, target.Messages...)
	history = append(history, userMsg)

	dispatch(AppendMessage{ChatID: target.ID, Message: userMsg})
	dispatch(SetLoading{Loading: true})

	// Retitle only the first message into an empty, sentinel-titled chat.
	if wasEmpty && hadSentinelTitle {
		title := DeriveTitle(content)
		dispatch(UpdateChat{ChatID: target.ID, Title: &title, UpdatedAt: time.Now()})
	}

	settings := c.state.Settings
	chatID := target.ID

	c.mu.Unlock()
	for _, fn := range pending {
		fn()
	}

	// Suspension point: the one outbound call. No lock held.
	reply, err := c.pipeline.Send(ctx, history, settings)

	if err != nil {
		logger.L().Warn().Err(err).Str("chat_id", chatID).Msg("send failed")
		c.Dispatch(SetError{Err: err.Error()})
	} else {
		c.Dispatch(AppendMessage{ChatID: chatID, Message: NewMessage(reply, RoleAssistant)})
	}

	// Loading always ends with the attempt, success or failure.
	c.Dispatch(SetLoading{Loading: false})

	return err
}
