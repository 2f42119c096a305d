// Package hooks provides an event-driven hook system for humanloop
// lifecycle events, including configured shell-command hooks (e.g.
// firing a desktop notification when an interaction request arrives).
package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/soyeahso/humanloop/internal/logging"
)

// Event names for the hook system.
const (
	EventSessionReceived   = "session_received"
	EventSessionCompleted  = "session_completed"
	EventSessionCancelled  = "session_cancelled"
	EventResponseSubmitted = "response_submitted"
	EventConsoleStart      = "console_start"
	EventConsoleStop       = "console_stop"
)

// AllEvents lists all known hook event names.
var AllEvents = []string{
	EventSessionReceived,
	EventSessionCompleted,
	EventSessionCancelled,
	EventResponseSubmitted,
	EventConsoleStart,
	EventConsoleStop,
}

// Payload carries event data to hook handlers.
type Payload struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data,omitempty"`
}

// Handler is a function that handles a hook event. Returning an error
// logs the failure but does not stop processing.
type Handler func(ctx context.Context, p Payload) error

// Manager manages hook registrations and dispatches events.
type Manager struct {
	mu       sync.RWMutex
	handlers map[string][]namedHandler
	log      *logging.Logger
}

type namedHandler struct {
	name    string
	handler Handler
}

// NewManager creates a hook manager.
func NewManager(log *logging.Logger) *Manager {
	return &Manager{
		handlers: make(map[string][]namedHandler),
		log:      log.Sub("hooks"),
	}
}

// On registers a handler for the given event. The name identifies the
// handler for logging and debugging.
func (m *Manager) On(event, name string, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[event] = append(m.handlers[event], namedHandler{name: name, handler: handler})
	m.log.Debug().Str("event", event).Str("handler", name).Msg("hook registered")
}

// Off removes all handlers with the given name from the event.
func (m *Manager) Off(event, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	handlers := m.handlers[event]
	filtered := make([]namedHandler, 0, len(handlers))
	for _, h := range handlers {
		if h.name != name {
			filtered = append(filtered, h)
		}
	}
	m.handlers[event] = filtered
}

// Emit dispatches an event to all registered handlers synchronously.
// Handlers are called in registration order. Errors are logged but do
// not prevent subsequent handlers from running.
func (m *Manager) Emit(ctx context.Context, event string, data map[string]any) {
	for _, h := range m.snapshot(event) {
		if err := h.handler(ctx, Payload{Event: event, Data: data}); err != nil {
			m.log.Warn().
				Err(err).
				Str("event", event).
				Str("handler", h.name).
				Msg("hook handler error")
		}
	}
}

// EmitAsync dispatches an event to all registered handlers
// concurrently. Returns immediately; handler errors are logged.
func (m *Manager) EmitAsync(ctx context.Context, event string, data map[string]any) {
	for _, h := range m.snapshot(event) {
		go func(h namedHandler) {
			if err := h.handler(ctx, Payload{Event: event, Data: data}); err != nil {
				m.log.Warn().
					Err(err).
					Str("event", event).
					Str("handler", h.name).
					Msg("async hook handler error")
			}
		}(h)
	}
}

// Count returns the number of handlers registered for an event.
func (m *Manager) Count(event string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers[event])
}

// Events returns the list of events that have at least one handler
// registered.
func (m *Manager) Events() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]string, 0, len(m.handlers))
	for event, handlers := range m.handlers {
		if len(handlers) > 0 {
			events = append(events, event)
		}
	}
	return events
}

func (m *Manager) snapshot(event string) []namedHandler {
	m.mu.RLock()
	defer m.mu.RUnlock()
	handlers := make([]namedHandler, len(m.handlers[event]))
	copy(handlers, m.handlers[event])
	return handlers
}

// CommandEntry is a configured shell-command hook.
type CommandEntry struct {
	Command string
	Timeout int // milliseconds; 0 means 10s
}

// RegisterCommand registers a shell-command handler for an event. The
// command runs via the shell with the JSON payload in the
// HUMANLOOP_EVENT environment variable.
func (m *Manager) RegisterCommand(event string, entry CommandEntry) {
	name := fmt.Sprintf("cmd:%s", entry.Command)
	m.On(event, name, func(ctx context.Context, p Payload) error {
		timeout := time.Duration(entry.Timeout) * time.Millisecond
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		runCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		payload, err := json.Marshal(p)
		if err != nil {
			return err
		}

		cmd := exec.CommandContext(runCtx, "sh", "-c", entry.Command)
		cmd.Env = append(cmd.Environ(), "HUMANLOOP_EVENT="+string(payload))
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("%w: %s", err, out)
		}
		return nil
	})
}
