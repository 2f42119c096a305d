// Package sync maintains the push channel to the humanloop backend and
// translates its lifecycle events into session store mutations.
package sync

import (
	"encoding/json"
	"fmt"

	"github.com/soyeahso/humanloop/internal/domain"
)

// Event names pushed by the backend.
const (
	EventNewSession       = "new_session"
	EventSessionCompleted = "session_completed"
	EventSessionCancelled = "session_cancelled"
)

// Envelope is the wire frame for every pushed event.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Event is the closed set of lifecycle events. Exactly one concrete
// type exists per wire event; handling code switches over them.
type Event interface {
	isEvent()
}

// NewSession announces a session awaiting a human response.
type NewSession struct {
	Session *domain.Session
}

// SessionCompleted announces that a session received its response.
type SessionCompleted struct {
	SessionID string
}

// SessionCancelled announces that a session was cancelled, with a
// user-visible reason.
type SessionCancelled struct {
	SessionID string
	Reason    string
}

func (NewSession) isEvent()       {}
func (SessionCompleted) isEvent() {}
func (SessionCancelled) isEvent() {}

// ErrUnknownEvent wraps an event name this client does not understand.
type ErrUnknownEvent struct {
	Name string
}

func (e *ErrUnknownEvent) Error() string {
	return fmt.Sprintf("unknown event %q", e.Name)
}

type terminalData struct {
	SessionID string `json:"session_id"`
	Reason    string `json:"reason,omitempty"`
}

// Decode parses a raw frame into its typed event.
func Decode(msg []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return nil, fmt.Errorf("parsing event envelope: %w", err)
	}

	switch env.Event {
	case EventNewSession:
		var sess domain.Session
		if err := json.Unmarshal(env.Data, &sess); err != nil {
			return nil, fmt.Errorf("parsing %s data: %w", env.Event, err)
		}
		return NewSession{Session: &sess}, nil

	case EventSessionCompleted:
		var d terminalData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return nil, fmt.Errorf("parsing %s data: %w", env.Event, err)
		}
		return SessionCompleted{SessionID: d.SessionID}, nil

	case EventSessionCancelled:
		var d terminalData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return nil, fmt.Errorf("parsing %s data: %w", env.Event, err)
		}
		return SessionCancelled{SessionID: d.SessionID, Reason: d.Reason}, nil

	default:
		return nil, &ErrUnknownEvent{Name: env.Event}
	}
}
