// Package domain defines the wire-level types shared by the humanloop
// backend and this console. The backend emits snake_case JSON; every
// type here mirrors that format exactly.
package domain

import (
	"fmt"
	"time"
)

// SessionStatus is the lifecycle state of an interaction session.
type SessionStatus string

const (
	StatusPending   SessionStatus = "pending"
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
	StatusTimeout   SessionStatus = "timeout"
	StatusCancelled SessionStatus = "cancelled"
	StatusError     SessionStatus = "error"
)

// Terminal reports whether no further status transition can occur.
func (s SessionStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusTimeout, StatusCancelled, StatusError:
		return true
	}
	return false
}

// Display returns a human-readable label for the status.
func (s SessionStatus) Display() string {
	switch s {
	case StatusPending:
		return "waiting"
	case StatusActive:
		return "in progress"
	case StatusCompleted:
		return "completed"
	case StatusTimeout:
		return "timed out"
	case StatusCancelled:
		return "cancelled"
	case StatusError:
		return "error"
	}
	return string(s)
}

// Session is one pending human-interaction request with its lifecycle
// status. Records are immutable: lifecycle changes arrive as fresh
// records via push events, never as in-place mutation.
type Session struct {
	SessionID    string              `json:"session_id"`
	WorkflowID   string              `json:"workflow_id,omitempty"`
	CallbackURL  string              `json:"callback_url,omitempty"`
	Status       SessionStatus       `json:"status"`
	CreatedAt    Timestamp           `json:"created_at"`
	UpdatedAt    Timestamp           `json:"updated_at,omitempty"`
	ExpiresAt    Timestamp           `json:"expires_at,omitempty"`
	ErrorMessage string              `json:"error_message,omitempty"`
	Interaction  *InteractionRequest `json:"interaction_data,omitempty"`
}

// Title returns the interaction title, or the session ID when the
// record carries no interaction data.
func (s *Session) Title() string {
	if s.Interaction != nil && s.Interaction.Title != "" {
		return s.Interaction.Title
	}
	return s.SessionID
}

// Age formats how long ago the session was created, e.g. "5m ago".
func (s *Session) Age(now time.Time) string {
	d := now.Sub(s.CreatedAt.Time())
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
