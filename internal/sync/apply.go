package sync

import (
	"github.com/soyeahso/humanloop/internal/logging"
	"github.com/soyeahso/humanloop/internal/session"
)

// Applier maps lifecycle events onto session store mutations and
// maintains the focused session. All calls must come from the single
// event-loop goroutine that drains the channel.
type Applier struct {
	store   *session.Store
	focused string
	log     *logging.Logger
}

// NewApplier creates an applier bound to a store.
func NewApplier(store *session.Store, log *logging.Logger) *Applier {
	return &Applier{store: store, log: log.Sub("apply")}
}

// Apply executes the store mutation for ev. It reports whether local
// state changed; a terminal event for an absent session is benign and
// returns false.
func (a *Applier) Apply(ev Event) bool {
	switch e := ev.(type) {
	case NewSession:
		if e.Session == nil || e.Session.SessionID == "" {
			a.log.Debug().Msg("dropping new_session without id")
			return false
		}
		a.store.Upsert(e.Session)
		if a.focused == "" {
			a.focused = e.Session.SessionID
		}
		return true

	case SessionCompleted:
		return a.removeAndDefocus(e.SessionID)

	case SessionCancelled:
		return a.removeAndDefocus(e.SessionID)
	}
	return false
}

func (a *Applier) removeAndDefocus(sessionID string) bool {
	removed := a.store.Remove(sessionID)
	if !removed {
		a.log.Debug().Str("sessionId", sessionID).Msg("terminal event for unknown session")
		return false
	}
	if a.focused == sessionID {
		a.focused = ""
	}
	return true
}

// Focused returns the ID of the session currently presented to the
// user, or "" for the idle view.
func (a *Applier) Focused() string { return a.focused }

// Focus presents the given session. It reports whether the session
// exists in the store.
func (a *Applier) Focus(sessionID string) bool {
	if _, ok := a.store.Get(sessionID); !ok {
		return false
	}
	a.focused = sessionID
	return true
}

// Defocus returns to the idle view.
func (a *Applier) Defocus() { a.focused = "" }
