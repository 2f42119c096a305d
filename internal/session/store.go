// Package session holds the client-side cache of interaction sessions
// awaiting a human response. The store is the single source of truth
// for that set; it is mutated only through Upsert and Remove.
package session

import (
	"sort"
	"sync"

	"github.com/soyeahso/humanloop/internal/domain"
	"github.com/soyeahso/humanloop/internal/logging"
)

// Subscriber is notified whenever the set of active sessions changes
// and any ordered view must be recomputed.
type Subscriber interface {
	SessionsChanged()
}

// entry pins a session record to its first-insert order so that
// createdAt ties sort deterministically.
type entry struct {
	sess *domain.Session
	seq  uint64
}

// Store is an in-memory session cache keyed by session ID.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]entry
	nextSeq  uint64
	subs     []Subscriber
	log      *logging.Logger
}

// NewStore creates an empty session store.
func NewStore(log *logging.Logger) *Store {
	return &Store{
		sessions: make(map[string]entry),
		log:      log.Sub("session"),
	}
}

// Subscribe registers a subscriber for change notifications.
func (s *Store) Subscribe(sub Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, sub)
}

// Upsert inserts or replaces the record for sess.SessionID. A record
// that has reached a terminal status never regresses: an incoming
// non-terminal record for the same ID is dropped. Replacement keeps
// the original insertion order so list ties stay stable.
func (s *Store) Upsert(sess *domain.Session) {
	if sess == nil || sess.SessionID == "" {
		return
	}

	s.mu.Lock()
	prev, exists := s.sessions[sess.SessionID]
	if exists && prev.sess.Status.Terminal() && !sess.Status.Terminal() {
		s.mu.Unlock()
		s.log.Debug().
			Str("sessionId", sess.SessionID).
			Str("status", string(sess.Status)).
			Msg("ignoring status regression for terminal session")
		return
	}

	seq := prev.seq
	if !exists {
		seq = s.nextSeq
		s.nextSeq++
	}
	s.sessions[sess.SessionID] = entry{sess: sess, seq: seq}
	s.mu.Unlock()

	s.notify()
}

// Remove deletes the record if present. Removing an absent ID is a
// no-op, not an error: push events may race with local state.
func (s *Store) Remove(sessionID string) bool {
	s.mu.Lock()
	_, exists := s.sessions[sessionID]
	if exists {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if exists {
		s.notify()
	}
	return exists
}

// Get returns the record for the given ID. A false result is a valid,
// non-fatal outcome.
func (s *Store) Get(sessionID string) (*domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return e.sess, true
}

// List returns all active sessions ordered by creation time descending,
// newest first. Equal creation times keep insertion order.
func (s *Store) List() []*domain.Session {
	s.mu.RLock()
	entries := make([]entry, 0, len(s.sessions))
	for _, e := range s.sessions {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		ci, cj := entries[i].sess.CreatedAt, entries[j].sess.CreatedAt
		if ci.Time().Equal(cj.Time()) {
			return entries[i].seq < entries[j].seq
		}
		return ci.After(cj)
	})

	out := make([]*domain.Session, len(entries))
	for i, e := range entries {
		out[i] = e.sess
	}
	return out
}

// IDs returns the set of active session IDs.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of active sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) notify() {
	s.mu.RLock()
	subs := make([]Subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()

	for _, sub := range subs {
		sub.SessionsChanged()
	}
}
