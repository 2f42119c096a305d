// Package console ties the push channel, session store, dispatcher and
// REST client together into the operator-facing engine. All store
// mutations happen on the single Run goroutine, in event arrival order.
package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/soyeahso/humanloop/internal/api"
	"github.com/soyeahso/humanloop/internal/dispatch"
	"github.com/soyeahso/humanloop/internal/domain"
	"github.com/soyeahso/humanloop/internal/history"
	"github.com/soyeahso/humanloop/internal/hooks"
	"github.com/soyeahso/humanloop/internal/logging"
	"github.com/soyeahso/humanloop/internal/session"
	syncer "github.com/soyeahso/humanloop/internal/sync"
)

// ErrSessionNotFound is returned for operations on a session ID absent
// from the store.
var ErrSessionNotFound = errors.New("session not found")

// DefaultCancelReason is used when the operator gives no reason.
const DefaultCancelReason = "cancelled by user"

// Console runs the session synchronization and dispatch engine.
type Console struct {
	store   *session.Store
	applier *syncer.Applier
	channel *syncer.Channel
	api     *api.Client
	userID  string

	notifier Notifier
	hooks    *hooks.Manager
	journal  *history.Journal

	log *logging.Logger
}

// Option configures the console.
type Option func(*Console)

// WithNotifier sets the notification sink.
func WithNotifier(n Notifier) Option {
	return func(c *Console) { c.notifier = n }
}

// WithHooks sets the lifecycle hook manager.
func WithHooks(m *hooks.Manager) Option {
	return func(c *Console) { c.hooks = m }
}

// WithJournal sets the local response journal.
func WithJournal(j *history.Journal) Option {
	return func(c *Console) { c.journal = j }
}

// New creates a console. userID identifies the operator in submitted
// responses.
func New(store *session.Store, channel *syncer.Channel, apiClient *api.Client, userID string, log *logging.Logger, opts ...Option) *Console {
	c := &Console{
		store:   store,
		applier: syncer.NewApplier(store, log),
		channel: channel,
		api:     apiClient,
		userID:  userID,
		log:     log.Sub("console"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.notifier == nil {
		c.notifier = logNotifier{log: c.log}
	}
	return c
}

// Run drains channel events until ctx is cancelled. The store is
// resynchronized from the session snapshot after every (re)connect,
// since push delivery guarantees nothing across gaps.
func (c *Console) Run(ctx context.Context) error {
	go c.channel.Run(ctx)

	c.emitHook(ctx, hooks.EventConsoleStart, nil)
	defer c.emitHook(context.Background(), hooks.EventConsoleStop, nil)

	events := c.channel.Events()
	states := c.channel.States()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case sc, ok := <-states:
			if !ok {
				return nil
			}
			c.handleState(ctx, sc)

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			c.HandleEvent(ctx, ev)
		}
	}
}

func (c *Console) handleState(ctx context.Context, sc syncer.StateChange) {
	switch sc.State {
	case syncer.StateConnected:
		c.notifier.Notify(LevelInfo, "connected")
		if err := c.Resync(ctx); err != nil {
			c.log.Warn().Err(err).Msg("resync after connect failed")
		}
	case syncer.StateDisconnected:
		// Existing sessions are kept: disconnects are assumed transient.
		if sc.Err != nil {
			c.notifier.Notify(LevelError, "connection lost")
		} else {
			c.notifier.Notify(LevelWarning, "disconnected")
		}
	}
}

// HandleEvent applies one lifecycle event and surfaces its outcome.
// Exported so event sequences can be replayed deterministically in
// tests without a live transport.
func (c *Console) HandleEvent(ctx context.Context, ev syncer.Event) {
	changed := c.applier.Apply(ev)
	if !changed {
		return // stale or malformed reference: benign
	}

	switch e := ev.(type) {
	case syncer.NewSession:
		c.notifier.Notify(LevelInfo, "new interaction request: "+e.Session.Title())
		c.emitHook(ctx, hooks.EventSessionReceived, map[string]any{
			"sessionId": e.Session.SessionID,
			"title":     e.Session.Title(),
		})

	case syncer.SessionCompleted:
		c.notifier.Notify(LevelSuccess, "session completed")
		c.recordLifecycle(e.SessionID, "completed", "")
		c.emitHook(ctx, hooks.EventSessionCompleted, map[string]any{"sessionId": e.SessionID})

	case syncer.SessionCancelled:
		c.notifier.Notify(LevelWarning, "session cancelled: "+e.Reason)
		c.recordLifecycle(e.SessionID, "cancelled", e.Reason)
		c.emitHook(ctx, hooks.EventSessionCancelled, map[string]any{
			"sessionId": e.SessionID,
			"reason":    e.Reason,
		})
	}
}

// Resync replaces the local view with the backend's session snapshot:
// every fetched session is upserted and every local session missing
// from the snapshot is removed.
func (c *Console) Resync(ctx context.Context) error {
	sessions, err := c.api.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("fetching session snapshot: %w", err)
	}

	present := make(map[string]bool, len(sessions))
	for _, sess := range sessions {
		present[sess.SessionID] = true
		c.store.Upsert(sess)
	}
	for _, id := range c.store.IDs() {
		if !present[id] {
			c.applier.Apply(syncer.SessionCompleted{SessionID: id})
		}
	}

	c.log.Info().Int("sessions", c.store.Len()).Msg("store resynchronized")
	return nil
}

// Render produces the input form for a session.
func (c *Console) Render(sessionID string) (dispatch.RenderedForm, error) {
	sess, ok := c.store.Get(sessionID)
	if !ok {
		return dispatch.RenderedForm{}, ErrSessionNotFound
	}
	return dispatch.Render(sess)
}

// Submit validates the collected input and sends the response.
// Validation failures never reach the network. On success the session
// stays in the store; removal is driven by the session_completed push
// event so local state never diverges from server truth.
func (c *Console) Submit(ctx context.Context, sessionID string, in dispatch.Input) error {
	sess, ok := c.store.Get(sessionID)
	if !ok {
		return ErrSessionNotFound
	}

	payload, err := dispatch.BuildResponse(sess, in)
	if err != nil {
		var verr *dispatch.ValidationError
		if errors.As(err, &verr) {
			c.notifier.Notify(LevelWarning, verr.Error())
		}
		return err
	}

	if err := c.api.SubmitResponse(ctx, sessionID, payload, c.userID); err != nil {
		c.notifier.Notify(LevelError, "submit failed: "+err.Error())
		return err
	}

	c.notifier.Notify(LevelSuccess, "response submitted")
	c.recordSubmission(sessionID, history.KindResponse, payload)
	c.emitHook(ctx, hooks.EventResponseSubmitted, map[string]any{"sessionId": sessionID})
	return nil
}

// Cancel requests cancellation of a session. The empty reason becomes
// DefaultCancelReason. Removal still awaits the session_cancelled
// event.
func (c *Console) Cancel(ctx context.Context, sessionID, reason string) error {
	if reason == "" {
		reason = DefaultCancelReason
	}

	if err := c.api.CancelSession(ctx, sessionID, reason); err != nil {
		c.notifier.Notify(LevelError, "cancel failed: "+err.Error())
		return err
	}

	c.notifier.Notify(LevelInfo, "cancellation requested")
	c.recordSubmission(sessionID, history.KindCancel, domain.ResponsePayload{"reason": reason})
	return nil
}

// Focus presents the given session for response.
func (c *Console) Focus(sessionID string) error {
	if !c.applier.Focus(sessionID) {
		return ErrSessionNotFound
	}
	return nil
}

// Focused returns the ID of the focused session, or "".
func (c *Console) Focused() string { return c.applier.Focused() }

// Sessions returns the active sessions, newest first.
func (c *Console) Sessions() []*domain.Session { return c.store.List() }

func (c *Console) recordSubmission(sessionID string, kind history.SubmissionKind, payload domain.ResponsePayload) {
	if c.journal == nil {
		return
	}
	if err := c.journal.RecordSubmission(sessionID, kind, payload, c.userID); err != nil {
		c.log.Warn().Err(err).Str("sessionId", sessionID).Msg("journal write failed")
	}
}

func (c *Console) recordLifecycle(sessionID, outcome, reason string) {
	if c.journal == nil {
		return
	}
	if err := c.journal.RecordLifecycle(sessionID, outcome, reason); err != nil {
		c.log.Warn().Err(err).Str("sessionId", sessionID).Msg("journal write failed")
	}
}

func (c *Console) emitHook(ctx context.Context, event string, data map[string]any) {
	if c.hooks != nil {
		c.hooks.EmitAsync(ctx, event, data)
	}
}
