package sync

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/soyeahso/humanloop/internal/logging"
)

// State is the connection state of the push channel.
type State string

const (
	StateConnected    State = "connected"
	StateDisconnected State = "disconnected"
)

// StateChange reports a channel state transition. Err is set when the
// transition was caused by a dial or read failure.
type StateChange struct {
	State State
	Err   error
}

// ChannelConfig tunes the push channel.
type ChannelConfig struct {
	URL          string        // ws:// or wss:// endpoint
	MinBackoff   time.Duration // first reconnect delay
	MaxBackoff   time.Duration // reconnect delay ceiling
	DialTimeout  time.Duration
	MaxFrameSize int64
}

func (c *ChannelConfig) applyDefaults() {
	if c.MinBackoff <= 0 {
		c.MinBackoff = time.Second
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 30 * time.Second
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 10 * time.Second
	}
	if c.MaxFrameSize <= 0 {
		c.MaxFrameSize = 4 * 1024 * 1024 // 4MB
	}
}

// Channel is an auto-reconnecting WebSocket consumer of backend push
// events. Connection loss is expected and non-fatal: the channel backs
// off exponentially and dials again until the context is cancelled.
type Channel struct {
	cfg    ChannelConfig
	events chan Event
	states chan StateChange
	log    *logging.Logger
}

// NewChannel creates a push channel for the given endpoint.
func NewChannel(cfg ChannelConfig, log *logging.Logger) *Channel {
	cfg.applyDefaults()
	return &Channel{
		cfg:    cfg,
		events: make(chan Event, 64),
		states: make(chan StateChange, 8),
		log:    log.Sub("sync"),
	}
}

// Events delivers decoded lifecycle events in arrival order.
func (c *Channel) Events() <-chan Event { return c.events }

// States delivers connection state transitions.
func (c *Channel) States() <-chan StateChange { return c.states }

// Run dials the backend and pumps events until ctx is cancelled. Both
// output channels are closed on return.
func (c *Channel) Run(ctx context.Context) {
	defer close(c.events)
	defer close(c.states)

	backoff := c.cfg.MinBackoff
	for {
		conn, err := c.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Warn().Err(err).Dur("retryIn", backoff).Msg("connect failed")
			c.emitState(ctx, StateChange{State: StateDisconnected, Err: err})
			if !sleep(ctx, backoff) {
				return
			}
			backoff = min(backoff*2, c.cfg.MaxBackoff)
			continue
		}

		c.log.Info().Str("url", c.cfg.URL).Msg("push channel connected")
		c.emitState(ctx, StateChange{State: StateConnected})
		backoff = c.cfg.MinBackoff

		err = c.readLoop(ctx, conn)
		conn.Close()
		if ctx.Err() != nil {
			return
		}

		c.log.Warn().Err(err).Msg("push channel disconnected")
		c.emitState(ctx, StateChange{State: StateDisconnected, Err: err})
		if !sleep(ctx, backoff) {
			return
		}
	}
}

func (c *Channel) dial(ctx context.Context) (*websocket.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, c.cfg.DialTimeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, c.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", c.cfg.URL, err)
	}
	conn.SetReadLimit(c.cfg.MaxFrameSize)
	return conn, nil
}

// readLoop decodes frames until the connection fails. Frames this
// client does not understand are skipped, not fatal.
func (c *Channel) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		ev, err := Decode(msg)
		if err != nil {
			c.log.Debug().Err(err).Msg("skipping undecodable frame")
			continue
		}

		select {
		case c.events <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Channel) emitState(ctx context.Context, sc StateChange) {
	select {
	case c.states <- sc:
	case <-ctx.Done():
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// WebSocketURL derives the push endpoint from the backend base URL,
// e.g. http://host:8096 → ws://host:8096/ws.
func WebSocketURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing server url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = "/ws"
	return u.String(), nil
}
