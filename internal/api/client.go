// Package api is the REST client for the humanloop backend. It covers
// the one-shot operations: response submission, cancellation, session
// snapshot, statistics and health.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/soyeahso/humanloop/internal/domain"
	"github.com/soyeahso/humanloop/internal/logging"
)

// ServerError is a structured error reported by the backend. Its
// message is surfaced to the user verbatim.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// Client talks to the backend REST API. Every request carries a
// bounded timeout so a failed round trip surfaces within a fixed
// interval. Requests are never retried automatically; the operator
// may resubmit.
type Client struct {
	base string
	http *http.Client
	log  *logging.Logger
}

// New creates a client for the given base URL, e.g.
// "http://127.0.0.1:8096".
func New(baseURL string, timeout time.Duration, log *logging.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
		log:  log.Sub("api"),
	}
}

type respondRequest struct {
	Response domain.ResponsePayload `json:"response"`
	UserID   string                 `json:"user_id,omitempty"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// apiResult is the backend's success/error envelope.
type apiResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// SubmitResponse sends the operator's response for a session. Success
// means the server acknowledged; the session stays in the local store
// until the authoritative session_completed event arrives.
func (c *Client) SubmitResponse(ctx context.Context, sessionID string, payload domain.ResponsePayload, userID string) error {
	var res apiResult
	path := "/api/sessions/" + url.PathEscape(sessionID) + "/respond"
	if err := c.do(ctx, http.MethodPost, path, respondRequest{Response: payload, UserID: userID}, &res); err != nil {
		return err
	}
	c.log.Info().Str("sessionId", sessionID).Msg("response submitted")
	return nil
}

// CancelSession requests cancellation with a human-readable reason.
// Removal from the store still awaits the session_cancelled event.
func (c *Client) CancelSession(ctx context.Context, sessionID, reason string) error {
	var res apiResult
	path := "/api/sessions/" + url.PathEscape(sessionID) + "/cancel"
	if err := c.do(ctx, http.MethodPost, path, cancelRequest{Reason: reason}, &res); err != nil {
		return err
	}
	c.log.Info().Str("sessionId", sessionID).Str("reason", reason).Msg("cancellation requested")
	return nil
}

type sessionsResult struct {
	Success  bool              `json:"success"`
	Error    string            `json:"error,omitempty"`
	Sessions []*domain.Session `json:"sessions"`
}

// ListSessions fetches the full active-session snapshot. Push delivery
// has no at-least-once guarantee, so this is the resynchronization
// source of truth after any gap.
func (c *Client) ListSessions(ctx context.Context) ([]*domain.Session, error) {
	var res sessionsResult
	if err := c.do(ctx, http.MethodGet, "/api/sessions", nil, &res); err != nil {
		return nil, err
	}
	return res.Sessions, nil
}

// Statistics are the backend's session counters.
type Statistics struct {
	ActiveSessions    int `json:"active_sessions"`
	TotalSessions     int `json:"total_sessions"`
	CompletedSessions int `json:"completed_sessions"`
}

type statisticsResult struct {
	Success    bool       `json:"success"`
	Error      string     `json:"error,omitempty"`
	Statistics Statistics `json:"statistics"`
}

// GetStatistics fetches the backend's session counters.
func (c *Client) GetStatistics(ctx context.Context) (Statistics, error) {
	var res statisticsResult
	if err := c.do(ctx, http.MethodGet, "/api/statistics", nil, &res); err != nil {
		return Statistics{}, err
	}
	return res.Statistics, nil
}

// Health is the backend's health report.
type Health struct {
	Status     string     `json:"status"`
	Service    string     `json:"service,omitempty"`
	Version    string     `json:"version,omitempty"`
	Timestamp  string     `json:"timestamp,omitempty"`
	Statistics Statistics `json:"statistics,omitempty"`
}

// GetHealth fetches the backend health report.
func (c *Client) GetHealth(ctx context.Context) (Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &h); err != nil {
		return Health{}, err
	}
	return h, nil
}

// do runs one request and decodes the JSON reply into out. Non-2xx
// statuses and success=false envelopes both become *ServerError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8*1024*1024))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ServerError{Status: resp.StatusCode, Message: errorMessage(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	// Envelope-level failure on a 200 reply.
	var env apiResult
	if json.Unmarshal(data, &env) == nil && !env.Success && env.Error != "" {
		return &ServerError{Status: resp.StatusCode, Message: env.Error}
	}

	return nil
}

// errorMessage extracts the backend's error string from a reply body.
func errorMessage(data []byte) string {
	var env apiResult
	if err := json.Unmarshal(data, &env); err == nil && env.Error != "" {
		return env.Error
	}
	return ""
}
