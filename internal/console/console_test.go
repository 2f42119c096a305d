package console

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/soyeahso/humanloop/internal/api"
	"github.com/soyeahso/humanloop/internal/dispatch"
	"github.com/soyeahso/humanloop/internal/domain"
	"github.com/soyeahso/humanloop/internal/logging"
	"github.com/soyeahso/humanloop/internal/session"
	syncer "github.com/soyeahso/humanloop/internal/sync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLog() *logging.Logger {
	return logging.New(nil, "silent")
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	levels   []Level
}

func (n *recordingNotifier) Notify(level Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.levels = append(n.levels, level)
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

func (n *recordingNotifier) last() (Level, string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.messages) == 0 {
		return "", ""
	}
	return n.levels[len(n.levels)-1], n.messages[len(n.messages)-1]
}

// backendStub serves the REST surface and counts requests per path.
type backendStub struct {
	mu       sync.Mutex
	requests map[string]int
	sessions []*domain.Session
	srv      *httptest.Server
}

func newBackendStub(t *testing.T) *backendStub {
	t.Helper()
	b := &backendStub{requests: make(map[string]int)}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests[r.Method+" "+r.URL.Path]++
		snapshot := b.sessions
		b.mu.Unlock()

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/sessions":
			json.NewEncoder(w).Encode(map[string]any{"success": true, "sessions": snapshot})
		default:
			json.NewEncoder(w).Encode(map[string]any{"success": true})
		}
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backendStub) hits(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[key]
}

func (b *backendStub) setSessions(sessions []*domain.Session) {
	b.mu.Lock()
	b.sessions = sessions
	b.mu.Unlock()
}

func pending(id string, req *domain.InteractionRequest) *domain.Session {
	return &domain.Session{
		SessionID:   id,
		Status:      domain.StatusPending,
		CreatedAt:   domain.NewTimestamp(time.Now()),
		Interaction: req,
	}
}

func confirmation(id string) *domain.Session {
	return pending(id, &domain.InteractionRequest{
		Type:    domain.TypeConfirmation,
		Title:   "Deploy?",
		Message: "Push v2?",
	})
}

func testConsole(t *testing.T, backend *backendStub) (*Console, *session.Store, *recordingNotifier) {
	t.Helper()
	log := testLog()
	store := session.NewStore(log)
	channel := syncer.NewChannel(syncer.ChannelConfig{URL: "ws://127.0.0.1:1/ws"}, log)
	client := api.New(backend.srv.URL, 5*time.Second, log)
	notifier := &recordingNotifier{}
	cons := New(store, channel, client, "alice", log, WithNotifier(notifier))
	return cons, store, notifier
}

// --- event handling tests ---

func TestHandleEvent_NewSessionStoresAndNotifies(t *testing.T) {
	cons, store, notifier := testConsole(t, newBackendStub(t))

	cons.HandleEvent(context.Background(), syncer.NewSession{Session: confirmation("s1")})

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, "s1", cons.Focused())
	level, msg := notifier.last()
	assert.Equal(t, LevelInfo, level)
	assert.Contains(t, msg, "Deploy?")
}

func TestHandleEvent_CompletedRemovesAndNotifies(t *testing.T) {
	cons, store, notifier := testConsole(t, newBackendStub(t))
	cons.HandleEvent(context.Background(), syncer.NewSession{Session: confirmation("s1")})

	cons.HandleEvent(context.Background(), syncer.SessionCompleted{SessionID: "s1"})

	assert.Equal(t, 0, store.Len())
	assert.Equal(t, "", cons.Focused())
	level, _ := notifier.last()
	assert.Equal(t, LevelSuccess, level)
}

func TestHandleEvent_CancelledCarriesReason(t *testing.T) {
	cons, _, notifier := testConsole(t, newBackendStub(t))
	cons.HandleEvent(context.Background(), syncer.NewSession{Session: confirmation("s1")})

	cons.HandleEvent(context.Background(), syncer.SessionCancelled{SessionID: "s1", Reason: "timed out"})

	level, msg := notifier.last()
	assert.Equal(t, LevelWarning, level)
	assert.Contains(t, msg, "timed out")
}

func TestHandleEvent_StaleTerminalIsSilent(t *testing.T) {
	cons, _, notifier := testConsole(t, newBackendStub(t))

	before := notifier.count()
	cons.HandleEvent(context.Background(), syncer.SessionCompleted{SessionID: "ghost"})
	assert.Equal(t, before, notifier.count(), "stale events must not notify")
}

// --- submit tests ---

func TestSubmit_HappyPath(t *testing.T) {
	backend := newBackendStub(t)
	cons, store, notifier := testConsole(t, backend)
	cons.HandleEvent(context.Background(), syncer.NewSession{Session: confirmation("s1")})

	err := cons.Submit(context.Background(), "s1", dispatch.Input{Choice: "confirm"})
	require.NoError(t, err)

	assert.Equal(t, 1, backend.hits("POST /api/sessions/s1/respond"))

	// The session stays until the backend says otherwise.
	assert.Equal(t, 1, store.Len())
	level, msg := notifier.last()
	assert.Equal(t, LevelSuccess, level)
	assert.Equal(t, "response submitted", msg)

	// Authoritative removal arrives as an event.
	cons.HandleEvent(context.Background(), syncer.SessionCompleted{SessionID: "s1"})
	assert.Equal(t, 0, store.Len())
}

func TestSubmit_ValidationFailureNeverReachesNetwork(t *testing.T) {
	backend := newBackendStub(t)
	cons, store, notifier := testConsole(t, backend)
	cons.HandleEvent(context.Background(), syncer.NewSession{Session: confirmation("s1")})

	err := cons.Submit(context.Background(), "s1", dispatch.Input{Choice: "sideways"})
	require.Error(t, err)

	assert.Equal(t, 0, backend.hits("POST /api/sessions/s1/respond"))
	assert.Equal(t, 1, store.Len(), "session must remain pending")
	level, _ := notifier.last()
	assert.Equal(t, LevelWarning, level)
}

func TestSubmit_UnknownSession(t *testing.T) {
	cons, _, _ := testConsole(t, newBackendStub(t))
	err := cons.Submit(context.Background(), "ghost", dispatch.Input{Choice: "confirm"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSubmit_ServerErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/sessions" {
			json.NewEncoder(w).Encode(map[string]any{"success": true, "sessions": []any{}})
			return
		}
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Session is not active"})
	}))
	t.Cleanup(srv.Close)

	log := testLog()
	store := session.NewStore(log)
	channel := syncer.NewChannel(syncer.ChannelConfig{URL: "ws://127.0.0.1:1/ws"}, log)
	notifier := &recordingNotifier{}
	cons := New(store, channel, api.New(srv.URL, 5*time.Second, log), "alice", log, WithNotifier(notifier))

	cons.HandleEvent(context.Background(), syncer.NewSession{Session: confirmation("s1")})
	err := cons.Submit(context.Background(), "s1", dispatch.Input{Choice: "confirm"})
	require.Error(t, err)

	assert.Equal(t, 1, store.Len(), "failed submission keeps the session")
	level, msg := notifier.last()
	assert.Equal(t, LevelError, level)
	assert.Contains(t, msg, "Session is not active")
}

// --- cancel tests ---

func TestCancel_DefaultReason(t *testing.T) {
	backend := newBackendStub(t)
	cons, store, _ := testConsole(t, backend)
	cons.HandleEvent(context.Background(), syncer.NewSession{Session: confirmation("s1")})

	require.NoError(t, cons.Cancel(context.Background(), "s1", ""))

	assert.Equal(t, 1, backend.hits("POST /api/sessions/s1/cancel"))
	assert.Equal(t, 1, store.Len(), "removal awaits the session_cancelled event")
}

// --- resync tests ---

func TestResync_ReplacesLocalView(t *testing.T) {
	backend := newBackendStub(t)
	cons, store, _ := testConsole(t, backend)

	// Local state: s1 and s2. Server truth: s2 and s3.
	cons.HandleEvent(context.Background(), syncer.NewSession{Session: confirmation("s1")})
	cons.HandleEvent(context.Background(), syncer.NewSession{Session: confirmation("s2")})
	backend.setSessions([]*domain.Session{confirmation("s2"), confirmation("s3")})

	require.NoError(t, cons.Resync(context.Background()))

	_, ok := store.Get("s1")
	assert.False(t, ok, "s1 vanished from the snapshot")
	_, ok = store.Get("s2")
	assert.True(t, ok)
	_, ok = store.Get("s3")
	assert.True(t, ok)
}

func TestResync_EmptySnapshotClearsStore(t *testing.T) {
	backend := newBackendStub(t)
	cons, store, _ := testConsole(t, backend)
	cons.HandleEvent(context.Background(), syncer.NewSession{Session: confirmation("s1")})

	require.NoError(t, cons.Resync(context.Background()))
	assert.Equal(t, 0, store.Len())
}

// --- render and focus tests ---

func TestRender_KnownSession(t *testing.T) {
	cons, _, _ := testConsole(t, newBackendStub(t))
	cons.HandleEvent(context.Background(), syncer.NewSession{Session: confirmation("s1")})

	form, err := cons.Render("s1")
	require.NoError(t, err)
	assert.Equal(t, domain.TypeConfirmation, form.Type)
	assert.Len(t, form.Choices, 2)
}

func TestRender_UnknownSession(t *testing.T) {
	cons, _, _ := testConsole(t, newBackendStub(t))
	_, err := cons.Render("ghost")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestFocus(t *testing.T) {
	cons, _, _ := testConsole(t, newBackendStub(t))
	cons.HandleEvent(context.Background(), syncer.NewSession{Session: confirmation("s1")})
	cons.HandleEvent(context.Background(), syncer.NewSession{Session: confirmation("s2")})

	require.NoError(t, cons.Focus("s2"))
	assert.Equal(t, "s2", cons.Focused())

	assert.ErrorIs(t, cons.Focus("ghost"), ErrSessionNotFound)
}

// --- scenario test ---

// Full operator flow: a request arrives, is answered, and the view
// only clears once the backend confirms.
func TestScenario_ConfirmationFlow(t *testing.T) {
	backend := newBackendStub(t)
	cons, store, notifier := testConsole(t, backend)
	ctx := context.Background()

	cons.HandleEvent(ctx, syncer.NewSession{Session: confirmation("deploy-1")})
	require.Equal(t, 1, store.Len())

	form, err := cons.Render("deploy-1")
	require.NoError(t, err)
	require.Len(t, form.Choices, 2)

	require.NoError(t, cons.Submit(ctx, "deploy-1", dispatch.Input{Choice: form.Choices[0].Value}))
	assert.Equal(t, 1, store.Len(), "still pending after acknowledgement")

	cons.HandleEvent(ctx, syncer.SessionCompleted{SessionID: "deploy-1"})
	assert.Equal(t, 0, store.Len())

	level, _ := notifier.last()
	assert.Equal(t, LevelSuccess, level)
}
