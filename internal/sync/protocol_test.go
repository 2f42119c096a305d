package sync

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Decode tests ---

func TestDecode_NewSession(t *testing.T) {
	frame := []byte(`{
		"event": "new_session",
		"data": {
			"session_id": "s1",
			"status": "pending",
			"created_at": "2026-08-28T10:15:30",
			"interaction_data": {"interaction_type": "confirmation", "title": "Go?", "message": "Deploy now?"}
		}
	}`)

	ev, err := Decode(frame)
	require.NoError(t, err)

	ns, ok := ev.(NewSession)
	require.True(t, ok)
	assert.Equal(t, "s1", ns.Session.SessionID)
	require.NotNil(t, ns.Session.Interaction)
	assert.Equal(t, "Go?", ns.Session.Interaction.Title)
}

func TestDecode_SessionCompleted(t *testing.T) {
	ev, err := Decode([]byte(`{"event": "session_completed", "data": {"session_id": "s1"}}`))
	require.NoError(t, err)

	sc, ok := ev.(SessionCompleted)
	require.True(t, ok)
	assert.Equal(t, "s1", sc.SessionID)
}

func TestDecode_SessionCancelledWithReason(t *testing.T) {
	ev, err := Decode([]byte(`{"event": "session_cancelled", "data": {"session_id": "s2", "reason": "operator declined"}}`))
	require.NoError(t, err)

	sc, ok := ev.(SessionCancelled)
	require.True(t, ok)
	assert.Equal(t, "s2", sc.SessionID)
	assert.Equal(t, "operator declined", sc.Reason)
}

func TestDecode_UnknownEvent(t *testing.T) {
	_, err := Decode([]byte(`{"event": "session_paused", "data": {}}`))
	require.Error(t, err)

	var unknown *ErrUnknownEvent
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "session_paused", unknown.Name)
}

func TestDecode_MalformedEnvelope(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestDecode_MalformedData(t *testing.T) {
	_, err := Decode([]byte(`{"event": "new_session", "data": [1, 2]}`))
	assert.Error(t, err)
}
