package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- SessionStatus tests ---

func TestSessionStatus_Terminal(t *testing.T) {
	tests := []struct {
		status   SessionStatus
		terminal bool
	}{
		{StatusPending, false},
		{StatusActive, false},
		{StatusCompleted, true},
		{StatusTimeout, true},
		{StatusCancelled, true},
		{StatusError, true},
		{SessionStatus("bogus"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.terminal, tt.status.Terminal(), string(tt.status))
	}
}

func TestSessionStatus_Display(t *testing.T) {
	assert.Equal(t, "waiting", StatusPending.Display())
	assert.Equal(t, "timed out", StatusTimeout.Display())
	// Unknown statuses display as-is rather than hiding the value.
	assert.Equal(t, "weird", SessionStatus("weird").Display())
}

// --- Session tests ---

func TestSession_DecodeBackendRecord(t *testing.T) {
	// A record shaped the way the backend serializes it.
	raw := `{
		"session_id": "abc-123",
		"workflow_id": "wf-9",
		"status": "pending",
		"created_at": "2026-08-28T10:15:30.123456",
		"interaction_data": {
			"interaction_type": "text_input",
			"title": "Deploy notes",
			"message": "Describe the change",
			"fields": [
				{"name": "notes", "label": "Notes", "field_type": "textarea", "required": true},
				{"name": "replicas", "label": "Replicas", "field_type": "number", "min_value": 1, "max_value": 10, "validation": "^[0-9]+$"}
			]
		}
	}`

	var sess Session
	require.NoError(t, json.Unmarshal([]byte(raw), &sess))

	assert.Equal(t, "abc-123", sess.SessionID)
	assert.Equal(t, "wf-9", sess.WorkflowID)
	assert.Equal(t, StatusPending, sess.Status)
	assert.False(t, sess.CreatedAt.IsZero())

	require.NotNil(t, sess.Interaction)
	assert.Equal(t, TypeTextInput, sess.Interaction.Type)
	require.Len(t, sess.Interaction.Fields, 2)

	replicas := sess.Interaction.Fields[1]
	require.NotNil(t, replicas.MinValue)
	require.NotNil(t, replicas.MaxValue)
	assert.Equal(t, 1.0, *replicas.MinValue)
	assert.Equal(t, 10.0, *replicas.MaxValue)
	assert.Equal(t, "^[0-9]+$", replicas.Pattern)
}

func TestSession_Title(t *testing.T) {
	sess := &Session{SessionID: "s1"}
	assert.Equal(t, "s1", sess.Title())

	sess.Interaction = &InteractionRequest{Title: "Confirm deploy"}
	assert.Equal(t, "Confirm deploy", sess.Title())
}

func TestSession_Age(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
	}
	for _, tt := range tests {
		sess := &Session{CreatedAt: NewTimestamp(now.Add(-tt.ago))}
		assert.Equal(t, tt.want, sess.Age(now))
	}
}

// --- Timestamp tests ---

func TestTimestamp_UnmarshalLayouts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"rfc3339", `"2026-08-28T10:15:30Z"`},
		{"isoformat micros", `"2026-08-28T10:15:30.123456"`},
		{"isoformat seconds", `"2026-08-28T10:15:30"`},
		{"space separated", `"2026-08-28 10:15:30"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &ts))
			assert.False(t, ts.IsZero())
			assert.Equal(t, 2026, ts.Time().Year())
			assert.Equal(t, 30, ts.Time().Second())
		})
	}
}

func TestTimestamp_UnmarshalEmpty(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`""`), &ts))
	assert.True(t, ts.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())
}

func TestTimestamp_UnmarshalGarbage(t *testing.T) {
	var ts Timestamp
	err := json.Unmarshal([]byte(`"not a time"`), &ts)
	assert.Error(t, err)
}

func TestTimestamp_MarshalRoundTrip(t *testing.T) {
	orig := NewTimestamp(time.Date(2026, 8, 28, 10, 15, 30, 0, time.UTC))
	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var back Timestamp
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, orig.Time().Equal(back.Time()))
}

func TestTimestamp_Ordering(t *testing.T) {
	early := NewTimestamp(time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC))
	late := NewTimestamp(time.Date(2026, 8, 28, 11, 0, 0, 0, time.UTC))
	assert.True(t, early.Before(late))
	assert.True(t, late.After(early))
}

// --- InteractionRequest tests ---

func TestConfirmationOptions_Default(t *testing.T) {
	req := &InteractionRequest{Type: TypeConfirmation}
	opts := req.ConfirmationOptions()
	require.Len(t, opts, 2)
	assert.Equal(t, "confirm", opts[0].Value)
	assert.Equal(t, "cancel", opts[1].Value)
}

func TestConfirmationOptions_Declared(t *testing.T) {
	req := &InteractionRequest{
		Type:    TypeConfirmation,
		Options: []Option{{Value: "yes", Label: "Yes"}, {Value: "no", Label: "No"}, {Value: "maybe", Label: "Maybe"}},
	}
	opts := req.ConfirmationOptions()
	require.Len(t, opts, 3)
	assert.Equal(t, "yes", opts[0].Value)
}

func TestField_DefaultString(t *testing.T) {
	assert.Equal(t, "", Field{}.DefaultString())
	assert.Equal(t, "hi", Field{Default: "hi"}.DefaultString())
	assert.Equal(t, "3", Field{Default: 3}.DefaultString())
}
