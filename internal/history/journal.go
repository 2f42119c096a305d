package history

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/soyeahso/humanloop/internal/domain"
)

// SubmissionKind distinguishes journal entries for responses from
// cancellation requests.
type SubmissionKind string

const (
	KindResponse SubmissionKind = "response"
	KindCancel   SubmissionKind = "cancel"
)

// Submission is one recorded operator action.
type Submission struct {
	ID        string         `json:"id"`
	SessionID string         `json:"sessionId"`
	Kind      SubmissionKind `json:"kind"`
	Payload   string         `json:"payload"` // JSON blob
	UserID    string         `json:"userId,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// LifecycleEntry records how a session ended.
type LifecycleEntry struct {
	SessionID  string    `json:"sessionId"`
	Outcome    string    `json:"outcome"` // "completed" | "cancelled"
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Journal records operator submissions and terminal session outcomes.
type Journal struct {
	db *DB
}

// NewJournal creates a journal backed by the given database.
func NewJournal(db *DB) *Journal {
	return &Journal{db: db}
}

// RecordSubmission journals a response or cancellation the operator
// sent to the backend.
func (j *Journal) RecordSubmission(sessionID string, kind SubmissionKind, payload domain.ResponsePayload, userID string) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = j.db.sql.Exec(
		`INSERT INTO submissions (id, session_id, kind, payload, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), sessionID, string(kind), string(data), userID,
		time.Now().Format(time.DateTime),
	)
	return err
}

// RecordLifecycle journals a terminal session outcome.
func (j *Journal) RecordLifecycle(sessionID, outcome, reason string) error {
	_, err := j.db.sql.Exec(
		`INSERT INTO lifecycle (session_id, outcome, reason, occurred_at)
		 VALUES (?, ?, ?, ?)`,
		sessionID, outcome, reason, time.Now().Format(time.DateTime),
	)
	return err
}

// Submissions returns the most recent submissions, newest first.
// Limit of 0 defaults to 50.
func (j *Journal) Submissions(limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := j.db.sql.Query(
		`SELECT id, session_id, kind, payload, user_id, created_at
		 FROM submissions ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var s Submission
		var kind, createdAt string
		if err := rows.Scan(&s.ID, &s.SessionID, &kind, &s.Payload, &s.UserID, &createdAt); err != nil {
			continue
		}
		s.Kind = SubmissionKind(kind)
		s.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// Lifecycle returns the most recent terminal outcomes, newest first.
// Limit of 0 defaults to 50.
func (j *Journal) Lifecycle(limit int) ([]LifecycleEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := j.db.sql.Query(
		`SELECT session_id, outcome, reason, occurred_at
		 FROM lifecycle ORDER BY occurred_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LifecycleEntry
	for rows.Next() {
		var e LifecycleEntry
		var occurredAt string
		if err := rows.Scan(&e.SessionID, &e.Outcome, &e.Reason, &occurredAt); err != nil {
			continue
		}
		e.OccurredAt, _ = time.Parse(time.DateTime, occurredAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
