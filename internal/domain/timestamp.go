package domain

import (
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are tried in order when decoding. The backend emits
// Python datetime.isoformat() strings, which carry no zone designator.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	time.DateTime,
}

// Timestamp is a time.Time that tolerates the backend's zone-less
// ISO-8601 strings. Zone-less values are read as local time, matching
// how the backend produces them.
type Timestamp struct {
	t time.Time
}

// NewTimestamp wraps a time.Time.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t: t}
}

// Time returns the underlying time.Time.
func (ts Timestamp) Time() time.Time { return ts.t }

// IsZero reports whether the timestamp is unset.
func (ts Timestamp) IsZero() bool { return ts.t.IsZero() }

// Before reports whether ts is before other.
func (ts Timestamp) Before(other Timestamp) bool { return ts.t.Before(other.t) }

// After reports whether ts is after other.
func (ts Timestamp) After(other Timestamp) bool { return ts.t.After(other.t) }

// MarshalJSON encodes as RFC 3339.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + ts.t.Format(time.RFC3339Nano) + `"`), nil
}

// UnmarshalJSON decodes RFC 3339 or zone-less isoformat strings.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		ts.t = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			ts.t = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}
