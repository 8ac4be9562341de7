package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

// Time accepts the timestamp shapes the analysis backend has produced: RFC3339,
// HTTP dates, epoch milliseconds and serialized Firestore timestamps.
type Time struct {
	time.Time
}

type firestoreTimestamp struct {
	Seconds     *int64 `json:"_seconds"`
	Nanoseconds int64  `json:"_nanoseconds"`
}

func (t *Time) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || string(raw) == "null" {
		t.Time = time.Time{}
		return nil
	}

	switch raw[0] {
	case '"':
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("decode timestamp failed: %w", err)
		}
		return t.parseString(value)
	case '{':
		var ts firestoreTimestamp
		if err := json.Unmarshal(raw, &ts); err != nil {
			return fmt.Errorf("decode timestamp failed: %w", err)
		}
		if ts.Seconds == nil {
			t.Time = time.Time{}
			return nil
		}
		t.Time = time.Unix(*ts.Seconds, ts.Nanoseconds)
		return nil
	default:
		millis, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return fmt.Errorf("decode timestamp failed: %w", err)
		}
		t.Time = time.UnixMilli(int64(math.Round(millis)))
		return nil
	}
}

// parseString leaves an unrecognised date as the zero time.
func (t *Time) parseString(value string) error {
	parsed, err := dateparse.ParseAny(value)
	if err != nil {
		t.Time = time.Time{}
		return nil
	}
	t.Time = parsed
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
