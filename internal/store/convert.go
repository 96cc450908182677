package store

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Accessors for decoding Row values. Drivers and fakes disagree on the
// concrete Go type a column scans to, so each accessor accepts every
// representation seen in practice and falls back to a zero value.

// UUID reads a row identifier column.
func UUID(row Row, key string) uuid.UUID {
	switch v := row[key].(type) {
	case uuid.UUID:
		return v
	case string:
		id, err := uuid.Parse(v)
		if err == nil {
			return id
		}
	case []byte:
		id, err := uuid.ParseBytes(v)
		if err == nil {
			return id
		}
	}
	return uuid.Nil
}

// String reads a text column.
func String(row Row, key string) string {
	switch v := row[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return ""
}

// Bool reads a boolean column.
func Bool(row Row, key string) bool {
	if v, ok := row[key].(bool); ok {
		return v
	}
	return false
}

// Int reads an integer column.
func Int(row Row, key string) int {
	switch v := row[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// FloatPtr reads a nullable numeric column; nil means SQL NULL.
func FloatPtr(row Row, key string) *float64 {
	switch v := row[key].(type) {
	case float64:
		f := v
		return &f
	case int64:
		f := float64(v)
		return &f
	case *float64:
		return v
	}
	return nil
}

// Time reads a timestamp column.
func Time(row Row, key string) time.Time {
	switch v := row[key].(type) {
	case time.Time:
		return v
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err == nil {
			return t
		}
	}
	return time.Time{}
}

// StringSlice reads a JSONB array column.
func StringSlice(row Row, key string) []string {
	switch v := row[key].(type) {
	case []string:
		return v
	case string:
		var out []string
		if err := json.Unmarshal([]byte(v), &out); err == nil {
			return out
		}
	case []byte:
		var out []string
		if err := json.Unmarshal(v, &out); err == nil {
			return out
		}
	}
	return nil
}

// Clone returns a shallow copy of a row.
func Clone(row Row) Row {
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
