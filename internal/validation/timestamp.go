package validation

import (
	"math"
	"strings"
	"time"
)

// maxEpochMillis bounds epoch-millisecond input to 100 million days either side of 1970.
const maxEpochMillis = 8.64e15

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseTimestamp accepts unix milliseconds or a date string and returns the
// instant in UTC. A bare date means midnight UTC; strings without a zone are
// read as UTC.
func ParseTimestamp(v any) (time.Time, bool) {
	if n, ok := number(v); ok {
		if math.IsNaN(n) || math.Abs(n) > maxEpochMillis {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(n)).UTC(), true
	}

	if t, ok := v.(time.Time); ok {
		if t.IsZero() {
			return time.Time{}, false
		}
		return t.UTC(), true
	}

	s := CleanText(v)
	if s == "" {
		return time.Time{}, false
	}

	if !strings.Contains(s, "T") && len(s) == len("2006-01-02") {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// CleanTimestamps drops every entry that does not parse.
func CleanTimestamps(v any) []time.Time {
	out := []time.Time{}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if t, ok := ParseTimestamp(item); ok {
			out = append(out, t)
		}
	}
	return out
}
