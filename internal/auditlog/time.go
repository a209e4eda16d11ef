package auditlog

import (
	"fmt"
	"time"
)

// Range-bound sentinels accepted in place of explicit timestamps.
const (
	BoundBegin = "begin"
	BoundNow   = "now"
)

const displayLayout = "2006-01-02 15:04:05 -07:00"

// ParseBound turns a URL bound into a query time: "begin" is the epoch,
// "now" is the current instant, anything else must be RFC3339 with a zone.
// Results are normalized to UTC to match key timestamps.
func ParseBound(s string) (time.Time, error) {
	switch s {
	case BoundBegin:
		return time.Unix(0, 0).UTC(), nil
	case BoundNow:
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time bound %q: %w", s, err)
	}
	return t.UTC(), nil
}

// DisplayTime re-renders a stored UTC timestamp in local time with an
// explicit offset, for display only. Unparseable input is returned as-is.
func DisplayTime(stored string) string {
	t, err := time.Parse(time.RFC3339, stored)
	if err != nil {
		return stored
	}
	return t.Local().Format(displayLayout)
}
