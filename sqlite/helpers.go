package sqlite

import (
	"fmt"
	"strings"
	"time"
)

// timeFormat is RFC3339 with fixed nanoseconds so stored timestamps sort
// lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

// parseTime reads a stored timestamp; field names the column in errors.
func parseTime(value, field string) (time.Time, error) {
	t, err := time.Parse(timeFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s %q: %w", field, value, err)
	}
	return t, nil
}

// paginate appends LIMIT and OFFSET. SQLite only accepts OFFSET after a
// LIMIT, so an offset without a limit uses LIMIT -1 (no limit).
func paginate(query *strings.Builder, args *[]any, limit, offset int) {
	switch {
	case limit > 0:
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	case offset > 0:
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}
