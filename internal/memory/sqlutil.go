package memory

import (
	"database/sql"
	"fmt"
	"time"
)

// checkRowsErr checks for errors that may have occurred during row iteration.
// Call it after a for rows.Next() loop; rows.Next() doesn't report them.
func checkRowsErr(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration error: %w", err)
	}
	return nil
}

// timeLayout is RFC 3339 with fixed-width nanoseconds so stored values sort
// lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime decodes a stored timestamp. Unparseable values become the zero
// time, which the scoring engine excludes from every window.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullString returns nil for an empty string so the column stores NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
