package memory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tempoflow-ai/tempoflow/internal/focus"
)

// RecordSession stores a focus session. Recording the same ID twice
// replaces the earlier row.
func (s *SQLiteStore) RecordSession(ctx context.Context, sess focus.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO focus_sessions (id, duration, completed, date, task_id)
		VALUES (?, ?, ?, ?, ?)
	`, sess.ID, sess.Duration, boolToInt(sess.Completed), formatTime(sess.Date), nullString(sess.TaskID))
	if err != nil {
		return fmt.Errorf("insert focus session: %w", err)
	}
	return nil
}

// ListSessions returns every recorded session in chronological order.
func (s *SQLiteStore) ListSessions(ctx context.Context) ([]focus.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, duration, completed, date, task_id
		FROM focus_sessions
		ORDER BY date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query focus sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sessions := []focus.Session{}
	for rows.Next() {
		var (
			sess      focus.Session
			completed int
			date      string
			taskID    sql.NullString
		)
		if err := rows.Scan(&sess.ID, &sess.Duration, &completed, &date, &taskID); err != nil {
			return nil, fmt.Errorf("scan focus session: %w", err)
		}
		sess.Completed = completed != 0
		sess.Date = parseTime(date)
		sess.TaskID = taskID.String
		sessions = append(sessions, sess)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, fmt.Errorf("list focus sessions: %w", err)
	}
	return sessions, nil
}
