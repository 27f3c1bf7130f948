package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/skillo/pulse/internal/engine"
)

// Entry is one journal row read back from the store.
type Entry struct {
	ID         string
	EventType  string
	ActionType string
	Payload    map[string]any
	DelayMS    int64
	Outcome    string
	Error      string
	CreatedAt  string
}

// RecordDispatch implements engine.Recorder: one row per executed
// action, success or failure. The payload is stored as JSON.
func (s *Store) RecordDispatch(ctx context.Context, rec engine.Dispatch) error {
	payloadJSON, err := json.Marshal(rec.Payload)
	if err != nil {
		return fmt.Errorf("record dispatch: marshal payload: %w", err)
	}

	outcome := "ok"
	var errText sql.NullString
	if rec.Err != nil {
		outcome = "error"
		errText = sql.NullString{String: rec.Err.Error(), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO dispatches (id, event_type, action_type, payload, delay_ms, outcome, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		uuid.NewString(),
		rec.EventType,
		string(rec.Action),
		string(payloadJSON),
		rec.Delay.Milliseconds(),
		outcome,
		errText,
	)
	if err != nil {
		return fmt.Errorf("record dispatch: %w", err)
	}
	return nil
}

// Recent returns the newest journal entries, newest first, up to limit.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_type, action_type, payload, delay_ms, outcome, COALESCE(error, ''), created_at
		FROM dispatches
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var payloadJSON string
		if err := rows.Scan(&e.ID, &e.EventType, &e.ActionType, &payloadJSON, &e.DelayMS, &e.Outcome, &e.Error, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		if err := json.Unmarshal([]byte(payloadJSON), &e.Payload); err != nil {
			return nil, fmt.Errorf("decode journal payload: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return entries, nil
}

// Count returns the total number of journal entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dispatches`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count journal: %w", err)
	}
	return n, nil
}
